package types

import "fmt"

const (
	// MobTokenID is the id of the native token, fees are paid in it by default.
	MobTokenID TokenID = 0
	// MinimumFee is the network minimum fee in the smallest unit of the native token.
	MinimumFee uint64 = 400_000_000
)

type (
	TokenID uint64

	// Amount is a value in some token.
	Amount struct {
		Value   uint64  `json:"value"`
		TokenID TokenID `json:"token_id"`
	}
)

func NewAmount(value uint64, tokenID TokenID) Amount {
	return Amount{Value: value, TokenID: tokenID}
}

func (a Amount) String() string {
	return fmt.Sprintf("%d (token %d)", a.Value, a.TokenID)
}
