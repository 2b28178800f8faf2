package types

import "github.com/ethereum/go-ethereum/common/hexutil"

// Bytes is a byte slice which is encoded as 0x prefixed hex string in JSON.
// Zero length value is encoded as empty string and decoded back to nil.
type Bytes []byte

func (b Bytes) MarshalText() ([]byte, error) {
	if len(b) == 0 {
		return nil, nil
	}
	return hexutil.Bytes(b).MarshalText()
}

func (b *Bytes) UnmarshalText(src []byte) error {
	if len(src) == 0 {
		*b = nil
		return nil
	}
	var res hexutil.Bytes
	if err := res.UnmarshalText(src); err != nil {
		return err
	}
	if len(res) == 0 {
		*b = nil
		return nil
	}
	*b = Bytes(res)
	return nil
}

func (b Bytes) String() string {
	return hexutil.Encode(b)
}
