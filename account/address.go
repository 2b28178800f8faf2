package account

import (
	"errors"
	"fmt"

	"github.com/dolanbernard/mobilecoin/types"
)

var ErrInvalidAddress = errors.New("invalid public address")

/*
PublicAddress is the public part of an account: the view and spend public keys
and, when the account uses fog, the location of the fog report server.
*/
type PublicAddress struct {
	_               struct{}    `cbor:",toarray"`
	ViewPublicKey   types.Bytes `json:"view_public_key"`
	SpendPublicKey  types.Bytes `json:"spend_public_key"`
	FogReportURL    string      `json:"fog_report_url,omitempty"`
	FogReportID     string      `json:"fog_report_id,omitempty"`
	FogAuthoritySig types.Bytes `json:"fog_authority_sig,omitempty"`
}

func NewPublicAddress(viewPublicKey, spendPublicKey []byte) (*PublicAddress, error) {
	addr := &PublicAddress{ViewPublicKey: viewPublicKey, SpendPublicKey: spendPublicKey}
	if err := addr.IsValid(); err != nil {
		return nil, err
	}
	return addr, nil
}

// WithFog returns copy of the address which publishes fog report url and id.
func (a *PublicAddress) WithFog(reportURL, reportID string, authoritySig []byte) *PublicAddress {
	c := *a
	c.FogReportURL = reportURL
	c.FogReportID = reportID
	c.FogAuthoritySig = authoritySig
	return &c
}

func (a *PublicAddress) IsValid() error {
	if a == nil {
		return fmt.Errorf("%w: address is nil", ErrInvalidAddress)
	}
	if len(a.ViewPublicKey) != types.AddressKeyLength {
		return fmt.Errorf("%w: view public key must be %d bytes, got %d", ErrInvalidAddress, types.AddressKeyLength, len(a.ViewPublicKey))
	}
	if len(a.SpendPublicKey) != types.AddressKeyLength {
		return fmt.Errorf("%w: spend public key must be %d bytes, got %d", ErrInvalidAddress, types.AddressKeyLength, len(a.SpendPublicKey))
	}
	if a.FogReportURL == "" && (a.FogReportID != "" || len(a.FogAuthoritySig) != 0) {
		return fmt.Errorf("%w: fog report id or signature without fog report url", ErrInvalidAddress)
	}
	return nil
}

// HasFog returns true when the address publishes a fog report url, ie minting
// to it requires an encrypted fog hint.
func (a *PublicAddress) HasFog() bool {
	return a.FogReportURL != ""
}

func (a *PublicAddress) String() string {
	s, err := B58Encode(a)
	if err != nil {
		return fmt.Sprintf("<invalid address: %v>", err)
	}
	return s
}
