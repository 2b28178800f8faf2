package account

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/dolanbernard/mobilecoin/cbor"
	"github.com/dolanbernard/mobilecoin/types"
)

// B58Version is the version byte of the Base58Check encoded printable wrapper.
const B58Version byte = 0x4d

var (
	ErrUnknownVersion   = errors.New("unknown b58 version")
	ErrNotPublicAddress = errors.New("not a public address")
)

type (
	/*
	PrintableWrapper is the user facing container of addresses and payment
	data. Exactly one of the fields is set.
	*/
	PrintableWrapper struct {
		_               struct{}         `cbor:",toarray"`
		PublicAddress   *PublicAddress   `json:"public_address,omitempty"`
		PaymentRequest  *PaymentRequest  `json:"payment_request,omitempty"`
		TransferPayload *TransferPayload `json:"transfer_payload,omitempty"`
	}

	// PaymentRequest asks for a payment of Value to the address.
	PaymentRequest struct {
		_             struct{}       `cbor:",toarray"`
		PublicAddress *PublicAddress `json:"public_address"`
		Value         uint64         `json:"value"`
		Memo          string         `json:"memo,omitempty"`
		TokenID       types.TokenID  `json:"token_id"`
	}

	// TransferPayload hands over an output together with the entropy of the account owning it.
	TransferPayload struct {
		_              struct{}    `cbor:",toarray"`
		RootEntropy    types.Bytes `json:"root_entropy"`
		TxOutPublicKey types.Bytes `json:"tx_out_public_key"`
		Memo           string      `json:"memo,omitempty"`
	}
)

func (w *PrintableWrapper) IsValid() error {
	set := 0
	if w.PublicAddress != nil {
		set++
	}
	if w.PaymentRequest != nil {
		set++
	}
	if w.TransferPayload != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("printable wrapper must contain exactly one value, got %d", set)
	}
	return nil
}

// B58Encode returns the Base58Check encoding of the wrapper.
func (w *PrintableWrapper) B58Encode() (string, error) {
	if err := w.IsValid(); err != nil {
		return "", err
	}
	data, err := cbor.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("encoding printable wrapper: %w", err)
	}
	return base58.CheckEncode(data, B58Version), nil
}

// B58DecodeWrapper decodes Base58Check encoded printable wrapper.
func B58DecodeWrapper(s string) (*PrintableWrapper, error) {
	data, version, err := base58.CheckDecode(s)
	if err != nil {
		return nil, err
	}
	if version != B58Version {
		return nil, fmt.Errorf("%w: %#x", ErrUnknownVersion, version)
	}
	w := &PrintableWrapper{}
	if err := cbor.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("decoding printable wrapper: %w", err)
	}
	if err := w.IsValid(); err != nil {
		return nil, err
	}
	return w, nil
}

// B58Encode returns the b58 form of the public address.
func B58Encode(addr *PublicAddress) (string, error) {
	return (&PrintableWrapper{PublicAddress: addr}).B58Encode()
}

// ParsePublicAddress decodes b58 string which must contain a public address.
func ParsePublicAddress(b58 string) (*PublicAddress, error) {
	w, err := B58DecodeWrapper(b58)
	if err != nil {
		return nil, fmt.Errorf("failed parsing b58 address '%s': %w", b58, err)
	}
	if w.PublicAddress == nil {
		return nil, fmt.Errorf("b58 address '%s' is %w", b58, ErrNotPublicAddress)
	}
	if err := w.PublicAddress.IsValid(); err != nil {
		return nil, fmt.Errorf("failed converting b58 public address '%s': %w", b58, err)
	}
	return w.PublicAddress, nil
}
