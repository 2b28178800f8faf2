package mint

import (
	"fmt"

	"github.com/dolanbernard/mobilecoin/crypto"
	"github.com/dolanbernard/mobilecoin/multisig"
	"github.com/dolanbernard/mobilecoin/types"
)

/*
Authorize signs message with every signer and adds the external signatures
(ie created offline or with a HSM) to the result. Any signing error aborts the
whole operation. The external signatures are not verified.
*/
func Authorize(message []byte, signers []crypto.Signer, external []crypto.Signature) (*multisig.MultiSig, error) {
	sigs := make([]crypto.Signature, 0, len(signers)+len(external))
	for i, signer := range signers {
		sig, err := signer.SignBytes(message)
		if err != nil {
			return nil, fmt.Errorf("%w: signer %d: %w", ErrSigning, i, err)
		}
		sigs = append(sigs, sig)
	}
	sigs = append(sigs, external...)
	return multisig.New(sigs), nil
}

func NewMintConfigTx(prefix *types.MintConfigTxPrefix, signers []crypto.Signer, external []crypto.Signature) (*types.MintConfigTx, error) {
	h, err := prefix.Hash()
	if err != nil {
		return nil, err
	}
	sig, err := Authorize(h, signers, external)
	if err != nil {
		return nil, fmt.Errorf("authorizing mint config tx: %w", err)
	}
	return &types.MintConfigTx{Prefix: prefix, Signature: sig}, nil
}

func NewMintTx(prefix *types.MintTxPrefix, signers []crypto.Signer, external []crypto.Signature) (*types.MintTx, error) {
	h, err := prefix.Hash()
	if err != nil {
		return nil, err
	}
	sig, err := Authorize(h, signers, external)
	if err != nil {
		return nil, fmt.Errorf("authorizing mint tx: %w", err)
	}
	return &types.MintTx{Prefix: prefix, Signature: sig}, nil
}
