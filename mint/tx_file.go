package mint

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dolanbernard/mobilecoin/crypto"
	"github.com/dolanbernard/mobilecoin/internal/util"
	"github.com/dolanbernard/mobilecoin/multisig"
	"github.com/dolanbernard/mobilecoin/types"
)

const (
	KindMintConfigTx = "MintConfigTx"
	KindMintTx       = "MintTx"
)

/*
TxFile is the JSON file the mint transactions are passed around in between
generating, signing and submitting them. Exactly one of the fields is set:

	{"MintConfigTx": {...}}
	{"MintTx": {...}}
*/
type TxFile struct {
	MintConfigTx *types.MintConfigTx `json:"MintConfigTx,omitempty"`
	MintTx       *types.MintTx       `json:"MintTx,omitempty"`
}

func LoadTxFile(path string) (*TxFile, error) {
	f, err := util.ReadJsonFile(path, &TxFile{})
	if err != nil {
		return nil, &ParseError{Kind: ErrInvalidTxFile, Path: path, Err: err}
	}
	if err := f.IsValid(); err != nil {
		return nil, fmt.Errorf("tx file '%s': %w", path, err)
	}
	return f, nil
}

// LoadTxFiles loads the files and merges their signatures, all the files must
// contain transaction with the same prefix.
func LoadTxFiles(paths ...string) (*TxFile, error) {
	files := make([]*TxFile, 0, len(paths))
	for _, path := range paths {
		f, err := LoadTxFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return MergeTxFiles(files...)
}

func (f *TxFile) Save(path string) error {
	if err := f.IsValid(); err != nil {
		return err
	}
	if err := util.WriteJsonFile(path, f); err != nil {
		return fmt.Errorf("writing tx file '%s': %w", path, err)
	}
	return nil
}

func (f *TxFile) IsValid() error {
	switch {
	case f.MintConfigTx != nil && f.MintTx != nil:
		return fmt.Errorf("%w: file contains both %s and %s", ErrInvalidTxFile, KindMintConfigTx, KindMintTx)
	case f.MintConfigTx != nil:
		return f.MintConfigTx.Prefix.IsValid()
	case f.MintTx != nil:
		return f.MintTx.Prefix.IsValid()
	default:
		return fmt.Errorf("%w: file contains neither %s nor %s", ErrInvalidTxFile, KindMintConfigTx, KindMintTx)
	}
}

// Kind returns the type of the transaction in the file.
func (f *TxFile) Kind() string {
	if f.MintConfigTx != nil {
		return KindMintConfigTx
	}
	return KindMintTx
}

// PrefixHash returns the message the signers of the transaction sign.
func (f *TxFile) PrefixHash() ([]byte, error) {
	if f.MintConfigTx != nil {
		return f.MintConfigTx.Prefix.Hash()
	}
	if f.MintTx != nil {
		return f.MintTx.Prefix.Hash()
	}
	return nil, fmt.Errorf("%w: empty tx file", ErrInvalidTxFile)
}

func (f *TxFile) Signature() *multisig.MultiSig {
	if f.MintConfigTx != nil {
		return f.MintConfigTx.Signature
	}
	if f.MintTx != nil {
		return f.MintTx.Signature
	}
	return nil
}

func (f *TxFile) setSignature(sig *multisig.MultiSig) {
	if f.MintConfigTx != nil {
		f.MintConfigTx.Signature = sig
	} else if f.MintTx != nil {
		f.MintTx.Signature = sig
	}
}

// Sign adds signatures of the signers and the external signatures to the transaction.
func (f *TxFile) Sign(signers []crypto.Signer, external []crypto.Signature) error {
	h, err := f.PrefixHash()
	if err != nil {
		return err
	}
	sig, err := Authorize(h, signers, external)
	if err != nil {
		return err
	}
	f.setSignature(f.Signature().Merge(sig))
	return nil
}

// Verify checks that the signatures of the transaction satisfy the signer set.
func (f *TxFile) Verify(ss *multisig.SignerSet) error {
	h, err := f.PrefixHash()
	if err != nil {
		return err
	}
	return ss.Verify(h, f.Signature())
}

/*
MergeTxFiles returns new TxFile containing the transaction of the files with
the union of their signatures. All the files must contain the same kind of
transaction with identical prefix.
*/
func MergeTxFiles(files ...*TxFile) (*TxFile, error) {
	if len(files) == 0 {
		return nil, errors.New("no tx files to merge")
	}
	first := files[0]
	if err := first.IsValid(); err != nil {
		return nil, err
	}
	firstHash, err := first.PrefixHash()
	if err != nil {
		return nil, err
	}
	sigs := make([]*multisig.MultiSig, 0, len(files))
	for i, f := range files {
		if err := f.IsValid(); err != nil {
			return nil, fmt.Errorf("tx file %d: %w", i, err)
		}
		if f.Kind() != first.Kind() {
			return nil, fmt.Errorf("%w: tx file %d contains %s, expected %s", ErrPrefixMismatch, i, f.Kind(), first.Kind())
		}
		h, err := f.PrefixHash()
		if err != nil {
			return nil, fmt.Errorf("tx file %d: %w", i, err)
		}
		if !bytes.Equal(h, firstHash) {
			return nil, fmt.Errorf("%w: tx file %d prefix hash %x, expected %x", ErrPrefixMismatch, i, h, firstHash)
		}
		sigs = append(sigs, f.Signature())
	}

	merged := multisig.Merge(sigs...)
	if first.MintConfigTx != nil {
		return &TxFile{MintConfigTx: &types.MintConfigTx{Prefix: first.MintConfigTx.Prefix, Signature: merged}}, nil
	}
	return &TxFile{MintTx: &types.MintTx{Prefix: first.MintTx.Prefix, Signature: merged}}, nil
}
