package multisig

import (
	"slices"

	"github.com/dolanbernard/mobilecoin/crypto"
)

/*
MultiSig is a collection of signatures over the same message. It is always
kept in canonical form: sorted by signature bytes and without duplicates, so
the same set of signatures always serializes to the same bytes.
*/
type MultiSig struct {
	_          struct{}           `cbor:",toarray"`
	Signatures []crypto.Signature `json:"signatures"`
}

// New returns MultiSig containing the canonical form of sigs.
func New(sigs []crypto.Signature) *MultiSig {
	return &MultiSig{Signatures: Canonicalize(sigs)}
}

// Canonicalize returns sorted copy of sigs with exact duplicates removed.
func Canonicalize(sigs []crypto.Signature) []crypto.Signature {
	res := make([]crypto.Signature, 0, len(sigs))
	for _, sig := range sigs {
		res = append(res, slices.Clone(sig))
	}
	slices.SortFunc(res, crypto.Signature.Compare)
	return slices.CompactFunc(res, crypto.Signature.Equal)
}

// Merge returns the union of all the signatures in ms and others.
func (ms *MultiSig) Merge(others ...*MultiSig) *MultiSig {
	return Merge(append([]*MultiSig{ms}, others...)...)
}

// Merge returns the union of the signatures of all the arguments, nil values are ignored.
func Merge(all ...*MultiSig) *MultiSig {
	var sigs []crypto.Signature
	for _, ms := range all {
		if ms != nil {
			sigs = append(sigs, ms.Signatures...)
		}
	}
	return New(sigs)
}

func (ms *MultiSig) Len() int {
	if ms == nil {
		return 0
	}
	return len(ms.Signatures)
}

func (ms *MultiSig) Equal(other *MultiSig) bool {
	if ms.Len() != other.Len() {
		return false
	}
	for i := 0; i < ms.Len(); i++ {
		if !ms.Signatures[i].Equal(other.Signatures[i]) {
			return false
		}
	}
	return true
}
