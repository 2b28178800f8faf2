package multisig

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dolanbernard/mobilecoin/cbor"
	"github.com/dolanbernard/mobilecoin/crypto"
)

var (
	ErrInvalidThreshold = errors.New("invalid signing threshold")
	ErrThresholdNotMet  = errors.New("signing threshold not met")
)

/*
SignerSet is a m-of-n authorization policy: any Threshold of the Signers
together authorize an operation.

The order of Signers is kept as given (it is what the user sees) but it has no
meaning otherwise: Equal and the canonical CBOR encoding both treat the set as
unordered.
*/
type SignerSet struct {
	Signers   []crypto.PublicKey `json:"signers"`
	Threshold uint32             `json:"threshold"`
}

// signerSetCBOR is the canonical (signed) form of the SignerSet.
type signerSetCBOR struct {
	_         struct{} `cbor:",toarray"`
	Signers   [][]byte
	Threshold uint32
}

/*
NewSignerSet validates that 0 < threshold <= len(signers).

Duplicate keys are not rejected and count individually toward n, use
DuplicateSigners to detect them. Verify never counts the same key twice.
*/
func NewSignerSet(signers []crypto.PublicKey, threshold uint32) (*SignerSet, error) {
	if threshold == 0 {
		return nil, fmt.Errorf("%w: threshold must be greater than zero", ErrInvalidThreshold)
	}
	if uint64(threshold) > uint64(len(signers)) {
		return nil, fmt.Errorf("%w: signing threshold '%d' is greater than the number of public keys '%d'", ErrInvalidThreshold, threshold, len(signers))
	}
	for i, pk := range signers {
		if len(pk) != crypto.PublicKeySize {
			return nil, fmt.Errorf("signer %d: invalid public key length %d", i, len(pk))
		}
	}
	return &SignerSet{Signers: slices.Clone(signers), Threshold: threshold}, nil
}

// Equal reports whether both sets have the same threshold and the same multiset of keys.
func (s *SignerSet) Equal(other *SignerSet) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Threshold != other.Threshold || len(s.Signers) != len(other.Signers) {
		return false
	}
	a, b := s.sortedSigners(), other.sortedSigners()
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// DuplicateSigners returns keys which appear more than once in the set.
func (s *SignerSet) DuplicateSigners() []crypto.PublicKey {
	var dups []crypto.PublicKey
	sorted := s.sortedSigners()
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Equal(sorted[i-1]) && (len(dups) == 0 || !dups[len(dups)-1].Equal(sorted[i])) {
			dups = append(dups, sorted[i])
		}
	}
	return dups
}

/*
Verify checks that at least Threshold distinct signers of the set have a valid
signature over message in ms. Signatures which do not belong to any signer are
ignored.
*/
func (s *SignerSet) Verify(message []byte, ms *MultiSig) error {
	if ms == nil {
		return fmt.Errorf("%w: no signatures", ErrThresholdNotMet)
	}
	matched := 0
	for _, pk := range s.distinctSigners() {
		v, err := crypto.NewEd25519Verifier(pk)
		if err != nil {
			return fmt.Errorf("signer %s: %w", pk, err)
		}
		for _, sig := range ms.Signatures {
			if v.VerifyBytes(sig, message) == nil {
				matched++
				break
			}
		}
	}
	if matched < int(s.Threshold) {
		return fmt.Errorf("%w: got %d valid signatures, need %d", ErrThresholdNotMet, matched, s.Threshold)
	}
	return nil
}

func (s *SignerSet) MarshalCBOR() ([]byte, error) {
	sorted := s.sortedSigners()
	keys := make([][]byte, len(sorted))
	for i, pk := range sorted {
		keys[i] = pk
	}
	return cbor.Marshal(signerSetCBOR{Signers: keys, Threshold: s.Threshold})
}

func (s *SignerSet) UnmarshalCBOR(data []byte) error {
	var v signerSetCBOR
	if err := cbor.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding signer set: %w", err)
	}
	s.Signers = make([]crypto.PublicKey, len(v.Signers))
	for i, pk := range v.Signers {
		s.Signers[i] = crypto.PublicKey(pk)
	}
	s.Threshold = v.Threshold
	return nil
}

func (s *SignerSet) sortedSigners() []crypto.PublicKey {
	sorted := slices.Clone(s.Signers)
	slices.SortFunc(sorted, crypto.PublicKey.Compare)
	return sorted
}

func (s *SignerSet) distinctSigners() []crypto.PublicKey {
	return slices.CompactFunc(s.sortedSigners(), crypto.PublicKey.Equal)
}
