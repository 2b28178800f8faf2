/*
Package cbor wraps fxamacker/cbor with the encoding and decoding modes used for
everything that gets hashed, signed or persisted.

Encoding uses the "core deterministic" options so that the same value always
produces the same bytes. Structs which are part of signed data must use the
`cbor:",toarray"` tag and must not contain maps or floats.
*/
package cbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

type (
	RawMessage = cbor.RawMessage
	Marshaler  = cbor.Marshaler
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Errorf("initializing CBOR encoder: %w", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(fmt.Errorf("initializing CBOR decoder: %w", err))
	}
}

// Marshal returns the deterministic CBOR encoding of v.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Indefinite length items are rejected.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
