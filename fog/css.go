package fog

import (
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/dolanbernard/mobilecoin/crypto"
)

// Measurement returns the enclave measurement fog reports are checked against,
// ie the hash of the enclave signature structure (CSS) file contents.
func Measurement(css []byte) []byte {
	h := blake2b.Sum256(css)
	return h[:]
}

// LoadCSSFile reads the fog ingest enclave CSS file and returns its measurement.
func LoadCSSFile(filename string) ([]byte, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, &crypto.FileError{Kind: crypto.ErrReadFile, Path: filename, Err: err}
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("css file '%s' is empty", filename)
	}
	return Measurement(b), nil
}
