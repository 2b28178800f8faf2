package crypto

import (
	"errors"
	"fmt"
)

// Error kinds reported by this package, test with errors.Is.
var (
	ErrReadFile           = errors.New("failed reading file")
	ErrParsePEM           = errors.New("failed parsing PEM file")
	ErrParseDER           = errors.New("failed parsing DER from PEM file")
	ErrInvalidSignature   = errors.New("invalid Ed25519 signature")
	ErrSignatureFormat    = errors.New("signature must either be a PEM file or a hex-encoded string")
	ErrVerificationFailed = errors.New("signature verification failed")
)

// FileError is returned when a key or signature file can not be loaded.
type FileError struct {
	Kind error
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s '%s'", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s '%s': %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
