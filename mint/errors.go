package mint

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidParams      = errors.New("invalid parameters")
	ErrMissingFogContext  = errors.New("recipient has a fog url, but fog context to validate fog public keys was not supplied")
	ErrTombstoneRequired  = errors.New("tombstone block is required")
	ErrSigning            = errors.New("signing failed")
	ErrInvalidTxFile      = errors.New("invalid tx file")
	ErrPrefixMismatch     = errors.New("tx files have different prefixes")
	ErrInvalidMintConfig  = errors.New("invalid mint config")
	ErrInvalidTokensFile  = errors.New("invalid tokens config")
	ErrMissingGovernorSig = errors.New("governors signature is missing")
)

/*
ParseError describes user input which could not be parsed. Kind is one of the
package's error kinds, Path names the offending file if any, Field and Value the
offending part of the input.
*/
type ParseError struct {
	Kind  error
	Path  string
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Value != "" {
		fmt.Fprintf(&sb, " '%s'", e.Value)
	}
	if e.Field != "" {
		fmt.Fprintf(&sb, ": failed parsing %s", e.Field)
	}
	if e.Path != "" {
		fmt.Fprintf(&sb, ": file '%s'", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
