package fog

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/nacl/box"

	"github.com/dolanbernard/mobilecoin/account"
	"github.com/dolanbernard/mobilecoin/types"
)

// Resolver produces the encrypted fog hint for recipients which use fog.
type Resolver interface {
	// GetEFogHint returns the encrypted fog hint for the recipient and the block
	// index after which the fog public key used to create it expires.
	GetEFogHint(ctx context.Context, recipient *account.PublicAddress) (hint []byte, pubkeyExpiry uint64, err error)
}

// ResolveError is returned for every failure to produce the fog hint.
type ResolveError struct {
	URL string
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving fog report '%s': %v", e.URL, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

type (
	// Context resolves fog hints by fetching and validating the fog report of the recipient.
	Context struct {
		source   ReportSource
		verifier *Verifier
		rand     io.Reader
	}

	Option func(*Context)
)

func WithReportSource(source ReportSource) Option {
	return func(c *Context) {
		c.source = source
	}
}

func WithRandom(r io.Reader) Option {
	return func(c *Context) {
		c.rand = r
	}
}

/*
NewContext returns fog resolver which accepts reports of the chain chainID
signed by enclaves with one of the given measurements.
*/
func NewContext(chainID string, measurements [][]byte, opts ...Option) (*Context, error) {
	verifier, err := NewVerifier(chainID, measurements...)
	if err != nil {
		return nil, err
	}
	c := &Context{
		source:   NewRPCReportSource(30 * time.Second),
		verifier: verifier,
		rand:     rand.Reader,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Context) GetEFogHint(ctx context.Context, recipient *account.PublicAddress) ([]byte, uint64, error) {
	if recipient == nil || !recipient.HasFog() {
		return nil, 0, errors.New("recipient does not use fog")
	}
	url := recipient.FogReportURL
	resp, err := c.source.GetReports(ctx, url)
	if err != nil {
		return nil, 0, &ResolveError{URL: url, Err: err}
	}
	report, err := c.verifier.Verify(resp, recipient.FogReportID)
	if err != nil {
		return nil, 0, &ResolveError{URL: url, Err: err}
	}
	hint, err := SealHint(recipient.ViewPublicKey, report.IngressPublicKey, c.rand)
	if err != nil {
		return nil, 0, &ResolveError{URL: url, Err: err}
	}
	return hint, uint64(report.PubkeyExpiry), nil
}

// SealHint encrypts the view public key to the fog ingress key.
func SealHint(viewPublicKey, ingressPublicKey []byte, rnd io.Reader) ([]byte, error) {
	if len(viewPublicKey) != types.AddressKeyLength {
		return nil, fmt.Errorf("view public key must be %d bytes, got %d", types.AddressKeyLength, len(viewPublicKey))
	}
	if len(ingressPublicKey) != IngressKeyLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIngressPublicKey, IngressKeyLength, len(ingressPublicKey))
	}
	hint, err := box.SealAnonymous(nil, viewPublicKey, (*[32]byte)(ingressPublicKey), rnd)
	if err != nil {
		return nil, fmt.Errorf("sealing fog hint: %w", err)
	}
	return hint, nil
}

// OpenHint decrypts the hint with the ingress key pair, returning the view public key.
func OpenHint(hint []byte, ingressPublicKey, ingressPrivateKey *[32]byte) ([]byte, error) {
	if len(hint) != types.EFogHintLength {
		return nil, fmt.Errorf("fog hint must be %d bytes, got %d", types.EFogHintLength, len(hint))
	}
	viewKey, ok := box.OpenAnonymous(nil, hint, ingressPublicKey, ingressPrivateKey)
	if !ok {
		return nil, errors.New("failed to open fog hint")
	}
	return viewKey, nil
}
