package mint

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"slices"

	"github.com/dolanbernard/mobilecoin/fog"
	"github.com/dolanbernard/mobilecoin/types"
)

type (
	// TombstoneFunc returns the tombstone block to use when the caller did not supply one.
	TombstoneFunc func() (uint64, error)

	// PrefixBuilder turns validated parameters into unsigned transaction prefixes.
	PrefixBuilder struct {
		rand io.Reader
	}

	Option func(*PrefixBuilder)
)

// WithRandom sets the source of the generated nonces, crypto/rand by default.
func WithRandom(r io.Reader) Option {
	return func(b *PrefixBuilder) {
		b.rand = r
	}
}

func NewPrefixBuilder(opts ...Option) *PrefixBuilder {
	b := &PrefixBuilder{rand: rand.Reader}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FixedTombstone returns TombstoneFunc which always returns v.
func FixedTombstone(v uint64) TombstoneFunc {
	return func() (uint64, error) { return v, nil }
}

// NoTombstone fails with ErrTombstoneRequired, for when there is nothing to fall back to.
func NoTombstone() (uint64, error) {
	return 0, ErrTombstoneRequired
}

// BuildMintConfigTxPrefix returns prefix with one mint config per (limit, signer set) pair of params.
func (b *PrefixBuilder) BuildMintConfigTxPrefix(params *MintConfigTxPrefixParams, fallback TombstoneFunc) (*types.MintConfigTxPrefix, error) {
	if err := params.IsValid(); err != nil {
		return nil, err
	}
	tombstone, err := resolveTombstone(params.Tombstone, fallback)
	if err != nil {
		return nil, err
	}
	nonce, err := b.nonce(params.Nonce)
	if err != nil {
		return nil, err
	}

	configs := make([]*types.MintConfig, len(params.Configs))
	for i, c := range params.Configs {
		configs[i] = &types.MintConfig{
			TokenID:   params.TokenID,
			SignerSet: c.SignerSet,
			MintLimit: c.MintLimit,
		}
	}
	prefix := &types.MintConfigTxPrefix{
		TokenID:        params.TokenID,
		Configs:        configs,
		Nonce:          nonce,
		TombstoneBlock: tombstone,
		TotalMintLimit: params.TotalMintLimit,
	}
	if err := prefix.IsValid(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return prefix, nil
}

/*
BuildMintTxPrefix returns prefix of the mint to params.Recipient.

When the recipient uses fog the resolver must not be nil, it provides the
encrypted fog hint and the expiry of the fog public key which becomes the
tombstone block when it is lower than the requested one.
*/
func (b *PrefixBuilder) BuildMintTxPrefix(ctx context.Context, params *MintTxPrefixParams, resolver fog.Resolver, fallback TombstoneFunc) (*types.MintTxPrefix, error) {
	if err := params.IsValid(); err != nil {
		return nil, err
	}
	tombstone, err := resolveTombstone(params.Tombstone, fallback)
	if err != nil {
		return nil, err
	}

	var hint []byte
	if params.Recipient.HasFog() {
		if resolver == nil {
			return nil, fmt.Errorf("%w: '%s'", ErrMissingFogContext, params.Recipient.FogReportURL)
		}
		var expiry uint64
		if hint, expiry, err = resolver.GetEFogHint(ctx, params.Recipient); err != nil {
			return nil, err
		}
		tombstone = min(tombstone, expiry)
	}

	nonce, err := b.nonce(params.Nonce)
	if err != nil {
		return nil, err
	}
	prefix := &types.MintTxPrefix{
		TokenID:        params.TokenID,
		Amount:         params.Amount,
		ViewPublicKey:  slices.Clone(params.Recipient.ViewPublicKey),
		SpendPublicKey: slices.Clone(params.Recipient.SpendPublicKey),
		Nonce:          nonce,
		TombstoneBlock: tombstone,
		EFogHint:       hint,
	}
	if err := prefix.IsValid(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return prefix, nil
}

func resolveTombstone(tombstone *uint64, fallback TombstoneFunc) (uint64, error) {
	if tombstone != nil {
		return *tombstone, nil
	}
	if fallback == nil {
		return 0, ErrTombstoneRequired
	}
	v, err := fallback()
	if err != nil {
		return 0, fmt.Errorf("resolving tombstone block: %w", err)
	}
	return v, nil
}

func (b *PrefixBuilder) nonce(nonce []byte) ([]byte, error) {
	if nonce != nil {
		return slices.Clone(nonce), nil
	}
	nonce = make([]byte, types.NonceLength)
	if _, err := io.ReadFull(b.rand, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return nonce, nil
}
