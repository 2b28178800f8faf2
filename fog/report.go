package fog

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/dolanbernard/mobilecoin/cbor"
	"github.com/dolanbernard/mobilecoin/crypto"
	"github.com/dolanbernard/mobilecoin/types"
)

// IngressKeyLength is the length of the fog ingress public key (curve25519).
const IngressKeyLength = 32

var (
	ErrReportNotFound          = errors.New("fog report not found")
	ErrUnknownMeasurement      = errors.New("fog ingest enclave measurement is not allowed")
	ErrChainIDMismatch         = errors.New("fog report chain id mismatch")
	ErrInvalidReportSignature  = errors.New("invalid fog report signature")
	ErrInvalidIngressPublicKey = errors.New("invalid fog ingress public key")
	ErrNoMeasurements          = errors.New("no allowed fog ingest enclave measurements")
)

type (
	// Report is a signed statement of the fog ingest enclave about its current ingress key.
	Report struct {
		_                struct{}       `cbor:",toarray"`
		FogReportID      string         `json:"fogReportId"`
		ChainID          string         `json:"chainId"`
		Measurement      types.Bytes    `json:"measurement"`
		IngressPublicKey types.Bytes    `json:"ingressPublicKey"`
		PubkeyExpiry     hexutil.Uint64 `json:"pubkeyExpiry"`
		Signature        types.Bytes    `json:"signature"`
	}

	// ReportResponse is what the fog report server returns, reports are signed with SigningKey.
	ReportResponse struct {
		Reports    []*Report        `json:"reports"`
		SigningKey crypto.PublicKey `json:"signingKey"`
	}

	// Verifier validates fog reports against the allowed enclave measurements.
	Verifier struct {
		chainID      string
		measurements [][]byte
	}
)

// SigBytes returns the bytes the report signature is calculated over.
func (r *Report) SigBytes() ([]byte, error) {
	c := *r
	c.Signature = nil
	return cbor.Marshal(&c)
}

// Sign sets the report signature, used by the fog report server.
func (r *Report) Sign(signer crypto.Signer) error {
	b, err := r.SigBytes()
	if err != nil {
		return fmt.Errorf("encoding fog report: %w", err)
	}
	sig, err := signer.SignBytes(b)
	if err != nil {
		return fmt.Errorf("signing fog report: %w", err)
	}
	r.Signature = types.Bytes(sig)
	return nil
}

func NewVerifier(chainID string, measurements ...[]byte) (*Verifier, error) {
	if len(measurements) == 0 {
		return nil, ErrNoMeasurements
	}
	return &Verifier{chainID: chainID, measurements: measurements}, nil
}

// Verify returns the report with given id if it is valid.
func (v *Verifier) Verify(resp *ReportResponse, reportID string) (*Report, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrReportNotFound)
	}
	idx := slices.IndexFunc(resp.Reports, func(r *Report) bool { return r != nil && r.FogReportID == reportID })
	if idx < 0 {
		return nil, fmt.Errorf("%w: no report with id '%s'", ErrReportNotFound, reportID)
	}
	report := resp.Reports[idx]

	if !slices.ContainsFunc(v.measurements, func(m []byte) bool { return bytes.Equal(m, report.Measurement) }) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMeasurement, report.Measurement)
	}
	if report.ChainID != v.chainID {
		return nil, fmt.Errorf("%w: expected '%s', got '%s'", ErrChainIDMismatch, v.chainID, report.ChainID)
	}
	if len(report.IngressPublicKey) != IngressKeyLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIngressPublicKey, IngressKeyLength, len(report.IngressPublicKey))
	}
	verifier, err := crypto.NewEd25519Verifier(resp.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("%w: report signing key: %w", ErrInvalidReportSignature, err)
	}
	sigBytes, err := report.SigBytes()
	if err != nil {
		return nil, fmt.Errorf("encoding fog report: %w", err)
	}
	if err := verifier.VerifyBytes(crypto.Signature(report.Signature), sigBytes); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReportSignature, err)
	}
	return report, nil
}
