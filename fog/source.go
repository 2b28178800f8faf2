package fog

import (
	"context"
	"fmt"
	"time"

	ethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/dolanbernard/mobilecoin/rpc"
)

// ReportSource fetches fog reports from the report server at reportURL.
type ReportSource interface {
	GetReports(ctx context.Context, reportURL string) (*ReportResponse, error)
}

// RPCReportSource fetches reports using the "fog_getReports" JSON-RPC method.
type RPCReportSource struct {
	timeout time.Duration
}

func NewRPCReportSource(timeout time.Duration) *RPCReportSource {
	return &RPCReportSource{timeout: timeout}
}

func (s *RPCReportSource) GetReports(ctx context.Context, reportURL string) (*ReportResponse, error) {
	endpoint, err := rpc.Endpoint(reportURL)
	if err != nil {
		return nil, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	client, err := ethrpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dialing fog report server: %w", err)
	}
	defer client.Close()

	var res *ReportResponse
	if err := client.CallContext(ctx, &res, "fog_getReports"); err != nil {
		return nil, fmt.Errorf("fog_getReports: %w", err)
	}
	return res, nil
}
