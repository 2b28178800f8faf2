package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"

	"github.com/dolanbernard/mobilecoin/logger"
	"github.com/dolanbernard/mobilecoin/mint"
	"github.com/dolanbernard/mobilecoin/rpc"
)

// delay before the first resubmit, grows exponentially with each attempt
var submitRetryDelay = time.Second

/*
submitTxFile sends the transaction in the file to the node. Transport
failures are retried, rejection by the node is not as the node would
reject the same transaction again.
*/
func submitTxFile(ctx context.Context, client *rpc.NodeClient, f *mint.TxFile, attempts uint, log zerolog.Logger) error {
	hash, err := f.PrefixHash()
	if err != nil {
		return err
	}
	submit := func() (*rpc.ProposeResponse, error) {
		if f.MintConfigTx != nil {
			return client.SubmitMintConfigTx(ctx, f.MintConfigTx)
		}
		return client.SubmitMintTx(ctx, f.MintTx)
	}

	var res *rpc.ProposeResponse
	err = retry.Do(
		func() (err error) {
			res, err = submit()
			return err
		},
		retry.Context(ctx),
		retry.Attempts(max(attempts, 1)),
		retry.Delay(submitRetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var pe *rpc.ProposeError
			return !errors.As(err, &pe)
		}),
		retry.OnRetry(func(n uint, err error) {
			logger.TxHash(log.Warn(), hash).Err(err).Uint("attempt", n+1).Msg("submitting transaction failed")
		}),
	)
	if err != nil {
		return fmt.Errorf("submitting %s: %w", f.Kind(), err)
	}
	logger.TxHash(log.Info(), hash).Str(logger.TxKindKey, f.Kind()).Int(logger.SignaturesKey, f.Signature().Len()).Msg("transaction submitted")
	printf("Submitted %s %X: %s, block count %d", f.Kind(), hash, res.Code, uint64(res.BlockCount))
	return nil
}
