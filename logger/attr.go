package logger

import (
	"fmt"

	"github.com/rs/zerolog"
)

/*
Log field key values. Only define names here if they are common for
multiple packages, package specific names should be defined in the package.
*/
const (
	ErrorKey      = "error"
	TokenIDKey    = "token_id"
	TxHashKey     = "tx_hash"
	TxKindKey     = "tx_kind"
	NodeKey       = "node"
	SignerKeyKey  = "signer"
	SignaturesKey = "signatures"
)

/*
TxHash adds hash of the transaction prefix to the log event

	logger.TxHash(log.Info(), h).Msg("tx submitted")
*/
func TxHash(e *zerolog.Event, h []byte) *zerolog.Event {
	return e.Str(TxHashKey, fmt.Sprintf("%X", h))
}

func TokenID(e *zerolog.Event, id uint64) *zerolog.Event {
	return e.Uint64(TokenIDKey, id)
}

/*
WithNode returns sub-logger which adds the node URI to every message.
Credentials in the URI are not stripped so do not log URIs containing them.
*/
func WithNode(log zerolog.Logger, uri string) zerolog.Logger {
	return log.With().Str(NodeKey, uri).Logger()
}
