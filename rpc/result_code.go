package rpc

import "fmt"

// ResultCode is the validation result the node returns for a proposed transaction.
type ResultCode uint32

const (
	ResultOk ResultCode = iota
	ResultInvalidBlockVersion
	ResultInvalidTokenID
	ResultInvalidNonceLength
	ResultInvalidSignerSet
	ResultInvalidSignature
	ResultTombstoneBlockExceeded
	ResultTombstoneBlockTooFar
	ResultUnknown
	ResultAmountExceedsMintLimit
	ResultNoMatchingMintConfig
	ResultMintingToFogNotSupported
	ResultNonceAlreadyUsed
	ResultNoMasterMintersSignature
)

var resultCodeNames = map[ResultCode]string{
	ResultOk:                       "Ok",
	ResultInvalidBlockVersion:      "InvalidBlockVersion",
	ResultInvalidTokenID:           "InvalidTokenId",
	ResultInvalidNonceLength:       "InvalidNonceLength",
	ResultInvalidSignerSet:         "InvalidSignerSet",
	ResultInvalidSignature:         "InvalidSignature",
	ResultTombstoneBlockExceeded:   "TombstoneBlockExceeded",
	ResultTombstoneBlockTooFar:     "TombstoneBlockTooFar",
	ResultUnknown:                  "Unknown",
	ResultAmountExceedsMintLimit:   "AmountExceedsMintLimit",
	ResultNoMatchingMintConfig:     "NoMatchingMintConfig",
	ResultMintingToFogNotSupported: "MintingToFogNotSupported",
	ResultNonceAlreadyUsed:         "NonceAlreadyUsed",
	ResultNoMasterMintersSignature: "NoMasterMintersSignature",
}

func (c ResultCode) String() string {
	if s, ok := resultCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ResultCode(%d)", uint32(c))
}

// ProposeError is returned when the node rejects the transaction. Resubmitting
// the same transaction will not help.
type ProposeError struct {
	Code    ResultCode
	Message string
}

func (e *ProposeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("node rejected the transaction: %s", e.Code)
	}
	return fmt.Sprintf("node rejected the transaction: %s: %s", e.Code, e.Message)
}
