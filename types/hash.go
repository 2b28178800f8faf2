package types

import "golang.org/x/crypto/blake2b"

// Domain separation tags of the signed prefixes.
const (
	MintConfigTxPrefixTag = "mc_mint_config_tx_prefix"
	MintTxPrefixTag       = "mc_mint_tx_prefix"
)

// HashSize is the size of the prefix hash (the message signers sign) in bytes.
const HashSize = blake2b.Size256

// TaggedHash returns BLAKE2b-256 of tag followed by data.
func TaggedHash(tag string, data []byte) []byte {
	// New256 only fails when the key is too long
	h, _ := blake2b.New256(nil)
	h.Write([]byte(tag))
	h.Write(data)
	return h.Sum(nil)
}
