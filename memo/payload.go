package memo

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/dolanbernard/mobilecoin/types"
)

const (
	TypeLength    = 2
	DataLength    = 64
	PayloadLength = TypeLength + DataLength
)

// DefragmentationMemoType is the memo type of the defragmentation memos.
var DefragmentationMemoType = [TypeLength]byte{0x00, 0x03}

var ErrWrongMemoType = errors.New("wrong memo type")

type (
	// MemoPayload is the plaintext memo attached to an output: 2 bytes of type
	// followed by 64 bytes of type specific data.
	MemoPayload [PayloadLength]byte

	/*
	DefragmentationMemo is written to both outputs of a defragmentation
	transaction. The main output carries the fee and the total outlay, the
	change output carries zeros. Both carry the same DefragID so the two can be
	matched.
	*/
	DefragmentationMemo struct {
		Fee         types.Amount
		TotalOutlay uint64
		DefragID    uint64
	}
)

func NewMemoPayload(memoType [TypeLength]byte, data [DataLength]byte) MemoPayload {
	var p MemoPayload
	copy(p[:TypeLength], memoType[:])
	copy(p[TypeLength:], data[:])
	return p
}

func (p MemoPayload) Type() [TypeLength]byte {
	return [TypeLength]byte(p[:TypeLength])
}

func (p MemoPayload) Data() [DataLength]byte {
	return [DataLength]byte(p[TypeLength:])
}

func (p MemoPayload) String() string {
	return hexutil.Encode(p[:])
}

// Payload encodes the memo: fee value, fee token id, total outlay and defrag
// id as big endian uint64 values, rest of the data is zero.
func (m DefragmentationMemo) Payload() MemoPayload {
	var data [DataLength]byte
	binary.BigEndian.PutUint64(data[0:8], m.Fee.Value)
	binary.BigEndian.PutUint64(data[8:16], uint64(m.Fee.TokenID))
	binary.BigEndian.PutUint64(data[16:24], m.TotalOutlay)
	binary.BigEndian.PutUint64(data[24:32], m.DefragID)
	return NewMemoPayload(DefragmentationMemoType, data)
}

func DecodeDefragmentationMemo(p MemoPayload) (DefragmentationMemo, error) {
	if p.Type() != DefragmentationMemoType {
		return DefragmentationMemo{}, fmt.Errorf("%w: expected %x, got %x", ErrWrongMemoType, DefragmentationMemoType, p.Type())
	}
	data := p.Data()
	return DefragmentationMemo{
		Fee: types.Amount{
			Value:   binary.BigEndian.Uint64(data[0:8]),
			TokenID: types.TokenID(binary.BigEndian.Uint64(data[8:16])),
		},
		TotalOutlay: binary.BigEndian.Uint64(data[16:24]),
		DefragID:    binary.BigEndian.Uint64(data[24:32]),
	}, nil
}
