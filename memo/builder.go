package memo

import (
	"errors"
	"fmt"

	"github.com/dolanbernard/mobilecoin/account"
	"github.com/dolanbernard/mobilecoin/types"
)

var (
	ErrFeeAfterChange        = errors.New("fee set after output memo was written")
	ErrParamsAfterOutput     = errors.New("memo parameters changed after output memo was written")
	ErrMultipleDefragOutputs = errors.New("multiple defragmentation outputs")
	ErrOutputsAfterChange    = errors.New("output memo requested after change memo")
	ErrMultipleChangeOutputs = errors.New("multiple change outputs")
	ErrMixedTokenIDs         = errors.New("change output token id must differ from the fee token id")
	ErrChangeBeforeOutput    = errors.New("change memo requested before output memo")
	ErrNotReadyToFinalize    = errors.New("both output and change memos must be written before finalizing")
	ErrBuilderFinalized      = errors.New("memo builder is finalized")
)

type (
	// MemoContext is what the transaction builder knows about the output the memo is made for.
	MemoContext struct {
		TxOutPublicKey types.Bytes
	}

	// MemoBuilder is called by the transaction builder once per output.
	MemoBuilder interface {
		SetFee(fee types.Amount) error
		MakeMemoForOutput(amount types.Amount, recipient *account.PublicAddress, ctx MemoContext) (MemoPayload, error)
		MakeMemoForChangeOutput(amount types.Amount, changeDestination *account.PublicAddress, ctx MemoContext) (MemoPayload, error)
	}

	State int

	/*
	DefragmentationMemoBuilder writes the memos of a defragmentation
	transaction, which has exactly one main output followed by exactly one
	change output.

	Not safe for concurrent use, one builder per transaction.
	*/
	DefragmentationMemoBuilder struct {
		fee         types.Amount
		totalOutlay uint64
		defragID    *uint64
		state       State
	}
)

const (
	Fresh State = iota
	MainWritten
	ChangeWritten
	Finalized
)

var _ MemoBuilder = (*DefragmentationMemoBuilder)(nil)

func (s State) String() string {
	switch s {
	case Fresh:
		return "Fresh"
	case MainWritten:
		return "MainWritten"
	case ChangeWritten:
		return "ChangeWritten"
	case Finalized:
		return "Finalized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// NewDefragmentationMemoBuilder returns builder with the network minimum fee
// in the native token, total outlay equal to the fee and no defrag id.
func NewDefragmentationMemoBuilder() *DefragmentationMemoBuilder {
	return &DefragmentationMemoBuilder{
		fee:         types.NewAmount(types.MinimumFee, types.MobTokenID),
		totalOutlay: types.MinimumFee,
	}
}

func (b *DefragmentationMemoBuilder) State() State {
	return b.state
}

func (b *DefragmentationMemoBuilder) SetFee(fee types.Amount) error {
	switch b.state {
	case Finalized:
		return ErrBuilderFinalized
	case Fresh:
		b.fee = fee
		return nil
	default:
		return ErrFeeAfterChange
	}
}

// SetTotalOutlay sets the fee plus the amount of the main output.
func (b *DefragmentationMemoBuilder) SetTotalOutlay(value uint64) error {
	if err := b.checkParamsMutable(); err != nil {
		return err
	}
	b.totalOutlay = value
	return nil
}

func (b *DefragmentationMemoBuilder) SetDefragID(id uint64) error {
	if err := b.checkParamsMutable(); err != nil {
		return err
	}
	b.defragID = &id
	return nil
}

func (b *DefragmentationMemoBuilder) ClearDefragID() error {
	if err := b.checkParamsMutable(); err != nil {
		return err
	}
	b.defragID = nil
	return nil
}

func (b *DefragmentationMemoBuilder) MakeMemoForOutput(_ types.Amount, _ *account.PublicAddress, _ MemoContext) (MemoPayload, error) {
	switch b.state {
	case Finalized:
		return MemoPayload{}, ErrBuilderFinalized
	case MainWritten:
		return MemoPayload{}, ErrMultipleDefragOutputs
	case ChangeWritten:
		// change memo is only written after the main one
		return MemoPayload{}, fmt.Errorf("%w: %w", ErrMultipleDefragOutputs, ErrOutputsAfterChange)
	}
	b.state = MainWritten
	return DefragmentationMemo{
		Fee:         b.fee,
		TotalOutlay: b.totalOutlay,
		DefragID:    b.id(),
	}.Payload(), nil
}

// MakeMemoForChangeOutput returns memo with zero fee and outlay, the amount of the change does not matter.
func (b *DefragmentationMemoBuilder) MakeMemoForChangeOutput(amount types.Amount, _ *account.PublicAddress, _ MemoContext) (MemoPayload, error) {
	switch {
	case b.state == Finalized:
		return MemoPayload{}, ErrBuilderFinalized
	case b.state == ChangeWritten:
		return MemoPayload{}, ErrMultipleChangeOutputs
	case amount.TokenID == b.fee.TokenID:
		return MemoPayload{}, fmt.Errorf("%w: %d", ErrMixedTokenIDs, amount.TokenID)
	case b.state == Fresh:
		return MemoPayload{}, ErrChangeBeforeOutput
	}
	b.state = ChangeWritten
	return DefragmentationMemo{DefragID: b.id()}.Payload(), nil
}

// Finalize is called by the transaction builder once all the outputs are
// built, the builder can not be used after that.
func (b *DefragmentationMemoBuilder) Finalize() error {
	switch b.state {
	case Finalized:
		return ErrBuilderFinalized
	case ChangeWritten:
		b.state = Finalized
		return nil
	default:
		return fmt.Errorf("%w: state is %s", ErrNotReadyToFinalize, b.state)
	}
}

func (b *DefragmentationMemoBuilder) checkParamsMutable() error {
	switch b.state {
	case Fresh:
		return nil
	case Finalized:
		return ErrBuilderFinalized
	default:
		return ErrParamsAfterOutput
	}
}

func (b *DefragmentationMemoBuilder) id() uint64 {
	if b.defragID == nil {
		return 0
	}
	return *b.defragID
}
