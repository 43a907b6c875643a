package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount occurs when a caller tries to append an entry with a
	// non-positive amount. Direction encodes sign; amounts are always positive.
	ErrInvalidAmount = errors.New("ledger amount must be positive")

	// ErrInvalidEnum indicates an unrecognized direction or kind value.
	ErrInvalidEnum = errors.New("unknown ledger direction or kind")
)

// Direction marks which side of a balance movement an entry records.
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// Valid reports whether the direction is one of the recognized values.
func (d Direction) Valid() bool {
	switch d {
	case DirectionDebit, DirectionCredit:
		return true
	default:
		return false
	}
}

// Kind classifies the business meaning of an entry.
type Kind string

const (
	KindTransfer Kind = "transfer"
	KindFee      Kind = "fee"
	KindRefund   Kind = "refund"
)

// Valid reports whether the kind is one of the recognized values.
func (k Kind) Valid() bool {
	switch k {
	case KindTransfer, KindFee, KindRefund:
		return true
	default:
		return false
	}
}

// Transaction is one immutable ledger entry recording a single-sided balance
// movement on a wallet. Entries that share a ReferenceID were produced by the
// same logical transfer.
type Transaction struct {
	ID          int64
	WalletID    string
	Direction   Direction
	Kind        Kind
	Amount      decimal.Decimal
	ReferenceID string
	CreatedAt   time.Time
}

// Store is the append-only ledger contract. Entries are created once and
// never updated or deleted; the store assigns the monotonic ID and timestamp.
type Store interface {
	Append(ctx context.Context, walletID string, direction Direction, kind Kind, amount decimal.Decimal, referenceID string) (Transaction, error)
	ListByWallet(ctx context.Context, walletID string) ([]Transaction, error)
	ListByReference(ctx context.Context, referenceID string) ([]Transaction, error)
}
