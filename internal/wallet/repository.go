package wallet

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the wallet id does not resolve to a wallet.
	ErrNotFound = errors.New("wallet not found")

	// ErrExists indicates a wallet with the same id already exists.
	ErrExists = errors.New("wallet exists")

	// ErrUnsupportedCurrency indicates a currency other than USD.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrInvalidBalance indicates a negative starting balance or one with
	// more than two decimal places.
	ErrInvalidBalance = errors.New("balance must be non-negative with at most two decimal places")
)

// Repository is the balance store. DecrementIfSufficient is the sole
// overdraft guard: the check and the mutation are indivisible under
// concurrent callers on the same wallet.
type Repository interface {
	Create(ctx context.Context, w Wallet) error
	Get(ctx context.Context, id string) (Wallet, error)
	GetBalance(ctx context.Context, id string) (decimal.Decimal, error)

	// DecrementIfSufficient atomically subtracts amount from the balance if
	// the current balance covers it, and reports whether it applied.
	DecrementIfSufficient(ctx context.Context, id string, amount decimal.Decimal) (bool, error)

	// Increment unconditionally adds amount to the balance. It fails only
	// when the wallet does not exist.
	Increment(ctx context.Context, id string, amount decimal.Decimal) error
}
