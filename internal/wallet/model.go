package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyUSD is the only currency currently supported.
const CurrencyUSD = "USD"

// Wallet is an account holding a fixed-point balance (scale 2) in a single
// currency. The balance is never negative and is mutated only through the
// repository's increment/decrement primitives.
type Wallet struct {
	ID        string
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
}
