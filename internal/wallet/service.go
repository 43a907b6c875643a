package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nova-pay/nova_pay/internal/ledger"
)

// Service exposes wallet lifecycle and read operations.
type Service struct {
	repo    Repository
	entries ledger.Store
}

// NewService builds a wallet service instance.
func NewService(repo Repository, entries ledger.Store) *Service {
	return &Service{repo: repo, entries: entries}
}

// CreateInput captures data required to create a wallet.
type CreateInput struct {
	Currency string
	// Balance optionally seeds the wallet with starting funds. Zero when
	// left unset.
	Balance decimal.Decimal
}

// Create provisions a wallet. The starting balance must be non-negative
// with at most two decimal places; wallets are never deleted.
func (s *Service) Create(ctx context.Context, input CreateInput) (Wallet, error) {
	currency := input.Currency
	if currency == "" {
		currency = CurrencyUSD
	}
	if currency != CurrencyUSD {
		return Wallet{}, ErrUnsupportedCurrency
	}
	if input.Balance.IsNegative() || input.Balance.Exponent() < -2 {
		return Wallet{}, ErrInvalidBalance
	}

	w := Wallet{
		ID:        uuid.NewString(),
		Balance:   input.Balance,
		Currency:  currency,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return Wallet{}, err
	}

	return w, nil
}

// Get retrieves a wallet by id.
func (s *Service) Get(ctx context.Context, id string) (Wallet, error) {
	return s.repo.Get(ctx, id)
}

// Balance performs a point read of the wallet balance.
func (s *Service) Balance(ctx context.Context, id string) (decimal.Decimal, error) {
	return s.repo.GetBalance(ctx, id)
}

// Transactions lists the ledger entries affecting the wallet, oldest first.
func (s *Service) Transactions(ctx context.Context, id string) ([]ledger.Transaction, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.entries.ListByWallet(ctx, id)
}
