package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nova-pay/nova_pay/internal/ledger"
	"github.com/nova-pay/nova_pay/internal/wallet"
)

// Store keeps wallets and ledger entries in memory behind a single mutex.
// It implements the balance store, the ledger store, and the transaction
// runner, which makes it a drop-in backend for unit tests and for running
// the server without a database.
type Store struct {
	mu      sync.RWMutex
	txMu    sync.Mutex
	wallets map[string]wallet.Wallet
	entries []ledger.Transaction
	nextID  int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{wallets: make(map[string]wallet.Wallet)}
}

// WithinTx serializes the unit against all other units and rolls the whole
// store back to its pre-unit state when fn fails. Equivalent to a database
// transaction with exclusive locking.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	wallets, entries, nextID := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(wallets, entries, nextID)
		return err
	}
	return nil
}

func (s *Store) snapshot() (map[string]wallet.Wallet, []ledger.Transaction, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallets := make(map[string]wallet.Wallet, len(s.wallets))
	for id, w := range s.wallets {
		wallets[id] = w
	}
	entries := make([]ledger.Transaction, len(s.entries))
	copy(entries, s.entries)
	return wallets, entries, s.nextID
}

func (s *Store) restore(wallets map[string]wallet.Wallet, entries []ledger.Transaction, nextID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wallets = wallets
	s.entries = entries
	s.nextID = nextID
}

// Create inserts a wallet.
func (s *Store) Create(_ context.Context, w wallet.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.wallets[w.ID]; exists {
		return wallet.ErrExists
	}
	if w.Balance.IsNegative() {
		return fmt.Errorf("wallet %s: balance must not be negative", w.ID)
	}
	s.wallets[w.ID] = w
	return nil
}

// Get fetches a wallet by id.
func (s *Store) Get(_ context.Context, id string) (wallet.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[id]
	if !ok {
		return wallet.Wallet{}, wallet.ErrNotFound
	}
	return w, nil
}

// GetBalance performs a point read of the balance.
func (s *Store) GetBalance(_ context.Context, id string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[id]
	if !ok {
		return decimal.Zero, wallet.ErrNotFound
	}
	return w.Balance, nil
}

// DecrementIfSufficient debits the wallet only when the balance covers the
// amount. Check and write happen under one lock acquisition.
func (s *Store) DecrementIfSufficient(_ context.Context, id string, amount decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[id]
	if !ok {
		return false, wallet.ErrNotFound
	}
	if w.Balance.LessThan(amount) {
		return false, nil
	}
	w.Balance = w.Balance.Sub(amount)
	if w.Balance.IsNegative() {
		return false, fmt.Errorf("wallet %s: balance invariant violated", id)
	}
	s.wallets[id] = w
	return true, nil
}

// Increment credits the wallet unconditionally.
func (s *Store) Increment(_ context.Context, id string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[id]
	if !ok {
		return wallet.ErrNotFound
	}
	w.Balance = w.Balance.Add(amount)
	s.wallets[id] = w
	return nil
}

// Append creates one immutable ledger entry with a monotonic id.
func (s *Store) Append(_ context.Context, walletID string, direction ledger.Direction, kind ledger.Kind, amount decimal.Decimal, referenceID string) (ledger.Transaction, error) {
	if !amount.IsPositive() {
		return ledger.Transaction{}, ledger.ErrInvalidAmount
	}
	if !direction.Valid() || !kind.Valid() {
		return ledger.Transaction{}, ledger.ErrInvalidEnum
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[walletID]; !ok {
		return ledger.Transaction{}, wallet.ErrNotFound
	}

	s.nextID++
	entry := ledger.Transaction{
		ID:          s.nextID,
		WalletID:    walletID,
		Direction:   direction,
		Kind:        kind,
		Amount:      amount,
		ReferenceID: referenceID,
		CreatedAt:   time.Now().UTC(),
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

// ListByWallet returns all entries affecting one wallet, oldest first.
func (s *Store) ListByWallet(_ context.Context, walletID string) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ledger.Transaction
	for _, e := range s.entries {
		if e.WalletID == walletID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListByReference returns the entry group of one logical transfer.
func (s *Store) ListByReference(_ context.Context, referenceID string) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ledger.Transaction
	for _, e := range s.entries {
		if e.ReferenceID == referenceID {
			out = append(out, e)
		}
	}
	return out, nil
}
