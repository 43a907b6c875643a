package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nova-pay/nova_pay/internal/storage/pgtx"
)

const uniqueViolation = "23505"

// PostgresRepository stores wallets in PostgreSQL. The wallets table carries
// a CHECK (balance >= 0) constraint, so the non-negative invariant holds even
// if a caller bypasses DecrementIfSufficient.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a wallet record.
func (r *PostgresRepository) Create(ctx context.Context, w Wallet) error {
	walletUUID, err := uuid.Parse(w.ID)
	if err != nil {
		return fmt.Errorf("parse wallet id: %w", err)
	}
	q := pgtx.From(ctx, r.db)
	_, err = q.Exec(ctx, `INSERT INTO wallets (id, balance, currency, created_at)
        VALUES ($1, $2, $3, $4)`, walletUUID, w.Balance, w.Currency, w.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrExists
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// Get fetches a wallet by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Wallet, error) {
	walletUUID, err := uuid.Parse(id)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	q := pgtx.From(ctx, r.db)
	row := q.QueryRow(ctx, `SELECT id, balance, currency, created_at
        FROM wallets WHERE id = $1`, walletUUID)

	var (
		w         Wallet
		idVal     uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&idVal, &w.Balance, &w.Currency, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, fmt.Errorf("select wallet: %w", err)
	}
	w.ID = idVal.String()
	w.CreatedAt = createdAt.UTC()
	return w, nil
}

// GetBalance performs a point read of the current balance.
func (r *PostgresRepository) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	walletUUID, err := uuid.Parse(id)
	if err != nil {
		return decimal.Zero, ErrNotFound
	}
	q := pgtx.From(ctx, r.db)
	var balance decimal.Decimal
	if err := q.QueryRow(ctx, `SELECT balance FROM wallets WHERE id = $1`, walletUUID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("select balance: %w", err)
	}
	return balance, nil
}

// DecrementIfSufficient debits the wallet only when the balance covers the
// amount. The conditional UPDATE evaluates check and write as one statement,
// so two concurrent debits can never both drain the same funds.
func (r *PostgresRepository) DecrementIfSufficient(ctx context.Context, id string, amount decimal.Decimal) (bool, error) {
	walletUUID, err := uuid.Parse(id)
	if err != nil {
		return false, ErrNotFound
	}
	q := pgtx.From(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE wallets
        SET balance = balance - $2
        WHERE id = $1
          AND balance >= $2`, walletUUID, amount)
	if err != nil {
		return false, fmt.Errorf("decrement balance: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// Zero rows means either the wallet is missing or the funds are short.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1)`, walletUUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("probe wallet: %w", err)
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}

// Increment credits the wallet unconditionally.
func (r *PostgresRepository) Increment(ctx context.Context, id string, amount decimal.Decimal) error {
	walletUUID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	q := pgtx.From(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE wallets
        SET balance = balance + $2
        WHERE id = $1`, walletUUID, amount)
	if err != nil {
		return fmt.Errorf("increment balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
