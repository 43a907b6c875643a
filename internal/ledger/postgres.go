package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nova-pay/nova_pay/internal/storage/pgtx"
)

// PostgresStore persists ledger entries in PostgreSQL. The schema carries the
// same invariants enforced here (amount > 0, recognized enum values), so a
// violation slipping past this layer still cannot reach disk.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append inserts one immutable entry and returns it with the generated id
// and timestamp. It participates in the transaction carried by ctx, if any.
func (s *PostgresStore) Append(ctx context.Context, walletID string, direction Direction, kind Kind, amount decimal.Decimal, referenceID string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	if !direction.Valid() || !kind.Valid() {
		return Transaction{}, ErrInvalidEnum
	}
	walletUUID, err := uuid.Parse(walletID)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse wallet id: %w", err)
	}
	refUUID, err := uuid.Parse(referenceID)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse reference id: %w", err)
	}

	q := pgtx.From(ctx, s.db)
	row := q.QueryRow(ctx, `INSERT INTO transactions (wallet_id, direction, kind, amount, reference_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`, walletUUID, string(direction), string(kind), amount, refUUID)

	entry := Transaction{
		WalletID:    walletID,
		Direction:   direction,
		Kind:        kind,
		Amount:      amount,
		ReferenceID: referenceID,
	}
	var createdAt time.Time
	if err := row.Scan(&entry.ID, &createdAt); err != nil {
		return Transaction{}, fmt.Errorf("append ledger entry: %w", err)
	}
	entry.CreatedAt = createdAt.UTC()
	return entry, nil
}

// ListByWallet returns all entries affecting one wallet, oldest first.
func (s *PostgresStore) ListByWallet(ctx context.Context, walletID string) ([]Transaction, error) {
	walletUUID, err := uuid.Parse(walletID)
	if err != nil {
		return nil, fmt.Errorf("parse wallet id: %w", err)
	}
	return s.list(ctx, `SELECT id, wallet_id, direction, kind, amount, reference_id, created_at
        FROM transactions WHERE wallet_id = $1 ORDER BY id`, walletUUID)
}

// ListByReference returns the entry group produced by one logical transfer,
// in the order the entries were written.
func (s *PostgresStore) ListByReference(ctx context.Context, referenceID string) ([]Transaction, error) {
	refUUID, err := uuid.Parse(referenceID)
	if err != nil {
		return nil, fmt.Errorf("parse reference id: %w", err)
	}
	return s.list(ctx, `SELECT id, wallet_id, direction, kind, amount, reference_id, created_at
        FROM transactions WHERE reference_id = $1 ORDER BY id`, refUUID)
}

func (s *PostgresStore) list(ctx context.Context, query string, arg any) ([]Transaction, error) {
	q := pgtx.From(ctx, s.db)
	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []Transaction
	for rows.Next() {
		var (
			entry     Transaction
			walletID  uuid.UUID
			refID     uuid.UUID
			direction string
			kind      string
			createdAt time.Time
		)
		if err := rows.Scan(&entry.ID, &walletID, &direction, &kind, &entry.Amount, &refID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entry.WalletID = walletID.String()
		entry.Direction = Direction(direction)
		entry.Kind = Kind(kind)
		entry.ReferenceID = refID.String()
		entry.CreatedAt = createdAt.UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

