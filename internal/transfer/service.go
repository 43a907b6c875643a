package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nova-pay/nova_pay/internal/ledger"
	"github.com/nova-pay/nova_pay/internal/notification"
	"github.com/nova-pay/nova_pay/internal/wallet"
)

var (
	// ErrInvalidAmount indicates a non-positive amount or one with more than
	// two decimal places. Rejected before any store call.
	ErrInvalidAmount = errors.New("amount must be a positive value with at most two decimal places")

	// ErrInsufficientBalance indicates the source wallet cannot cover the
	// amount plus commission. The attempt has no side effects.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

var oneHundred = decimal.NewFromInt(100)

// Config carries the fixed engine parameters, injected at construction so
// tests can vary them.
type Config struct {
	// CommissionThreshold is the amount above which a commission applies.
	CommissionThreshold decimal.Decimal
	// CommissionPercent is the commission rate applied to the full amount.
	CommissionPercent decimal.Decimal
	// AdminWalletID is the wallet credited with collected commissions.
	AdminWalletID string
}

// TxRunner executes fn as one atomic unit: every store mutation made inside
// fn commits together or none of them do.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the transfer engine. It debits the source, credits the
// destination, routes the commission to the admin wallet, and writes the
// linked ledger entries, all inside a single atomic unit.
type Service struct {
	cfg        Config
	wallets    wallet.Repository
	entries    ledger.Store
	tx         TxRunner
	dispatcher *notification.Dispatcher
}

// NewService builds a transfer engine. The dispatcher may be nil, in which
// case no notifications are produced.
func NewService(cfg Config, wallets wallet.Repository, entries ledger.Store, tx TxRunner, dispatcher *notification.Dispatcher) *Service {
	return &Service{cfg: cfg, wallets: wallets, entries: entries, tx: tx, dispatcher: dispatcher}
}

// Result describes a committed transfer. Entries appear in the order they
// were written and all share ReferenceID.
type Result struct {
	ReferenceID string
	Amount      decimal.Decimal
	Commission  decimal.Decimal
	Entries     []ledger.Transaction
}

// Transfer moves amount from one wallet to another. Above the commission
// threshold a fee is additionally debited from the sender and credited to the
// admin wallet. Exactly two outcomes are observable: the full entry group
// with its balance effects, or nothing.
func (s *Service) Transfer(ctx context.Context, walletFrom, walletTo string, amount decimal.Decimal) (Result, error) {
	if !amount.IsPositive() || amount.Exponent() < -2 {
		return Result{}, ErrInvalidAmount
	}

	commission := s.commissionFor(amount)
	totalDebit := amount.Add(commission)

	res := Result{Amount: amount, Commission: commission}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// The conditional decrement is the sole overdraft guard; no separate
		// balance read happens anywhere in this unit.
		ok, err := s.wallets.DecrementIfSufficient(ctx, walletFrom, totalDebit)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientBalance
		}

		if err := s.wallets.Increment(ctx, walletTo, amount); err != nil {
			return err
		}

		res.ReferenceID = uuid.NewString()

		entry, err := s.entries.Append(ctx, walletFrom, ledger.DirectionDebit, ledger.KindTransfer, amount, res.ReferenceID)
		if err != nil {
			return err
		}
		res.Entries = append(res.Entries, entry)

		if commission.IsPositive() {
			entry, err = s.entries.Append(ctx, walletFrom, ledger.DirectionDebit, ledger.KindFee, commission, res.ReferenceID)
			if err != nil {
				return err
			}
			res.Entries = append(res.Entries, entry)

			if err := s.wallets.Increment(ctx, s.cfg.AdminWalletID, commission); err != nil {
				return err
			}
			entry, err = s.entries.Append(ctx, s.cfg.AdminWalletID, ledger.DirectionCredit, ledger.KindFee, commission, res.ReferenceID)
			if err != nil {
				return err
			}
			res.Entries = append(res.Entries, entry)
		}

		entry, err = s.entries.Append(ctx, walletTo, ledger.DirectionCredit, ledger.KindTransfer, amount, res.ReferenceID)
		if err != nil {
			return err
		}
		res.Entries = append(res.Entries, entry)

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	// Post-commit, outside the atomic unit. Delivery is best-effort and can
	// never affect the committed transfer.
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(notification.Message{
			Kind:     notification.KindTransferReceived,
			WalletID: walletTo,
			Body:     fmt.Sprintf("Received %s", amount.StringFixed(2)),
		})
	}

	return res, nil
}

// Reference returns the entry group written by one committed transfer.
func (s *Service) Reference(ctx context.Context, referenceID string) ([]ledger.Transaction, error) {
	return s.entries.ListByReference(ctx, referenceID)
}

// commissionFor applies the configured rate above the threshold, rounded
// half-up to two decimal places.
func (s *Service) commissionFor(amount decimal.Decimal) decimal.Decimal {
	if amount.GreaterThan(s.cfg.CommissionThreshold) {
		return amount.Mul(s.cfg.CommissionPercent).Div(oneHundred).Round(2)
	}
	return decimal.Zero
}
