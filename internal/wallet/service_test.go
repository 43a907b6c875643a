package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nova-pay/nova_pay/internal/storage/memory"
	"github.com/nova-pay/nova_pay/internal/wallet"
)

func TestServiceCreateAndGet(t *testing.T) {
	mem := memory.New()
	svc := wallet.NewService(mem, mem)
	ctx := context.Background()

	w, err := svc.Create(ctx, wallet.CreateInput{})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if w.Currency != wallet.CurrencyUSD {
		t.Fatalf("expected default currency %s, got %s", wallet.CurrencyUSD, w.Currency)
	}
	if !w.Balance.IsZero() {
		t.Fatalf("expected zero starting balance, got %s", w.Balance)
	}

	fetched, err := svc.Get(ctx, w.ID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if fetched.ID != w.ID {
		t.Fatalf("expected wallet %s, got %s", w.ID, fetched.ID)
	}

	balance, err := svc.Balance(ctx, w.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", balance)
	}
}

func TestServiceCreateSeededBalance(t *testing.T) {
	mem := memory.New()
	svc := wallet.NewService(mem, mem)
	ctx := context.Background()

	w, err := svc.Create(ctx, wallet.CreateInput{Balance: decimal.RequireFromString("250.00")})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	balance, err := svc.Balance(ctx, w.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("250.00")) {
		t.Fatalf("expected seeded balance 250.00, got %s", balance)
	}
}

func TestServiceCreateInvalidBalance(t *testing.T) {
	mem := memory.New()
	svc := wallet.NewService(mem, mem)
	ctx := context.Background()

	for _, balance := range []string{"-1.00", "10.005"} {
		input := wallet.CreateInput{Balance: decimal.RequireFromString(balance)}
		if _, err := svc.Create(ctx, input); !errors.Is(err, wallet.ErrInvalidBalance) {
			t.Fatalf("balance %s: expected wallet.ErrInvalidBalance, got %v", balance, err)
		}
	}
}

func TestServiceCreateUnsupportedCurrency(t *testing.T) {
	mem := memory.New()
	svc := wallet.NewService(mem, mem)

	if _, err := svc.Create(context.Background(), wallet.CreateInput{Currency: "EUR"}); !errors.Is(err, wallet.ErrUnsupportedCurrency) {
		t.Fatalf("expected wallet.ErrUnsupportedCurrency, got %v", err)
	}
}

func TestServiceUnknownWallet(t *testing.T) {
	mem := memory.New()
	svc := wallet.NewService(mem, mem)
	ctx := context.Background()

	if _, err := svc.Get(ctx, uuid.NewString()); !errors.Is(err, wallet.ErrNotFound) {
		t.Fatalf("expected wallet.ErrNotFound, got %v", err)
	}
	if _, err := svc.Balance(ctx, uuid.NewString()); !errors.Is(err, wallet.ErrNotFound) {
		t.Fatalf("expected wallet.ErrNotFound, got %v", err)
	}
	if _, err := svc.Transactions(ctx, uuid.NewString()); !errors.Is(err, wallet.ErrNotFound) {
		t.Fatalf("expected wallet.ErrNotFound, got %v", err)
	}
}

func TestServiceTransactionsEmpty(t *testing.T) {
	mem := memory.New()
	svc := wallet.NewService(mem, mem)
	ctx := context.Background()

	w, err := svc.Create(ctx, wallet.CreateInput{Currency: wallet.CurrencyUSD})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	entries, err := svc.Transactions(ctx, w.ID)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries for a fresh wallet, got %d", len(entries))
	}
}
