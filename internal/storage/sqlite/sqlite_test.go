package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/billed-app/billed/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "billed-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore_Bills(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateBill assigns ID, timestamp and pending status", func(t *testing.T) {
		bill := &models.Bill{
			Email:  "employee@billed.test",
			Type:   "Transports",
			Name:   "vol Paris Londres",
			Date:   "2023-05-02",
			Amount: decimal.RequireFromString("348.50"),
			Vat:    decimal.NewFromInt(70),
			Pct:    20,
		}

		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		if bill.ID == "" {
			t.Error("Expected bill ID to be generated")
		}
		if bill.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		if bill.Status != models.StatusPending {
			t.Errorf("Status = %s, want pending default", bill.Status)
		}
	})

	t.Run("GetBill round-trips every field", func(t *testing.T) {
		original := &models.Bill{
			Email:      "employee@billed.test",
			Type:       "Restaurants et bars",
			Name:       "déjeuner client",
			Date:       "2022-02-02",
			Amount:     decimal.RequireFromString("52.90"),
			Vat:        decimal.RequireFromString("8.80"),
			Pct:        10,
			Commentary: "déjeuner avec le client",
			FileURL:    "/files/abc.jpg",
			FileName:   "ticket.jpg",
			Status:     models.StatusAccepted,
		}
		if err := store.CreateBill(ctx, original); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		retrieved, err := store.GetBill(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}

		if retrieved.Name != original.Name || retrieved.Type != original.Type {
			t.Errorf("label mismatch: got %q/%q", retrieved.Type, retrieved.Name)
		}
		if retrieved.Date != original.Date {
			t.Errorf("Date = %q, want %q", retrieved.Date, original.Date)
		}
		if !retrieved.Amount.Equal(original.Amount) {
			t.Errorf("Amount = %s, want %s", retrieved.Amount, original.Amount)
		}
		if !retrieved.Vat.Equal(original.Vat) {
			t.Errorf("Vat = %s, want %s", retrieved.Vat, original.Vat)
		}
		if retrieved.Pct != original.Pct {
			t.Errorf("Pct = %d, want %d", retrieved.Pct, original.Pct)
		}
		if retrieved.FileURL != original.FileURL || retrieved.FileName != original.FileName {
			t.Errorf("attachment mismatch: %q/%q", retrieved.FileURL, retrieved.FileName)
		}
		if retrieved.Status != models.StatusAccepted {
			t.Errorf("Status = %s, want accepted", retrieved.Status)
		}
	})

	t.Run("GetBill fails for unknown ID", func(t *testing.T) {
		if _, err := store.GetBill(ctx, "no-such-bill"); err == nil {
			t.Error("expected error for unknown bill ID")
		}
	})

	t.Run("ListBillsByEmail filters by owner in insertion order", func(t *testing.T) {
		store := newTestStore(t)

		for _, b := range []*models.Bill{
			{Email: "a@a", Type: "Transports", Name: "first", Date: "2021-01-01", Amount: decimal.NewFromInt(10)},
			{Email: "b@b", Type: "Transports", Name: "other owner", Date: "2021-01-02", Amount: decimal.NewFromInt(20)},
			{Email: "a@a", Type: "Transports", Name: "second", Date: "2021-01-03", Amount: decimal.NewFromInt(30)},
		} {
			if err := store.CreateBill(ctx, b); err != nil {
				t.Fatalf("CreateBill failed: %v", err)
			}
		}

		bills, err := store.ListBillsByEmail(ctx, "a@a")
		if err != nil {
			t.Fatalf("ListBillsByEmail failed: %v", err)
		}
		if len(bills) != 2 {
			t.Fatalf("expected 2 bills for a@a, got %d", len(bills))
		}
		if bills[0].Name != "first" || bills[1].Name != "second" {
			t.Errorf("wrong order: %s, %s", bills[0].Name, bills[1].Name)
		}
	})
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("employee@billed.test", models.RoleEmployee, "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("GetUserByEmail returns the stored user", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "employee@billed.test")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected user, got nil")
		}
		if got.ID != user.ID || got.Type != models.RoleEmployee || got.PasswordHash != "hash" {
			t.Errorf("user mismatch: %+v", got)
		}
	})

	t.Run("GetUserByEmail returns nil for unknown email", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@billed.test")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := models.NewUser("employee@billed.test", models.RoleAdmin, "hash2")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("expected unique constraint error")
		}
	})
}
