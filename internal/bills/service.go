// Package bills produces the display-ready bill list for the current session.
package bills

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/billed-app/billed/internal/format"
	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/store"
)

// FetchError reports that the bill list could not be fetched from the store.
// It preserves the underlying failure verbatim so the caller can render it.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch bills: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ListService fetches the session's bills and normalizes them for display.
// It holds no state between calls: every GetBills is a fresh read-through,
// so concurrent calls from different callers are independent.
type ListService struct {
	client store.Client
}

// NewListService creates a ListService backed by the given store client.
// A nil client is allowed: GetBills then degrades to an empty list, which
// lets a list page render before the store is wired up.
func NewListService(client store.Client) *ListService {
	return &ListService{client: client}
}

// GetBills returns the session's bills sorted most-recent-first, with dates
// and statuses rendered for display.
//
// Ordering is decided on the raw ISO date strings, never on the formatted
// ones: lexicographic order of "4 Avr. 04"-style strings has nothing to do
// with chronology. Ties keep their fetch order. A record with a malformed
// date or an unknown status still comes back, with the raw value as a
// best-effort field; only transport failures abort the call, surfaced as a
// *FetchError.
func (s *ListService) GetBills(ctx context.Context) ([]models.DisplayBill, error) {
	if s.client == nil {
		slog.Debug("no store client configured, returning empty bill list")
		return []models.DisplayBill{}, nil
	}

	raw, err := s.client.ListBills(ctx)
	if err != nil {
		slog.Error("fetching bills failed", "error", err)
		return nil, &FetchError{Err: err}
	}

	// One snapshot per call: sort first, then format, so the display strings
	// can never influence the order.
	sorted := make([]models.Bill, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	display := make([]models.DisplayBill, 0, len(sorted))
	for _, bill := range sorted {
		label, err := format.Status(string(bill.Status))
		if err != nil {
			// Data-quality problem in one record must not take down the
			// whole list; fall back to the raw code as the label.
			slog.Warn("unrecognized bill status", "bill_id", bill.ID, "status", bill.Status)
			label = string(bill.Status)
		}
		display = append(display, models.NewDisplayBill(bill, format.Date(bill.Date), label))
	}

	slog.Info("bills listed", "count", len(display))
	return display, nil
}
