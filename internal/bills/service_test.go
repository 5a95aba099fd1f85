package bills

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/store"
)

// fakeClient is an in-memory store.Client with call counting.
type fakeClient struct {
	bills     []models.Bill
	listErr   error
	listCalls int
}

func (f *fakeClient) ListBills(ctx context.Context) ([]models.Bill, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.bills, nil
}

func (f *fakeClient) CreateBill(ctx context.Context, bill models.Bill) (*models.Bill, error) {
	return &bill, nil
}

func (f *fakeClient) UploadFile(ctx context.Context, file store.File) (*store.Upload, error) {
	return &store.Upload{FileURL: "/files/x", FileName: file.Name}, nil
}

func billOn(id, date string, status models.Status) models.Bill {
	return models.Bill{
		ID:     id,
		Email:  "a@a",
		Type:   "Transports",
		Name:   "facture " + id,
		Date:   date,
		Amount: decimal.NewFromInt(100),
		Status: status,
	}
}

func TestGetBills_OrderedMostRecentFirst(t *testing.T) {
	client := &fakeClient{bills: []models.Bill{
		billOn("b1", "2021-01-01", models.StatusPending),
		billOn("b2", "2023-05-02", models.StatusAccepted),
		billOn("b3", "2022-02-02", models.StatusRefused),
	}}

	got, err := NewListService(client).GetBills(context.Background())
	if err != nil {
		t.Fatalf("GetBills failed: %v", err)
	}

	wantOrder := []string{"b2", "b3", "b1"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d bills, got %d", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: got bill %s, want %s", i, got[i].ID, id)
		}
	}

	// Dates and statuses must be display forms, not raw codes.
	if got[0].Date != "2 Mai. 23" {
		t.Errorf("formatted date = %q, want %q", got[0].Date, "2 Mai. 23")
	}
	wantStatuses := []string{"Accepté", "Refusé", "En attente"}
	for i, want := range wantStatuses {
		if got[i].Status != want {
			t.Errorf("position %d: status = %q, want %q", i, got[i].Status, want)
		}
	}
}

func TestGetBills_StableOnEqualDates(t *testing.T) {
	client := &fakeClient{bills: []models.Bill{
		billOn("first", "2022-02-02", models.StatusPending),
		billOn("second", "2022-02-02", models.StatusPending),
	}}

	got, err := NewListService(client).GetBills(context.Background())
	if err != nil {
		t.Fatalf("GetBills failed: %v", err)
	}
	if got[0].ID != "first" || got[1].ID != "second" {
		t.Errorf("equal dates must keep fetch order, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestGetBills_MalformedDateSurvives(t *testing.T) {
	client := &fakeClient{bills: []models.Bill{
		billOn("ok", "2021-01-01", models.StatusPending),
		billOn("corrupt", "not-a-date", models.StatusPending),
	}}

	got, err := NewListService(client).GetBills(context.Background())
	if err != nil {
		t.Fatalf("GetBills must not fail on corrupt dates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(got))
	}

	var corrupt *models.DisplayBill
	for i := range got {
		if got[i].ID == "corrupt" {
			corrupt = &got[i]
		}
	}
	if corrupt == nil {
		t.Fatal("corrupt record missing from result")
	}
	if corrupt.Date != "not-a-date" {
		t.Errorf("corrupt date = %q, want verbatim passthrough", corrupt.Date)
	}
}

func TestGetBills_UnknownStatusFallsBackToRawCode(t *testing.T) {
	client := &fakeClient{bills: []models.Bill{
		billOn("b1", "2021-01-01", "archived"),
		billOn("b2", "2020-01-01", models.StatusPending),
	}}

	got, err := NewListService(client).GetBills(context.Background())
	if err != nil {
		t.Fatalf("one bad status must not abort the batch: %v", err)
	}
	if got[0].Status != "archived" {
		t.Errorf("status = %q, want raw code fallback %q", got[0].Status, "archived")
	}
	if got[1].Status != "En attente" {
		t.Errorf("status = %q, want %q", got[1].Status, "En attente")
	}
}

func TestGetBills_NilClientDegradesToEmptyList(t *testing.T) {
	got, err := NewListService(nil).GetBills(context.Background())
	if err != nil {
		t.Fatalf("nil client must not error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestGetBills_TransportFailureSurfacesAsFetchError(t *testing.T) {
	cause := &store.TransportError{Op: "list bills", Err: fmt.Errorf("Erreur 404")}
	client := &fakeClient{listErr: cause}

	_, err := NewListService(client).GetBills(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T (%v)", err, err)
	}
	if !errors.Is(err, cause) {
		t.Error("FetchError must wrap the original failure")
	}
	if want := "Erreur 404"; !strings.Contains(fetchErr.Error(), want) {
		t.Errorf("error %q must carry the original message %q", fetchErr.Error(), want)
	}
}

func TestGetBills_Idempotent(t *testing.T) {
	client := &fakeClient{bills: []models.Bill{
		billOn("b1", "2021-01-01", models.StatusPending),
		billOn("b2", "2023-05-02", models.StatusAccepted),
	}}
	svc := NewListService(client)

	first, err := svc.GetBills(context.Background())
	if err != nil {
		t.Fatalf("first GetBills failed: %v", err)
	}
	second, err := svc.GetBills(context.Background())
	if err != nil {
		t.Fatalf("second GetBills failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two calls with no store mutation must return equal sequences")
	}
	if client.listCalls != 2 {
		t.Errorf("each call must be a fresh read-through, got %d store calls", client.listCalls)
	}
}
