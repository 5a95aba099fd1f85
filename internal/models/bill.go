package models

import "github.com/shopspring/decimal"

// Status is the lifecycle state of a bill as stored by the backend.
type Status string

const (
	// StatusPending is the state of every freshly submitted bill.
	StatusPending Status = "pending"

	// StatusAccepted means an admin approved the claim for reimbursement.
	StatusAccepted Status = "accepted"

	// StatusRefused means an admin rejected the claim.
	StatusRefused Status = "refused"
)

// DefaultPct is the reimbursement percentage assumed for display when a bill
// carries none. It is a display-time fallback only: bills are persisted with
// whatever pct the form provided, absent included.
const DefaultPct = 20

// Bill represents one submitted expense claim.
// The JSON tags are the wire format of the store API; the REST client and the
// server handlers both marshal this struct directly.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	// Assigned by the store on creation, immutable afterwards.
	ID string `json:"id"`

	// Email identifies the employee who owns the claim.
	Email string `json:"email"`

	// Type is the expense category (e.g. "Transports", "Restaurants et bars").
	// Free text in practice: the set of categories is open.
	Type string `json:"type"`

	// Name is a short label the employee gave the claim.
	Name string `json:"name"`

	// Date is the expense date as an ISO-8601 calendar date (YYYY-MM-DD).
	// Kept as a string: upstream data occasionally carries malformed dates
	// and those must survive a round trip unchanged.
	Date string `json:"date"`

	// Amount is the claimed amount. Single implied currency.
	Amount decimal.Decimal `json:"amount"`

	// Vat is the value-added-tax portion of the amount, when provided.
	Vat decimal.Decimal `json:"vat,omitempty"`

	// Pct is the reimbursement percentage (0-100). Zero means absent; see
	// DefaultPct for the display-time fallback.
	Pct int `json:"pct,omitempty"`

	// Commentary is optional free text attached by the employee.
	Commentary string `json:"commentary,omitempty"`

	// FileURL and FileName reference the uploaded receipt. Both are empty
	// until a file upload succeeds.
	FileURL  string `json:"fileUrl,omitempty"`
	FileName string `json:"fileName,omitempty"`

	// Status is one of pending, accepted, refused.
	Status Status `json:"status"`

	// CreatedAt is the Unix timestamp when the bill was persisted.
	// Set by the store, not by clients.
	CreatedAt int64 `json:"createdAt,omitempty"`
}

// DisplayBill is a Bill prepared for rendering: the date is a localized
// short-form string, the status a human label, and pct has the display
// default applied. Derived, never persisted.
type DisplayBill struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Vat        decimal.Decimal `json:"vat,omitempty"`
	Pct        int             `json:"pct"`
	Commentary string          `json:"commentary,omitempty"`
	FileURL    string          `json:"fileUrl,omitempty"`
	FileName   string          `json:"fileName,omitempty"`
	Status     string          `json:"status"`
}

// NewDisplayBill builds a DisplayBill from a raw bill and its already
// formatted date and status. Pct falls back to DefaultPct when the record
// carries none; the underlying bill is left untouched.
func NewDisplayBill(bill Bill, date, status string) DisplayBill {
	pct := bill.Pct
	if pct == 0 {
		pct = DefaultPct
	}
	return DisplayBill{
		ID:         bill.ID,
		Email:      bill.Email,
		Type:       bill.Type,
		Name:       bill.Name,
		Date:       date,
		Amount:     bill.Amount,
		Vat:        bill.Vat,
		Pct:        pct,
		Commentary: bill.Commentary,
		FileURL:    bill.FileURL,
		FileName:   bill.FileName,
		Status:     status,
	}
}
