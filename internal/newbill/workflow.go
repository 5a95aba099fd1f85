// Package newbill implements the submission workflow for a new expense claim.
//
// The original form flow was a tangle of UI event callbacks; here it is an
// explicit state machine so the logic can be driven and tested without any
// event system:
//
//	Idle -> FileAttached -> Submitting -> {Persisted | SubmitFailed}
//
// Each Workflow instance owns exactly one draft for the lifetime of one form
// session. A workflow is a single logical flow of control; it is not meant
// to be shared across goroutines.
package newbill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/store"
)

// State identifies where a workflow is in the submission lifecycle.
type State string

const (
	StateIdle         State = "idle"
	StateFileAttached State = "file_attached"
	StateSubmitting   State = "submitting"
	StatePersisted    State = "persisted"
	StateSubmitFailed State = "submit_failed"
)

// RouteBills is the navigation target invoked after a successful submit.
const RouteBills = "#employee/bills"

// ErrConcurrentModification is returned when an attachment change is
// attempted while a submit is in flight.
var ErrConcurrentModification = errors.New("attachment change rejected: submit in flight")

// ValidationError reports required form fields that are missing. No store
// call is attempted when it is returned; the user stays on the form.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// SubmitError reports that the store rejected a well-formed submission.
// The draft is preserved so the user can retry unchanged.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit bill: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// FormFields is the editable content of the new-bill form. Type, Name, Date
// and Amount are required; everything else is optional and persisted as
// given (pct in particular is never defaulted here).
type FormFields struct {
	Type       string          `validate:"required"`
	Name       string          `validate:"required"`
	Date       string          `validate:"required"`
	Amount     decimal.Decimal `validate:"required"`
	Vat        decimal.Decimal
	Pct        int
	Commentary string
}

// Draft is the in-progress state of one form session: the last submitted
// form fields plus the persisted reference of an accepted attachment.
type Draft struct {
	FormFields
	FileURL  string
	FileName string
}

var validate = validator.New()

// acceptedTypes maps the accepted attachment extensions to their MIME types.
// Receipts are images only; the backend refuses everything else anyway.
var acceptedTypes = map[string][]string{
	".jpg":  {"image/jpeg", "image/jpg"},
	".jpeg": {"image/jpeg", "image/jpg"},
	".png":  {"image/png"},
}

// IsValidFile reports whether file is an acceptable receipt: a .jpg, .jpeg
// or .png filename (any case) with a matching image MIME type. A nil file
// is simply invalid, never a panic.
func IsValidFile(file *store.File) bool {
	if file == nil {
		return false
	}
	mimes, ok := acceptedTypes[strings.ToLower(filepath.Ext(file.Name))]
	if !ok {
		return false
	}
	ct := strings.ToLower(file.ContentType)
	for _, m := range mimes {
		if ct == m {
			return true
		}
	}
	return false
}

// Workflow drives one new-bill form session against the store.
type Workflow struct {
	client     store.Client
	session    models.Session
	onNavigate func(route string)

	state State
	draft Draft
}

// NewWorkflow creates a workflow in the Idle state. onNavigate is invoked
// with RouteBills after a successful submit; it may be nil.
func NewWorkflow(client store.Client, session models.Session, onNavigate func(route string)) *Workflow {
	return &Workflow{
		client:     client,
		session:    session,
		onNavigate: onNavigate,
		state:      StateIdle,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	return w.state
}

// Draft returns a copy of the current draft.
func (w *Workflow) Draft() Draft {
	return w.draft
}

// AttachFile validates the selected file and, if acceptable, uploads it and
// records the returned fileUrl/fileName on the draft.
//
// An invalid selection is not an error: the state drops back to Idle and any
// previously attached file is cleared, so a stale valid attachment can never
// ride along with a rejected new one. During an in-flight submit the call is
// refused with ErrConcurrentModification. An upload failure surfaces the
// store's *TransportError and leaves the workflow in Idle.
func (w *Workflow) AttachFile(ctx context.Context, file *store.File) error {
	if w.state == StateSubmitting {
		return ErrConcurrentModification
	}

	if !IsValidFile(file) {
		w.draft.FileURL = ""
		w.draft.FileName = ""
		w.state = StateIdle
		if file != nil {
			slog.Warn("rejected attachment", "file", file.Name, "content_type", file.ContentType)
		}
		return nil
	}

	upload, err := w.client.UploadFile(ctx, *file)
	if err != nil {
		w.draft.FileURL = ""
		w.draft.FileName = ""
		w.state = StateIdle
		slog.Error("attachment upload failed", "file", file.Name, "error", err)
		return err
	}

	w.draft.FileURL = upload.FileURL
	w.draft.FileName = upload.FileName
	w.state = StateFileAttached
	slog.Info("attachment uploaded", "file", upload.FileName)
	return nil
}

// Submit assembles a bill from the form and the draft's attachment and sends
// it to the store. New submissions are always persisted with status pending
// and the session's email.
//
// Missing required fields raise a *ValidationError before any store call and
// leave the state untouched. A store failure raises a *SubmitError, moves
// the workflow to SubmitFailed and keeps the draft intact for a retry. On
// success the draft is destroyed, the state becomes Persisted and the
// navigation callback is invoked with RouteBills.
func (w *Workflow) Submit(ctx context.Context, form FormFields) error {
	if w.state == StateSubmitting {
		return ErrConcurrentModification
	}

	if err := validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		missing := []string{}
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				missing = append(missing, strings.ToLower(fe.Field()))
			}
		}
		slog.Warn("submission rejected", "missing", missing)
		return &ValidationError{Missing: missing}
	}

	w.draft.FormFields = form
	w.state = StateSubmitting

	bill := models.Bill{
		Email:      w.session.Email,
		Type:       form.Type,
		Name:       form.Name,
		Date:       form.Date,
		Amount:     form.Amount,
		Vat:        form.Vat,
		Pct:        form.Pct,
		Commentary: form.Commentary,
		FileURL:    w.draft.FileURL,
		FileName:   w.draft.FileName,
		Status:     models.StatusPending,
	}

	created, err := w.client.CreateBill(ctx, bill)
	if err != nil {
		w.state = StateSubmitFailed
		slog.Error("bill submission failed", "error", err)
		return &SubmitError{Err: err}
	}

	w.state = StatePersisted
	w.draft = Draft{}
	slog.Info("bill submitted", "bill_id", created.ID)

	if w.onNavigate != nil {
		w.onNavigate(RouteBills)
	}
	return nil
}
