// Package format renders bill fields as the French short forms the UI shows.
// Both functions are pure and safe on arbitrary upstream data.
package format

import (
	"errors"
	"fmt"
	"time"

	"github.com/billed-app/billed/internal/models"
)

// ErrUnknownStatus is returned by FormatStatus for any code outside the
// three known bill statuses.
var ErrUnknownStatus = errors.New("unknown bill status")

// isoDate is the calendar-date layout bills carry on the wire.
const isoDate = "2006-01-02"

// frenchMonths are the abbreviated French month names, capitalized and cut
// to three letters the way the UI has always shown them. June and July
// collapse to the same abbreviation; that matches the historical rendering.
var frenchMonths = [12]string{
	"Jan.", "Fév.", "Mar.", "Avr.", "Mai.", "Jui.",
	"Jui.", "Aoû.", "Sep.", "Oct.", "Nov.", "Déc.",
}

// Date formats an ISO-8601 date string as a short French date, e.g.
// "2004-04-04" -> "4 Avr. 04". A string that does not parse as a calendar
// date is returned unchanged: malformed upstream data must degrade to
// verbatim passthrough, never break a list view.
func Date(raw string) string {
	t, err := time.Parse(isoDate, raw)
	if err != nil {
		return raw
	}
	return fmt.Sprintf("%d %s %02d", t.Day(), frenchMonths[t.Month()-1], t.Year()%100)
}

// Status maps a bill status code to its display label. Any other code is an
// error; the caller decides whether to surface it or fall back to the raw
// code.
func Status(code string) (string, error) {
	switch models.Status(code) {
	case models.StatusPending:
		return "En attente", nil
	case models.StatusAccepted:
		return "Accepté", nil
	case models.StatusRefused:
		return "Refusé", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, code)
	}
}
