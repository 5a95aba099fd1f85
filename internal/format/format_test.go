package format

import (
	"errors"
	"testing"
)

func TestDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2004-04-04", "4 Avr. 04"},
		{"2001-01-01", "1 Jan. 01"},
		{"2002-02-02", "2 Fév. 02"},
		{"2003-03-03", "3 Mar. 03"},
		{"2021-05-10", "10 Mai. 21"},
		{"2021-06-15", "15 Jui. 21"},
		{"2021-07-15", "15 Jui. 21"}, // June and July share the abbreviation
		{"2020-08-09", "9 Aoû. 20"},
		{"2019-09-30", "30 Sep. 19"},
		{"2018-10-01", "1 Oct. 18"},
		{"2022-11-22", "22 Nov. 22"},
		{"2019-12-31", "31 Déc. 19"},
	}

	for _, tt := range tests {
		if got := Date(tt.raw); got != tt.want {
			t.Errorf("Date(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDate_MalformedInputPassesThrough(t *testing.T) {
	for _, raw := range []string{
		"not-a-date",
		"",
		"2004-13-45",
		"04/04/2004",
		"2004-04-04T00:00:00Z",
	} {
		if got := Date(raw); got != raw {
			t.Errorf("Date(%q) = %q, want input unchanged", raw, got)
		}
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"pending", "En attente"},
		{"accepted", "Accepté"},
		{"refused", "Refusé"},
	}

	for _, tt := range tests {
		got, err := Status(tt.code)
		if err != nil {
			t.Errorf("Status(%q) returned error: %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Status(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestStatus_UnknownCode(t *testing.T) {
	for _, code := range []string{"archived", "", "PENDING"} {
		_, err := Status(code)
		if !errors.Is(err, ErrUnknownStatus) {
			t.Errorf("Status(%q) error = %v, want ErrUnknownStatus", code, err)
		}
	}
}
