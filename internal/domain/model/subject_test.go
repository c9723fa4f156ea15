package model

import (
	"errors"
	"testing"
)

func TestParseSubjectID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr error
	}{
		{"simple", "42", 42, nil},
		{"beyond float64-safe range", "9007199254740993", 9007199254740993, nil},
		{"max int64", "9223372036854775807", 9223372036854775807, nil},
		{"zero", "0", 0, ErrInvalidSubjectID},
		{"negative", "-5", 0, ErrInvalidSubjectID},
		{"not a number", "abc", 0, ErrInvalidSubjectID},
		{"empty", "", 0, ErrInvalidSubjectID},
		{"overflow", "9223372036854775808", 0, ErrInvalidSubjectID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubjectID(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseSubjectID(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSubjectID(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatSubjectID_RoundTrip(t *testing.T) {
	const id = int64(9007199254740993)
	got, err := ParseSubjectID(FormatSubjectID(id))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got != id {
		t.Errorf("round trip = %d, want %d", got, id)
	}
}

func TestSubject_InSeries(t *testing.T) {
	seriesID := int64(7)
	if (&Subject{}).InSeries() {
		t.Error("subject without a series reports InSeries")
	}
	if !(&Subject{SeriesID: &seriesID}).InSeries() {
		t.Error("subject with a series does not report InSeries")
	}
}
