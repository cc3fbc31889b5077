package reservations

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2030-01-15", want: "2030-01-15"},
		{in: " 2030-01-15 ", want: "2030-01-15"},
		{in: "2030-01-15T23:30:00-05:00", want: "2030-01-15"},
		{in: "2030-02-30", wantErr: true},
		{in: "15/01/2030", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseDate(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tc.in, err)
		}
		if FormatDate(got) != tc.want || got.Location() != time.UTC || got.Hour() != 0 {
			t.Fatalf("ParseDate(%q) = %v, want %s at midnight UTC", tc.in, got, tc.want)
		}
	}
}

func TestIsFutureDayUsesLocation(t *testing.T) {
	day, _ := ParseDate("2030-01-11")
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 2030-01-11 02:00 UTC is still 2030-01-10 in New York.
	now := time.Date(2030, 1, 11, 2, 0, 0, 0, time.UTC)
	if isFutureDay(day, time.UTC, now) {
		t.Fatalf("same UTC day must not be future")
	}
	if !isFutureDay(day, ny, now) {
		t.Fatalf("next New York day must be future")
	}
}

func TestGenerateConfirmationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateConfirmationCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !codePattern.MatchString(code) {
			t.Fatalf("unexpected code %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Fatalf("codes are not random enough: %d unique", len(seen))
	}
}
