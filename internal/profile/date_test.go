package profile_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dendro-dev/dendro/internal/profile"
)

func TestDateOfUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 01:30 on the 11th in UTC+9 is still the 10th in UTC.
	local := time.Date(2026, 3, 11, 1, 30, 0, 0, loc)
	got := profile.DateOf(local)
	want := profile.Date{Year: 2026, Month: 3, Day: 10}
	if got != want {
		t.Errorf("DateOf = %v, want %v", got, want)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := profile.Date{Year: 2026, Month: 3, Day: 1}
	if got := d.AddDays(-1); (got != profile.Date{Year: 2026, Month: 2, Day: 28}) {
		t.Errorf("AddDays(-1) = %v, want 2026-02-28", got)
	}
	if got := d.DaysUntil(d.AddDays(10)); got != 10 {
		t.Errorf("DaysUntil = %d, want 10", got)
	}
	if got := d.AddDays(5).DaysUntil(d); got != -5 {
		t.Errorf("DaysUntil(backwards) = %d, want -5", got)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := profile.Date{Year: 2026, Month: 3, Day: 10}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2026-03-10"` {
		t.Errorf("Marshal = %s, want \"2026-03-10\"", data)
	}
	var got profile.Date
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != d {
		t.Errorf("round-trip = %v, want %v", got, d)
	}
	if err := json.Unmarshal([]byte(`"March 10"`), &got); err == nil {
		t.Error("Unmarshal accepted a non-ISO date")
	}
	if err := json.Unmarshal([]byte(`42`), &got); err == nil {
		t.Error("Unmarshal accepted a number")
	}
}
