package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateRoundTripJSON(t *testing.T) {
	d := NewDate(2025, time.June, 1)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"2025-06-01"` {
		t.Fatalf("unexpected encoding: %s", raw)
	}

	var parsed Date
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !parsed.Equal(d) {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, d)
	}
}

func TestDateScanAcceptsStringAndTime(t *testing.T) {
	var d Date
	if err := d.Scan("2025-06-03"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d.String() != "2025-06-03" {
		t.Fatalf("unexpected value: %s", d)
	}

	if err := d.Scan(time.Date(2025, time.June, 4, 18, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d.String() != "2025-06-04" {
		t.Fatalf("expected time to truncate to day, got %s", d)
	}
}

func TestDateAddDaysCrossesMonth(t *testing.T) {
	d := NewDate(2025, time.May, 30).AddDays(3)
	if d.String() != "2025-06-02" {
		t.Fatalf("unexpected date: %s", d)
	}
}
