// ABOUTME: Tests for the fecha column scanner.
// ABOUTME: Verifies driver-native times and SQLite text layouts.
package storage

import (
	"testing"
	"time"
)

func TestTimestampScan(t *testing.T) {
	want := time.Date(2025, 1, 31, 8, 30, 15, 0, time.UTC)

	tests := []struct {
		name string
		src  any
		want time.Time
	}{
		{"time value", want, want},
		{"sqlite current_timestamp", "2025-01-31 08:30:15", want},
		{"bytes", []byte("2025-01-31 08:30:15"), want},
		{"rfc3339", "2025-01-31T08:30:15Z", want},
		{"fractional seconds", "2025-01-31 08:30:15.000", want},
		{"null", nil, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts timestamp
			if err := ts.Scan(tt.src); err != nil {
				t.Fatalf("Scan(%v) failed: %v", tt.src, err)
			}
			if !ts.Time.Equal(tt.want) {
				t.Errorf("Scan(%v) = %v, want %v", tt.src, ts.Time, tt.want)
			}
		})
	}
}

func TestTimestampScanErrors(t *testing.T) {
	var ts timestamp
	if err := ts.Scan("yesterday"); err == nil {
		t.Error("expected error for unparseable text")
	}
	if err := ts.Scan(42); err == nil {
		t.Error("expected error for integer source")
	}
}
