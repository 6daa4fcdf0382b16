// ABOUTME: Record copying between two storage backends.
// ABOUTME: Replays every source record as an insert into the destination.
package storage

import (
	"context"
	"fmt"
)

// CopySummary holds counts of copied records.
type CopySummary struct {
	Read   int
	Copied int
}

// CopyRecords copies all records from src to dst in ascending id order.
// The destination assigns new ids and timestamps. It stops at the first
// record the destination does not store.
func CopyRecords(ctx context.Context, src, dst Repository) (*CopySummary, error) {
	records := src.List(ctx)
	summary := &CopySummary{Read: len(records)}

	for i := range records {
		r := records[i]
		sourceID := r.ID
		r.ID = 0

		ok, err := dst.Insert(ctx, &r)
		if err != nil {
			return summary, fmt.Errorf("copy record %d: %w", sourceID, err)
		}
		if !ok {
			return summary, fmt.Errorf("copy record %d: destination did not store it", sourceID)
		}
		summary.Copied++
	}

	return summary, nil
}
