// Package elapsed computes and formats wall-clock durations between API
// timestamps.
package elapsed

import (
	"fmt"
	"time"

	"github.com/Cloudsky01/gh-runview/pkg/models"
)

// Placeholder is rendered when a duration cannot be computed.
const Placeholder = "-"

// Between returns the duration from start to end. A zero end means the
// interval is still open and now is used instead. Negative results clamp to 0.
func Between(start, end, now time.Time) time.Duration {
	if end.IsZero() {
		end = now
	}
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}

// Format renders d as whole minutes and whole seconds, truncated.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	seconds := int64((d % time.Minute) / time.Second)
	return fmt.Sprintf("%d minutes %d seconds", minutes, seconds)
}

// Since formats the time between two API timestamps, substituting now for an
// absent end. Missing or malformed inputs render Placeholder.
func Since(start, end models.Timestamp, now time.Time) string {
	if !start.Valid() {
		return Placeholder
	}
	if end.Present() && !end.Valid() {
		return Placeholder
	}
	var endTime time.Time
	if end.Valid() {
		endTime = end.Time
	}
	return Format(Between(start.Time, endTime, now))
}
