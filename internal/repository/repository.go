// Package repository implements the collection-level operations on top of a
// database.Store. Every mutation runs inside a single Store.Update.
package repository

import "time"

// Clock returns the time used for createdAt/updatedAt stamps.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// FormatTimestamp is the layout used for every stored timestamp.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
