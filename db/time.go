package db

import "time"

// SQLite has no native time type; all timestamps are stored as RFC3339
// strings in UTC, e.g. "2024-03-07T15:04:05Z".

// TimeFormat renders a time for storage, in UTC with second precision.
func TimeFormat(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// TimeParse parses a stored RFC3339 timestamp.
func TimeParse(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
