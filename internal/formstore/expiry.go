package formstore

import "time"

const DefaultRetention = 7 * 24 * time.Hour

// IsExpired reports whether a snapshot created at createdAt is older than
// retention at now. Timestamps in the future are never expired.
func IsExpired(createdAt, now time.Time, retention time.Duration) bool {
	return now.Sub(createdAt) > retention
}
