package credstore

import "time"

// Record is the schema-agnostic credential set extracted from a Document,
// decoupled from which on-disk wrapper key it came from.
type Record struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // epoch milliseconds
	Scopes       []string
}

// Expired reports whether the access token is expired at the given instant.
// The boundary instant counts as expired.
func (r Record) Expired(now time.Time) bool {
	return now.UnixMilli() >= r.ExpiresAt
}
