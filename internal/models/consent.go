package models

// ConsentReceipt is a write-only audit record of a cookie-preference
// submission. Stored under a random per-event key; there is no read path.
type ConsentReceipt struct {
	Time        string          `json:"time"` // RFC 3339
	IP          string          `json:"ip,omitempty"`
	UserAgent   string          `json:"ua,omitempty"`
	Lang        string          `json:"lang,omitempty"`
	Version     string          `json:"version,omitempty"`
	GPC         bool            `json:"gpc"`
	Preferences map[string]bool `json:"preferences,omitempty"`
}
