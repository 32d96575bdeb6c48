package models

import "time"

// SubscriberStatus is the lifecycle state of a subscriber record.
type SubscriberStatus string

const (
	StatusPending   SubscriberStatus = "pending"
	StatusConfirmed SubscriberStatus = "confirmed"
	// StatusUnsubscribed is never written under the current lifecycle
	// (unsubscribe deletes the record) but the subscribe duplicate-guard
	// still branches on it defensively.
	StatusUnsubscribed SubscriberStatus = "unsubscribed"
)

// Subscriber is the KV record kept per email address, the natural key.
type Subscriber struct {
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Company     string           `json:"company,omitempty"`
	Status      SubscriberStatus `json:"status"`
	Exp         int64            `json:"exp,omitempty"` // confirmation deadline, meaningful while pending
	Lang        string           `json:"lang"`
	CreatedAt   int64            `json:"createdAt,omitempty"`
	ConfirmedAt int64            `json:"confirmedAt,omitempty"`
	TokenID     *string          `json:"tokenId"` // provider message id of the original invite
}

// PendingExpired reports whether a pending record's confirmation window has
// lapsed. Expiry is inferred at read time; there is no stored "expired" status.
func (s *Subscriber) PendingExpired(now time.Time) bool {
	return s.Status == StatusPending && s.Exp <= now.Unix()
}
