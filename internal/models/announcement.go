package models

import "time"

// AnnouncementStatus is the temporal lifecycle state of an announcement,
// derived from its dates at read time and never persisted.
type AnnouncementStatus string

const (
	AnnouncementScheduled AnnouncementStatus = "scheduled"
	AnnouncementActive    AnnouncementStatus = "active"
	AnnouncementExpired   AnnouncementStatus = "expired"
)

// MaxAnnouncementMessageLength caps the announcement message size.
const MaxAnnouncementMessageLength = 500

// Announcement represents a persisted announcement row.
type Announcement struct {
	ID             string     `db:"id" json:"id"`
	Message        string     `db:"message" json:"message"`
	StartDate      *time.Time `db:"start_date" json:"start_date,omitempty"`
	ExpirationDate time.Time  `db:"expiration_date" json:"expiration_date"`
	CreatedBy      string     `db:"created_by" json:"created_by"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Status derives the lifecycle state at the given instant. Expiration wins
// over scheduling; a start date equal to now counts as active since
// scheduling requires a strictly future start. A missing start date means
// immediately active.
func (a Announcement) Status(now time.Time) AnnouncementStatus {
	if now.After(a.ExpirationDate) {
		return AnnouncementExpired
	}
	if a.StartDate != nil && now.Before(*a.StartDate) {
		return AnnouncementScheduled
	}
	return AnnouncementActive
}
