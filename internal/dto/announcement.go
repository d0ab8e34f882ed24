package dto

import "github.com/mergington/activities-api/internal/models"

// AnnouncementView decorates an announcement with its lifecycle status,
// derived against the request clock.
type AnnouncementView struct {
	models.Announcement
	Status models.AnnouncementStatus `json:"status"`
}
