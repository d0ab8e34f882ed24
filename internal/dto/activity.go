package dto

import "github.com/mergington/activities-api/internal/models"

// ActivityView decorates an activity with its derived category, display
// schedule and capacity state for list responses.
type ActivityView struct {
	models.Activity
	Category        models.Category       `json:"category"`
	ScheduleDisplay string                `json:"schedule_display"`
	Capacity        models.CapacityStatus `json:"capacity"`
}

// RegistrationRequest is the signup/unregister payload.
type RegistrationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RegistrationResult reports the outcome of a signup or unregister call.
type RegistrationResult struct {
	Message string `json:"message"`
}
