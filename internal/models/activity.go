package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Category is the fixed taxonomy an activity is classified into.
type Category string

const (
	CategoryAll        Category = "all"
	CategorySports     Category = "sports"
	CategoryArts       Category = "arts"
	CategoryAcademic   Category = "academic"
	CategoryCommunity  Category = "community"
	CategoryTechnology Category = "technology"
)

// CapacityTier groups activities by how close to capacity they are.
type CapacityTier string

const (
	CapacityAvailable CapacityTier = "available"
	CapacityNearFull  CapacityTier = "near_full"
	CapacityFull      CapacityTier = "full"
)

// nearFullRatio is the enrollment ratio at which an activity is flagged
// as nearly full.
const nearFullRatio = 0.75

// ScheduleDetails is a structured schedule: a weekday set plus start and
// end times of day in 24-hour "HH:MM" form.
type ScheduleDetails struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// Format renders the schedule as "<days>, <start> - <end>" with 12-hour
// AM/PM times. Times are assumed well-formed "HH:MM".
func (d ScheduleDetails) Format() string {
	return fmt.Sprintf("%s, %s - %s", strings.Join(d.Days, ", "),
		to12Hour(d.StartTime), to12Hour(d.EndTime))
}

// HasWeekendDay reports whether the day set touches Saturday or Sunday.
func (d ScheduleDetails) HasWeekendDay() bool {
	for _, day := range d.Days {
		if day == "Saturday" || day == "Sunday" {
			return true
		}
	}
	return false
}

func to12Hour(hhmm string) string {
	parts := strings.SplitN(hhmm, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute := "00"
	if len(parts) == 2 {
		minute = parts[1]
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, minute, suffix)
}

// Activity represents an extracurricular activity. The name doubles as the
// identifier; there is no separate id column.
type Activity struct {
	Name            string           `db:"name" json:"name"`
	Description     string           `db:"description" json:"description"`
	Schedule        string           `db:"schedule" json:"schedule"`
	ScheduleDetails *ScheduleDetails `db:"-" json:"schedule_details,omitempty"`
	MaxParticipants int              `db:"max_participants" json:"max_participants"`
	Participants    []string         `db:"-" json:"participants"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// DisplaySchedule returns the structured schedule formatted for display,
// falling back to the legacy schedule string unchanged.
func (a Activity) DisplaySchedule() string {
	if a.ScheduleDetails != nil {
		return a.ScheduleDetails.Format()
	}
	return a.Schedule
}

// CapacityStatus is derived per read; it is never stored.
type CapacityStatus struct {
	SpotsLeft int          `json:"spots_left"`
	Ratio     float64      `json:"ratio"`
	IsFull    bool         `json:"is_full"`
	Tier      CapacityTier `json:"tier"`
}

// Capacity derives the enrollment state of the activity.
func (a Activity) Capacity() CapacityStatus {
	enrolled := len(a.Participants)
	spotsLeft := a.MaxParticipants - enrolled
	var ratio float64
	if a.MaxParticipants > 0 {
		ratio = float64(enrolled) / float64(a.MaxParticipants)
	}
	status := CapacityStatus{SpotsLeft: spotsLeft, Ratio: ratio}
	switch {
	case spotsLeft <= 0:
		status.IsFull = true
		status.Tier = CapacityFull
	case ratio >= nearFullRatio:
		status.Tier = CapacityNearFull
	default:
		status.Tier = CapacityAvailable
	}
	return status
}

// HasParticipant reports whether the email is already enrolled.
func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if strings.EqualFold(p, email) {
			return true
		}
	}
	return false
}

// ActivityFilter captures the server-side narrowing of the activity list.
type ActivityFilter struct {
	Day       string
	StartTime string
	EndTime   string
}
