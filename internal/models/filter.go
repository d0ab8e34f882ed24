package models

// TimeRange is a named time-of-day window used to narrow the directory.
type TimeRange string

const (
	TimeRangeNone      TimeRange = ""
	TimeRangeMorning   TimeRange = "morning"
	TimeRangeAfternoon TimeRange = "afternoon"
	TimeRangeWeekend   TimeRange = "weekend"
)

// Fixed bounds sent to the store for the named windows. The weekend range
// has no time-of-day equivalent and is resolved client-side.
const (
	MorningStart   = "06:00"
	MorningEnd     = "08:00"
	AfternoonStart = "15:00"
	AfternoonEnd   = "18:00"
)

// Bounds returns the start/end times the range narrows a fetch by. Weekend
// and the empty range return empty bounds.
func (r TimeRange) Bounds() (start, end string) {
	switch r {
	case TimeRangeMorning:
		return MorningStart, MorningEnd
	case TimeRangeAfternoon:
		return AfternoonStart, AfternoonEnd
	default:
		return "", ""
	}
}

// FilterState is the single active filter selection. At most one value per
// axis is active; the zero value selects everything.
type FilterState struct {
	Category  Category  `json:"category"`
	Day       string    `json:"day"`
	TimeRange TimeRange `json:"time_range"`
	Query     string    `json:"query"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
