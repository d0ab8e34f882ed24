package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mergington/activities-api/internal/models"
	appErrors "github.com/mergington/activities-api/pkg/errors"
)

// ActivityStore supplies the raw activity collection and accepts roster
// mutations. internal/remote implements it against a running directory
// instance.
type ActivityStore interface {
	Fetch(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error)
	Register(ctx context.Context, activityName, email string) (string, error)
	Unregister(ctx context.Context, activityName, email string) (string, error)
}

// FilterEngine owns the current filter selection and the last-fetched
// activity collection. Day and time-range narrowing happen store-side on
// Refetch; category, free-text and weekend narrowing happen locally on
// every read without another fetch.
type FilterEngine struct {
	store  ActivityStore
	logger *zap.Logger

	mu         sync.Mutex
	state      models.FilterState
	order      []string
	activities map[string]models.Activity
	fetchSeq   uint64
	appliedSeq uint64
}

// NewFilterEngine constructs a FilterEngine over the given store.
func NewFilterEngine(store ActivityStore, logger *zap.Logger) *FilterEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilterEngine{
		store:      store,
		logger:     logger,
		activities: make(map[string]models.Activity),
	}
}

// State returns a copy of the current filter selection.
func (e *FilterEngine) State() models.FilterState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetCategory updates the category axis. Local only; no refetch needed.
func (e *FilterEngine) SetCategory(category models.Category) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Category = category
}

// SetQuery updates the free-text axis. Local only; no refetch needed.
func (e *FilterEngine) SetQuery(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Query = query
}

// SetDay updates the day axis. Callers should Refetch afterwards since the
// day narrowing is applied store-side.
func (e *FilterEngine) SetDay(day string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Day = day
}

// SetTimeRange updates the time-range axis. Morning and afternoon narrow
// store-side and need a Refetch; weekend is resolved locally.
func (e *FilterEngine) SetTimeRange(timeRange models.TimeRange) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.TimeRange = timeRange
}

// Refetch queries the store with the current day/time narrowing and swaps
// the cached collection atomically. Concurrent refetches are
// last-request-wins: a response belonging to a superseded request is
// discarded so it can never clobber a newer collection. On failure the
// previous collection is kept untouched.
func (e *FilterEngine) Refetch(ctx context.Context) error {
	e.mu.Lock()
	e.fetchSeq++
	seq := e.fetchSeq
	filter := models.ActivityFilter{Day: e.state.Day}
	filter.StartTime, filter.EndTime = e.state.TimeRange.Bounds()
	e.mu.Unlock()

	activities, err := e.store.Fetch(ctx, filter)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch activities")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if seq < e.appliedSeq {
		e.logger.Debug("discarding superseded activity fetch",
			zap.Uint64("seq", seq), zap.Uint64("applied", e.appliedSeq))
		return nil
	}
	e.appliedSeq = seq
	collection := make(map[string]models.Activity, len(activities))
	order := make([]string, 0, len(activities))
	for _, activity := range activities {
		collection[activity.Name] = activity
		order = append(order, activity.Name)
	}
	e.activities = collection
	e.order = order
	return nil
}

// Collection returns the cached activities in store order.
func (e *FilterEngine) Collection() []models.Activity {
	e.mu.Lock()
	defer e.mu.Unlock()
	activities := make([]models.Activity, 0, len(e.order))
	for _, name := range e.order {
		activities = append(activities, e.activities[name])
	}
	return activities
}

// Visible applies the locally-evaluated filter axes to the cached
// collection and returns the matching subset.
func (e *FilterEngine) Visible() []models.Activity {
	e.mu.Lock()
	state := e.state
	activities := make([]models.Activity, 0, len(e.order))
	for _, name := range e.order {
		activities = append(activities, e.activities[name])
	}
	e.mu.Unlock()
	return ApplyFilters(activities, state)
}

// ApplyFilters returns the subset of activities matching every active
// client-side axis: category, weekend membership and free-text query. Input
// order is preserved; an empty result is a valid outcome.
func ApplyFilters(activities []models.Activity, state models.FilterState) []models.Activity {
	matched := make([]models.Activity, 0, len(activities))
	for _, activity := range activities {
		if !matchesCategory(activity, state.Category) {
			continue
		}
		if !matchesWeekend(activity, state.TimeRange) {
			continue
		}
		if !matchesQuery(activity, state.Query) {
			continue
		}
		matched = append(matched, activity)
	}
	return matched
}

func matchesCategory(activity models.Activity, category models.Category) bool {
	if category == "" || category == models.CategoryAll {
		return true
	}
	return ClassifyActivity(activity) == category
}

// matchesWeekend excludes activities whose day set cannot be inspected:
// legacy string schedules fail the weekend filter even if their (unknown)
// day happens to be a weekend day.
func matchesWeekend(activity models.Activity, timeRange models.TimeRange) bool {
	if timeRange != models.TimeRangeWeekend {
		return true
	}
	if activity.ScheduleDetails == nil {
		return false
	}
	return activity.ScheduleDetails.HasWeekendDay()
}

func matchesQuery(activity models.Activity, query string) bool {
	if query == "" {
		return true
	}
	haystack := strings.ToLower(activity.Name + " " + activity.Description + " " + activity.DisplaySchedule())
	return strings.Contains(haystack, strings.ToLower(query))
}
