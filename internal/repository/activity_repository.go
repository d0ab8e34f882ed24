package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mergington/activities-api/internal/models"
)

// ActivityRepository provides persistence for the activity directory.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository creates the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `name, description, schedule, schedule_days, start_time, end_time, max_participants, participants, created_at, updated_at`

type activityRow struct {
	Name            string         `db:"name"`
	Description     string         `db:"description"`
	Schedule        string         `db:"schedule"`
	ScheduleDays    pq.StringArray `db:"schedule_days"`
	StartTime       sql.NullString `db:"start_time"`
	EndTime         sql.NullString `db:"end_time"`
	MaxParticipants int            `db:"max_participants"`
	Participants    pq.StringArray `db:"participants"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r activityRow) toModel() models.Activity {
	activity := models.Activity{
		Name:            r.Name,
		Description:     r.Description,
		Schedule:        r.Schedule,
		MaxParticipants: r.MaxParticipants,
		Participants:    []string(r.Participants),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if len(r.ScheduleDays) > 0 && r.StartTime.Valid && r.EndTime.Valid {
		activity.ScheduleDetails = &models.ScheduleDetails{
			Days:      []string(r.ScheduleDays),
			StartTime: r.StartTime.String,
			EndTime:   r.EndTime.String,
		}
	}
	return activity
}

// List returns activities matching the day/time narrowing, ordered by name.
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Day != "" {
		where = append(where, fmt.Sprintf("$%d = ANY(schedule_days)", len(args)+1))
		args = append(args, filter.Day)
	}
	if filter.StartTime != "" {
		where = append(where, fmt.Sprintf("start_time >= $%d", len(args)+1))
		args = append(args, filter.StartTime)
	}
	if filter.EndTime != "" {
		where = append(where, fmt.Sprintf("end_time <= $%d", len(args)+1))
		args = append(args, filter.EndTime)
	}
	query := fmt.Sprintf("SELECT %s FROM activities WHERE %s ORDER BY name ASC",
		activityColumns, strings.Join(where, " AND "))

	var rows []activityRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	activities := make([]models.Activity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, row.toModel())
	}
	return activities, nil
}

// FindByName returns a single activity by its name.
func (r *ActivityRepository) FindByName(ctx context.Context, name string) (*models.Activity, error) {
	query := fmt.Sprintf("SELECT %s FROM activities WHERE name = $1 LIMIT 1", activityColumns)
	var row activityRow
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		return nil, err
	}
	activity := row.toModel()
	return &activity, nil
}

// AddParticipant appends an email to the activity roster. The row only
// updates while a seat is free and the email is not already on the roster;
// the returned flag reports whether the append was applied.
func (r *ActivityRepository) AddParticipant(ctx context.Context, name, email string) (bool, error) {
	const query = `UPDATE activities SET participants = array_append(participants, $2), updated_at = $3 WHERE name = $1 AND NOT ($2 = ANY(participants)) AND COALESCE(array_length(participants, 1), 0) < max_participants`
	res, err := r.db.ExecContext(ctx, query, name, email, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("add participant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add participant: %w", err)
	}
	return affected > 0, nil
}

// RemoveParticipant removes an email from the activity roster.
func (r *ActivityRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	const query = `UPDATE activities SET participants = array_remove(participants, $2), updated_at = $3 WHERE name = $1`
	if _, err := r.db.ExecContext(ctx, query, name, email, time.Now().UTC()); err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	return nil
}
