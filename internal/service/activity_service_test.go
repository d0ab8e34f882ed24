package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-api/internal/dto"
	"github.com/mergington/activities-api/internal/models"
	appErrors "github.com/mergington/activities-api/pkg/errors"
)

type mockActivityRepo struct {
	items     map[string]*models.Activity
	listErr   error
	added     [][2]string
	removed   [][2]string
	mutateErr error
	beforeAdd func()
}

func (m *mockActivityRepo) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	activities := make([]models.Activity, 0, len(m.items))
	for _, activity := range m.items {
		activities = append(activities, *activity)
	}
	return activities, nil
}

func (m *mockActivityRepo) FindByName(ctx context.Context, name string) (*models.Activity, error) {
	if activity, ok := m.items[name]; ok {
		cp := *activity
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

// AddParticipant mirrors the guarded UPDATE: the append only applies while a
// seat is free and the email is absent.
func (m *mockActivityRepo) AddParticipant(ctx context.Context, name, email string) (bool, error) {
	if m.beforeAdd != nil {
		m.beforeAdd()
	}
	if m.mutateErr != nil {
		return false, m.mutateErr
	}
	activity, ok := m.items[name]
	if !ok || activity.HasParticipant(email) || activity.Capacity().IsFull {
		return false, nil
	}
	m.added = append(m.added, [2]string{name, email})
	activity.Participants = append(activity.Participants, email)
	return true, nil
}

func (m *mockActivityRepo) RemoveParticipant(ctx context.Context, name, email string) error {
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.removed = append(m.removed, [2]string{name, email})
	return nil
}

func newActivityRepoFixture() *mockActivityRepo {
	return &mockActivityRepo{items: map[string]*models.Activity{
		"Chess Club": {
			Name:            "Chess Club",
			Description:     "Strategy competition for all levels",
			ScheduleDetails: &models.ScheduleDetails{Days: []string{"Monday"}, StartTime: "15:30", EndTime: "17:00"},
			MaxParticipants: 2,
			Participants:    []string{"ana@mergington.edu"},
		},
		"Soccer Team": {
			Name:            "Soccer Team",
			Description:     "Competitive soccer",
			MaxParticipants: 1,
			Participants:    []string{"ben@mergington.edu"},
		},
	}}
}

func staffClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "teacher-1", Role: models.RoleTeacher, Email: "staff@mergington.edu"}
}

func TestActivityServiceListDecoratesViews(t *testing.T) {
	svc := NewActivityService(newActivityRepoFixture(), nil, nil, nil)

	views, err := svc.List(context.Background(), models.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, views, 2)

	byName := make(map[string]dto.ActivityView, len(views))
	for _, view := range views {
		byName[view.Name] = view
	}
	chess := byName["Chess Club"]
	assert.Equal(t, models.CategoryAcademic, chess.Category)
	assert.Equal(t, "Monday, 3:30 PM - 5:00 PM", chess.ScheduleDisplay)
	assert.Equal(t, 1, chess.Capacity.SpotsLeft)

	soccer := byName["Soccer Team"]
	assert.Equal(t, models.CategorySports, soccer.Category)
	assert.True(t, soccer.Capacity.IsFull)
}

func TestActivityServiceListRepoFailure(t *testing.T) {
	repo := newActivityRepoFixture()
	repo.listErr = errors.New("connection reset")
	svc := NewActivityService(repo, nil, nil, nil)

	_, err := svc.List(context.Background(), models.ActivityFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestActivityServiceGet(t *testing.T) {
	svc := NewActivityService(newActivityRepoFixture(), nil, nil, nil)

	view, err := svc.Get(context.Background(), "Chess Club")
	require.NoError(t, err)
	assert.Equal(t, "Chess Club", view.Name)
	assert.Equal(t, models.CategoryAcademic, view.Category)

	_, err = svc.Get(context.Background(), "Knitting Circle")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestActivityServiceRegister(t *testing.T) {
	repo := newActivityRepoFixture()
	svc := NewActivityService(repo, nil, nil, nil)

	result, err := svc.Register(context.Background(), "Chess Club", dto.RegistrationRequest{Email: "cara@mergington.edu"}, staffClaims())
	require.NoError(t, err)
	assert.Equal(t, "Signed up cara@mergington.edu for Chess Club", result.Message)
	require.Len(t, repo.added, 1)
	assert.Equal(t, [2]string{"Chess Club", "cara@mergington.edu"}, repo.added[0])
}

func TestActivityServiceRegisterFull(t *testing.T) {
	repo := newActivityRepoFixture()
	svc := NewActivityService(repo, nil, nil, nil)

	_, err := svc.Register(context.Background(), "Soccer Team", dto.RegistrationRequest{Email: "cara@mergington.edu"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrActivityFull.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.added)
}

func TestActivityServiceRegisterDuplicate(t *testing.T) {
	repo := newActivityRepoFixture()
	svc := NewActivityService(repo, nil, nil, nil)

	_, err := svc.Register(context.Background(), "Chess Club", dto.RegistrationRequest{Email: "ana@mergington.edu"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.added)
}

func TestActivityServiceRegisterLosesLastSeat(t *testing.T) {
	repo := newActivityRepoFixture()
	repo.beforeAdd = func() {
		chess := repo.items["Chess Club"]
		chess.Participants = append(chess.Participants, "dan@mergington.edu")
	}
	svc := NewActivityService(repo, nil, nil, nil)

	_, err := svc.Register(context.Background(), "Chess Club", dto.RegistrationRequest{Email: "cara@mergington.edu"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrActivityFull.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.added)
}

func TestActivityServiceRegisterConcurrentDuplicate(t *testing.T) {
	repo := newActivityRepoFixture()
	repo.beforeAdd = func() {
		chess := repo.items["Chess Club"]
		if !chess.HasParticipant("cara@mergington.edu") {
			chess.Participants = append(chess.Participants, "cara@mergington.edu")
		}
	}
	svc := NewActivityService(repo, nil, nil, nil)

	_, err := svc.Register(context.Background(), "Chess Club", dto.RegistrationRequest{Email: "cara@mergington.edu"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.added)
}

func TestActivityServiceRegisterValidation(t *testing.T) {
	svc := NewActivityService(newActivityRepoFixture(), nil, nil, nil)

	_, err := svc.Register(context.Background(), "Chess Club", dto.RegistrationRequest{Email: "not-an-email"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestActivityServiceRegisterUnknownActivity(t *testing.T) {
	svc := NewActivityService(newActivityRepoFixture(), nil, nil, nil)

	_, err := svc.Register(context.Background(), "Knitting Circle", dto.RegistrationRequest{Email: "cara@mergington.edu"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestActivityServiceUnregister(t *testing.T) {
	repo := newActivityRepoFixture()
	svc := NewActivityService(repo, nil, nil, nil)

	result, err := svc.Unregister(context.Background(), "Chess Club", dto.RegistrationRequest{Email: "ana@mergington.edu"}, staffClaims())
	require.NoError(t, err)
	assert.Equal(t, "Unregistered ana@mergington.edu from Chess Club", result.Message)
	require.Len(t, repo.removed, 1)
}

func TestActivityServiceUnregisterNotSignedUp(t *testing.T) {
	repo := newActivityRepoFixture()
	svc := NewActivityService(repo, nil, nil, nil)

	_, err := svc.Unregister(context.Background(), "Chess Club", dto.RegistrationRequest{Email: "cara@mergington.edu"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.removed)
}
