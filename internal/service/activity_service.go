package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mergington/activities-api/internal/dto"
	"github.com/mergington/activities-api/internal/models"
	appErrors "github.com/mergington/activities-api/pkg/errors"
)

type activityRepository interface {
	List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error)
	FindByName(ctx context.Context, name string) (*models.Activity, error)
	AddParticipant(ctx context.Context, name, email string) (bool, error)
	RemoveParticipant(ctx context.Context, name, email string) error
}

// ActivityService serves the directory listing and roster mutations. The
// capacity check here is authoritative; clients only use capacity to
// disable the signup action in their display.
type ActivityService struct {
	repo      activityRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewActivityService constructs the service.
func NewActivityService(repo activityRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ActivityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, cache: cache, validator: validate, logger: logger}
}

const activityCachePrefix = "activities:list:"

// List returns the directory narrowed by the optional day/time filter, each
// activity decorated with its derived category and capacity state.
func (s *ActivityService) List(ctx context.Context, filter models.ActivityFilter) ([]dto.ActivityView, error) {
	cacheKey := fmt.Sprintf("%sday=%s&start=%s&end=%s", activityCachePrefix, filter.Day, filter.StartTime, filter.EndTime)
	var views []dto.ActivityView
	if s.cache != nil {
		if hit, _ := s.cache.Get(ctx, cacheKey, &views); hit {
			return views, nil
		}
	}

	activities, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	views = make([]dto.ActivityView, 0, len(activities))
	for _, activity := range activities {
		views = append(views, dto.ActivityView{
			Activity:        activity,
			Category:        ClassifyActivity(activity),
			ScheduleDisplay: activity.DisplaySchedule(),
			Capacity:        activity.Capacity(),
		})
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, views, 0)
	}
	return views, nil
}

// Get returns a single decorated activity.
func (s *ActivityService) Get(ctx context.Context, name string) (*dto.ActivityView, error) {
	activity, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	return &dto.ActivityView{
		Activity:        *activity,
		Category:        ClassifyActivity(*activity),
		ScheduleDisplay: activity.DisplaySchedule(),
		Capacity:        activity.Capacity(),
	}, nil
}

// Register signs a participant up for an activity. Full activities and
// duplicate signups are refused.
func (s *ActivityService) Register(ctx context.Context, activityName string, req dto.RegistrationRequest, actor *models.JWTClaims) (*dto.RegistrationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	activity, err := s.repo.FindByName(ctx, activityName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	if activity.Capacity().IsFull {
		return nil, appErrors.Clone(appErrors.ErrActivityFull, "activity is full")
	}
	if activity.HasParticipant(req.Email) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "participant is already signed up")
	}
	applied, err := s.repo.AddParticipant(ctx, activityName, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign up participant")
	}
	if !applied {
		return nil, s.registerRefusal(ctx, activityName, req.Email)
	}
	s.invalidateListCache(ctx)
	s.logger.Info("participant signed up",
		zap.String("activity", activityName),
		zap.String("email", req.Email),
		zap.String("by", actorID(actor)))
	return &dto.RegistrationResult{Message: fmt.Sprintf("Signed up %s for %s", req.Email, activityName)}, nil
}

// Unregister removes a participant from an activity roster.
func (s *ActivityService) Unregister(ctx context.Context, activityName string, req dto.RegistrationRequest, actor *models.JWTClaims) (*dto.RegistrationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	activity, err := s.repo.FindByName(ctx, activityName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	if !activity.HasParticipant(req.Email) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "participant is not signed up for this activity")
	}
	if err := s.repo.RemoveParticipant(ctx, activityName, req.Email); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unregister participant")
	}
	s.invalidateListCache(ctx)
	s.logger.Info("participant unregistered",
		zap.String("activity", activityName),
		zap.String("email", req.Email),
		zap.String("by", actorID(actor)))
	return &dto.RegistrationResult{Message: fmt.Sprintf("Unregistered %s from %s", req.Email, activityName)}, nil
}

// registerRefusal reports why a guarded roster append changed no rows. The
// checks above race with concurrent signups, so the roster is re-read.
func (s *ActivityService) registerRefusal(ctx context.Context, activityName, email string) error {
	activity, err := s.repo.FindByName(ctx, activityName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	if activity.HasParticipant(email) {
		return appErrors.Clone(appErrors.ErrConflict, "participant is already signed up")
	}
	return appErrors.Clone(appErrors.ErrActivityFull, "activity is full")
}

func (s *ActivityService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, activityCachePrefix+"*"); err != nil {
		s.logger.Warn("failed to invalidate activity cache", zap.Error(err))
	}
}

func actorID(actor *models.JWTClaims) string {
	if actor == nil {
		return ""
	}
	return actor.UserID
}
