package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mergington/activities-api/internal/dto"
	"github.com/mergington/activities-api/internal/models"
	appErrors "github.com/mergington/activities-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, activeOnly bool, now time.Time) ([]models.Announcement, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// UpsertAnnouncementRequest carries the full announcement field set. EditID
// decides the path: empty string means create, anything else updates that
// identifier. Updates replace message, start and expiration together;
// there is no partial patch.
type UpsertAnnouncementRequest struct {
	EditID         string     `json:"edit_id"`
	Message        string     `json:"message" validate:"required"`
	StartDate      *time.Time `json:"start_date"`
	ExpirationDate time.Time  `json:"expiration_date" validate:"required"`
}

// AnnouncementService handles the announcement lifecycle. Status is always
// derived from the dates against the request clock, never stored.
type AnnouncementService struct {
	repo      announcementRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, cache: cache, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

const announcementCachePrefix = "announcements:list:"

// List returns announcements newest first with their derived status. When
// activeOnly is set, the repository pre-filters by the active window, but
// the returned status is still derived here since "active" can change
// between fetch and render.
func (s *AnnouncementService) List(ctx context.Context, activeOnly bool) ([]dto.AnnouncementView, error) {
	now := s.now()

	var announcements []models.Announcement
	cacheKey := announcementCachePrefix + "all"
	cached := false
	if s.cache != nil && !activeOnly {
		if hit, _ := s.cache.Get(ctx, cacheKey, &announcements); hit {
			cached = true
		}
	}
	if !cached {
		var err error
		announcements, err = s.repo.List(ctx, activeOnly, now)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
		}
		if s.cache != nil && !activeOnly {
			_ = s.cache.Set(ctx, cacheKey, announcements, 0)
		}
	}

	views := make([]dto.AnnouncementView, 0, len(announcements))
	for _, announcement := range announcements {
		views = append(views, dto.AnnouncementView{Announcement: announcement, Status: announcement.Status(now)})
	}
	return views, nil
}

// Get returns an announcement by id with its derived status.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*dto.AnnouncementView, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get announcement")
	}
	return &dto.AnnouncementView{Announcement: *announcement, Status: announcement.Status(s.now())}, nil
}

// Upsert creates or updates an announcement depending solely on whether
// EditID carries a non-empty identifier.
func (s *AnnouncementService) Upsert(ctx context.Context, req UpsertAnnouncementRequest, actor *models.JWTClaims) (*dto.AnnouncementView, error) {
	if err := s.validateFields(req); err != nil {
		return nil, err
	}
	if req.EditID == "" {
		return s.create(ctx, req, actor)
	}
	return s.update(ctx, req.EditID, req, actor)
}

func (s *AnnouncementService) validateFields(req UpsertAnnouncementRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	if strings.TrimSpace(req.Message) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "message cannot be empty")
	}
	if len(req.Message) > models.MaxAnnouncementMessageLength {
		return appErrors.Clone(appErrors.ErrValidation, "message too long (max 500 characters)")
	}
	if req.ExpirationDate.Before(s.now()) {
		return appErrors.Clone(appErrors.ErrValidation, "expiration date must be in the future")
	}
	if req.StartDate != nil && req.StartDate.After(req.ExpirationDate) {
		return appErrors.Clone(appErrors.ErrValidation, "start date must be before expiration date")
	}
	return nil
}

func (s *AnnouncementService) create(ctx context.Context, req UpsertAnnouncementRequest, actor *models.JWTClaims) (*dto.AnnouncementView, error) {
	announcement := &models.Announcement{
		Message:        req.Message,
		StartDate:      req.StartDate,
		ExpirationDate: req.ExpirationDate,
		CreatedBy:      actorID(actor),
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	s.invalidateListCache(ctx)
	s.logger.Info("announcement created", zap.String("id", announcement.ID), zap.String("by", actorID(actor)))
	return &dto.AnnouncementView{Announcement: *announcement, Status: announcement.Status(s.now())}, nil
}

func (s *AnnouncementService) update(ctx context.Context, id string, req UpsertAnnouncementRequest, actor *models.JWTClaims) (*dto.AnnouncementView, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	existing.Message = req.Message
	existing.StartDate = req.StartDate
	existing.ExpirationDate = req.ExpirationDate
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	s.invalidateListCache(ctx)
	s.logger.Info("announcement updated", zap.String("id", id), zap.String("by", actorID(actor)))
	return &dto.AnnouncementView{Announcement: *existing, Status: existing.Status(s.now())}, nil
}

// Delete removes an announcement by id.
func (s *AnnouncementService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	s.invalidateListCache(ctx)
	s.logger.Info("announcement deleted", zap.String("id", id), zap.String("by", actorID(actor)))
	return nil
}

func (s *AnnouncementService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, announcementCachePrefix+"*"); err != nil {
		s.logger.Warn("failed to invalidate announcement cache", zap.Error(err))
	}
}
