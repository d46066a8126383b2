package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/repository"
	appErrors "github.com/tn02103/uniformAdministrationApp-sub004/pkg/errors"
	"github.com/tn02103/uniformAdministrationApp-sub004/pkg/jobs"
)

// ReviewJobType is the event name under which finished-inspection reviews are
// delivered to notification consumers.
const ReviewJobType = "inspection.review"

type inspectionStore interface {
	FindStateRows(ctx context.Context, orgID string, today time.Time) ([]models.Inspection, error)
	FindByID(ctx context.Context, id string) (*models.Inspection, error)
	ListPlanned(ctx context.Context, orgID string, today time.Time) ([]models.Inspection, error)
	Create(ctx context.Context, orgID, name string, date, now time.Time) (*models.Inspection, error)
	Update(ctx context.Context, id, name string, date, now time.Time) error
	Delete(ctx context.Context, id string) error
	StartToday(ctx context.Context, orgID string, now time.Time) (*models.Inspection, error)
	Stop(ctx context.Context, id string, timeOfDay time.Duration, now time.Time) (*models.Inspection, error)
}

type cadetCounter interface {
	CountActive(ctx context.Context, orgID string) (int, error)
}

type cadetInspectionCounter interface {
	CountByInspection(ctx context.Context, inspectionID string) (int, error)
}

type deregistrationStore interface {
	Count(ctx context.Context, inspectionID string) (int, error)
	List(ctx context.Context, inspectionID string) ([]dto.DeregistrationItem, error)
	Deregister(ctx context.Context, inspectionID, cadetID string, now time.Time) error
	Reregister(ctx context.Context, inspectionID, cadetID string) error
}

type stateCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type reviewBuilder interface {
	Build(ctx context.Context, insp *models.Inspection) (*dto.InspectionReview, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job[*dto.InspectionReview]) error
}

type cacheMetricsRecorder interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

// InspectionService is the lifecycle manager for an organization's inspection
// schedule. State is derived, never stored; the repository re-derives it from
// locked rows inside each transition's transaction.
type InspectionService struct {
	repo            inspectionStore
	cadets          cadetCounter
	cadetInspection cadetInspectionCounter
	deregistrations deregistrationStore
	cache           stateCache
	cacheTTL        time.Duration
	reviews         reviewBuilder
	dispatcher      jobDispatcher
	metrics         cacheMetricsRecorder
	validator       *validator.Validate
	logger          *zap.Logger
	now             func() time.Time
}

// NewInspectionService builds an InspectionService with sane defaults.
func NewInspectionService(
	repo inspectionStore,
	cadets cadetCounter,
	cadetInspection cadetInspectionCounter,
	deregistrations deregistrationStore,
	cache stateCache,
	cacheTTL time.Duration,
	reviews reviewBuilder,
	dispatcher jobDispatcher,
	metrics cacheMetricsRecorder,
	validate *validator.Validate,
	logger *zap.Logger,
) *InspectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InspectionService{
		repo:            repo,
		cadets:          cadets,
		cadetInspection: cadetInspection,
		deregistrations: deregistrations,
		cache:           cache,
		cacheTTL:        cacheTTL,
		reviews:         reviews,
		dispatcher:      dispatcher,
		metrics:         metrics,
		validator:       validate,
		logger:          logger,
		now:             time.Now,
	}
}

func stateCacheKey(orgID string) string {
	return "inspection:state:" + orgID
}

// Create schedules a new inspection and returns the refreshed planned list.
func (s *InspectionService) Create(ctx context.Context, req dto.CreateInspectionRequest, claims *models.JWTClaims) ([]dto.InspectionItem, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inspection payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid inspection date")
	}

	if _, err := s.repo.Create(ctx, claims.OrganizationID, req.Name, date, s.now()); err != nil {
		if errors.Is(err, repository.ErrDuplicateInspection) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "inspection name or date already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create inspection")
	}

	s.invalidateState(ctx, claims.OrganizationID)
	return s.ListPlanned(ctx, claims)
}

// Update edits a planned inspection and returns the refreshed planned list.
func (s *InspectionService) Update(ctx context.Context, id string, req dto.UpdateInspectionRequest, claims *models.JWTClaims) ([]dto.InspectionItem, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inspection payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid inspection date")
	}
	if err := s.ensureInspection(ctx, id, claims); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, req.Name, date, s.now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrInspectionStarted):
			return nil, appErrors.Clone(appErrors.ErrConflict, "inspection already started")
		case errors.Is(err, repository.ErrDuplicateInspection):
			return nil, appErrors.Clone(appErrors.ErrConflict, "inspection name or date already in use")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inspection not found")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update inspection")
		}
	}

	s.invalidateState(ctx, claims.OrganizationID)
	return s.ListPlanned(ctx, claims)
}

// Delete removes a planned inspection and returns the refreshed planned list.
func (s *InspectionService) Delete(ctx context.Context, id string, claims *models.JWTClaims) ([]dto.InspectionItem, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.ensureInspection(ctx, id, claims); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrInspectionStarted):
			return nil, appErrors.Clone(appErrors.ErrConflict, "inspection already started")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inspection not found")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete inspection")
		}
	}

	s.invalidateState(ctx, claims.OrganizationID)
	return s.ListPlanned(ctx, claims)
}

// ListPlanned returns the actionable inspections of the organization.
func (s *InspectionService) ListPlanned(ctx context.Context, claims *models.JWTClaims) ([]dto.InspectionItem, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}

	rows, err := s.repo.ListPlanned(ctx, claims.OrganizationID, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inspections")
	}

	items := make([]dto.InspectionItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.NewInspectionItem(row))
	}
	return items, nil
}

// State derives the lifecycle state plus headline counts, optionally through
// the short-TTL cache.
func (s *InspectionService) State(ctx context.Context, claims *models.JWTClaims) (*dto.InspectionStateResponse, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}

	key := stateCacheKey(claims.OrganizationID)
	if s.cache != nil && s.cacheTTL > 0 {
		lookupStart := s.now()
		var cached dto.InspectionStateResponse
		err := s.cache.Get(ctx, key, &cached)
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(err == nil, time.Since(lookupStart))
		}
		if err == nil {
			return &cached, nil
		}
	}

	resp, err := s.deriveState(ctx, claims.OrganizationID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache inspection state", zap.Error(err))
		}
	}
	return resp, nil
}

func (s *InspectionService) deriveState(ctx context.Context, orgID string) (*dto.InspectionStateResponse, error) {
	rows, err := s.repo.FindStateRows(ctx, orgID, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inspection state")
	}

	state, insp := models.DeriveInspectionState(rows, s.now())
	resp := &dto.InspectionStateResponse{State: state}

	active, err := s.cadets.CountActive(ctx, orgID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count cadets")
	}
	resp.ActiveCadets = active

	if insp != nil {
		item := dto.NewInspectionItem(*insp)
		resp.Inspection = &item

		inspected, err := s.cadetInspection.CountByInspection(ctx, insp.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count inspected cadets")
		}
		resp.InspectedCadets = inspected

		deregistered, err := s.deregistrations.Count(ctx, insp.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count deregistrations")
		}
		resp.DeregisteredCadets = deregistered
	}
	return resp, nil
}

// ActiveInspection returns today's running inspection or an inspection state
// error. It is the gate the recorder checks before accepting a submission.
func (s *InspectionService) ActiveInspection(ctx context.Context, orgID string) (*models.Inspection, error) {
	rows, err := s.repo.FindStateRows(ctx, orgID, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inspection state")
	}
	state, insp := models.DeriveInspectionState(rows, s.now())
	if state != models.InspectionStateActive {
		return nil, appErrors.Clone(appErrors.ErrInspectionState, "no active inspection")
	}
	return insp, nil
}

// Start starts or reopens today's inspection.
func (s *InspectionService) Start(ctx context.Context, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}

	if _, err := s.repo.StartToday(ctx, claims.OrganizationID, s.now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrUnfinishedBlocking):
			return appErrors.Clone(appErrors.ErrInspectionState, "unfinished inspection blocking")
		case errors.Is(err, repository.ErrNoInspectionToday):
			return appErrors.Clone(appErrors.ErrInspectionState, "no inspection planned for today")
		case errors.Is(err, repository.ErrAlreadyStarted):
			return appErrors.Clone(appErrors.ErrInspectionState, "inspection already started")
		default:
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start inspection")
		}
	}

	s.invalidateState(ctx, claims.OrganizationID)
	return nil
}

// Stop finishes a started inspection, computes the review snapshot and hands
// it to the notification queue. Notification failures never surface here;
// the stop has already committed.
func (s *InspectionService) Stop(ctx context.Context, id string, req dto.StopInspectionRequest, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid stop payload")
	}
	parsed, err := time.Parse("15:04", req.Time)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid stop time")
	}
	timeOfDay := time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute

	if err := s.ensureInspection(ctx, id, claims); err != nil {
		return err
	}

	stopped, err := s.repo.Stop(ctx, id, timeOfDay, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotStarted):
			return appErrors.Clone(appErrors.ErrInspectionState, "inspection not started")
		case errors.Is(err, repository.ErrAlreadyFinished):
			return appErrors.Clone(appErrors.ErrInspectionState, "inspection already finished")
		case errors.Is(err, repository.ErrStopBeforeStart):
			return appErrors.Clone(appErrors.ErrValidation, "end time is before the start time")
		case errors.Is(err, sql.ErrNoRows):
			return appErrors.Clone(appErrors.ErrNotFound, "inspection not found")
		default:
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stop inspection")
		}
	}

	s.invalidateState(ctx, claims.OrganizationID)
	s.dispatchReview(ctx, stopped)
	return nil
}

func (s *InspectionService) dispatchReview(ctx context.Context, insp *models.Inspection) {
	if s.reviews == nil || s.dispatcher == nil {
		return
	}
	review, err := s.reviews.Build(ctx, insp)
	if err != nil {
		s.logger.Warn("failed to build inspection review", zap.String("inspection_id", insp.ID), zap.Error(err))
		return
	}
	job := jobs.Job[*dto.InspectionReview]{
		ID:      uuid.NewString(),
		Payload: review,
	}
	if err := s.dispatcher.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue inspection review", zap.String("inspection_id", insp.ID), zap.Error(err))
	}
}

// Deregister excludes a cadet from an inspection's scope.
func (s *InspectionService) Deregister(ctx context.Context, inspectionID, cadetID string, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if err := s.ensureInspection(ctx, inspectionID, claims); err != nil {
		return err
	}
	if err := s.deregistrations.Deregister(ctx, inspectionID, cadetID, s.now()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deregister cadet")
	}
	s.invalidateState(ctx, claims.OrganizationID)
	return nil
}

// Reregister removes a cadet's exclusion again.
func (s *InspectionService) Reregister(ctx context.Context, inspectionID, cadetID string, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if err := s.ensureInspection(ctx, inspectionID, claims); err != nil {
		return err
	}
	if err := s.deregistrations.Reregister(ctx, inspectionID, cadetID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reregister cadet")
	}
	s.invalidateState(ctx, claims.OrganizationID)
	return nil
}

// ListDeregistrations returns an inspection's deregistered cadets.
func (s *InspectionService) ListDeregistrations(ctx context.Context, inspectionID string, claims *models.JWTClaims) ([]dto.DeregistrationItem, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.ensureInspection(ctx, inspectionID, claims); err != nil {
		return nil, err
	}
	rows, err := s.deregistrations.List(ctx, inspectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list deregistrations")
	}
	return rows, nil
}

func (s *InspectionService) ensureInspection(ctx context.Context, id string, claims *models.JWTClaims) error {
	insp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inspection")
	}
	if insp == nil || insp.OrganizationID != claims.OrganizationID {
		return appErrors.Clone(appErrors.ErrNotFound, "inspection not found")
	}
	return nil
}

func (s *InspectionService) invalidateState(ctx context.Context, orgID string) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Delete(ctx, stateCacheKey(orgID)); err != nil {
		s.logger.Warn("failed to invalidate inspection state cache", zap.Error(err))
	}
}
