package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	appErrors "github.com/tn02103/uniformAdministrationApp-sub004/pkg/errors"
)

type deregistrationCounter interface {
	Count(ctx context.Context, inspectionID string) (int, error)
}

type reviewDeficiencyStore interface {
	CountCreatedByInspection(ctx context.Context, inspectionID string) (int, error)
	CountResolvedByInspection(ctx context.Context, inspectionID string) (int, error)
	CountActiveAsOf(ctx context.Context, orgID string, asOf time.Time) (int, error)
	CadetBreakdownAsOf(ctx context.Context, orgID, inspectionID string, asOf time.Time) ([]dto.CadetReviewEntry, error)
}

// ReviewService computes the point-in-time review snapshot of an inspection.
// All deficiency counts are evaluated as of the end of the inspection's date,
// so regenerating the review later yields the same numbers even after newer
// inspections have run.
type ReviewService struct {
	deficiencies    reviewDeficiencyStore
	cadets          cadetCounter
	cadetInspection cadetInspectionCounter
	deregistrations deregistrationCounter
	logger          *zap.Logger
	now             func() time.Time
}

// NewReviewService builds a ReviewService.
func NewReviewService(
	deficiencies reviewDeficiencyStore,
	cadets cadetCounter,
	cadetInspection cadetInspectionCounter,
	deregistrations deregistrationCounter,
	logger *zap.Logger,
) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		deficiencies:    deficiencies,
		cadets:          cadets,
		cadetInspection: cadetInspection,
		deregistrations: deregistrations,
		logger:          logger,
		now:             time.Now,
	}
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}

// Build assembles the review for the given inspection.
func (s *ReviewService) Build(ctx context.Context, insp *models.Inspection) (*dto.InspectionReview, error) {
	if insp == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "inspection not found")
	}

	asOf := endOfDay(insp.Date)
	review := &dto.InspectionReview{
		InspectionID: insp.ID,
		Name:         insp.Name,
		Date:         insp.Date.Format("2006-01-02"),
		StartedAt:    insp.StartedAt,
		EndedAt:      insp.EndedAt,
		GeneratedAt:  s.now(),
	}

	var err error
	if review.ActiveCadets, err = s.cadets.CountActive(ctx, insp.OrganizationID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count cadets")
	}
	if review.DeregisteredCadets, err = s.deregistrations.Count(ctx, insp.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count deregistrations")
	}
	if review.InspectedCadets, err = s.cadetInspection.CountByInspection(ctx, insp.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count inspected cadets")
	}
	if review.NewDeficiencies, err = s.deficiencies.CountCreatedByInspection(ctx, insp.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count new deficiencies")
	}
	if review.ResolvedDeficiencies, err = s.deficiencies.CountResolvedByInspection(ctx, insp.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count resolved deficiencies")
	}
	if review.ActiveDeficiencies, err = s.deficiencies.CountActiveAsOf(ctx, insp.OrganizationID, asOf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active deficiencies")
	}
	if review.CadetBreakdown, err = s.deficiencies.CadetBreakdownAsOf(ctx, insp.OrganizationID, insp.ID, asOf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build cadet breakdown")
	}
	return review, nil
}
