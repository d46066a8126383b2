package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/repository"
	appErrors "github.com/tn02103/uniformAdministrationApp-sub004/pkg/errors"
)

type uniformCountStore interface {
	ListTypes(ctx context.Context, orgID string) ([]models.UniformType, error)
	FindTypeByID(ctx context.Context, id string) (*models.UniformType, error)
	ItemsWithIssueState(ctx context.Context, typeID string) ([]repository.ItemIssueRow, error)
	OpenIssueCountsByCadet(ctx context.Context, orgID, typeID string) ([]repository.CadetIssueCount, error)
}

// UniformCountService aggregates the inventory completeness reports. Every
// non-deleted item of a type lands in exactly one bucket; an item's effective
// reserve classification is its own flag OR'd with its generation's.
type UniformCountService struct {
	uniforms uniformCountStore
	logger   *zap.Logger
}

// NewUniformCountService builds a UniformCountService.
func NewUniformCountService(uniforms uniformCountStore, logger *zap.Logger) *UniformCountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UniformCountService{uniforms: uniforms, logger: logger}
}

// CountsByType returns the bucket and quota report for every equipment type
// of the organization.
func (s *UniformCountService) CountsByType(ctx context.Context, claims *models.JWTClaims) ([]dto.UniformTypeCount, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}

	types, err := s.uniforms.ListTypes(ctx, claims.OrganizationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list uniform types")
	}

	counts := make([]dto.UniformTypeCount, 0, len(types))
	for _, t := range types {
		count, err := s.countType(ctx, claims.OrganizationID, t)
		if err != nil {
			return nil, err
		}
		counts = append(counts, *count)
	}
	return counts, nil
}

func (s *UniformCountService) countType(ctx context.Context, orgID string, t models.UniformType) (*dto.UniformTypeCount, error) {
	rows, err := s.uniforms.ItemsWithIssueState(ctx, t.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load items")
	}

	count := &dto.UniformTypeCount{
		TypeID:              t.ID,
		TypeName:            t.Name,
		RequiredQuantity:    t.RequiredQuantity,
		IssuedReserveCadets: []dto.CadetRef{},
		MissingCadets:       []dto.CadetRef{},
	}

	seenReserveCadets := make(map[string]bool)
	for _, row := range rows {
		reserve := effectiveReserve(t, row)
		issued := row.CadetID != nil
		switch {
		case issued && reserve:
			count.IssuedReserve++
			if !seenReserveCadets[*row.CadetID] {
				seenReserveCadets[*row.CadetID] = true
				name := ""
				if row.CadetName != nil {
					name = *row.CadetName
				}
				count.IssuedReserveCadets = append(count.IssuedReserveCadets, dto.CadetRef{ID: *row.CadetID, Name: name})
			}
		case issued:
			count.Issued++
		case reserve:
			count.Reserve++
		default:
			count.Available++
		}
	}

	if t.RequiredQuantity > 0 {
		holders, err := s.uniforms.OpenIssueCountsByCadet(ctx, orgID, t.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count issuances")
		}
		for _, holder := range holders {
			if holder.OpenCount >= t.RequiredQuantity {
				continue
			}
			count.Missing += t.RequiredQuantity - holder.OpenCount
			count.MissingCadets = append(count.MissingCadets, dto.CadetRef{ID: holder.CadetID, Name: holder.CadetName})
		}
	}
	return count, nil
}

// CountsBySize returns the per-size breakdown of one type. Types that do not
// use sizes report an empty breakdown.
func (s *UniformCountService) CountsBySize(ctx context.Context, typeID string, claims *models.JWTClaims) (*dto.UniformSizeCountReport, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}

	t, err := s.uniforms.FindTypeByID(ctx, typeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load uniform type")
	}
	if t == nil || t.OrganizationID != claims.OrganizationID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "uniform type not found")
	}

	report := &dto.UniformSizeCountReport{
		TypeID:    t.ID,
		TypeName:  t.Name,
		UsesSizes: t.UsesSizes,
		Sizes:     []dto.UniformSizeCount{},
	}
	if !t.UsesSizes {
		return report, nil
	}

	rows, err := s.uniforms.ItemsWithIssueState(ctx, t.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load items")
	}

	index := make(map[string]int)
	for _, row := range rows {
		key := ""
		name := "unknown"
		if row.SizeID != nil {
			key = *row.SizeID
		}
		if row.SizeName != nil {
			name = *row.SizeName
		}

		pos, ok := index[key]
		if !ok {
			pos = len(report.Sizes)
			index[key] = pos
			report.Sizes = append(report.Sizes, dto.UniformSizeCount{SizeID: row.SizeID, SizeName: name})
		}

		bucket := &report.Sizes[pos]
		reserve := effectiveReserve(*t, row)
		issued := row.CadetID != nil
		switch {
		case issued && reserve:
			bucket.IssuedReserve++
		case issued:
			bucket.Issued++
		case reserve:
			bucket.Reserve++
		default:
			bucket.Available++
		}
	}
	return report, nil
}

func effectiveReserve(t models.UniformType, row repository.ItemIssueRow) bool {
	if row.IsReserve {
		return true
	}
	return t.UsesGenerations && row.GenerationReserve
}
