package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	appErrors "github.com/tn02103/uniformAdministrationApp-sub004/pkg/errors"
)

type deficiencyStore interface {
	ListTypes(ctx context.Context, orgID string) ([]models.DeficiencyType, error)
	FindTypeByID(ctx context.Context, id string) (*models.DeficiencyType, error)
	FindByID(ctx context.Context, id string) (*models.Deficiency, error)
	Create(ctx context.Context, d *models.Deficiency) error
	Resolve(ctx context.Context, id, inspectionID string, at time.Time) error
	Unresolve(ctx context.Context, id string) error
	UnresolvedForCadet(ctx context.Context, orgID, cadetID string) ([]dto.OldDeficiency, error)
}

type issuanceChecker interface {
	HasOpenIssuance(ctx context.Context, itemID, cadetID string) (bool, error)
}

type inspectionReader interface {
	FindByID(ctx context.Context, id string) (*models.Inspection, error)
}

type itemReader interface {
	FindItemByID(ctx context.Context, id string) (*models.UniformItem, error)
}

// CreateDeficiencyParams carries a deficiency to record outside of an
// inspection submission. The target kind is derived from the type's
// Dependent, never from which reference happens to be set.
type CreateDeficiencyParams struct {
	TypeID       string `validate:"required,uuid4"`
	Description  string `validate:"max=200"`
	Comment      string `validate:"max=1000"`
	CadetID      string
	ItemID       string
	MaterialID   string
	InspectionID *string
}

// DeficiencyService owns the deficiency primitives: listing types, recording,
// resolving and unresolving. The inspection recorder composes these inside its
// own transaction; this service serves the standalone endpoints.
type DeficiencyService struct {
	repo        deficiencyStore
	inspections inspectionReader
	items       itemReader
	issuances   issuanceChecker
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewDeficiencyService builds a DeficiencyService.
func NewDeficiencyService(repo deficiencyStore, inspections inspectionReader, items itemReader, issuances issuanceChecker, validate *validator.Validate, logger *zap.Logger) *DeficiencyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeficiencyService{
		repo:        repo,
		inspections: inspections,
		items:       items,
		issuances:   issuances,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// ListTypes returns the organization's deficiency categories.
func (s *DeficiencyService) ListTypes(ctx context.Context, claims *models.JWTClaims) ([]dto.DeficiencyTypeItem, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	types, err := s.repo.ListTypes(ctx, claims.OrganizationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list deficiency types")
	}
	items := make([]dto.DeficiencyTypeItem, 0, len(types))
	for _, t := range types {
		items = append(items, dto.DeficiencyTypeItem{
			ID:        t.ID,
			Name:      t.Name,
			Dependent: string(t.Dependent),
			Relation:  string(t.Relation),
		})
	}
	return items, nil
}

// Create records a deficiency against the target required by its type.
func (s *DeficiencyService) Create(ctx context.Context, params CreateDeficiencyParams, claims *models.JWTClaims) (*models.Deficiency, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(params); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid deficiency payload")
	}

	defType, err := s.loadType(ctx, params.TypeID, claims.OrganizationID)
	if err != nil {
		return nil, err
	}

	target := models.DeficiencyTarget{
		CadetID:    params.CadetID,
		ItemID:     params.ItemID,
		MaterialID: params.MaterialID,
	}
	switch defType.Dependent {
	case models.DependentItem:
		target.Kind = models.TargetItem
	default:
		target.Kind = models.TargetCadet
	}
	if err := s.validateTarget(ctx, defType, target); err != nil {
		return nil, err
	}
	if params.Description == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "description is required")
	}

	d := &models.Deficiency{
		TypeID:              defType.ID,
		Description:         params.Description,
		Comment:             params.Comment,
		CreatedAt:           s.now(),
		CreatedByInspection: params.InspectionID,
	}
	switch target.Kind {
	case models.TargetItem:
		d.ItemID = &target.ItemID
	case models.TargetCadet:
		d.CadetID = &target.CadetID
		if defType.Relation == models.RelationItem {
			d.ItemID = &target.ItemID
		}
		if defType.Relation == models.RelationMaterial {
			d.MaterialID = &target.MaterialID
		}
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create deficiency")
	}
	return d, nil
}

// Resolve marks a deficiency resolved, attributing the resolution to the
// given inspection. Both the deficiency and the inspection must belong to the
// caller's organization.
func (s *DeficiencyService) Resolve(ctx context.Context, id, inspectionID string, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if _, err := s.loadOwnedDeficiency(ctx, id, claims.OrganizationID); err != nil {
		return err
	}
	insp, err := s.inspections.FindByID(ctx, inspectionID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inspection")
	}
	if insp == nil || insp.OrganizationID != claims.OrganizationID {
		return appErrors.Clone(appErrors.ErrNotFound, "inspection not found")
	}
	if err := s.repo.Resolve(ctx, id, inspectionID, s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "deficiency not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve deficiency")
	}
	return nil
}

// Unresolve reopens a deficiency, clearing both resolution fields. The
// deficiency must belong to the caller's organization.
func (s *DeficiencyService) Unresolve(ctx context.Context, id string, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if _, err := s.loadOwnedDeficiency(ctx, id, claims.OrganizationID); err != nil {
		return err
	}
	if err := s.repo.Unresolve(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "deficiency not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unresolve deficiency")
	}
	return nil
}

// UnresolvedForCadet lists the open deficiencies relevant to a cadet, either
// recorded against the cadet directly or against an item currently issued to
// them.
func (s *DeficiencyService) UnresolvedForCadet(ctx context.Context, cadetID string, claims *models.JWTClaims) ([]dto.OldDeficiency, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	rows, err := s.repo.UnresolvedForCadet(ctx, claims.OrganizationID, cadetID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list deficiencies")
	}
	return rows, nil
}

// loadOwnedDeficiency fetches a deficiency and verifies, through its type,
// that it belongs to the given organization. Foreign rows are reported as
// missing rather than forbidden.
func (s *DeficiencyService) loadOwnedDeficiency(ctx context.Context, id, orgID string) (*models.Deficiency, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load deficiency")
	}
	if d == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "deficiency not found")
	}
	defType, err := s.repo.FindTypeByID(ctx, d.TypeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load deficiency type")
	}
	if defType == nil || defType.OrganizationID != orgID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "deficiency not found")
	}
	return d, nil
}

func (s *DeficiencyService) loadType(ctx context.Context, typeID, orgID string) (*models.DeficiencyType, error) {
	defType, err := s.repo.FindTypeByID(ctx, typeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load deficiency type")
	}
	if defType == nil || defType.OrganizationID != orgID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "deficiency type not found")
	}
	return defType, nil
}

// validateTarget enforces the type's Dependent/Relation contract on the
// target union and verifies item references against the issuance ledger.
func (s *DeficiencyService) validateTarget(ctx context.Context, defType *models.DeficiencyType, target models.DeficiencyTarget) error {
	switch defType.Dependent {
	case models.DependentItem:
		if target.Kind != models.TargetItem || target.ItemID == "" {
			return appErrors.Clone(appErrors.ErrValidation, "deficiency type requires an item target")
		}
		if target.CadetID != "" || target.MaterialID != "" {
			return appErrors.Clone(appErrors.ErrValidation, "item deficiencies carry no cadet or material reference")
		}
		item, err := s.items.FindItemByID(ctx, target.ItemID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load uniform item")
		}
		if item == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "uniform item not found")
		}
		return nil

	case models.DependentCadet:
		if target.Kind != models.TargetCadet || target.CadetID == "" {
			return appErrors.Clone(appErrors.ErrValidation, "deficiency type requires a cadet target")
		}
		switch defType.Relation {
		case models.RelationNone:
			if target.ItemID != "" || target.MaterialID != "" {
				return appErrors.Clone(appErrors.ErrValidation, "deficiency type carries no item or material reference")
			}
		case models.RelationItem:
			if target.ItemID == "" {
				return appErrors.Clone(appErrors.ErrValidation, "deficiency type requires an item reference")
			}
			if target.MaterialID != "" {
				return appErrors.Clone(appErrors.ErrValidation, "deficiency type carries no material reference")
			}
			issued, err := s.issuances.HasOpenIssuance(ctx, target.ItemID, target.CadetID)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check issuance")
			}
			if !issued {
				return appErrors.Clone(appErrors.ErrValidation, "item is not issued to the cadet")
			}
		case models.RelationMaterial:
			if target.MaterialID == "" {
				return appErrors.Clone(appErrors.ErrValidation, "deficiency type requires a material reference")
			}
			if target.ItemID != "" {
				return appErrors.Clone(appErrors.ErrValidation, "deficiency type carries no item reference")
			}
		}
		return nil

	default:
		return appErrors.Clone(appErrors.ErrValidation, "unsupported deficiency dependent")
	}
}
