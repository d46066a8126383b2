package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/repository"
	appErrors "github.com/tn02103/uniformAdministrationApp-sub004/pkg/errors"
)

// otherMaterialSentinel marks a draft whose material lives outside the group
// the form pre-selected; the real reference then sits in OtherMaterialID.
const otherMaterialSentinel = "other"

type activeInspectionProvider interface {
	ActiveInspection(ctx context.Context, orgID string) (*models.Inspection, error)
}

type cadetReader interface {
	FindByID(ctx context.Context, id string) (*models.Cadet, error)
}

type formDeficiencyStore interface {
	FindTypeByID(ctx context.Context, id string) (*models.DeficiencyType, error)
	CarryOver(ctx context.Context, orgID, cadetID, currentInspectionID string) ([]dto.OldDeficiency, error)
	CreatedByInspectionForCadet(ctx context.Context, inspectionID, cadetID string) ([]dto.NewDeficiency, error)
}

type uniformReader interface {
	FindTypeByID(ctx context.Context, id string) (*models.UniformType, error)
	FindItemByID(ctx context.Context, id string) (*models.UniformItem, error)
	HasOpenIssuance(ctx context.Context, itemID, cadetID string) (bool, error)
}

type materialReader interface {
	FindByID(ctx context.Context, id string) (*repository.MaterialRow, error)
}

type cadetInspectionStore interface {
	Save(ctx context.Context, params repository.SaveParams) (*models.CadetInspection, error)
	FindByInspectionAndCadet(ctx context.Context, inspectionID, cadetID string) (*models.CadetInspection, error)
}

// CadetInspectionService is the per-cadet inspection recorder. Both the form
// data and the submission are gated on an ACTIVE inspection; the submission
// itself commits in a single repository transaction.
type CadetInspectionService struct {
	inspections  activeInspectionProvider
	cadets       cadetReader
	deficiencies formDeficiencyStore
	uniforms     uniformReader
	materials    materialReader
	store        cadetInspectionStore
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewCadetInspectionService builds a CadetInspectionService.
func NewCadetInspectionService(
	inspections activeInspectionProvider,
	cadets cadetReader,
	deficiencies formDeficiencyStore,
	uniforms uniformReader,
	materials materialReader,
	store cadetInspectionStore,
	validate *validator.Validate,
	logger *zap.Logger,
) *CadetInspectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CadetInspectionService{
		inspections:  inspections,
		cadets:       cadets,
		deficiencies: deficiencies,
		uniforms:     uniforms,
		materials:    materials,
		store:        store,
		validator:    validate,
		logger:       logger,
		now:          time.Now,
	}
}

// FormData assembles the inspection form for one cadet: the carry-over list,
// anything already raised for them during this inspection, and the stored
// completeness flag if the cadet was saved before.
func (s *CadetInspectionService) FormData(ctx context.Context, cadetID string, claims *models.JWTClaims) (*dto.CadetInspectionFormData, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	cadet, err := s.ensureCadet(ctx, cadetID, claims)
	if err != nil {
		return nil, err
	}
	insp, err := s.inspections.ActiveInspection(ctx, claims.OrganizationID)
	if err != nil {
		return nil, err
	}

	old, err := s.deficiencies.CarryOver(ctx, claims.OrganizationID, cadet.ID, insp.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load carry-over deficiencies")
	}
	raised, err := s.deficiencies.CreatedByInspectionForCadet(ctx, insp.ID, cadet.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load raised deficiencies")
	}

	form := &dto.CadetInspectionFormData{
		CadetID:           cadet.ID,
		OldDeficiencyList: old,
		NewDeficiencyList: raised,
	}
	ci, err := s.store.FindByInspectionAndCadet(ctx, insp.ID, cadet.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cadet inspection")
	}
	if ci != nil {
		form.UniformComplete = &ci.UniformComplete
	}
	return form, nil
}

// Save validates and commits one cadet's submission, then returns the
// refreshed form so the client can redisplay the saved state.
func (s *CadetInspectionService) Save(ctx context.Context, cadetID string, req dto.SaveCadetInspectionRequest, claims *models.JWTClaims) (*dto.CadetInspectionFormData, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inspection submission")
	}
	cadet, err := s.ensureCadet(ctx, cadetID, claims)
	if err != nil {
		return nil, err
	}
	insp, err := s.inspections.ActiveInspection(ctx, claims.OrganizationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	resolutions := make([]repository.ResolutionParams, 0, len(req.Resolutions))
	for _, res := range req.Resolutions {
		resolutions = append(resolutions, repository.ResolutionParams{
			DeficiencyID: res.ID,
			Resolved:     res.Resolved,
		})
	}

	newDeficiencies := make([]models.Deficiency, 0, len(req.NewDeficiencies))
	for idx, draft := range req.NewDeficiencies {
		d, err := s.buildDraft(ctx, cadet, insp, draft, now, claims)
		if err != nil {
			appErr := appErrors.FromError(err)
			return nil, appErrors.Wrap(err, appErr.Code, appErr.Status,
				fmt.Sprintf("deficiency %d: %s", idx, appErr.Message))
		}
		newDeficiencies = append(newDeficiencies, *d)
	}

	if _, err := s.store.Save(ctx, repository.SaveParams{
		OrganizationID:  claims.OrganizationID,
		InspectionID:    insp.ID,
		CadetID:         cadet.ID,
		UniformComplete: req.UniformComplete,
		Resolutions:     resolutions,
		NewDeficiencies: newDeficiencies,
		Now:             now,
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save cadet inspection")
	}

	return s.FormData(ctx, cadet.ID, claims)
}

// buildDraft turns a form draft into a persistable deficiency: the target is
// derived from the type's Dependent/Relation, references are verified, and a
// display description is synthesized when the form left it empty.
func (s *CadetInspectionService) buildDraft(ctx context.Context, cadet *models.Cadet, insp *models.Inspection, draft dto.DeficiencyDraft, now time.Time, claims *models.JWTClaims) (*models.Deficiency, error) {
	defType, err := s.deficiencies.FindTypeByID(ctx, draft.TypeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load deficiency type")
	}
	if defType == nil || defType.OrganizationID != claims.OrganizationID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "deficiency type not found")
	}

	d := &models.Deficiency{
		TypeID:              defType.ID,
		Description:         draft.Description,
		Comment:             draft.Comment,
		CreatedAt:           now,
		CreatedByInspection: &insp.ID,
	}

	switch defType.Dependent {
	case models.DependentItem:
		item, label, err := s.requireIssuedItem(ctx, draft.ItemID, cadet.ID)
		if err != nil {
			return nil, err
		}
		d.ItemID = &item.ID
		if d.Description == "" {
			d.Description = label
		}

	case models.DependentCadet:
		d.CadetID = &cadet.ID
		switch defType.Relation {
		case models.RelationNone:
			if d.Description == "" {
				return nil, appErrors.Clone(appErrors.ErrValidation, "description is required")
			}
		case models.RelationItem:
			item, label, err := s.requireIssuedItem(ctx, draft.ItemID, cadet.ID)
			if err != nil {
				return nil, err
			}
			d.ItemID = &item.ID
			if d.Description == "" {
				d.Description = label
			}
		case models.RelationMaterial:
			material, err := s.resolveMaterial(ctx, draft, claims)
			if err != nil {
				return nil, err
			}
			d.MaterialID = &material.ID
			if d.Description == "" {
				d.Description = material.GroupName + " " + material.Name
			}
		}

	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported deficiency dependent")
	}

	return d, nil
}

// requireIssuedItem verifies the referenced item exists and is currently
// issued to the cadet, returning a display label alongside.
func (s *CadetInspectionService) requireIssuedItem(ctx context.Context, itemID, cadetID string) (*models.UniformItem, string, error) {
	if itemID == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "deficiency type requires an item reference")
	}
	item, err := s.uniforms.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load uniform item")
	}
	if item == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "uniform item not found")
	}
	issued, err := s.uniforms.HasOpenIssuance(ctx, item.ID, cadetID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check issuance")
	}
	if !issued {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "item is not issued to the cadet")
	}

	label := fmt.Sprintf("#%d", item.Number)
	if t, err := s.uniforms.FindTypeByID(ctx, item.TypeID); err == nil && t != nil {
		label = fmt.Sprintf("%s %d", t.Name, item.Number)
	}
	return item, label, nil
}

// resolveMaterial dereferences the draft's material, honoring the "other"
// sentinel, and verifies organization ownership plus the optional group hint.
func (s *CadetInspectionService) resolveMaterial(ctx context.Context, draft dto.DeficiencyDraft, claims *models.JWTClaims) (*repository.MaterialRow, error) {
	materialID := draft.MaterialID
	if materialID == otherMaterialSentinel {
		materialID = draft.OtherMaterialID
	}
	if materialID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "deficiency type requires a material reference")
	}

	material, err := s.materials.FindByID(ctx, materialID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	if material == nil || material.OrganizationID != claims.OrganizationID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
	}
	if draft.MaterialID == otherMaterialSentinel && draft.OtherMaterialGroupID != "" &&
		material.GroupID != draft.OtherMaterialGroupID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "material does not belong to the referenced group")
	}
	return material, nil
}

func (s *CadetInspectionService) ensureCadet(ctx context.Context, cadetID string, claims *models.JWTClaims) (*models.Cadet, error) {
	cadet, err := s.cadets.FindByID(ctx, cadetID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cadet")
	}
	if cadet == nil || cadet.OrganizationID != claims.OrganizationID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "cadet not found")
	}
	return cadet, nil
}
