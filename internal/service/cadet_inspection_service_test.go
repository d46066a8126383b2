package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/repository"
	appErrors "github.com/tn02103/uniformAdministrationApp-sub004/pkg/errors"
)

type activeInspectionStub struct {
	inspection *models.Inspection
	err        error
}

func (s activeInspectionStub) ActiveInspection(ctx context.Context, orgID string) (*models.Inspection, error) {
	return s.inspection, s.err
}

type cadetReaderStub struct {
	cadets map[string]*models.Cadet
}

func (s cadetReaderStub) FindByID(ctx context.Context, id string) (*models.Cadet, error) {
	return s.cadets[id], nil
}

type formDeficiencyStoreStub struct {
	types  map[string]*models.DeficiencyType
	old    []dto.OldDeficiency
	raised []dto.NewDeficiency
}

func (s *formDeficiencyStoreStub) FindTypeByID(ctx context.Context, id string) (*models.DeficiencyType, error) {
	return s.types[id], nil
}

func (s *formDeficiencyStoreStub) CarryOver(ctx context.Context, orgID, cadetID, currentInspectionID string) ([]dto.OldDeficiency, error) {
	return s.old, nil
}

func (s *formDeficiencyStoreStub) CreatedByInspectionForCadet(ctx context.Context, inspectionID, cadetID string) ([]dto.NewDeficiency, error) {
	return s.raised, nil
}

type uniformReaderStub struct {
	types  map[string]*models.UniformType
	items  map[string]*models.UniformItem
	issued map[string]bool
}

func (s uniformReaderStub) FindTypeByID(ctx context.Context, id string) (*models.UniformType, error) {
	return s.types[id], nil
}

func (s uniformReaderStub) FindItemByID(ctx context.Context, id string) (*models.UniformItem, error) {
	return s.items[id], nil
}

func (s uniformReaderStub) HasOpenIssuance(ctx context.Context, itemID, cadetID string) (bool, error) {
	return s.issued[itemID+"/"+cadetID], nil
}

type materialReaderStub struct {
	materials map[string]*repository.MaterialRow
}

func (s materialReaderStub) FindByID(ctx context.Context, id string) (*repository.MaterialRow, error) {
	return s.materials[id], nil
}

type cadetInspectionStoreStub struct {
	saved    []repository.SaveParams
	existing *models.CadetInspection
	saveErr  error
}

func (s *cadetInspectionStoreStub) Save(ctx context.Context, params repository.SaveParams) (*models.CadetInspection, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saved = append(s.saved, params)
	return &models.CadetInspection{ID: "ci-1", InspectionID: params.InspectionID, CadetID: params.CadetID, UniformComplete: params.UniformComplete}, nil
}

func (s *cadetInspectionStoreStub) FindByInspectionAndCadet(ctx context.Context, inspectionID, cadetID string) (*models.CadetInspection, error) {
	return s.existing, nil
}

const itemRelTypeUUID = "5d4e5f6a-7b8c-4d9e-bf0a-2b3c4d5e6f70"

func inspectorClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", OrganizationID: "org-1", Role: models.RoleInspector}
}

func activeInspection() *models.Inspection {
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	started := today.Add(8 * time.Hour)
	return &models.Inspection{ID: "insp-1", OrganizationID: "org-1", Name: "Review", Date: today, StartedAt: &started}
}

func newRecorderFixture() (*CadetInspectionService, *cadetInspectionStoreStub, *formDeficiencyStoreStub) {
	deficiencies := &formDeficiencyStoreStub{
		types: map[string]*models.DeficiencyType{
			cadetTypeUUID:    {ID: cadetTypeUUID, OrganizationID: "org-1", Name: "Appearance", Dependent: models.DependentCadet, Relation: models.RelationNone},
			itemRelTypeUUID:  {ID: itemRelTypeUUID, OrganizationID: "org-1", Name: "Damaged", Dependent: models.DependentCadet, Relation: models.RelationItem},
			materialTypeUUID: {ID: materialTypeUUID, OrganizationID: "org-1", Name: "Missing material", Dependent: models.DependentCadet, Relation: models.RelationMaterial},
		},
	}
	uniforms := uniformReaderStub{
		types:  map[string]*models.UniformType{"ut-1": {ID: "ut-1", OrganizationID: "org-1", Name: "Jacket"}},
		items:  map[string]*models.UniformItem{"item-1": {ID: "item-1", TypeID: "ut-1", Number: 12}},
		issued: map[string]bool{"item-1/cadet-1": true},
	}
	materials := materialReaderStub{
		materials: map[string]*repository.MaterialRow{
			"mat-1": {ID: "mat-1", GroupID: "group-1", GroupName: "Epaulettes", OrganizationID: "org-1", Name: "Sergeant"},
		},
	}
	store := &cadetInspectionStoreStub{}
	svc := NewCadetInspectionService(
		activeInspectionStub{inspection: activeInspection()},
		cadetReaderStub{cadets: map[string]*models.Cadet{"cadet-1": {ID: "cadet-1", OrganizationID: "org-1", Active: true}}},
		deficiencies,
		uniforms,
		materials,
		store,
		nil, nil,
	)
	return svc, store, deficiencies
}

func TestCadetInspectionServiceFormDataRequiresActiveInspection(t *testing.T) {
	svc, _, _ := newRecorderFixture()
	blocked := NewCadetInspectionService(
		activeInspectionStub{err: appErrors.Clone(appErrors.ErrInspectionState, "no active inspection")},
		cadetReaderStub{cadets: map[string]*models.Cadet{"cadet-1": {ID: "cadet-1", OrganizationID: "org-1"}}},
		&formDeficiencyStoreStub{}, uniformReaderStub{}, materialReaderStub{}, &cadetInspectionStoreStub{}, nil, nil,
	)

	_, err := blocked.FormData(context.Background(), "cadet-1", inspectorClaims())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInspectionState))

	// sanity: the unblocked fixture serves the form
	form, err := svc.FormData(context.Background(), "cadet-1", inspectorClaims())
	require.NoError(t, err)
	assert.Equal(t, "cadet-1", form.CadetID)
	assert.Nil(t, form.UniformComplete)
}

func TestCadetInspectionServiceSaveRoundTrip(t *testing.T) {
	svc, store, _ := newRecorderFixture()

	req := dto.SaveCadetInspectionRequest{
		UniformComplete: true,
		Resolutions: []dto.DeficiencyResolution{
			{ID: "7c9f2ab4-4a44-4f6e-9a55-111111111111", Resolved: true},
		},
		NewDeficiencies: []dto.DeficiencyDraft{
			{TypeID: cadetTypeUUID, Description: "Unkempt appearance"},
			{TypeID: itemRelTypeUUID, ItemID: "item-1"},
		},
	}

	form, err := svc.Save(context.Background(), "cadet-1", req, inspectorClaims())
	require.NoError(t, err)
	require.NotNil(t, form)

	require.Len(t, store.saved, 1)
	params := store.saved[0]
	assert.Equal(t, "org-1", params.OrganizationID)
	assert.Equal(t, "insp-1", params.InspectionID)
	assert.Equal(t, "cadet-1", params.CadetID)
	assert.True(t, params.UniformComplete)
	require.Len(t, params.Resolutions, 1)
	assert.True(t, params.Resolutions[0].Resolved)

	require.Len(t, params.NewDeficiencies, 2)
	assert.Equal(t, "Unkempt appearance", params.NewDeficiencies[0].Description)
	// item draft gets a synthesized description from the catalog
	assert.Equal(t, "Jacket 12", params.NewDeficiencies[1].Description)
	require.NotNil(t, params.NewDeficiencies[1].ItemID)
	assert.Equal(t, "item-1", *params.NewDeficiencies[1].ItemID)
}

func TestCadetInspectionServiceSaveResolvesOtherMaterial(t *testing.T) {
	svc, store, _ := newRecorderFixture()

	req := dto.SaveCadetInspectionRequest{
		NewDeficiencies: []dto.DeficiencyDraft{
			{
				TypeID:               materialTypeUUID,
				MaterialID:           "other",
				OtherMaterialID:      "mat-1",
				OtherMaterialGroupID: "group-1",
			},
		},
	}

	_, err := svc.Save(context.Background(), "cadet-1", req, inspectorClaims())
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	d := store.saved[0].NewDeficiencies[0]
	require.NotNil(t, d.MaterialID)
	assert.Equal(t, "mat-1", *d.MaterialID)
	assert.Equal(t, "Epaulettes Sergeant", d.Description)
}

func TestCadetInspectionServiceSaveOtherMaterialGroupMismatch(t *testing.T) {
	svc, _, _ := newRecorderFixture()

	req := dto.SaveCadetInspectionRequest{
		NewDeficiencies: []dto.DeficiencyDraft{
			{
				TypeID:               materialTypeUUID,
				MaterialID:           "other",
				OtherMaterialID:      "mat-1",
				OtherMaterialGroupID: "group-wrong",
			},
		},
	}

	_, err := svc.Save(context.Background(), "cadet-1", req, inspectorClaims())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCadetInspectionServiceSaveRejectsUnissuedItem(t *testing.T) {
	svc, _, _ := newRecorderFixture()

	req := dto.SaveCadetInspectionRequest{
		NewDeficiencies: []dto.DeficiencyDraft{
			{TypeID: itemRelTypeUUID, ItemID: "item-unknown"},
		},
	}

	_, err := svc.Save(context.Background(), "cadet-1", req, inspectorClaims())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestCadetInspectionServiceSaveRequiresDescriptionWithoutRelation(t *testing.T) {
	svc, _, _ := newRecorderFixture()

	req := dto.SaveCadetInspectionRequest{
		NewDeficiencies: []dto.DeficiencyDraft{
			{TypeID: cadetTypeUUID},
		},
	}

	_, err := svc.Save(context.Background(), "cadet-1", req, inspectorClaims())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCadetInspectionServiceSaveForeignCadet(t *testing.T) {
	svc, _, _ := newRecorderFixture()

	_, err := svc.Save(context.Background(), "cadet-unknown", dto.SaveCadetInspectionRequest{}, inspectorClaims())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestCadetInspectionServiceFormDataEchoesStoredFlag(t *testing.T) {
	svc, store, deficiencies := newRecorderFixture()
	store.existing = &models.CadetInspection{ID: "ci-1", InspectionID: "insp-1", CadetID: "cadet-1", UniformComplete: true}
	deficiencies.old = []dto.OldDeficiency{{ID: "def-1", TypeID: cadetTypeUUID, TypeName: "Appearance", Resolved: true}}

	form, err := svc.FormData(context.Background(), "cadet-1", inspectorClaims())
	require.NoError(t, err)
	require.NotNil(t, form.UniformComplete)
	assert.True(t, *form.UniformComplete)
	require.Len(t, form.OldDeficiencyList, 1)
	assert.True(t, form.OldDeficiencyList[0].Resolved)
}
