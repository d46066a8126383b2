package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/repository"
	appErrors "github.com/tn02103/uniformAdministrationApp-sub004/pkg/errors"
)

type uniformCountStoreStub struct {
	types  []models.UniformType
	byID   map[string]*models.UniformType
	items  map[string][]repository.ItemIssueRow
	counts map[string][]repository.CadetIssueCount
}

func (s *uniformCountStoreStub) ListTypes(ctx context.Context, orgID string) ([]models.UniformType, error) {
	return s.types, nil
}

func (s *uniformCountStoreStub) FindTypeByID(ctx context.Context, id string) (*models.UniformType, error) {
	return s.byID[id], nil
}

func (s *uniformCountStoreStub) ItemsWithIssueState(ctx context.Context, typeID string) ([]repository.ItemIssueRow, error) {
	return s.items[typeID], nil
}

func (s *uniformCountStoreStub) OpenIssueCountsByCadet(ctx context.Context, orgID, typeID string) ([]repository.CadetIssueCount, error) {
	return s.counts[typeID], nil
}

func strptr(s string) *string { return &s }

func materialClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", OrganizationID: "org-1", Role: models.RoleMaterial}
}

func TestUniformCountServiceBuckets(t *testing.T) {
	jacket := models.UniformType{ID: "type-1", OrganizationID: "org-1", Name: "Jacket", UsesGenerations: true, RequiredQuantity: 1}
	store := &uniformCountStoreStub{
		types: []models.UniformType{jacket},
		items: map[string][]repository.ItemIssueRow{
			"type-1": {
				{ItemID: "i1"},
				{ItemID: "i2", CadetID: strptr("c1"), CadetName: strptr("Anna Berg")},
				{ItemID: "i3", IsReserve: true},
				{ItemID: "i4", GenerationReserve: true, CadetID: strptr("c2"), CadetName: strptr("Ben Carter")},
			},
		},
		counts: map[string][]repository.CadetIssueCount{
			"type-1": {
				{CadetID: "c1", CadetName: "Anna Berg", OpenCount: 1},
				{CadetID: "c2", CadetName: "Ben Carter", OpenCount: 1},
				{CadetID: "c3", CadetName: "Cora Diaz", OpenCount: 0},
			},
		},
	}
	svc := NewUniformCountService(store, nil)

	counts, err := svc.CountsByType(context.Background(), materialClaims())
	require.NoError(t, err)
	require.Len(t, counts, 1)

	c := counts[0]
	assert.Equal(t, 1, c.Available)
	assert.Equal(t, 1, c.Issued)
	assert.Equal(t, 1, c.Reserve)
	assert.Equal(t, 1, c.IssuedReserve)
	require.Len(t, c.IssuedReserveCadets, 1)
	assert.Equal(t, "c2", c.IssuedReserveCadets[0].ID)

	// c2 holds only a reserve item but still meets the quota of 1.
	assert.Equal(t, 1, c.Missing)
	require.Len(t, c.MissingCadets, 1)
	assert.Equal(t, "c3", c.MissingCadets[0].ID)
}

func TestUniformCountServiceMissingSumsShortfall(t *testing.T) {
	boots := models.UniformType{ID: "type-1", OrganizationID: "org-1", Name: "Boots", RequiredQuantity: 3}
	store := &uniformCountStoreStub{
		types: []models.UniformType{boots},
		counts: map[string][]repository.CadetIssueCount{
			"type-1": {
				{CadetID: "c1", CadetName: "Anna Berg", OpenCount: 3},
				{CadetID: "c2", CadetName: "Ben Carter", OpenCount: 1},
			},
		},
	}
	svc := NewUniformCountService(store, nil)

	counts, err := svc.CountsByType(context.Background(), materialClaims())
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 2, counts[0].Missing)
	require.Len(t, counts[0].MissingCadets, 1)
	assert.Equal(t, "c2", counts[0].MissingCadets[0].ID)
}

func TestUniformCountServiceGenerationReserveIgnoredWithoutGenerations(t *testing.T) {
	capType := models.UniformType{ID: "type-1", OrganizationID: "org-1", Name: "Cap", UsesGenerations: false}
	store := &uniformCountStoreStub{
		types: []models.UniformType{capType},
		items: map[string][]repository.ItemIssueRow{
			"type-1": {{ItemID: "i1", GenerationReserve: true}},
		},
	}
	svc := NewUniformCountService(store, nil)

	counts, err := svc.CountsByType(context.Background(), materialClaims())
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].Available)
	assert.Equal(t, 0, counts[0].Reserve)
}

func TestUniformCountServiceCountsBySize(t *testing.T) {
	shirt := models.UniformType{ID: "type-1", OrganizationID: "org-1", Name: "Shirt", UsesSizes: true}
	store := &uniformCountStoreStub{
		byID: map[string]*models.UniformType{"type-1": &shirt},
		items: map[string][]repository.ItemIssueRow{
			"type-1": {
				{ItemID: "i1", SizeID: strptr("s-m"), SizeName: strptr("M")},
				{ItemID: "i2", SizeID: strptr("s-m"), SizeName: strptr("M"), CadetID: strptr("c1")},
				{ItemID: "i3", SizeID: strptr("s-l"), SizeName: strptr("L"), IsReserve: true},
			},
		},
	}
	svc := NewUniformCountService(store, nil)

	report, err := svc.CountsBySize(context.Background(), "type-1", materialClaims())
	require.NoError(t, err)
	assert.True(t, report.UsesSizes)
	require.Len(t, report.Sizes, 2)
	assert.Equal(t, "M", report.Sizes[0].SizeName)
	assert.Equal(t, 1, report.Sizes[0].Available)
	assert.Equal(t, 1, report.Sizes[0].Issued)
	assert.Equal(t, "L", report.Sizes[1].SizeName)
	assert.Equal(t, 1, report.Sizes[1].Reserve)
}

func TestUniformCountServiceCountsBySizeWithoutSizes(t *testing.T) {
	belt := models.UniformType{ID: "type-1", OrganizationID: "org-1", Name: "Belt", UsesSizes: false}
	store := &uniformCountStoreStub{
		byID:  map[string]*models.UniformType{"type-1": &belt},
		items: map[string][]repository.ItemIssueRow{"type-1": {{ItemID: "i1"}}},
	}
	svc := NewUniformCountService(store, nil)

	report, err := svc.CountsBySize(context.Background(), "type-1", materialClaims())
	require.NoError(t, err)
	assert.False(t, report.UsesSizes)
	assert.Empty(t, report.Sizes)
}

func TestUniformCountServiceCountsBySizeForeignType(t *testing.T) {
	other := models.UniformType{ID: "type-1", OrganizationID: "org-other", Name: "Shirt", UsesSizes: true}
	store := &uniformCountStoreStub{byID: map[string]*models.UniformType{"type-1": &other}}
	svc := NewUniformCountService(store, nil)

	_, err := svc.CountsBySize(context.Background(), "type-1", materialClaims())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
