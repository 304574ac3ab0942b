package usecase

import (
	"context"
	"testing"

	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_TrimsAndDedupesLabels(t *testing.T) {
	categoryRepo := newFakeCategoryMappingRepo()
	attributeRepo := newFakeAttributeMappingRepo()
	uc := NewMappingUC(categoryRepo, attributeRepo, testLogger{})

	resolution, err := uc.Resolve(context.Background(), " Gadgets ", []string{" Color", "Color ", "Size", "  "})

	require.NoError(t, err)
	assert.Equal(t, []string{"Gadgets"}, categoryRepo.created)
	assert.Equal(t, []string{"Color", "Size"}, attributeRepo.created)
	assert.True(t, resolution.UnmappedCategory)
	assert.ElementsMatch(t, []string{"Color", "Size"}, resolution.UnmappedLabels)
}

func TestResolve_EmptyCategoryNotRegistered(t *testing.T) {
	for _, categoryName := range []string{"", "   "} {
		categoryRepo := newFakeCategoryMappingRepo()
		uc := NewMappingUC(categoryRepo, newFakeAttributeMappingRepo(), testLogger{})

		resolution, err := uc.Resolve(context.Background(), categoryName, nil)

		require.NoError(t, err)
		assert.True(t, resolution.UnmappedCategory)
		assert.Empty(t, categoryRepo.created, "empty category name must not produce a mapping row")
		assert.Empty(t, categoryRepo.mappings)
	}
}

func TestResolve_MappedRowsResolved(t *testing.T) {
	categoryRepo := newFakeCategoryMappingRepo()
	categoryID := int64(12)
	categoryRepo.mappings["Gadgets"] = &domain.CategoryMapping{
		SourceName:        "Gadgets",
		MagentoCategoryID: &categoryID,
		IsMapped:          true,
	}

	attributeRepo := newFakeAttributeMappingRepo()
	code := "color"
	attributeRepo.mappings["Color"] = &domain.AttributeMapping{
		SourceLabel:          "Color",
		MagentoAttributeCode: &code,
		MagentoAttributeType: domain.AttributeTypeSelect,
		IsMapped:             true,
	}

	uc := NewMappingUC(categoryRepo, attributeRepo, testLogger{})

	resolution, err := uc.Resolve(context.Background(), "Gadgets", []string{"Color"})

	require.NoError(t, err)
	assert.False(t, resolution.UnmappedCategory)
	assert.Equal(t, int64(12), resolution.CategoryID)
	assert.Equal(t, ResolvedAttribute{Code: "color", Type: domain.AttributeTypeSelect}, resolution.Attributes["Color"])
	assert.Empty(t, resolution.UnmappedLabels)
}

func TestSaveCategoryMapping_DerivesIsMapped(t *testing.T) {
	categoryRepo := newFakeCategoryMappingRepo()
	uc := NewMappingUC(categoryRepo, newFakeAttributeMappingRepo(), testLogger{})

	categoryID := int64(5)
	saved, err := uc.SaveCategoryMapping(context.Background(), &SaveCategoryMappingReq{
		SourceName:        " Gadgets ",
		MagentoCategoryID: &categoryID,
	})

	require.NoError(t, err)
	assert.Equal(t, "Gadgets", saved.SourceName)
	assert.True(t, saved.IsMapped)

	cleared, err := uc.SaveCategoryMapping(context.Background(), &SaveCategoryMappingReq{SourceName: "Gadgets"})
	require.NoError(t, err)
	assert.False(t, cleared.IsMapped)
}

func TestSaveCategoryMapping_RequiresName(t *testing.T) {
	uc := NewMappingUC(newFakeCategoryMappingRepo(), newFakeAttributeMappingRepo(), testLogger{})

	_, err := uc.SaveCategoryMapping(context.Background(), &SaveCategoryMappingReq{SourceName: "  "})

	assert.ErrorIs(t, err, e.ErrNameRequired)
}

func TestSaveAttributeMapping_DefaultsTypeToSelect(t *testing.T) {
	attributeRepo := newFakeAttributeMappingRepo()
	uc := NewMappingUC(newFakeCategoryMappingRepo(), attributeRepo, testLogger{})

	code := "color"
	saved, err := uc.SaveAttributeMapping(context.Background(), &SaveAttributeMappingReq{
		SourceLabel:          "Color",
		MagentoAttributeCode: &code,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.AttributeTypeSelect, saved.MagentoAttributeType)
	assert.True(t, saved.IsMapped)
}

func TestSaveAttributeMapping_RejectsUnknownType(t *testing.T) {
	uc := NewMappingUC(newFakeCategoryMappingRepo(), newFakeAttributeMappingRepo(), testLogger{})

	code := "color"
	_, err := uc.SaveAttributeMapping(context.Background(), &SaveAttributeMappingReq{
		SourceLabel:          "Color",
		MagentoAttributeCode: &code,
		MagentoAttributeType: "dropdown",
	})

	assert.ErrorIs(t, err, e.ErrStatusBadRequest)
}
