package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
)

func strPtr(s string) *string { return &s }

func sampleMaterials() []models.Material {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return []models.Material{
		{
			ID:        "m-alpha",
			Title:     "Alpha Physics",
			Category:  "Science",
			Downloads: 100,
			Views:     50,
			Rating:    4.0,
			Status:    models.StatusActive,
			CreatedAt: base,
		},
		{
			ID:          "m-beta",
			Title:       "Beta Chemistry",
			Description: strPtr("covers UPSC chemistry topics"),
			Category:    "Science",
			Downloads:   300,
			Views:       20,
			Rating:      4.5,
			Status:      models.StatusActive,
			CreatedAt:   base.AddDate(0, 0, 1),
		},
		{
			ID:        "m-gamma",
			Title:     "UPSC History Notes",
			Category:  "Competitive Exams",
			Downloads: 200,
			Views:     80,
			Rating:    3.9,
			Status:    models.StatusPending,
			CreatedAt: base.AddDate(0, 0, 2),
		},
	}
}

func TestFilterMaterials_SearchMatchesTitleAndDescription(t *testing.T) {
	got := FilterMaterials(sampleMaterials(), "upsc", "")

	ids := make([]string, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.ID)
	}
	// "upsc" matches m-gamma on title and m-beta on description, any case.
	assert.ElementsMatch(t, []string{"m-beta", "m-gamma"}, ids)
}

func TestFilterMaterials_CategoryExactMatch(t *testing.T) {
	got := FilterMaterials(sampleMaterials(), "", "Science")
	assert.Len(t, got, 2)

	got = FilterMaterials(sampleMaterials(), "", "science")
	assert.Empty(t, got, "category match is exact, not case-insensitive")
}

func TestFilterMaterials_DoesNotMutateInput(t *testing.T) {
	input := sampleMaterials()
	FilterMaterials(input, "upsc", "")
	assert.Equal(t, "m-alpha", input[0].ID)
	assert.Len(t, input, 3)
}

func TestSortMaterials_Downloads(t *testing.T) {
	got := SortMaterials(sampleMaterials(), SortDownloads)
	assert.Equal(t, []string{"m-beta", "m-gamma", "m-alpha"}, idsOf(got))
}

func TestSortMaterials_TitleCaseInsensitive(t *testing.T) {
	got := SortMaterials(sampleMaterials(), SortTitle)
	assert.Equal(t, []string{"m-alpha", "m-beta", "m-gamma"}, idsOf(got))
}

func TestSortMaterials_DefaultsToNewest(t *testing.T) {
	for _, sortBy := range []string{"", "bogus"} {
		got := SortMaterials(sampleMaterials(), sortBy)
		assert.Equal(t, []string{"m-gamma", "m-beta", "m-alpha"}, idsOf(got), "sort=%q", sortBy)
	}
}

func TestSortMaterials_Oldest(t *testing.T) {
	got := SortMaterials(sampleMaterials(), SortOldest)
	assert.Equal(t, []string{"m-alpha", "m-beta", "m-gamma"}, idsOf(got))
}

func TestSortMaterials_StableOnEqualKeys(t *testing.T) {
	list := sampleMaterials()
	for i := range list {
		list[i].Rating = 4.0
	}
	got := SortMaterials(list, SortRating)
	assert.Equal(t, []string{"m-alpha", "m-beta", "m-gamma"}, idsOf(got))
}

func TestValidSortOrder(t *testing.T) {
	for _, s := range []string{SortNewest, SortOldest, SortDownloads, SortViews, SortRating, SortTitle} {
		assert.True(t, ValidSortOrder(s))
	}
	assert.False(t, ValidSortOrder("popularity"))
	assert.False(t, ValidSortOrder(""))
}

func idsOf(list []models.Material) []string {
	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
	}
	return ids
}
