// Package fallback holds the fixed substitute datasets served when the
// record store is unreachable, so public pages stay populated instead of
// showing zero results.
package fallback

import (
	"time"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/dto"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
)

func strPtr(s string) *string { return &s }

var baseTime = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

// Materials returns a fresh copy of the fallback material set.
func Materials() []models.Material {
	return []models.Material{
		{
			ID:          "fallback-1",
			Title:       "UPSC Complete Study Guide",
			Description: strPtr("Comprehensive preparation material covering the full UPSC syllabus"),
			Category:    "Competitive Exams",
			FileURL:     "https://example.com/materials/upsc-guide.pdf",
			ImageURL:    strPtr("https://example.com/images/upsc-guide.jpg"),
			Downloads:   15420,
			Views:       28350,
			Rating:      4.8,
			RatingCount: 1245,
			Status:      models.StatusActive,
			Author:      strPtr("Exam Prep Team"),
			FileType:    strPtr("pdf"),
			Language:    "English",
			CreatedAt:   baseTime,
			UpdatedAt:   baseTime,
		},
		{
			ID:          "fallback-2",
			Title:       "NCERT Mathematics Class 12",
			Description: strPtr("Complete NCERT mathematics textbook with solved examples"),
			Category:    "School Books",
			FileURL:     "https://example.com/materials/ncert-math-12.pdf",
			ImageURL:    strPtr("https://example.com/images/ncert-math.jpg"),
			Downloads:   9830,
			Views:       17200,
			Rating:      4.6,
			RatingCount: 890,
			Status:      models.StatusActive,
			Author:      strPtr("NCERT"),
			FileType:    strPtr("pdf"),
			Language:    "English",
			CreatedAt:   baseTime.AddDate(0, 0, -7),
			UpdatedAt:   baseTime.AddDate(0, 0, -7),
		},
		{
			ID:          "fallback-3",
			Title:       "English Grammar Essentials",
			Description: strPtr("Grammar rules, usage and practice exercises for all levels"),
			Category:    "Language Learning",
			FileURL:     "https://example.com/materials/english-grammar.pdf",
			Downloads:   7210,
			Views:       13400,
			Rating:      4.4,
			RatingCount: 612,
			Status:      models.StatusActive,
			Author:      strPtr("Language Lab"),
			FileType:    strPtr("pdf"),
			Language:    "English",
			CreatedAt:   baseTime.AddDate(0, 0, -14),
			UpdatedAt:   baseTime.AddDate(0, 0, -14),
		},
	}
}

// Categories returns a fresh copy of the fallback category set,
// already ordered by name ascending.
func Categories() []models.Category {
	return []models.Category{
		{ID: "fallback-cat-1", Name: "Competitive Exams", Icon: "🏆", Slug: "competitive-exams", MaterialCount: 1},
		{ID: "fallback-cat-2", Name: "Language Learning", Icon: "🗣️", Slug: "language-learning", MaterialCount: 1},
		{ID: "fallback-cat-3", Name: "School Books", Icon: "📖", Slug: "school-books", MaterialCount: 1},
	}
}

// Stats returns the fixed aggregates shown when every stats query fails.
func Stats() dto.StatsResponse {
	return dto.StatsResponse{
		TotalMaterials: int64(len(Materials())),
		TotalDownloads: 50000,
		TotalViews:     75000,
		TotalUsers:     5000,
	}
}
