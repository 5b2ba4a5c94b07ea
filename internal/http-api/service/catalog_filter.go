package service

import (
	"sort"
	"strings"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
)

// Sort orders accepted by the catalog listing.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortDownloads = "downloads"
	SortViews     = "views"
	SortRating    = "rating"
	SortTitle     = "title"
)

// ValidSortOrder reports whether s is one of the accepted sort orders.
func ValidSortOrder(s string) bool {
	switch s {
	case SortNewest, SortOldest, SortDownloads, SortViews, SortRating, SortTitle:
		return true
	}
	return false
}

// FilterMaterials applies the search and category filters over a snapshot.
// Search matches title or description, case-insensitively, as a plain
// substring (not tokenized, not ranked). Category matches exactly.
// Pure: never mutates the input slice.
func FilterMaterials(list []models.Material, searchText, categoryName string) []models.Material {
	filtered := make([]models.Material, 0, len(list))
	needle := strings.ToLower(strings.TrimSpace(searchText))

	for _, m := range list {
		if needle != "" {
			title := strings.ToLower(m.Title)
			desc := ""
			if m.Description != nil {
				desc = strings.ToLower(*m.Description)
			}
			if !strings.Contains(title, needle) && !strings.Contains(desc, needle) {
				continue
			}
		}
		if categoryName != "" && m.Category != categoryName {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// SortMaterials orders a snapshot by the requested sort order. An empty or
// unknown order falls back to newest. The sort is stable so equal keys keep
// their fetch order. Sorts in place and returns the same slice.
func SortMaterials(list []models.Material, sortBy string) []models.Material {
	switch sortBy {
	case SortOldest:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})
	case SortDownloads:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Downloads > list[j].Downloads
		})
	case SortViews:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Views > list[j].Views
		})
	case SortRating:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Rating > list[j].Rating
		})
	case SortTitle:
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].Title) < strings.ToLower(list[j].Title)
		})
	default: // SortNewest
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
	}
	return list
}
