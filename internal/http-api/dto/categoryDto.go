package dto

import (
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
)

// CreateCategoryDTO used for POST /api/admin/categories
type CreateCategoryDTO struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// UpdateCategoryDTO used for PUT /api/admin/categories/:id
type UpdateCategoryDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

type CategoryResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	Icon          string  `json:"icon"`
	Slug          string  `json:"slug"`
	MaterialCount int64   `json:"material_count"`
}

func (d CreateCategoryDTO) ToModel() models.Category {
	c := models.Category{
		Name:        d.Name,
		Description: d.Description,
	}
	if d.Icon != nil {
		c.Icon = *d.Icon
	}
	return c
}

func (d UpdateCategoryDTO) ApplyTo(c *models.Category) {
	if d.Name != nil {
		c.Name = *d.Name
	}
	if d.Description != nil {
		c.Description = d.Description
	}
	if d.Icon != nil {
		c.Icon = *d.Icon
	}
}

func FromModelToCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		Icon:          c.Icon,
		Slug:          c.Slug,
		MaterialCount: c.MaterialCount,
	}
}
