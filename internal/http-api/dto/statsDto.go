package dto

// StatsResponse carries the four public aggregates. Each number comes from
// an independent query, so they are not guaranteed mutually consistent at a
// single instant.
type StatsResponse struct {
	TotalMaterials int64 `json:"total_materials"`
	TotalDownloads int64 `json:"total_downloads"`
	TotalViews     int64 `json:"total_views"`
	TotalUsers     int64 `json:"total_users"`
}
