package dto

import "github.com/Alwanly/service-remote-update/internal/models"

type ListLogsQuery struct {
	Limit int `query:"limit" json:"limit" validate:"omitempty,min=1,max=500"`
}

type SiteLogsResponse struct {
	SiteID string             `json:"site_id"`
	Logs   []models.UpdateLog `json:"logs"`
}

type LogsResponse struct {
	Logs []models.UpdateLogWithSite `json:"logs"`
}
