package dto

import (
	"time"

	"github.com/Alwanly/service-remote-update/internal/models"
)

// CheckResponse is the outcome of one status check. On failure Status is
// nil and Error carries the agent or transport reason.
type CheckResponse struct {
	SiteID      string             `json:"site_id"`
	SiteName    string             `json:"site_name"`
	Success     bool               `json:"success"`
	Status      *models.StatusData `json:"status,omitempty"`
	Error       string             `json:"error,omitempty"`
	HTTPCode    int                `json:"http_code,omitempty"`
	LastChecked *time.Time         `json:"last_checked"`
}

type CheckAllResponse struct {
	Results   []CheckResponse `json:"results"`
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
}
