package dto

import "github.com/Alwanly/service-remote-update/internal/models"

// SiteRequest creates or replaces a site registration.
type SiteRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	URL      string `json:"url" validate:"required,url"`
	APIToken string `json:"api_token" validate:"required,max=255"`
}

type ListSitesResponse struct {
	Sites []models.SitePublic `json:"sites"`
	Total int                 `json:"total"`
}

func NewListSitesResponse(sites []models.Site) ListSitesResponse {
	out := make([]models.SitePublic, 0, len(sites))
	for _, s := range sites {
		out = append(out, s.ToPublic())
	}
	return ListSitesResponse{Sites: out, Total: len(out)}
}
