package dto

import "github.com/Alwanly/service-remote-update/internal/models"

// UpdateRequest triggers one update action on a site. Items restricts
// plugins/themes updates to the given identifiers and is ignored for core.
type UpdateRequest struct {
	Category models.Category `json:"category" validate:"required,oneof=core plugins themes"`
	Items    []string        `json:"items,omitempty" validate:"omitempty,dive,required"`
}

// UpdateResponse carries the written log entry and the decoded agent answer.
// Log is absent when the entry could not be written.
type UpdateResponse struct {
	Log    *models.UpdateLog    `json:"log,omitempty"`
	Result *models.RemoteResult `json:"result"`
}
