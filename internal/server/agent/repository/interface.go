package repository

import (
	"context"
	"errors"

	"github.com/Alwanly/service-remote-update/internal/models"
)

var ErrTokenNotFound = errors.New("token not found")

// ITokenStore persists the agent's bearer tokens.
type ITokenStore interface {
	// Issue generates, stores and returns a new token. Local administrator only.
	Issue(ctx context.Context) (*models.Token, error)
	// Validate reports whether value is a live token and stamps its last-used
	// time. Unknown, empty or malformed values yield false without side
	// effects; an error means the store itself failed.
	Validate(ctx context.Context, value string) (bool, error)
	// Revoke deletes a token by id and reports whether it existed.
	Revoke(ctx context.Context, id string) (bool, error)
	// List returns all tokens, newest first.
	List(ctx context.Context) ([]models.Token, error)
}
