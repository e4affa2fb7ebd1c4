package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Alwanly/service-remote-update/internal/models"
)

// tokenBytes is the amount of randomness in a token (64 hex chars).
const tokenBytes = 32

type TokenStore struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{DB: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *TokenStore) Issue(ctx context.Context) (*models.Token, error) {
	value, err := generateSecureToken(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &models.Token{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Value:     value,
		CreatedAt: s.now(),
	}
	if err := s.DB.WithContext(ctx).Create(token).Error; err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) Validate(ctx context.Context, value string) (bool, error) {
	if !wellFormed(value) {
		return false, nil
	}

	// single-statement lookup and stamp
	result := s.DB.WithContext(ctx).
		Model(&models.Token{}).
		Where("token = ?", value).
		Update("last_used", s.now())
	if result.Error != nil {
		return false, fmt.Errorf("failed to validate token: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *TokenStore) Revoke(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	result := s.DB.WithContext(ctx).Delete(&models.Token{}, "id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to revoke token: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *TokenStore) List(ctx context.Context) ([]models.Token, error) {
	var tokens []models.Token
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}

// wellFormed accepts hex or base64url values of plausible length so junk
// never reaches the database.
func wellFormed(v string) bool {
	if len(v) < 16 || len(v) > 128 {
		return false
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// generateSecureToken creates a cryptographically secure random token
func generateSecureToken(byteLength int) (string, error) {
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
