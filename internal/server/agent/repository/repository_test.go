package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Alwanly/service-remote-update/internal/models"
)

func newTestStore(t *testing.T) *TokenStore {
	t.Helper()
	dsn := fmt.Sprintf("file:tokens-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Token{}))
	return NewTokenStore(db)
}

func TestIssueGeneratesHexToken(t *testing.T) {
	store := newTestStore(t)

	tok, err := store.Issue(context.Background())
	require.NoError(t, err)
	assert.Len(t, tok.Value, 64)
	assert.NotEmpty(t, tok.ID)
	assert.Nil(t, tok.LastUsed)

	other, err := store.Issue(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, tok.Value, other.Value)
}

func TestValidateStampsLastUsed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tok, err := store.Issue(ctx)
	require.NoError(t, err)

	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return stamp }

	ok, err := store.Validate(ctx, tok.Value)
	require.NoError(t, err)
	assert.True(t, ok)

	var stored models.Token
	require.NoError(t, store.DB.First(&stored, "id = ?", tok.ID).Error)
	require.NotNil(t, stored.LastUsed)
	assert.True(t, stamp.Equal(*stored.LastUsed))
}

func TestValidateRejectsWithoutSideEffects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tok, err := store.Issue(ctx)
	require.NoError(t, err)

	for _, candidate := range []string{
		"",
		"short",
		"not a token; DROP TABLE api_tokens",
		tok.Value + "00",
		"0000000000000000000000000000000000000000000000000000000000000000",
	} {
		ok, err := store.Validate(ctx, candidate)
		require.NoError(t, err)
		assert.False(t, ok, "candidate %q", candidate)
	}

	var stored models.Token
	require.NoError(t, store.DB.First(&stored, "id = ?", tok.ID).Error)
	assert.Nil(t, stored.LastUsed)
}

func TestRevokedTokenNoLongerValidates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tok, err := store.Issue(ctx)
	require.NoError(t, err)

	removed, err := store.Revoke(ctx, tok.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Revoke(ctx, tok.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	ok, err := store.Validate(ctx, tok.Value)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		store.now = func() time.Time { return at }
		tok, err := store.Issue(ctx)
		require.NoError(t, err)
		ids = append(ids, tok.ID)
	}

	tokens, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, ids[2], tokens[0].ID)
	assert.Equal(t, ids[0], tokens[2].ID)
}
