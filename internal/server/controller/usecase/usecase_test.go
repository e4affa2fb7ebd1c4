package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alwanly/service-remote-update/internal/config"
	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/internal/server/controller/dto"
	"github.com/Alwanly/service-remote-update/internal/server/controller/repository"
	"github.com/Alwanly/service-remote-update/pkg/database"
	"github.com/Alwanly/service-remote-update/pkg/logger"
)

const statusOK = `{"success":true,"data":{"wordpress_version":"6.3","updates":{"core":{"version":"6.4","current_version":"6.3","response":"upgrade"},"plugins":[],"themes":[]}}}`

// scriptedClient answers per site URL and records every call.
type scriptedClient struct {
	mu       sync.Mutex
	status   map[string]*models.RemoteResult
	update   *models.RemoteResult
	calls    []string
	items    [][]string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (c *scriptedClient) record(call string, items []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	c.items = append(c.items, items)
}

func (c *scriptedClient) CheckStatus(ctx context.Context, site *models.Site) *models.RemoteResult {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(c.delay)

	c.record("status", nil)
	c.mu.Lock()
	defer c.mu.Unlock()
	if res, ok := c.status[site.URL]; ok {
		return res
	}
	return models.TransportFailure(errors.New("dial tcp: no such host"))
}

func (c *scriptedClient) UpdateCore(ctx context.Context, site *models.Site) *models.RemoteResult {
	c.record("core", nil)
	return c.update
}

func (c *scriptedClient) UpdatePlugins(ctx context.Context, site *models.Site, selectors []string) *models.RemoteResult {
	c.record("plugins", selectors)
	return c.update
}

func (c *scriptedClient) UpdateThemes(ctx context.Context, site *models.Site, selectors []string) *models.RemoteResult {
	c.record("themes", selectors)
	return c.update
}

type fixture struct {
	uc     *UseCase
	repo   *repository.Repository
	client *scriptedClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.RunControllerMigrations(db))
	t.Cleanup(func() { _ = database.Close(db) })

	repo := repository.NewRepository(db, nil)
	client := &scriptedClient{status: map[string]*models.RemoteResult{}}
	uc := NewUseCase(UseCase{
		Repo:   repo,
		Client: client,
		Config: &config.ControllerConfig{CheckConcurrency: 2, LogLimit: 50},
		Logger: logger.NewNop(),
	})
	return &fixture{uc: uc, repo: repo, client: client}
}

func (f *fixture) site(t *testing.T, name, url string) *models.Site {
	t.Helper()
	s, err := f.repo.CreateSite(context.Background(), name, url, "secret-token-value")
	require.NoError(t, err)
	return s
}

func TestCreateSiteOutcomes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.uc.CreateSite(ctx, &dto.SiteRequest{Name: "A", URL: "https://a.test", APIToken: "secret-token-value"})
	require.Equal(t, http.StatusCreated, res.Code)
	pub := res.Data.(models.SitePublic)
	assert.Equal(t, "secr…alue", pub.TokenHint)

	res = f.uc.CreateSite(ctx, &dto.SiteRequest{Name: "A2", URL: "https://A.test/", APIToken: "x"})
	assert.Equal(t, http.StatusConflict, res.Code)

	res = f.uc.CreateSite(ctx, &dto.SiteRequest{Name: "Bad", URL: "https://a.test/?x=1", APIToken: "x"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	assert.Equal(t, http.StatusNotFound, f.uc.GetSite(ctx, "missing").Code)
}

func TestCheckSiteStampsLastCheckedOnSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	site := f.site(t, "A", "https://a.test")
	f.client.status[site.URL] = models.DecodeRemoteResult(200, []byte(statusOK))

	res := f.uc.CheckSite(ctx, site.ID)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Data.(dto.CheckResponse)
	assert.True(t, body.Success)
	require.NotNil(t, body.Status)
	assert.Equal(t, "6.4", body.Status.Updates.Core.Version)
	assert.NotNil(t, body.LastChecked)

	stored, err := f.repo.GetSite(ctx, site.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastChecked)
}

func TestCheckSiteFailureLeavesSiteUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	site := f.site(t, "A", "https://a.test")
	f.client.status[site.URL] = models.DecodeRemoteResult(401, []byte(`{"code":"invalid_token","message":"Invalid or expired API token","data":{"status":401}}`))

	res := f.uc.CheckSite(ctx, site.ID)

	assert.Equal(t, http.StatusBadGateway, res.Code)
	body := res.Data.(dto.CheckResponse)
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid or expired API token", body.Error)
	assert.Equal(t, 401, body.HTTPCode)

	stored, err := f.repo.GetSite(ctx, site.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastChecked)

	logs, err := f.repo.ListLogsBySite(ctx, site.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCheckAllSitesIndependentResults(t *testing.T) {
	f := newFixture(t)
	f.client.delay = 20 * time.Millisecond
	ctx := context.Background()

	up := []*models.Site{f.site(t, "a", "https://a.test"), f.site(t, "c", "https://c.test"), f.site(t, "d", "https://d.test")}
	for _, s := range up {
		f.client.status[s.URL] = models.DecodeRemoteResult(200, []byte(statusOK))
	}
	f.site(t, "b", "https://b.test")

	res := f.uc.CheckAllSites(ctx)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Data.(dto.CheckAllResponse)
	assert.Equal(t, 4, body.Total)
	assert.Equal(t, 3, body.Succeeded)
	assert.Equal(t, 1, body.Failed)
	// results follow the registry order (name ascending)
	assert.Equal(t, "b", body.Results[1].SiteName)
	assert.False(t, body.Results[1].Success)
	assert.LessOrEqual(t, f.client.peak.Load(), int32(2))
}

func TestUpdateWritesExactlyOneLog(t *testing.T) {
	tests := []struct {
		name       string
		remote     *models.RemoteResult
		wantCode   int
		wantStatus string
	}{
		{
			name:       "agent success",
			remote:     models.DecodeRemoteResult(200, []byte(`{"success":true,"message":"WordPress core updated successfully to version 6.4"}`)),
			wantCode:   http.StatusOK,
			wantStatus: models.LogStatusSuccess,
		},
		{
			name:       "business failure",
			remote:     models.DecodeRemoteResult(400, []byte(`{"success":false,"message":"No core updates available"}`)),
			wantCode:   http.StatusBadGateway,
			wantStatus: models.LogStatusError,
		},
		{
			name:       "agent unreachable",
			remote:     models.TransportFailure(errors.New("dial tcp: connection refused")),
			wantCode:   http.StatusBadGateway,
			wantStatus: models.LogStatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			site := f.site(t, "A", "https://a.test")
			f.client.update = tt.remote

			res := f.uc.UpdateSiteComponents(ctx, site.ID, &dto.UpdateRequest{Category: models.CategoryCore})

			assert.Equal(t, tt.wantCode, res.Code)
			assert.Equal(t, []string{"core"}, f.client.calls)

			logs, err := f.repo.ListLogsBySite(ctx, site.ID, 10)
			require.NoError(t, err)
			require.Len(t, logs, 1)
			assert.Equal(t, tt.wantStatus, logs[0].Status)
			assert.Equal(t, models.CategoryCore, logs[0].Category)
			assert.JSONEq(t, tt.remote.Serialize(), logs[0].Message)
		})
	}
}

func TestUpdateLogWriteFailureIsNotAnAgentFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	site := f.site(t, "A", "https://a.test")
	f.client.update = models.DecodeRemoteResult(200, []byte(`{"success":true,"message":"WordPress core updated successfully to version 6.4"}`))
	require.NoError(t, f.repo.DB.Migrator().DropTable(&models.UpdateLog{}))

	res := f.uc.UpdateSiteComponents(ctx, site.ID, &dto.UpdateRequest{Category: models.CategoryCore})

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.False(t, res.Success)
	assert.Equal(t, "failed to write update log", res.Message)
	assert.Equal(t, []string{"core"}, f.client.calls)

	body, ok := res.Data.(dto.UpdateResponse)
	require.True(t, ok)
	assert.Nil(t, body.Log)
	require.NotNil(t, body.Result)
	assert.True(t, body.Result.Success)
	assert.Equal(t, "WordPress core updated successfully to version 6.4", body.Result.Message)
}

func TestUpdatePluginsForwardsItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	site := f.site(t, "A", "https://a.test")
	f.client.update = models.DecodeRemoteResult(200, []byte(`{"success":true,"results":[{"plugin":"P1","file":"p1/p1.php","success":false,"message":"Download failed."}]}`))

	res := f.uc.UpdateSiteComponents(ctx, site.ID, &dto.UpdateRequest{Category: models.CategoryPlugins, Items: []string{"p1/p1.php"}})

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, [][]string{{"p1/p1.php"}}, f.client.items)

	body := res.Data.(dto.UpdateResponse)
	// a batch attempt is a success even when items failed
	assert.Equal(t, models.LogStatusSuccess, body.Log.Status)

	var logged map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body.Log.Message), &logged))
	assert.Equal(t, float64(200), logged["http_code"])
	assert.Len(t, logged["results"], 1)
}

func TestUpdateUnknownCategoryMakesNoCall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	site := f.site(t, "A", "https://a.test")

	res := f.uc.UpdateSiteComponents(ctx, site.ID, &dto.UpdateRequest{Category: models.Category("translations")})

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Message, "category must be one of: core plugins themes")
	assert.Empty(t, f.client.calls)

	logs, err := f.repo.ListLogsBySite(ctx, site.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestUpdateUnknownSiteMakesNoCall(t *testing.T) {
	f := newFixture(t)

	res := f.uc.UpdateSiteComponents(context.Background(), "missing", &dto.UpdateRequest{Category: models.CategoryThemes})

	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Empty(t, f.client.calls)
}

func TestDeleteSiteWithUnreachableAgent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	site := f.site(t, "A", "https://a.test")
	f.client.update = models.TransportFailure(errors.New("timeout"))
	f.uc.UpdateSiteComponents(ctx, site.ID, &dto.UpdateRequest{Category: models.CategoryCore})

	res := f.uc.DeleteSite(ctx, site.ID)

	assert.Equal(t, http.StatusOK, res.Code)
	all, err := f.repo.ListLogs(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, http.StatusNotFound, f.uc.DeleteSite(ctx, site.ID).Code)
}

func TestLogsLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	site := f.site(t, "A", "https://a.test")
	f.client.update = models.TransportFailure(errors.New("timeout"))
	for i := 0; i < 3; i++ {
		f.uc.UpdateSiteComponents(ctx, site.ID, &dto.UpdateRequest{Category: models.CategoryCore})
	}

	res := f.uc.SiteLogs(ctx, site.ID, 2)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Data.(dto.SiteLogsResponse).Logs, 2)

	res = f.uc.Logs(ctx, 0)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Data.(dto.LogsResponse).Logs, 3)

	assert.Equal(t, http.StatusNotFound, f.uc.SiteLogs(ctx, "missing", 0).Code)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, clampLimit(0, 50))
	assert.Equal(t, 10, clampLimit(10, 50))
	assert.Equal(t, maxLogsLimit, clampLimit(10000, 50))
	assert.Equal(t, defaultAllLogsLimit, clampLimit(-1, 0))
}
