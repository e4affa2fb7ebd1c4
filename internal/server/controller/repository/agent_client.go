package repository

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Alwanly/service-remote-update/internal/config"
	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/pkg/logger"
)

// maxResponseBytes bounds how much of an agent response is read.
const maxResponseBytes = 4 << 20

type agentClient struct {
	httpClient *http.Client
	apiPrefix  string
	logger     *logger.CanonicalLogger
}

// NewAgentClient creates the client used to call site agents.
func NewAgentClient(cfg *config.ControllerConfig, log *logger.CanonicalLogger) IAgentClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed agents
	}

	prefix := cfg.AgentAPIPrefix
	if prefix == "" {
		prefix = models.DefaultAPIPrefix
	}

	return &agentClient{
		httpClient: &http.Client{Timeout: cfg.AgentRequestTimeout, Transport: transport},
		apiPrefix:  "/" + strings.Trim(prefix, "/"),
		logger:     log,
	}
}

func (c *agentClient) CheckStatus(ctx context.Context, site *models.Site) *models.RemoteResult {
	return c.call(ctx, site, http.MethodGet, models.RouteStatus, nil)
}

func (c *agentClient) UpdateCore(ctx context.Context, site *models.Site) *models.RemoteResult {
	return c.call(ctx, site, http.MethodPost, models.RouteUpdateCore, nil)
}

func (c *agentClient) UpdatePlugins(ctx context.Context, site *models.Site, selectors []string) *models.RemoteResult {
	var body interface{}
	if len(selectors) > 0 {
		body = map[string][]string{"plugins": selectors}
	}
	return c.call(ctx, site, http.MethodPost, models.RouteUpdatePlugins, body)
}

func (c *agentClient) UpdateThemes(ctx context.Context, site *models.Site, selectors []string) *models.RemoteResult {
	var body interface{}
	if len(selectors) > 0 {
		body = map[string][]string{"themes": selectors}
	}
	return c.call(ctx, site, http.MethodPost, models.RouteUpdateThemes, body)
}

func (c *agentClient) call(ctx context.Context, site *models.Site, method, route string, payload interface{}) *models.RemoteResult {
	endpoint := strings.TrimRight(site.URL, "/") + c.apiPrefix + route

	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return models.TransportFailure(fmt.Errorf("failed to marshal request: %w", err))
		}
		body = b
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return models.TransportFailure(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Authorization", "Bearer "+site.APIToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := logger.GetCorrelationID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	// Set GetBody so redirects can replay the payload
	buf := body
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithSiteID(site.ID).Warn("agent request failed",
			logger.String("route", route),
		)
		return models.TransportFailure(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.TransportFailure(fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.WithSiteID(site.ID).Debug("agent responded",
		logger.String("route", route),
		logger.HTTPCode(resp.StatusCode),
	)

	return models.DecodeRemoteResult(resp.StatusCode, raw)
}
