package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/wrapper"
)

type stubValidator struct {
	valid string
	err   error
	seen  []string
}

func (s *stubValidator) Validate(ctx context.Context, token string) (bool, error) {
	s.seen = append(s.seen, token)
	if s.err != nil {
		return false, s.err
	}
	return token == s.valid, nil
}

func newGatedApp(v TokenValidator, cfg TokenAuthConfig) *fiber.App {
	app := fiber.New()
	app.Get("/status", BearerTokenAuth(v, cfg, logger.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func doGated(t *testing.T, app *fiber.App, headers map[string]string) (int, wrapper.ErrorBody) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body wrapper.ErrorBody
	if resp.StatusCode != http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestBearerTokenAuth(t *testing.T) {
	const token = "a1b2c3d4e5f6a7b8c9d0"

	tests := []struct {
		name     string
		cfg      TokenAuthConfig
		headers  map[string]string
		wantCode int
		wantErr  string
	}{
		{
			name:     "no header",
			headers:  map[string]string{"X-Forwarded-Proto": "https"},
			wantCode: http.StatusUnauthorized,
			wantErr:  "missing_token",
		},
		{
			name:     "basic scheme is not a bearer token",
			headers:  map[string]string{"Authorization": "Basic YWRtaW46YWRtaW4=", "X-Forwarded-Proto": "https"},
			wantCode: http.StatusUnauthorized,
			wantErr:  "missing_token",
		},
		{
			name:     "unknown token",
			headers:  map[string]string{"Authorization": "Bearer nope", "X-Forwarded-Proto": "https"},
			wantCode: http.StatusUnauthorized,
			wantErr:  "invalid_token",
		},
		{
			name:     "invalid token over plain http reports invalid first",
			headers:  map[string]string{"Authorization": "Bearer nope"},
			wantCode: http.StatusUnauthorized,
			wantErr:  "invalid_token",
		},
		{
			name:     "valid token over plain http",
			headers:  map[string]string{"Authorization": "Bearer " + token},
			wantCode: http.StatusForbidden,
			wantErr:  "https_required",
		},
		{
			name:     "valid token over plain http in debug",
			cfg:      TokenAuthConfig{AllowInsecure: true},
			headers:  map[string]string{"Authorization": "Bearer " + token},
			wantCode: http.StatusOK,
		},
		{
			name:     "valid token behind tls proxy",
			headers:  map[string]string{"Authorization": "bearer " + token, "X-Forwarded-Proto": "https"},
			wantCode: http.StatusOK,
		},
		{
			name:     "token forwarded under alternate header",
			headers:  map[string]string{"X-Forwarded-Authorization": "Bearer " + token, "X-Forwarded-Proto": "https"},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newGatedApp(&stubValidator{valid: token}, tt.cfg)

			code, body := doGated(t, app, tt.headers)

			assert.Equal(t, tt.wantCode, code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body.Code)
				assert.Equal(t, tt.wantCode, body.Data.Status)
				assert.NotEmpty(t, body.Message)
			}
		})
	}
}

func TestBearerTokenAuth_ValidatorFault(t *testing.T) {
	app := newGatedApp(&stubValidator{err: errors.New("database is locked")}, TokenAuthConfig{})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer abc")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestBearerToken_FirstCandidateWins(t *testing.T) {
	v := &stubValidator{valid: "primary"}
	app := newGatedApp(v, TokenAuthConfig{AllowInsecure: true})

	code, _ := doGated(t, app, map[string]string{
		"Authorization":            "Bearer primary",
		"X-Original-Authorization": "Bearer secondary",
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"primary"}, v.seen)
}

func TestBearerTokenAuth_ForwardedProtoFromTrustedProxyOnly(t *testing.T) {
	const token = "a1b2c3d4e5f6a7b8c9d0"

	tests := []struct {
		name     string
		proxies  []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "untrusted peer claims https",
			wantCode: http.StatusForbidden,
			wantErr:  "https_required",
		},
		{
			name:     "peer outside the trusted range claims https",
			proxies:  []string{"10.0.0.0/8"},
			wantCode: http.StatusForbidden,
			wantErr:  "https_required",
		},
		{
			// app.Test connects from 0.0.0.0
			name:     "listed proxy reports https",
			proxies:  []string{"0.0.0.0"},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{
				EnableTrustedProxyCheck: true,
				TrustedProxies:          tt.proxies,
				ProxyHeader:             fiber.HeaderXForwardedFor,
			})
			app.Get("/status", BearerTokenAuth(&stubValidator{valid: token}, TokenAuthConfig{}, logger.NewNop()), func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			code, body := doGated(t, app, map[string]string{
				"Authorization":     "Bearer " + token,
				"X-Forwarded-Proto": "https",
			})

			assert.Equal(t, tt.wantCode, code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body.Code)
			}
		})
	}
}
