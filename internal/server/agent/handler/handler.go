package handler

import (
	"encoding/json"

	"github.com/Alwanly/service-remote-update/internal/config"
	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/internal/server/agent/dto"
	"github.com/Alwanly/service-remote-update/internal/server/agent/host"
	"github.com/Alwanly/service-remote-update/internal/server/agent/repository"
	"github.com/Alwanly/service-remote-update/internal/server/agent/usecase"
	"github.com/Alwanly/service-remote-update/pkg/deps"
	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/middleware"
	"github.com/Alwanly/service-remote-update/pkg/wrapper"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	Logger  *logger.CanonicalLogger
	UseCase usecase.IUseCase
	Config  *config.AgentConfig
	health  *dto.HealthStatus
}

func NewHandler(d deps.App, cfg *config.AgentConfig, runtime host.Runtime, health *dto.HealthStatus) *Handler {
	tokens := repository.NewTokenStore(d.Database)

	h := &Handler{
		Logger:  d.Logger,
		UseCase: usecase.NewUseCase(runtime, d.Logger),
		Config:  cfg,
		health:  health,
	}

	// Health check endpoint (no auth required)
	d.Fiber.Get("/health", h.Health)

	gate := middleware.BearerTokenAuth(tokens, middleware.TokenAuthConfig{AllowInsecure: cfg.Debug}, d.Logger)
	api := d.Fiber.Group(cfg.APIPrefix, gate)
	api.Get(models.RouteStatus, h.status)
	api.Post(models.RouteUpdateCore, h.updateCore)
	api.Post(models.RouteUpdatePlugins, h.updatePlugins)
	api.Post(models.RouteUpdateThemes, h.updateThemes)

	return h
}

func (h *Handler) Health(c *fiber.Ctx) error {
	res := h.health.Snapshot()

	statusCode := fiber.StatusOK
	if res.Status == dto.HostUnavailable {
		statusCode = fiber.StatusServiceUnavailable
	} else if res.Status == dto.HostProbing {
		statusCode = fiber.StatusAccepted
	}

	return c.Status(statusCode).JSON(res)
}

func (h *Handler) status(c *fiber.Ctx) error {
	res := h.UseCase.Status(c.UserContext())
	return c.Status(res.Code).JSON(res.Data)
}

func (h *Handler) updateCore(c *fiber.Ctx) error {
	res := h.UseCase.UpdateCore(c.UserContext())
	return c.Status(res.Code).JSON(res.Data)
}

func (h *Handler) updatePlugins(c *fiber.Ctx) error {
	req := new(models.UpdatePluginsRequest)
	if err := parseOptionalBody(c, req); err != nil {
		return invalidBody(c, err)
	}

	logger.AddToContext(c.UserContext(), logger.Int("selector_count", len(req.Plugins)))
	res := h.UseCase.UpdatePlugins(c.UserContext(), req.Plugins)
	return c.Status(res.Code).JSON(res.Data)
}

func (h *Handler) updateThemes(c *fiber.Ctx) error {
	req := new(models.UpdateThemesRequest)
	if err := parseOptionalBody(c, req); err != nil {
		return invalidBody(c, err)
	}

	logger.AddToContext(c.UserContext(), logger.Int("selector_count", len(req.Themes)))
	res := h.UseCase.UpdateThemes(c.UserContext(), req.Themes)
	return c.Status(res.Code).JSON(res.Data)
}

// parseOptionalBody decodes a JSON body when one was sent. An empty body
// means "everything pending".
func parseOptionalBody(c *fiber.Ctx, out interface{}) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func invalidBody(c *fiber.Ctx, err error) error {
	logger.AddToContext(c.UserContext(), zap.Error(err))
	res := wrapper.ResponseFailed(fiber.StatusBadRequest, "Invalid request body", nil)
	return c.Status(res.Code).JSON(models.BatchResponse{Message: res.Message})
}
