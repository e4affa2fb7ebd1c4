package handler

import (
	"context"
	"time"

	"github.com/Alwanly/service-remote-update/internal/config"
	"github.com/Alwanly/service-remote-update/internal/server/controller/dto"
	"github.com/Alwanly/service-remote-update/internal/server/controller/repository"
	"github.com/Alwanly/service-remote-update/internal/server/controller/usecase"
	"github.com/Alwanly/service-remote-update/pkg/deps"
	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/middleware"
	"github.com/Alwanly/service-remote-update/pkg/pubsub"
	"github.com/Alwanly/service-remote-update/pkg/validator"
	"github.com/Alwanly/service-remote-update/pkg/wrapper"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	Logger     *logger.CanonicalLogger
	UseCase    usecase.UseCaseInterface
	Config     *config.ControllerConfig
	Middleware *middleware.AuthMiddleware

	db  *gorm.DB
	pub pubsub.Publisher
}

func NewHandler(d deps.App, cfg *config.ControllerConfig, client repository.IAgentClient) *Handler {

	repo := repository.NewRepository(d.Database, d.Pub)

	uc := usecase.NewUseCase(usecase.UseCase{
		Repo:   repo,
		Client: client,
		Config: cfg,
		Logger: d.Logger,
	})

	h := &Handler{
		Logger:     d.Logger,
		UseCase:    uc,
		Config:     cfg,
		Middleware: d.Middleware,
		db:         d.Database,
		pub:        d.Pub,
	}

	// Health check endpoint (no auth required)
	d.Fiber.Get("/health", h.health)

	// Site registry and orchestration (admin only)
	sites := d.Fiber.Group("/sites", d.Middleware.BasicAuthAdmin())
	sites.Post("", h.createSite)
	sites.Get("", h.listSites)
	sites.Post("/check", h.checkAllSites)
	sites.Get("/:id", h.getSite)
	sites.Put("/:id", h.updateSite)
	sites.Delete("/:id", h.deleteSite)
	sites.Post("/:id/check", h.checkSite)
	sites.Post("/:id/update", h.updateSiteComponents)
	sites.Get("/:id/logs", h.siteLogs)

	d.Fiber.Get("/logs", d.Middleware.BasicAuthAdmin(), h.logs)

	return h
}

func respond(c *fiber.Ctx, res wrapper.JSONResult) error {
	return c.Status(res.Code).JSON(res)
}

func badRequest(c *fiber.Ctx, message string) error {
	return respond(c, wrapper.ResponseFailed(fiber.StatusBadRequest, message, nil))
}

// invalid reports the first failed rule as the message and every field in data.
func invalid(c *fiber.Ctx, err error) error {
	logger.AddToContext(c.UserContext(), zap.Error(err))
	return respond(c, wrapper.ResponseFailed(fiber.StatusBadRequest, validator.Message(err), validator.TranslateError(err)))
}

// health godoc
// @Summary      Health check
// @Description  Reports database reachability and, when configured, Redis reachability
// @Tags         health
// @Produce      json
// @Success      200 {object} dto.HealthResponse
// @Failure      503 {object} dto.HealthResponse
// @Router       /health [get]
func (h *Handler) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	res := dto.HealthResponse{Status: "ok", Database: "ok"}
	code := fiber.StatusOK

	if conn, err := h.db.DB(); err != nil || conn.PingContext(ctx) != nil {
		res.Status, res.Database = "degraded", "unreachable"
		code = fiber.StatusServiceUnavailable
	}
	if h.pub != nil {
		res.Redis = "ok"
		if err := h.pub.Ping(ctx); err != nil {
			// notifications are optional; the service stays up without them
			res.Redis = "unreachable"
		}
	}

	return c.Status(code).JSON(res)
}

// createSite godoc
// @Summary      Register a site
// @Description  Register a managed site with the bearer token issued by its agent. The URL is canonicalized and must be unique.
// @Tags         sites
// @Accept       json
// @Produce      json
// @Param        request body dto.SiteRequest true "Site registration"
// @Success      201 {object} wrapper.JSONResult{data=models.SitePublic}
// @Failure      400 {object} wrapper.JSONResult{data=map[string]string} "Invalid request body, validation error or invalid URL"
// @Failure      409 {object} wrapper.JSONResult "URL already registered"
// @Failure      500 {object} wrapper.JSONResult "Internal server error"
// @Router       /sites [post]
// @Security     BasicAuth
func (h *Handler) createSite(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.Operation("create_site"))

	req := new(dto.SiteRequest)
	if err := c.BodyParser(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return badRequest(c, "Invalid request body")
	}

	if err := validator.ValidateStruct(req); err != nil {
		return invalid(c, err)
	}

	return respond(c, h.UseCase.CreateSite(c.UserContext(), req))
}

// listSites godoc
// @Summary      List sites
// @Description  List registered sites ordered by name. Tokens are masked.
// @Tags         sites
// @Produce      json
// @Success      200 {object} wrapper.JSONResult{data=dto.ListSitesResponse}
// @Failure      500 {object} wrapper.JSONResult "Internal server error"
// @Router       /sites [get]
// @Security     BasicAuth
func (h *Handler) listSites(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.Operation("list_sites"))
	return respond(c, h.UseCase.ListSites(c.UserContext()))
}

// getSite godoc
// @Summary      Get a site
// @Tags         sites
// @Produce      json
// @Param        id path string true "Site ID"
// @Success      200 {object} wrapper.JSONResult{data=models.SitePublic}
// @Failure      404 {object} wrapper.JSONResult "Site not found"
// @Router       /sites/{id} [get]
// @Security     BasicAuth
func (h *Handler) getSite(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.Operation("get_site"))
	return respond(c, h.UseCase.GetSite(c.UserContext(), c.Params("id")))
}

// updateSite godoc
// @Summary      Edit a site
// @Description  Replace a site's name, URL and token. URL uniqueness is enforced.
// @Tags         sites
// @Accept       json
// @Produce      json
// @Param        id      path string          true "Site ID"
// @Param        request body dto.SiteRequest true "Site registration"
// @Success      200 {object} wrapper.JSONResult{data=models.SitePublic}
// @Failure      400 {object} wrapper.JSONResult{data=map[string]string} "Invalid request body, validation error or invalid URL"
// @Failure      404 {object} wrapper.JSONResult "Site not found"
// @Failure      409 {object} wrapper.JSONResult "URL already registered"
// @Router       /sites/{id} [put]
// @Security     BasicAuth
func (h *Handler) updateSite(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.Operation("update_site_record"))

	req := new(dto.SiteRequest)
	if err := c.BodyParser(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return badRequest(c, "Invalid request body")
	}

	if err := validator.ValidateStruct(req); err != nil {
		return invalid(c, err)
	}

	return respond(c, h.UseCase.UpdateSite(c.UserContext(), c.Params("id"), req))
}

// deleteSite godoc
// @Summary      Delete a site
// @Description  Remove a site and all of its update logs. The agent is not contacted.
// @Tags         sites
// @Produce      json
// @Param        id path string true "Site ID"
// @Success      200 {object} wrapper.JSONResult
// @Failure      404 {object} wrapper.JSONResult "Site not found"
// @Router       /sites/{id} [delete]
// @Security     BasicAuth
func (h *Handler) deleteSite(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.Operation("delete_site"))
	return respond(c, h.UseCase.DeleteSite(c.UserContext(), c.Params("id")))
}

// checkSite godoc
// @Summary      Check a site for updates
// @Description  Ask the site's agent for pending core, plugin and theme updates. A successful answer stamps last_checked.
// @Tags         orchestration
// @Produce      json
// @Param        id path string true "Site ID"
// @Success      200 {object} wrapper.JSONResult{data=dto.CheckResponse}
// @Failure      404 {object} wrapper.JSONResult "Site not found"
// @Failure      502 {object} wrapper.JSONResult{data=dto.CheckResponse} "Agent unreachable or rejected the request"
// @Router       /sites/{id}/check [post]
// @Security     BasicAuth
func (h *Handler) checkSite(c *fiber.Ctx) error {
	return respond(c, h.UseCase.CheckSite(c.UserContext(), c.Params("id")))
}

// checkAllSites godoc
// @Summary      Check every site for updates
// @Description  Status check of all registered sites with bounded concurrency. One result per site.
// @Tags         orchestration
// @Produce      json
// @Success      200 {object} wrapper.JSONResult{data=dto.CheckAllResponse}
// @Failure      500 {object} wrapper.JSONResult "Internal server error"
// @Router       /sites/check [post]
// @Security     BasicAuth
func (h *Handler) checkAllSites(c *fiber.Ctx) error {
	return respond(c, h.UseCase.CheckAllSites(c.UserContext()))
}

// updateSiteComponents godoc
// @Summary      Apply updates on a site
// @Description  Issue one update command (core, plugins or themes) to the site's agent and record the outcome in the update log.
// @Tags         orchestration
// @Accept       json
// @Produce      json
// @Param        id      path string            true "Site ID"
// @Param        request body dto.UpdateRequest true "Update command"
// @Success      200 {object} wrapper.JSONResult{data=dto.UpdateResponse}
// @Failure      400 {object} wrapper.JSONResult{data=map[string]string} "Invalid request body or validation error"
// @Failure      404 {object} wrapper.JSONResult "Site not found"
// @Failure      500 {object} wrapper.JSONResult{data=dto.UpdateResponse} "Update log could not be written"
// @Failure      502 {object} wrapper.JSONResult{data=dto.UpdateResponse} "Agent reported failure or was unreachable"
// @Router       /sites/{id}/update [post]
// @Security     BasicAuth
func (h *Handler) updateSiteComponents(c *fiber.Ctx) error {
	req := new(dto.UpdateRequest)
	if err := c.BodyParser(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return badRequest(c, "Invalid request body")
	}

	if err := validator.ValidateStruct(req); err != nil {
		return invalid(c, err)
	}

	return respond(c, h.UseCase.UpdateSiteComponents(c.UserContext(), c.Params("id"), req))
}

// siteLogs godoc
// @Summary      Update logs of a site
// @Tags         logs
// @Produce      json
// @Param        id    path  string true  "Site ID"
// @Param        limit query int    false "Maximum entries (default 50, max 500)"
// @Success      200 {object} wrapper.JSONResult{data=dto.SiteLogsResponse}
// @Failure      400 {object} wrapper.JSONResult "Invalid limit"
// @Failure      404 {object} wrapper.JSONResult "Site not found"
// @Router       /sites/{id}/logs [get]
// @Security     BasicAuth
func (h *Handler) siteLogs(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.Operation("site_logs"))

	q, err := parseLogsQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return respond(c, h.UseCase.SiteLogs(c.UserContext(), c.Params("id"), q.Limit))
}

// logs godoc
// @Summary      Update logs of all sites
// @Tags         logs
// @Produce      json
// @Param        limit query int false "Maximum entries (default 100, max 500)"
// @Success      200 {object} wrapper.JSONResult{data=dto.LogsResponse}
// @Failure      400 {object} wrapper.JSONResult "Invalid limit"
// @Router       /logs [get]
// @Security     BasicAuth
func (h *Handler) logs(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.Operation("logs"))

	q, err := parseLogsQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return respond(c, h.UseCase.Logs(c.UserContext(), q.Limit))
}

func parseLogsQuery(c *fiber.Ctx) (*dto.ListLogsQuery, error) {
	q := new(dto.ListLogsQuery)
	if err := c.QueryParser(q); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "limit must be a number")
	}
	if err := validator.ValidateStruct(q); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, validator.Message(err))
	}
	return q, nil
}
