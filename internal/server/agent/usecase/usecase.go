package usecase

import (
	"context"

	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/internal/server/agent/host"
	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/wrapper"
)

// IUseCase is the business logic behind the agent's update API.
type IUseCase interface {
	Status(ctx context.Context) wrapper.JSONResult
	UpdateCore(ctx context.Context) wrapper.JSONResult
	UpdatePlugins(ctx context.Context, selectors []string) wrapper.JSONResult
	UpdateThemes(ctx context.Context, selectors []string) wrapper.JSONResult
}

type UseCase struct {
	host   host.Runtime
	logger *logger.CanonicalLogger
}

func NewUseCase(runtime host.Runtime, log *logger.CanonicalLogger) *UseCase {
	return &UseCase{host: runtime, logger: log}
}

var _ IUseCase = (*UseCase)(nil)

// Status answers GET /status with a freshly detected inventory.
func (uc *UseCase) Status(ctx context.Context) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.Operation("status"))

	inventory, err := uc.CheckUpdates(ctx)
	if err != nil {
		return uc.hostFault(ctx, "failed to check for updates", err)
	}

	version, err := uc.host.Version(ctx)
	if err != nil {
		return uc.hostFault(ctx, "failed to read core version", err)
	}

	logger.AddToContext(ctx,
		logger.Bool("core_pending", inventory.Core != nil),
		logger.Int("plugins_pending", len(inventory.Plugins)),
		logger.Int("themes_pending", len(inventory.Themes)),
		logger.Bool("up_to_date", inventory.Empty()),
	)

	return wrapper.JSONResult{
		Code:    200,
		Success: true,
		Data: models.StatusResponse{
			Success: true,
			Data: models.StatusData{
				WordPressVersion: version,
				Updates:          inventory,
			},
		},
	}
}

func (uc *UseCase) hostFault(ctx context.Context, msg string, err error) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.Success(false), logger.String("error", err.Error()))
	uc.logger.WithError(err).Error(msg)
	message := msg + ": " + err.Error()
	return wrapper.ResponseFailed(500, message, models.UpdateCoreResponse{Success: false, Message: message})
}
