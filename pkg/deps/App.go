package deps

import (
	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/middleware"
	"github.com/Alwanly/service-remote-update/pkg/pubsub"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// App bundles what handlers need to wire their routes. Middleware and Pub
// are nil on the agent side; Pub is also nil when Redis is not configured.
type App struct {
	Fiber      *fiber.App
	Logger     *logger.CanonicalLogger
	Database   *gorm.DB
	Middleware *middleware.AuthMiddleware
	Pub        pubsub.Publisher
}
