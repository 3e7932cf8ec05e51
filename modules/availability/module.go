package availability

import (
	"agreetime-api/core/database"
	"agreetime-api/core/middleware"
	"agreetime-api/modules/availability/controller"
	"agreetime-api/modules/availability/repository"
	"agreetime-api/modules/availability/router"
	"agreetime-api/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the availability module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewAvailabilityRepository(db)
	svc := service.NewAvailabilityService(repo)
	ctrl := controller.NewAvailabilityController(svc)
	rtr := router.NewAvailabilityRouter(ctrl)

	rtr.Setup(e, mw)
}

// NewService builds an availability service for other modules and background
// jobs.
func NewService(db database.Database) service.AvailabilityServiceInterface {
	return service.NewAvailabilityService(repository.NewAvailabilityRepository(db))
}
