package router

import (
	"agreetime-api/core/middleware"
	"agreetime-api/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// AvailabilityRouter handles availability routes
type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

func NewAvailabilityRouter(availabilityController *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{
		AvailabilityController: availabilityController,
	}
}

// Setup registers availability routes
func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	availabilityRoutes := privateRoutes.Group("/availability", mw.AuthMiddleware())
	availabilityRoutes.GET("/overlaps", r.AvailabilityController.GetOverlaps)
}
