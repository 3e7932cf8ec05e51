package router

import (
	"agreetime-api/core/middleware"
	"agreetime-api/modules/history/controller"

	"github.com/labstack/echo/v4"
)

type HistoryRouter struct {
	controller *controller.HistoryController
}

func NewHistoryRouter(controller *controller.HistoryController) *HistoryRouter {
	return &HistoryRouter{controller: controller}
}

func (r *HistoryRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	events := privateRoutes.Group("/events", mw.AuthMiddleware())
	events.GET("/:id/history", r.controller.ListHistory)
}
