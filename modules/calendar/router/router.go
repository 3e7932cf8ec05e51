package router

import (
	"agreetime-api/core/middleware"
	"agreetime-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{controller: controller}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	group := privateRoutes.Group("/calendar", mw.AuthMiddleware())
	group.GET("", r.controller.GetCalendar)
}
