package router

import (
	"agreetime-api/core/middleware"
	"agreetime-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{controller: controller}
}

func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	group := privateRoutes.Group("/events", mw.AuthMiddleware())
	group.POST("", r.controller.CreateEvent)
	group.GET("", r.controller.GetMyEvents)
	group.GET("/:id", r.controller.GetEvent)
	group.DELETE("/:id", r.controller.CancelEvent)
	group.POST("/:id/supersede", r.controller.SupersedeEvent)
}
