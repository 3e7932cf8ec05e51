package router

import (
	"agreetime-api/core/middleware"
	"agreetime-api/modules/approval/controller"

	"github.com/labstack/echo/v4"
)

type ApprovalRouter struct {
	controller *controller.ApprovalController
}

func NewApprovalRouter(controller *controller.ApprovalController) *ApprovalRouter {
	return &ApprovalRouter{controller: controller}
}

func (r *ApprovalRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	events := privateRoutes.Group("/events", mw.AuthMiddleware())
	events.POST("/:id/decisions", r.controller.RecordDecision)
	events.GET("/:id/decisions", r.controller.ListForEvent)

	approvals := privateRoutes.Group("/approvals", mw.AuthMiddleware())
	approvals.GET("/pending", r.controller.ListPending)
}
