package router

import (
	"agreetime-api/core/middleware"
	"agreetime-api/modules/attachment/controller"

	"github.com/labstack/echo/v4"
)

type AttachmentRouter struct {
	controller *controller.AttachmentController
}

func NewAttachmentRouter(controller *controller.AttachmentController) *AttachmentRouter {
	return &AttachmentRouter{controller: controller}
}

func (r *AttachmentRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	events := privateRoutes.Group("/events", mw.AuthMiddleware())
	events.POST("/:id/attachments", r.controller.CreateAttachment)
	events.GET("/:id/attachments", r.controller.ListAttachments)

	attachments := privateRoutes.Group("/attachments", mw.AuthMiddleware())
	attachments.GET("/:id/download", r.controller.DownloadAttachment)
	attachments.DELETE("/:id", r.controller.DeleteAttachment)
}
