package router

import (
	"agreetime-api/core/middleware"
	"agreetime-api/modules/comment/controller"

	"github.com/labstack/echo/v4"
)

type CommentRouter struct {
	controller *controller.CommentController
}

func NewCommentRouter(controller *controller.CommentController) *CommentRouter {
	return &CommentRouter{controller: controller}
}

func (r *CommentRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	events := privateRoutes.Group("/events", mw.AuthMiddleware())
	events.POST("/:id/comments", r.controller.CreateComment)
	events.GET("/:id/comments", r.controller.ListComments)

	comments := privateRoutes.Group("/comments", mw.AuthMiddleware())
	comments.DELETE("/:id", r.controller.DeleteComment)
}
