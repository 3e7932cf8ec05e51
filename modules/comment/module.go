package comment

import (
	"agreetime-api/core/database"
	"agreetime-api/core/middleware"
	"agreetime-api/modules/comment/controller"
	"agreetime-api/modules/comment/repository"
	"agreetime-api/modules/comment/router"
	"agreetime-api/modules/comment/service"
	eventRepo "agreetime-api/modules/event/repository"

	"github.com/labstack/echo/v4"
)

// Init initializes the comment module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewCommentRepository(db)
	svc := service.NewCommentService(repo, eventRepo.NewEventRepository(db))
	ctrl := controller.NewCommentController(svc)
	rtr := router.NewCommentRouter(ctrl)

	rtr.Setup(e, mw)
}
