package attachment

import (
	"agreetime-api/core/database"
	"agreetime-api/core/middleware"
	"agreetime-api/core/storage"
	"agreetime-api/modules/attachment/controller"
	"agreetime-api/modules/attachment/repository"
	"agreetime-api/modules/attachment/router"
	"agreetime-api/modules/attachment/service"
	eventRepo "agreetime-api/modules/event/repository"

	"github.com/labstack/echo/v4"
)

// Init initializes the attachment module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewAttachmentRepository(db)
	svc := service.NewAttachmentService(repo, eventRepo.NewEventRepository(db), storage.GetStorage())
	ctrl := controller.NewAttachmentController(svc)
	rtr := router.NewAttachmentRouter(ctrl)

	rtr.Setup(e, mw)
}
