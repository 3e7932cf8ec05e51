package notification

import (
	"agreetime-api/core/cache"
	"agreetime-api/core/constants"
	"agreetime-api/core/database"
	"agreetime-api/core/middleware"
	"agreetime-api/modules/notification/controller"
	"agreetime-api/modules/notification/repository"
	"agreetime-api/modules/notification/router"
	"agreetime-api/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, cache.GetCache())
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Setup(e, mw)
}

// RegisterTasks wires the transition handler onto the asynq worker mux.
func RegisterTasks(mux *asynq.ServeMux, db database.Database) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, cache.GetCache())
	mux.HandleFunc(constants.TaskTypeNotifyTransition, service.NewTransitionHandler(svc))
}
