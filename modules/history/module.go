package history

import (
	"agreetime-api/core/database"
	"agreetime-api/core/middleware"
	eventRepo "agreetime-api/modules/event/repository"
	"agreetime-api/modules/history/controller"
	"agreetime-api/modules/history/repository"
	"agreetime-api/modules/history/router"
	"agreetime-api/modules/history/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the history module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewHistoryRepository(db)
	svc := service.NewHistoryService(repo, eventRepo.NewEventRepository(db))
	ctrl := controller.NewHistoryController(svc)
	rtr := router.NewHistoryRouter(ctrl)

	rtr.Setup(e, mw)
}
