package event

import (
	"agreetime-api/core/cache"
	"agreetime-api/core/database"
	"agreetime-api/core/middleware"
	"agreetime-api/core/queue"
	approvalRepo "agreetime-api/modules/approval/repository"
	"agreetime-api/modules/availability"
	"agreetime-api/modules/event/controller"
	"agreetime-api/modules/event/repository"
	"agreetime-api/modules/event/router"
	"agreetime-api/modules/event/service"
	historyRepo "agreetime-api/modules/history/repository"
	notifService "agreetime-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(
		repo,
		approvalRepo.NewApprovalRepository(db),
		availability.NewService(db),
		historyRepo.NewHistoryRepository(db),
		notifService.NewAsynqDispatcher(queue.GetClient()),
		cache.GetCache(),
	)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
}
