package approval

import (
	"agreetime-api/core/cache"
	"agreetime-api/core/database"
	"agreetime-api/core/middleware"
	"agreetime-api/core/queue"
	"agreetime-api/modules/approval/controller"
	"agreetime-api/modules/approval/repository"
	"agreetime-api/modules/approval/router"
	"agreetime-api/modules/approval/service"
	"agreetime-api/modules/availability"
	eventRepo "agreetime-api/modules/event/repository"
	historyRepo "agreetime-api/modules/history/repository"
	notifService "agreetime-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the approval module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewApprovalRepository(db)
	svc := service.NewApprovalService(
		repo,
		eventRepo.NewEventRepository(db),
		availability.NewService(db),
		historyRepo.NewHistoryRepository(db),
		notifService.NewAsynqDispatcher(queue.GetClient()),
		cache.GetCache(),
	)
	ctrl := controller.NewApprovalController(svc)
	rtr := router.NewApprovalRouter(ctrl)

	rtr.Setup(e, mw)
}
