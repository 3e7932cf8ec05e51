package calendar

import (
	"agreetime-api/core/cache"
	"agreetime-api/core/database"
	"agreetime-api/core/middleware"
	"agreetime-api/modules/calendar/controller"
	"agreetime-api/modules/calendar/router"
	"agreetime-api/modules/calendar/service"
	eventRepo "agreetime-api/modules/event/repository"

	"github.com/labstack/echo/v4"
)

// Init initializes the calendar module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	svc := service.NewCalendarService(eventRepo.NewEventRepository(db), cache.GetCache())
	ctrl := controller.NewCalendarController(svc)
	rtr := router.NewCalendarRouter(ctrl)

	rtr.Setup(e, mw)
}
