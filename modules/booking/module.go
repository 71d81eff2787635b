package booking

import (
	"time"

	"smart-schedule/core/clock"
	"smart-schedule/core/config"
	"smart-schedule/core/middleware"
	"smart-schedule/core/queue"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/booking/controller"
	"smart-schedule/modules/booking/router"
	"smart-schedule/modules/booking/service"

	"github.com/labstack/echo/v4"
)

// Dependencies are the collaborators the public booking flow runs against.
type Dependencies struct {
	Events    service.EventFinder
	Schedules availability.ScheduleStore
	Busy      availability.BusySource
	Creator   availability.MeetingCreator
	Publisher queue.Publisher
}

func Init(e *echo.Echo, mw *middleware.Middleware, cfg config.BookingConfig, deps Dependencies) {
	svc := service.NewBookingService(deps.Events, deps.Schedules, deps.Busy, deps.Creator, deps.Publisher, clock.Real(), cfg)
	ctrl := controller.NewBookingController(svc)
	router.NewBookingRouter(ctrl, cfg.RateLimit, time.Duration(cfg.RateWindowSeconds)*time.Second).Setup(e, mw)
}
