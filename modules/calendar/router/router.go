package router

import (
	"smart-schedule/core/middleware"
	"smart-schedule/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	calendarRoutes := e.Group("/api/v1/private/calendar", mw.AuthMiddleware())

	// Calendar connections
	calendarRoutes.GET("/connections", r.controller.GetConnections)
	calendarRoutes.PUT("/connections/google", r.controller.ConnectGoogle)
	calendarRoutes.PUT("/connections/caldav", r.controller.ConnectCalDAV)
	calendarRoutes.DELETE("/connections/:provider", r.controller.DisconnectCalendar)

	// Busy view
	calendarRoutes.GET("/busy", r.controller.GetBusy)
}
