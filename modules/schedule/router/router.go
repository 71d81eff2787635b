package router

import (
	"smart-schedule/core/middleware"
	"smart-schedule/modules/schedule/controller"

	"github.com/labstack/echo/v4"
)

type ScheduleRouter struct {
	ScheduleController *controller.ScheduleController
}

func NewScheduleRouter(scheduleController *controller.ScheduleController) *ScheduleRouter {
	return &ScheduleRouter{ScheduleController: scheduleController}
}

func (r *ScheduleRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	routes := e.Group("/api/v1/private/schedule", mw.AuthMiddleware())
	routes.GET("", r.ScheduleController.GetSchedule)
	routes.PUT("", r.ScheduleController.SaveSchedule)
}
