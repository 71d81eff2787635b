package router

import (
	"smart-schedule/core/middleware"
	"smart-schedule/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{EventController: eventController}
}

func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	eventRoutes := v1.Group("/private/events", mw.AuthMiddleware())
	eventRoutes.POST("", r.EventController.CreateEvent)
	eventRoutes.GET("", r.EventController.GetMyEvents)
	eventRoutes.GET("/:id", r.EventController.GetEvent)
	eventRoutes.PUT("/:id", r.EventController.UpdateEvent)
	eventRoutes.DELETE("/:id", r.EventController.DeleteEvent)

	v1.GET("/public/book/:hostId", r.EventController.GetPublicEvents)
}
