package router

import (
	"smart-schedule/core/middleware"
	"smart-schedule/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

type NotificationRouter struct {
	controller *controller.NotificationController
}

func NewNotificationRouter(controller *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{controller: controller}
}

func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	group := e.Group("/api/v1/private/notifications", mw.AuthMiddleware())
	group.GET("", r.controller.GetMyNotifications)
	group.GET("/unread-count", r.controller.CountUnread)
	group.PUT("/mark-read", r.controller.MarkAsRead)
	group.PUT("/mark-all-read", r.controller.MarkAllAsRead)
}
