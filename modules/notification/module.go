package notification

import (
	"smart-schedule/core/database"
	"smart-schedule/core/middleware"
	"smart-schedule/modules/notification/controller"
	"smart-schedule/modules/notification/repository"
	"smart-schedule/modules/notification/router"
	"smart-schedule/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.NotificationServiceInterface {
	svc := NewService(db)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Setup(e, mw)

	return svc
}

// NewService builds the notification service without routes, for the worker.
func NewService(db database.IDatabase) service.NotificationServiceInterface {
	return service.NewNotificationService(repository.NewNotificationRepository(db))
}
