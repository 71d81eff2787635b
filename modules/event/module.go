package event

import (
	"smart-schedule/core/database"
	"smart-schedule/core/middleware"
	"smart-schedule/modules/event/controller"
	"smart-schedule/modules/event/repository"
	"smart-schedule/modules/event/router"
	"smart-schedule/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init registers the event routes and returns the service booking uses to
// resolve public events.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.EventServiceInterface {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo)
	ctrl := controller.NewEventController(svc)
	router.NewEventRouter(ctrl).Setup(e, mw)
	return svc
}
