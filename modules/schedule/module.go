package schedule

import (
	"smart-schedule/core/database"
	"smart-schedule/core/middleware"
	"smart-schedule/modules/schedule/controller"
	"smart-schedule/modules/schedule/repository"
	"smart-schedule/modules/schedule/router"
	"smart-schedule/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// Init wires the schedule module and returns its store for other modules.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) *repository.ScheduleRepository {
	repo := repository.NewScheduleRepository(db)
	svc := service.NewScheduleService(repo)
	ctrl := controller.NewScheduleController(svc)
	router.NewScheduleRouter(ctrl).Setup(e, mw)
	return repo
}
