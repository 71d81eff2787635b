package calendar

import (
	"smart-schedule/core/cache"
	"smart-schedule/core/config"
	"smart-schedule/core/database"
	"smart-schedule/core/middleware"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/calendar/controller"
	"smart-schedule/modules/calendar/provider"
	"smart-schedule/modules/calendar/repository"
	"smart-schedule/modules/calendar/router"
	"smart-schedule/modules/calendar/service"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// GoogleOAuthConfig builds the client used to refresh stored Google tokens.
func GoogleOAuthConfig(cfg config.GoogleAPIConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{gcal.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
}

// Init registers the calendar routes and returns the gateway booking reads
// busy time from and writes meetings to.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, c cache.Cache, cfg *config.Config, schedules availability.ScheduleStore) *service.Gateway {
	repo := repository.NewCalendarRepository(db)
	factory := provider.NewFactory(GoogleOAuthConfig(cfg.GoogleAPI), cfg.CalDAV.UserAgent, service.TokenSaver(repo))
	gateway := service.NewGateway(repo, factory, c, service.ScheduleLocations(schedules))

	svc := service.NewCalendarService(repo, gateway)
	ctrl := controller.NewCalendarController(svc)
	router.NewCalendarRouter(ctrl).Setup(e, mw)
	return gateway
}
