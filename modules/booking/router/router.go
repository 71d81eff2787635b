package router

import (
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/core/middleware"
	"smart-schedule/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

type BookingRouter struct {
	Controller *controller.BookingController
	rateLimit  int
	rateWindow time.Duration
}

func NewBookingRouter(ctrl *controller.BookingController, rateLimit int, rateWindow time.Duration) *BookingRouter {
	if rateLimit <= 0 {
		rateLimit = constants.DefaultBookingRateLimit
	}
	if rateWindow <= 0 {
		rateWindow = constants.DefaultBookingRateWindow
	}
	return &BookingRouter{Controller: ctrl, rateLimit: rateLimit, rateWindow: rateWindow}
}

func (r *BookingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	book := e.Group("/api/v1/public/book/:hostId/:event")
	book.GET("/slots", r.Controller.PublicSlots)
	book.GET("/success", r.Controller.PublicSuccess)
	book.GET("/ics", r.Controller.PublicICS)
	book.POST("", r.Controller.PublicBook, mw.RateLimit(constants.RedisKeyBookingRate, r.rateLimit, r.rateWindow))
}
