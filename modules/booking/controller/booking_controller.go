package controller

import (
	"net/http"
	"time"

	"smart-schedule/core/controller"
	"smart-schedule/core/errors"
	"smart-schedule/core/utils"
	"smart-schedule/modules/booking/dto"
	"smart-schedule/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BookingController struct {
	controller.BaseController
	BookingService service.BookingService
}

func NewBookingController(svc service.BookingService) *BookingController {
	return &BookingController{
		BaseController: controller.NewBaseController(),
		BookingService: svc,
	}
}

func (b *BookingController) hostID(c echo.Context) (uuid.UUID, *echo.HTTPError) {
	id, ok := utils.ToUUID(c.Param("hostId"))
	if !ok {
		return uuid.Nil, b.NotFound(errors.ErrNotFound, "Host not found")
	}
	return id, nil
}

// parseOptionalTime accepts an empty value as the zero time.
func parseOptionalTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}

// PublicSlots handles GET /public/book/:hostId/:event/slots
// @Summary List bookable start times
// @Description Bookable starts of an event type, grouped by date in the guest timezone
// @Tags Booking
// @Produce json
// @Param hostId path string true "Host ID"
// @Param event path string true "Event ID or slug"
// @Param from query string false "RFC3339, defaults to now"
// @Param to query string false "RFC3339, defaults to one week after from"
// @Param timezone query string false "IANA timezone used for grouping"
// @Success 200 {object} dto.SlotsResponse
// @Failure 404 {object} errors.AppError
// @Failure 503 {object} errors.AppError
// @Router /public/book/{hostId}/{event}/slots [get]
func (b *BookingController) PublicSlots(c echo.Context) error {
	hostID, httpErr := b.hostID(c)
	if httpErr != nil {
		return httpErr
	}
	from, err := parseOptionalTime(c.QueryParam("from"))
	if err != nil {
		return b.BadRequest(errors.ErrInvalidInput, "Invalid from")
	}
	to, err := parseOptionalTime(c.QueryParam("to"))
	if err != nil {
		return b.BadRequest(errors.ErrInvalidInput, "Invalid to")
	}

	result, appErr := b.BookingService.GetSlots(c.Request().Context(), hostID, c.Param("event"), from, to, c.QueryParam("timezone"))
	if appErr != nil {
		return b.ErrorResponse(c, appErr)
	}
	return b.SuccessResponse(c, result, "Success")
}

// PublicBook handles POST /public/book/:hostId/:event
// @Summary Book a meeting
// @Tags Booking
// @Accept json
// @Produce json
// @Param hostId path string true "Host ID"
// @Param event path string true "Event ID or slug"
// @Param request body dto.CreateBookingRequest true "Booking"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Failure 429 {object} errors.AppError
// @Failure 502 {object} errors.AppError
// @Failure 503 {object} errors.AppError
// @Router /public/book/{hostId}/{event} [post]
func (b *BookingController) PublicBook(c echo.Context) error {
	hostID, httpErr := b.hostID(c)
	if httpErr != nil {
		return httpErr
	}

	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return b.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := b.BookingService.CreateBooking(c.Request().Context(), hostID, c.Param("event"), &req)
	if appErr != nil {
		return b.ErrorResponse(c, appErr)
	}
	return b.SuccessResponse(c, result, "Booking confirmed")
}

// PublicSuccess handles GET /public/book/:hostId/:event/success
// @Summary Booking confirmation details
// @Tags Booking
// @Produce json
// @Param start_time query string true "RFC3339"
// @Param timezone query string false "IANA timezone"
// @Success 200 {object} dto.BookingSuccessResponse
// @Router /public/book/{hostId}/{event}/success [get]
func (b *BookingController) PublicSuccess(c echo.Context) error {
	hostID, httpErr := b.hostID(c)
	if httpErr != nil {
		return httpErr
	}
	start, err := time.Parse(time.RFC3339, c.QueryParam("start_time"))
	if err != nil {
		return b.BadRequest(errors.ErrInvalidInput, "Invalid start_time")
	}

	result, appErr := b.BookingService.GetBookingSuccess(c.Request().Context(), hostID, c.Param("event"), start, c.QueryParam("timezone"))
	if appErr != nil {
		return b.ErrorResponse(c, appErr)
	}
	return b.SuccessResponse(c, result, "Success")
}

// PublicICS handles GET /public/book/:hostId/:event/ics
// @Summary Download the meeting as an iCalendar file
// @Tags Booking
// @Produce text/calendar
// @Param start_time query string true "RFC3339"
// @Success 200 {file} file
// @Router /public/book/{hostId}/{event}/ics [get]
func (b *BookingController) PublicICS(c echo.Context) error {
	hostID, httpErr := b.hostID(c)
	if httpErr != nil {
		return httpErr
	}
	start, err := time.Parse(time.RFC3339, c.QueryParam("start_time"))
	if err != nil {
		return b.BadRequest(errors.ErrInvalidInput, "Invalid start_time")
	}

	body, appErr := b.BookingService.GetConfirmationICS(c.Request().Context(), hostID, c.Param("event"), start)
	if appErr != nil {
		return b.ErrorResponse(c, appErr)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="meeting.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", body)
}
