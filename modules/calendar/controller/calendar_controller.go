package controller

import (
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/core/controller"
	"smart-schedule/core/errors"
	"smart-schedule/core/utils"
	"smart-schedule/modules/calendar/dto"
	"smart-schedule/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarService
}

func NewCalendarController(svc service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

func (c *CalendarController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// GetConnections returns all calendar connections for the current host
// @Summary List calendar connections
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CalendarConnectionListResponse
// @Router /private/calendar/connections [get]
func (c *CalendarController) GetConnections(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.CalendarService.GetConnections(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// ConnectGoogle stores Google OAuth tokens for the current host
// @Summary Connect Google Calendar
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ConnectGoogleRequest true "Tokens"
// @Success 200 {object} dto.CalendarConnectionResponse
// @Router /private/calendar/connections/google [put]
func (c *CalendarController) ConnectGoogle(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ConnectGoogleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.CalendarService.ConnectGoogle(ctx.Request().Context(), hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Calendar connected")
}

// ConnectCalDAV stores CalDAV credentials for the current host
// @Summary Connect a CalDAV calendar
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ConnectCalDAVRequest true "Credentials"
// @Success 200 {object} dto.CalendarConnectionResponse
// @Router /private/calendar/connections/caldav [put]
func (c *CalendarController) ConnectCalDAV(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ConnectCalDAVRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.CalendarService.ConnectCalDAV(ctx.Request().Context(), hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Calendar connected")
}

// DisconnectCalendar disconnects a calendar provider
// @Summary Disconnect a calendar
// @Tags Calendar
// @Security BearerAuth
// @Param provider path string true "google or caldav"
// @Success 200
// @Router /private/calendar/connections/{provider} [delete]
func (c *CalendarController) DisconnectCalendar(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	if appErr := c.CalendarService.DisconnectCalendar(ctx.Request().Context(), hostID, ctx.Param("provider")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Disconnected successfully")
}

// GetBusy returns the busy intervals of the current host's calendar
// @Summary Busy intervals
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param start_time query string true "RFC3339"
// @Param end_time query string true "RFC3339"
// @Success 200 {object} dto.BusyResponse
// @Failure 503 {object} errors.AppError
// @Router /private/calendar/busy [get]
func (c *CalendarController) GetBusy(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	start, err := time.Parse(time.RFC3339, ctx.QueryParam("start_time"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid start_time format")
	}
	end, err := time.Parse(time.RFC3339, ctx.QueryParam("end_time"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid end_time format")
	}

	result, appErr := c.CalendarService.GetBusy(ctx.Request().Context(), hostID, start, end)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
