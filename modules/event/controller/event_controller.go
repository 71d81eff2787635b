package controller

import (
	"smart-schedule/core/constants"
	"smart-schedule/core/controller"
	"smart-schedule/core/errors"
	"smart-schedule/core/params"
	"smart-schedule/core/utils"
	"smart-schedule/modules/event/dto"
	"smart-schedule/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

func (c *EventController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// CreateEvent handles POST /private/events
// @Summary Create an event type
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} errors.AppError
// @Router /private/events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event created successfully")
}

// GetMyEvents handles GET /private/events
// @Summary List my event types
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param page_number query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Name filter"
// @Success 200 {object} dto.PaginatedEventDTO
// @Router /private/events [get]
func (c *EventController) GetMyEvents(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.EventService.GetMyEvents(ctx.Request().Context(), hostID, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetEvent handles GET /private/events/:id
// @Summary Get an event type
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), hostID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateEvent handles PUT /private/events/:id
// @Summary Update an event type
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Changes"
// @Success 200 {object} dto.EventResponse
// @Router /private/events/{id} [put]
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), hostID, eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event updated successfully")
}

// DeleteEvent handles DELETE /private/events/:id
// @Summary Delete an event type
// @Tags Event
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200
// @Router /private/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), hostID, eventID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// GetPublicEvents handles GET /public/book/:hostId
// @Summary List a host's bookable events
// @Tags Booking
// @Produce json
// @Param hostId path string true "Host ID"
// @Success 200 {array} dto.PublicEventResponse
// @Failure 404 {object} errors.AppError
// @Router /public/book/{hostId} [get]
func (c *EventController) GetPublicEvents(ctx echo.Context) error {
	hostID, ok := utils.ToUUID(ctx.Param("hostId"))
	if !ok {
		return c.NotFound(errors.ErrNotFound, "Host not found")
	}

	result, appErr := c.EventService.GetPublicEvents(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
