package controller

import (
	"smart-schedule/core/constants"
	"smart-schedule/core/controller"
	"smart-schedule/core/errors"
	"smart-schedule/core/params"
	"smart-schedule/core/utils"
	"smart-schedule/modules/notification/dto"
	"smart-schedule/modules/notification/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	service service.NotificationServiceInterface
	controller.BaseController
}

func NewNotificationController(service service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// GetMyNotifications retrieves the host's notifications
// @Summary List notifications
// @Description Returns the current host's notifications, newest first
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param page_number query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.PaginatedNotificationDTO
// @Failure 401 {object} errors.AppError
// @Router /private/notifications [get]
func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	hostID, ok := getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.service.GetMyNotifications(ctx.Request().Context(), hostID, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Notifications retrieved successfully")
}

// MarkAsRead marks specific notifications as read
// @Summary Mark notifications as read
// @Description Marks the given notifications as read
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MarkAsReadRequest true "Notification IDs"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/notifications/mark-read [put]
func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	hostID, ok := getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.MarkAsReadRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	if appErr := c.service.MarkAsRead(ctx.Request().Context(), hostID, req.IDs); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Marked as read successfully")
}

// MarkAllAsRead marks all notifications as read
// @Summary Mark all as read
// @Description Marks every notification of the host as read
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.AppError
// @Router /private/notifications/mark-all-read [put]
func (c *NotificationController) MarkAllAsRead(ctx echo.Context) error {
	hostID, ok := getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	if appErr := c.service.MarkAllAsRead(ctx.Request().Context(), hostID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Marked all as read successfully")
}

// CountUnread counts unread notifications
// @Summary Count unread notifications
// @Description Returns the number of unread notifications
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UnreadCountResponse
// @Failure 401 {object} errors.AppError
// @Router /private/notifications/unread-count [get]
func (c *NotificationController) CountUnread(ctx echo.Context) error {
	hostID, ok := getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	result, appErr := c.service.CountUnread(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Unread count retrieved")
}

// getUserIDFromContext reads the claims set by the auth middleware
func getUserIDFromContext(ctx echo.Context) (uuid.UUID, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}
