package controller

import (
	"smart-schedule/core/constants"
	"smart-schedule/core/controller"
	"smart-schedule/core/errors"
	"smart-schedule/core/utils"
	"smart-schedule/modules/schedule/dto"
	"smart-schedule/modules/schedule/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ScheduleController struct {
	controller.BaseController
	ScheduleService service.ScheduleServiceInterface
}

func NewScheduleController(svc service.ScheduleServiceInterface) *ScheduleController {
	return &ScheduleController{
		BaseController:  controller.NewBaseController(),
		ScheduleService: svc,
	}
}

func (c *ScheduleController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// GetSchedule handles GET /private/schedule
// @Summary Get weekly availability
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ScheduleResponse
// @Failure 404 {object} errors.AppError
// @Router /private/schedule [get]
func (c *ScheduleController) GetSchedule(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.ScheduleService.GetSchedule(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// SaveSchedule handles PUT /private/schedule
// @Summary Replace weekly availability
// @Description Replaces the timezone and the whole set of weekly windows
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SaveScheduleRequest true "Schedule"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} errors.AppError
// @Router /private/schedule [put]
func (c *ScheduleController) SaveSchedule(ctx echo.Context) error {
	hostID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SaveScheduleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, fieldErrs, appErr := c.ScheduleService.SaveSchedule(ctx.Request().Context(), hostID, &req)
	if appErr != nil {
		if len(fieldErrs) > 0 {
			return c.ErrorResponse(ctx, appErr, fieldErrs)
		}
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Schedule saved")
}
