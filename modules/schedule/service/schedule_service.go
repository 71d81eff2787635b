package service

import (
	"context"
	stdErrors "errors"

	"smart-schedule/core/errors"
	"smart-schedule/core/logger"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/schedule/dto"
	"smart-schedule/modules/schedule/mapper"

	"github.com/google/uuid"
)

type ScheduleServiceInterface interface {
	GetSchedule(ctx context.Context, hostID uuid.UUID) (*dto.ScheduleResponse, *errors.AppError)
	// SaveSchedule returns field errors alongside an ErrScheduleInvalid AppError
	// when the submitted windows cannot be accepted as-is.
	SaveSchedule(ctx context.Context, hostID uuid.UUID, req *dto.SaveScheduleRequest) (*dto.ScheduleResponse, []dto.FieldError, *errors.AppError)
}

type ScheduleService struct {
	store availability.ScheduleStore
}

func NewScheduleService(store availability.ScheduleStore) ScheduleServiceInterface {
	return &ScheduleService{store: store}
}

func (s *ScheduleService) GetSchedule(ctx context.Context, hostID uuid.UUID) (*dto.ScheduleResponse, *errors.AppError) {
	schedule, err := s.store.LoadSchedule(ctx, hostID.String())
	if err != nil {
		logger.Error("ScheduleService:GetSchedule:Load", "host_id", hostID, "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load schedule", err)
	}
	if schedule == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Schedule not found", nil)
	}
	return mapper.ToScheduleResponse(schedule), nil
}

func (s *ScheduleService) SaveSchedule(ctx context.Context, hostID uuid.UUID, req *dto.SaveScheduleRequest) (*dto.ScheduleResponse, []dto.FieldError, *errors.AppError) {
	windows, fieldErrs := mapper.ToWindows(req)
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, errors.NewAppError(errors.ErrScheduleInvalid, "Invalid availability", nil)
	}

	schedule, err := availability.NewSchedule(hostID.String(), req.Timezone, windows)
	if err != nil {
		var tzErr *availability.TimezoneError
		if stdErrors.As(err, &tzErr) {
			return nil, []dto.FieldError{{Field: "timezone", Message: tzErr.Error()}},
				errors.NewAppError(errors.ErrScheduleInvalid, "Invalid timezone", err)
		}
		var validationErr *availability.ValidationError
		if stdErrors.As(err, &validationErr) {
			return nil, mapper.ToFieldErrors(validationErr.Issues),
				errors.NewAppError(errors.ErrScheduleInvalid, "Invalid availability", err)
		}
		return nil, nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid schedule", err)
	}

	if err := s.store.SaveSchedule(ctx, hostID.String(), req.Timezone, windows); err != nil {
		logger.Error("ScheduleService:SaveSchedule:Save", "host_id", hostID, "error", err)
		return nil, nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to save schedule", err)
	}

	logger.Info("ScheduleService:SaveSchedule:Saved", "host_id", hostID, "timezone", req.Timezone, "windows", len(windows))
	return mapper.ToScheduleResponse(schedule), nil, nil
}
