package service

import (
	"context"
	"strings"

	"smart-schedule/core/errors"
	"smart-schedule/core/logger"
	"smart-schedule/core/params"
	"smart-schedule/modules/notification/dto"
	"smart-schedule/modules/notification/entity"
	"smart-schedule/modules/notification/mapper"
	"smart-schedule/modules/notification/repository"

	"github.com/google/uuid"
)

type NotificationServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) *errors.AppError
	GetMyNotifications(ctx context.Context, hostID uuid.UUID, queryParams params.QueryParams) (*dto.PaginatedNotificationDTO, *errors.AppError)
	MarkAsRead(ctx context.Context, hostID uuid.UUID, ids []string) *errors.AppError
	MarkAllAsRead(ctx context.Context, hostID uuid.UUID) *errors.AppError
	CountUnread(ctx context.Context, hostID uuid.UUID) (*dto.UnreadCountResponse, *errors.AppError)
}

type NotificationService struct {
	repo repository.NotificationRepositoryInterface
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) NotificationServiceInterface {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) *errors.AppError {
	if req.HostID == uuid.Nil || strings.TrimSpace(req.Title) == "" || req.Type == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "host_id, title and type are required", nil)
	}
	notif := &entity.Notification{
		HostID:  req.HostID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    entity.JSONB(req.Data),
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		return errors.NewAppError(errors.ErrCreateFailed, "Failed to create notification", err)
	}
	logger.Debug("NotificationService:Create", "host_id", req.HostID, "type", req.Type)
	return nil
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, hostID uuid.UUID, queryParams params.QueryParams) (*dto.PaginatedNotificationDTO, *errors.AppError) {
	page, err := s.repo.GetByHostID(ctx, hostID, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get notifications", err)
	}
	return mapper.ToPaginatedNotificationDTO(page), nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, hostID uuid.UUID, ids []string) *errors.AppError {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "Invalid notification id: "+id, err)
		}
		parsed = append(parsed, u)
	}
	if err := s.repo.MarkAsRead(ctx, hostID, parsed); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to mark as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, hostID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, hostID); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to mark all as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, hostID uuid.UUID) (*dto.UnreadCountResponse, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to count unread", err)
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}
