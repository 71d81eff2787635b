package repository

import (
	"context"

	"smart-schedule/core/database"
	"smart-schedule/core/logger"
	"smart-schedule/core/params"
	"smart-schedule/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByHostID(ctx context.Context, hostID uuid.UUID, params params.QueryParams) (*entity.PaginatedNotificationEntity, error)
	MarkAsRead(ctx context.Context, hostID uuid.UUID, ids []uuid.UUID) error
	MarkAllAsRead(ctx context.Context, hostID uuid.UUID) error
	CountUnread(ctx context.Context, hostID uuid.UUID) (int, error)
}

type NotificationRepository struct {
	DB database.IDatabase
}

func NewNotificationRepository(db database.IDatabase) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (host_id, title, message, type, data, is_read)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		notification.HostID, notification.Title, notification.Message, notification.Type, notification.Data,
	).Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt)
	if err != nil {
		logger.Error("NotificationRepository:Create", "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) GetByHostID(ctx context.Context, hostID uuid.UUID, params params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	baseQuery := `FROM notifications WHERE host_id = $1`

	var totalItems int
	if err := r.DB.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, hostID); err != nil {
		logger.Error("NotificationRepository:GetByHostID:Count", "error", err)
		return nil, err
	}

	query := `
		SELECT id, host_id, title, message, type, data, is_read, created_at, updated_at ` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	notifications := []entity.Notification{}
	if err := r.DB.SelectContext(ctx, &notifications, query, hostID, params.PageSize, params.Offset()); err != nil {
		logger.Error("NotificationRepository:GetByHostID:Select", "error", err)
		return nil, err
	}

	return &entity.PaginatedNotificationEntity{
		Items:      notifications,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, hostID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE notifications SET is_read = TRUE, updated_at = NOW() WHERE host_id = ? AND id IN (?)`, hostID, ids)
	if err != nil {
		return err
	}

	query = r.DB.SQLx().Rebind(query)
	if err := r.DB.ExecContext(ctx, query, args...); err != nil {
		logger.Error("NotificationRepository:MarkAsRead", "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, hostID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = TRUE, updated_at = NOW() WHERE host_id = $1 AND is_read = FALSE`
	if err := r.DB.ExecContext(ctx, query, hostID); err != nil {
		logger.Error("NotificationRepository:MarkAllAsRead", "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, hostID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE host_id = $1 AND is_read = FALSE`
	if err := r.DB.GetContext(ctx, &count, query, hostID); err != nil {
		logger.Error("NotificationRepository:CountUnread", "error", err)
		return 0, err
	}
	return count, nil
}
