package repository

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"time"

	"smart-schedule/core/database"
	"smart-schedule/core/logger"
	"smart-schedule/modules/calendar/entity"

	"github.com/google/uuid"
)

type CalendarRepository interface {
	UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	GetConnectionsByHostID(ctx context.Context, hostID uuid.UUID) ([]entity.CalendarConnection, error)
	// GetActiveConnection returns the host's most recently created active connection.
	GetActiveConnection(ctx context.Context, hostID uuid.UUID) (*entity.CalendarConnection, error)
	UpdateTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string, expiresAt *time.Time) error
	DeactivateConnection(ctx context.Context, hostID uuid.UUID, provider string) (bool, error)
}

type calendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

const connectionColumns = `id, host_id, provider, calendar_email, calendar_url, username, password,
	access_token, refresh_token, token_expires_at, is_active, created_at, updated_at`

func (r *calendarRepository) UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	query := `
		INSERT INTO calendar_connections
			(host_id, provider, calendar_email, calendar_url, username, password, access_token, refresh_token, token_expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		ON CONFLICT (host_id, provider) DO UPDATE SET
			calendar_email = EXCLUDED.calendar_email,
			calendar_url = EXCLUDED.calendar_url,
			username = EXCLUDED.username,
			password = EXCLUDED.password,
			access_token = EXCLUDED.access_token,
			refresh_token = CASE WHEN EXCLUDED.refresh_token = '' THEN calendar_connections.refresh_token ELSE EXCLUDED.refresh_token END,
			token_expires_at = EXCLUDED.token_expires_at,
			is_active = TRUE,
			updated_at = NOW()
		RETURNING ` + connectionColumns

	var saved entity.CalendarConnection
	err := r.db.GetContext(ctx, &saved, query,
		conn.HostID, conn.Provider, conn.CalendarEmail, conn.CalendarURL, conn.Username, conn.Password,
		conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt)
	if err != nil {
		logger.Error("CalendarRepository:UpsertConnection", "host_id", conn.HostID, "provider", conn.Provider, "error", err)
		return nil, err
	}
	return &saved, nil
}

func (r *calendarRepository) GetConnectionsByHostID(ctx context.Context, hostID uuid.UUID) ([]entity.CalendarConnection, error) {
	connections := []entity.CalendarConnection{}
	query := `SELECT ` + connectionColumns + ` FROM calendar_connections WHERE host_id = $1 AND is_active = TRUE ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &connections, query, hostID); err != nil {
		logger.Error("CalendarRepository:GetConnectionsByHostID", "host_id", hostID, "error", err)
		return nil, err
	}
	return connections, nil
}

func (r *calendarRepository) GetActiveConnection(ctx context.Context, hostID uuid.UUID) (*entity.CalendarConnection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE host_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	var conn entity.CalendarConnection
	if err := r.db.GetContext(ctx, &conn, query, hostID); err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetActiveConnection", "host_id", hostID, "error", err)
		return nil, err
	}
	return &conn, nil
}

func (r *calendarRepository) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string, expiresAt *time.Time) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $1, refresh_token = $2, token_expires_at = $3, updated_at = NOW()
		WHERE id = $4
	`
	return r.db.ExecContext(ctx, query, accessToken, refreshToken, expiresAt, id)
}

// DeactivateConnection soft deletes a calendar connection.
func (r *calendarRepository) DeactivateConnection(ctx context.Context, hostID uuid.UUID, provider string) (bool, error) {
	var id uuid.UUID
	query := `
		UPDATE calendar_connections
		SET is_active = FALSE, updated_at = NOW()
		WHERE host_id = $1 AND provider = $2 AND is_active = TRUE
		RETURNING id
	`
	if err := r.db.GetContext(ctx, &id, query, hostID, provider); err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
