package repository

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"fmt"

	"smart-schedule/core/database"
	"smart-schedule/core/logger"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/schedule/entity"
	"smart-schedule/modules/schedule/mapper"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ScheduleRepository stores schedules in postgres and implements availability.ScheduleStore.
type ScheduleRepository struct {
	DB database.IDatabase
}

var _ availability.ScheduleStore = (*ScheduleRepository)(nil)

func NewScheduleRepository(db database.IDatabase) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

func (r *ScheduleRepository) LoadSchedule(ctx context.Context, hostID string) (*availability.Schedule, error) {
	id, err := uuid.Parse(hostID)
	if err != nil {
		return nil, fmt.Errorf("invalid host id %q: %w", hostID, err)
	}

	var row entity.Schedule
	query := `SELECT id, host_id, timezone, created_at, updated_at FROM schedules WHERE host_id = $1`
	if err := r.DB.GetContext(ctx, &row, query, id); err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("ScheduleRepository:LoadSchedule:Schedule", "host_id", hostID, "error", err)
		return nil, err
	}

	var rows []entity.ScheduleAvailability
	query = `
		SELECT id, schedule_id, day_of_week, start_minute, end_minute, created_at, updated_at
		FROM schedule_availabilities
		WHERE schedule_id = $1
		ORDER BY day_of_week, start_minute
	`
	if err := r.DB.SelectContext(ctx, &rows, query, row.ID); err != nil {
		logger.Error("ScheduleRepository:LoadSchedule:Availabilities", "host_id", hostID, "error", err)
		return nil, err
	}

	windows := make([]availability.Window, 0, len(rows))
	for _, a := range rows {
		windows = append(windows, mapper.ToWindow(a))
	}

	schedule, err := availability.NewSchedule(hostID, row.Timezone, windows)
	if err != nil {
		logger.Error("ScheduleRepository:LoadSchedule:Corrupt", "host_id", hostID, "error", err)
		return nil, fmt.Errorf("stored schedule for host %s is invalid: %w", hostID, err)
	}
	return schedule, nil
}

// SaveSchedule replaces the host's timezone and window set in one transaction.
func (r *ScheduleRepository) SaveSchedule(ctx context.Context, hostID, timezone string, windows []availability.Window) error {
	id, err := uuid.Parse(hostID)
	if err != nil {
		return fmt.Errorf("invalid host id %q: %w", hostID, err)
	}

	return r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		var scheduleID uuid.UUID
		upsert := `
			INSERT INTO schedules (host_id, timezone)
			VALUES ($1, $2)
			ON CONFLICT (host_id) DO UPDATE SET timezone = EXCLUDED.timezone, updated_at = NOW()
			RETURNING id
		`
		if err := tx.GetContext(ctx, &scheduleID, upsert, id, timezone); err != nil {
			logger.Error("ScheduleRepository:SaveSchedule:Upsert", "host_id", hostID, "error", err)
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_availabilities WHERE schedule_id = $1`, scheduleID); err != nil {
			logger.Error("ScheduleRepository:SaveSchedule:Delete", "host_id", hostID, "error", err)
			return err
		}

		if len(windows) == 0 {
			return nil
		}
		rows := mapper.ToAvailabilityEntities(windows)
		for i := range rows {
			rows[i].ScheduleID = scheduleID
		}
		insert := `
			INSERT INTO schedule_availabilities (schedule_id, day_of_week, start_minute, end_minute)
			VALUES (:schedule_id, :day_of_week, :start_minute, :end_minute)
		`
		if _, err := tx.NamedExecContext(ctx, insert, rows); err != nil {
			logger.Error("ScheduleRepository:SaveSchedule:Insert", "host_id", hostID, "count", len(rows), "error", err)
			return err
		}
		return nil
	})
}
