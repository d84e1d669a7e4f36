package exception

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/pkg/dbmetrics"
	"github.com/slotmind/booking-engine/pkg/psqlbuilder"
	"github.com/slotmind/booking-engine/pkg/types"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий исключений доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория исключений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBlockingForDate получает блокирующие исключения тенанта на дату.
// Возвращаются исключения сотрудника и общие исключения (staff_id IS NULL).
func (r *Repository) GetBlockingForDate(ctx context.Context, tenantID, staffID int64, date time.Time) ([]*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	day := date.UTC().Format(domain.DateFormat)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"date",
		"start_time",
		"end_time",
		"is_unavailable",
		"staff_id",
		"note",
		"created_at",
		"updated_at",
	).
		From("availability_exceptions").
		Where(squirrel.Eq{"tenant_id": tenantID, "date": day, "is_unavailable": true}).
		Where(squirrel.Or{
			squirrel.Eq{"staff_id": nil},
			squirrel.Eq{"staff_id": staffID},
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.AvailabilityException, 0)
	for rows.Next() {
		var exc domain.AvailabilityException
		var startTime, endTime sql.NullString
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&exc.ID,
			&exc.TenantID,
			&exc.Date,
			&startTime,
			&endTime,
			&exc.IsUnavailable,
			&exc.StaffID,
			&exc.Note,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetBlockingForDate - scan row: %v", ErrScanRow, err)
		}

		if startTime.Valid {
			ts := types.TimeString(startTime.String)
			exc.StartTime = &ts
		}
		if endTime.Valid {
			ts := types.TimeString(endTime.String)
			exc.EndTime = &ts
		}
		exc.CreatedAt = createdAt.Time
		exc.UpdatedAt = updatedAt.Time

		exceptions = append(exceptions, &exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlockingForDate - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}
