package rule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/pkg/dbmetrics"
	"github.com/slotmind/booking-engine/pkg/psqlbuilder"
	"github.com/slotmind/booking-engine/pkg/types"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий правил доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveForWeekday получает активные правила тенанта на день недели.
// Возвращаются правила сотрудника и общие правила тенанта (staff_id IS NULL).
func (r *Repository) GetActiveForWeekday(ctx context.Context, tenantID, staffID int64, weekday int) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"weekday",
		"start_time",
		"end_time",
		"staff_id",
		"active",
		"created_at",
		"updated_at",
	).
		From("availability_rules").
		Where(squirrel.Eq{"tenant_id": tenantID, "weekday": weekday, "active": true}).
		Where(squirrel.Or{
			squirrel.Eq{"staff_id": nil},
			squirrel.Eq{"staff_id": staffID},
		}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForWeekday - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForWeekday - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.AvailabilityRule, 0)
	for rows.Next() {
		var rule domain.AvailabilityRule
		var startTime, endTime string
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.TenantID,
			&rule.Weekday,
			&startTime,
			&endTime,
			&rule.StaffID,
			&rule.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveForWeekday - scan row: %v", ErrScanRow, err)
		}

		rule.StartTime = types.TimeString(startTime)
		rule.EndTime = types.TimeString(endTime)
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveForWeekday - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}
