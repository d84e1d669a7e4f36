package tenant

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/pkg/dbmetrics"
	"github.com/slotmind/booking-engine/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий настроек тенантов (только чтение:
// CRUD тенантов живёт в отдельном административном сервисе)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тенантов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тенанта по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"plan",
		"buffer_minutes",
		"max_bookings_per_day",
		"max_bookings_per_week",
		"cancellation_notice_hours",
		"reschedule_notice_hours",
		"created_at",
		"updated_at",
	).
		From("tenants").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var tenant domain.Tenant
	var plan string
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Timezone,
		&plan,
		&tenant.BufferMinutes,
		&tenant.MaxBookingsPerDay,
		&tenant.MaxBookingsPerWeek,
		&tenant.CancellationNoticeHours,
		&tenant.RescheduleNoticeHours,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan tenant: %v", ErrScanRow, err)
	}

	tenant.Plan = domain.PlanTier(plan)
	tenant.CreatedAt = createdAt.Time
	tenant.UpdatedAt = updatedAt.Time

	return &tenant, nil
}
