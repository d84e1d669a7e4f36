package waitlist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/pkg/dbmetrics"
	"github.com/slotmind/booking-engine/pkg/psqlbuilder"
)

var waitlistColumns = []string{
	"id",
	"tenant_id",
	"service_id",
	"staff_id",
	"customer_id",
	"customer_name",
	"customer_email",
	"preferred_start_at",
	"status",
	"notified_at",
	"created_at",
	"updated_at",
}

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий листа ожидания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись в лист ожидания
func (r *Repository) Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waitlist_entries").
		Columns(
			"tenant_id",
			"service_id",
			"staff_id",
			"customer_id",
			"customer_name",
			"customer_email",
			"preferred_start_at",
			"status",
		).
		Values(
			entry.TenantID,
			entry.ServiceID,
			entry.StaffID,
			entry.CustomerID,
			entry.CustomerName,
			entry.CustomerEmail,
			entry.PreferredStartAt,
			entry.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return entry, nil
}

// FindWaiting ищет ожидающую запись клиента на конкретный слот.
// Используется для идемпотентности повторного добавления.
func (r *Repository) FindWaiting(ctx context.Context, tenantID, serviceID, staffID int64, customerEmail string, preferredStartAt time.Time) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(waitlistColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{
			"tenant_id":          tenantID,
			"service_id":         serviceID,
			"staff_id":           staffID,
			"customer_email":     customerEmail,
			"preferred_start_at": preferredStartAt,
			"status":             domain.WaitlistWaiting,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindWaiting - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindWaiting - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// FindEarliestWaitingInRange возвращает самую раннюю (FIFO по created_at)
// ожидающую запись той же услуги и сотрудника со слотом в полуоткрытом
// интервале [from, to)
func (r *Repository) FindEarliestWaitingInRange(ctx context.Context, tenantID, serviceID, staffID int64, from, to time.Time) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(waitlistColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{
			"tenant_id":  tenantID,
			"service_id": serviceID,
			"staff_id":   staffID,
			"status":     domain.WaitlistWaiting,
		}).
		Where(squirrel.GtOrEq{"preferred_start_at": from}).
		Where(squirrel.Lt{"preferred_start_at": to}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindEarliestWaitingInRange - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindEarliestWaitingInRange - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// MarkNotified переводит запись из waiting в notified.
// Переход одноразовый: условие по статусу не даёт повторно уведомить
// уже уведомлённую запись.
func (r *Repository) MarkNotified(ctx context.Context, id int64, notifiedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", domain.WaitlistNotified).
		Set("notified_at", notifiedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.WaitlistWaiting}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkNotified - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkNotified - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkNotified - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEntry сканирует одну строку в доменную модель
func scanEntry(row rowScanner) (*domain.WaitlistEntry, error) {
	var entry domain.WaitlistEntry
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.ServiceID,
		&entry.StaffID,
		&entry.CustomerID,
		&entry.CustomerName,
		&entry.CustomerEmail,
		&entry.PreferredStartAt,
		&entry.Status,
		&entry.NotifiedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}
