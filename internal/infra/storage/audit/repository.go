package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/slotmind/booking-engine/pkg/dbmetrics"
	"github.com/slotmind/booking-engine/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository журнал действий над бронированиями (append-only)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Record записывает событие жизненного цикла бронирования.
// metadata сериализуется в JSONB; nil допустим.
func (r *Repository) Record(ctx context.Context, tenantID int64, action string, entityID int64, metadata map[string]any) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("%w: Record - marshal metadata: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("audit_events").
		Columns("event_id", "tenant_id", "action", "entity_id", "metadata").
		Values(uuid.NewString(), tenantID, action, entityID, payload).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Record - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Record - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
