// Package txmanager управление транзакциями поверх dbmetrics.
// Транзакция передаётся репозиториям через context (dbmetrics.WithTx),
// поэтому сигнатуры репозиториев не меняются.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/slotmind/booking-engine/pkg/dbmetrics"
)

var (
	// ErrBegin возвращается при ошибке старта транзакции
	ErrBegin = errors.New("txmanager: failed to begin transaction")

	// ErrCommit возвращается при ошибке коммита
	ErrCommit = errors.New("txmanager: failed to commit transaction")

	// ErrSerialization возвращается, когда PostgreSQL прерывает
	// сериализуемую транзакцию из-за конфликта (SQLSTATE 40001).
	// Операцию можно безопасно повторить целиком.
	ErrSerialization = errors.New("txmanager: serialization conflict")
)

// TxBeginner источник транзакций (реализуется dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри транзакции
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает новый transaction manager
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE.
// Используется на пути создания/переноса бронирования, чтобы закрыть
// гонку "проверили доступность — вставили" между конкурентными запросами.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBegin, err)
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}

	return nil
}

// isSerializationFailure распознаёт SQLSTATE 40001 (serialization_failure)
// и 40P01 (deadlock_detected) в цепочке ошибок
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
