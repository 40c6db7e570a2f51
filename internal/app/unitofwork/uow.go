package unitofwork

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_bmi_backend/internal/adapter/storage"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"log/slog"
)

var (
	ErrRollback = errors.New("rollback")
)

type AtomicContext interface {
	Context() context.Context
	Commit() error
	Close() error
	CollectEvents() []domain.Event
}

type MessageBus interface {
	PublishEvents(events ...domain.Event) error
}

type UnitOfWork[T AtomicContext] struct {
	db         *storage.DB
	newContext func(context.Context, storage.DBContext) (T, error)
	msgBus     MessageBus
	logger     *slog.Logger
}

func New[T AtomicContext](
	db *storage.DB,
	newCtx func(context.Context, storage.DBContext) (T, error),
	msgBus MessageBus,
	logger *slog.Logger,
) *UnitOfWork[T] {
	return &UnitOfWork[T]{
		db:         db,
		newContext: newCtx,
		msgBus:     msgBus,
		logger:     logger,
	}
}

// Atomic runs do inside a transaction. do must call Commit on the atomic
// context to keep its writes; anything left uncommitted is rolled back.
// Events are published only when do succeeds.
func (uow *UnitOfWork[T]) Atomic(
	ctx context.Context,
	do func(T) error,
) (err error) {
	tx, err := uow.db.Begin(ctx)
	if err != nil {
		return stateRollbackError(err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil {
			uow.logger.Error("failed to rollback transaction", "error", err)
		}
	}()

	txCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	atomicCtx, err := uow.newContext(txCtx, tx)
	if err != nil {
		return stateRollbackError(err)
	}
	defer func() {
		if err := atomicCtx.Close(); err != nil {
			uow.logger.Error("failed to close atomic context", "error", err)
		}
	}()

	if err := do(atomicCtx); err != nil {
		return stateRollbackError(err)
	}

	if err := uow.msgBus.PublishEvents(atomicCtx.CollectEvents()...); err != nil {
		uow.logger.Error("failed to publish events", "error", err)
		return err
	}

	return nil
}

// RollbackError carries the error that aborted a unit of work. It matches both
// the cause and ErrRollback with errors.Is.
type RollbackError struct {
	Err error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("state rollback: %v", e.Err)
}

func (e *RollbackError) Unwrap() []error {
	return []error{e.Err, ErrRollback}
}

func stateRollbackError(err error) error {
	return &RollbackError{Err: err}
}
