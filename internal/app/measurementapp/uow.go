package measurementapp

import (
	"context"
	"github.com/burenotti/go_bmi_backend/internal/adapter/storage"
	"github.com/burenotti/go_bmi_backend/internal/adapter/storage/userstorage"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"github.com/burenotti/go_bmi_backend/internal/domain/user"
)

type UserStorage interface {
	Persist(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, userID string) (*user.User, error)
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx         context.Context
	db          storage.DBContext
	UserStorage UserStorage
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.db.Commit()
}

func (a *AtomicContext) Close() error {
	return a.UserStorage.Close()
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return a.UserStorage.CollectEvents()
}

func NewAtomicContext(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:         ctx,
		db:          dbContext,
		UserStorage: userstorage.NewMemoryStorage(dbContext),
	}, nil
}
