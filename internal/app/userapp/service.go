package userapp

import (
	"context"
	"errors"
	"github.com/burenotti/go_bmi_backend/internal/app/unitofwork"
	"github.com/burenotti/go_bmi_backend/internal/domain/user"
	"github.com/google/uuid"
	"log/slog"
)

type Service struct {
	logger *slog.Logger
	newID  func() string
}

func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Register creates a user, or overwrites the user that already owns p.Email.
func (s *Service) Register(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	p user.Profile,
) (u *user.User, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		existing, err := ctx.UserStorage.GetByEmail(ctx.Context(), p.Email)
		switch {
		case err == nil:
			if err := existing.Overwrite(p); err != nil {
				return err
			}
			if err := ctx.UserStorage.Persist(ctx.Context(), existing); err != nil {
				return err
			}
			u = existing
			s.logger.Info("user re-registered", "user_id", u.UserID)
			return ctx.Commit()
		case !errors.Is(err, user.ErrUserNotFound):
			return err
		}

		created, err := user.New(s.newID(), p)
		if err != nil {
			return err
		}
		if err := ctx.UserStorage.Add(ctx.Context(), created); err != nil {
			return err
		}
		u = created
		s.logger.Info("user registered", "user_id", u.UserID)
		return ctx.Commit()
	})
	if err != nil {
		u = nil
	}
	return
}

func (s *Service) GetUserByID(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID string,
) (u *user.User, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		u, err = ctx.UserStorage.GetByID(ctx.Context(), userID)
		return err
	})
	return
}
