package userstorage

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_bmi_backend/internal/adapter/storage"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"github.com/burenotti/go_bmi_backend/internal/domain/user"
	"github.com/samber/lo"
	"time"
)

const (
	tableUsers   = "users"
	tableByEmail = "users_by_email"
)

type userRow struct {
	UserID    string
	Name      string
	Email     string
	Age       any
	Gender    any
	HeightCm  *float64
	WeightKg  *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MemoryStorage struct {
	base *storage.BaseStorage
}

func NewMemoryStorage(db storage.DBContext) *MemoryStorage {
	return &MemoryStorage{
		base: storage.NewBaseStorage(db),
	}
}

func (s *MemoryStorage) Add(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return storage.InternalError(err)
	}
	if _, ok := s.base.DB.Get(tableUsers, u.UserID); ok {
		return errors.Join(fmt.Errorf("user %s exists", u.UserID), user.ErrUserExists)
	}
	if u.HasEmail() {
		if _, ok := s.base.DB.Get(tableByEmail, u.Email); ok {
			return user.ErrUserEmailDuplicate
		}
		s.base.DB.Put(tableByEmail, u.Email, u.UserID)
	}

	s.base.DB.Put(tableUsers, u.UserID, toRow(u))
	s.base.MarkSeen(u.UserID, u)
	return nil
}

// Persist overwrites a stored user and keeps the email index in step with it.
func (s *MemoryStorage) Persist(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return storage.InternalError(err)
	}
	stored, err := s.row(u.UserID)
	if err != nil {
		return err
	}

	if stored.Email != u.Email {
		if u.HasEmail() {
			if owner, ok := s.base.DB.Get(tableByEmail, u.Email); ok && owner != u.UserID {
				return user.ErrUserEmailDuplicate
			}
			s.base.DB.Put(tableByEmail, u.Email, u.UserID)
		}
		if stored.Email != "" {
			s.base.DB.Delete(tableByEmail, stored.Email)
		}
	}

	s.base.DB.Put(tableUsers, u.UserID, toRow(u))
	s.base.MarkSeen(u.UserID, u)
	return nil
}

func (s *MemoryStorage) GetByID(ctx context.Context, userID string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.InternalError(err)
	}
	r, err := s.row(userID)
	if err != nil {
		return nil, err
	}
	u := fromRow(r)
	s.base.MarkSeen(u.UserID, u)
	return u, nil
}

func (s *MemoryStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if email == "" {
		return nil, user.ErrUserNotFound
	}
	id, ok := s.base.DB.Get(tableByEmail, email)
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return s.GetByID(ctx, id.(string))
}

func (s *MemoryStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *MemoryStorage) Close() error {
	s.base.Close()
	return nil
}

func (s *MemoryStorage) row(userID string) (userRow, error) {
	v, ok := s.base.DB.Get(tableUsers, userID)
	if !ok {
		return userRow{}, user.ErrUserNotFound
	}
	r, ok := v.(userRow)
	if !ok {
		return userRow{}, storage.InternalError(fmt.Errorf("unexpected row type %T", v))
	}
	return r, nil
}

func toRow(u *user.User) userRow {
	return userRow{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		Gender:    u.Gender,
		HeightCm:  clone(u.HeightCm),
		WeightKg:  clone(u.WeightKg),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func fromRow(r userRow) *user.User {
	return &user.User{
		UserID:    r.UserID,
		Name:      r.Name,
		Email:     r.Email,
		Age:       r.Age,
		Gender:    r.Gender,
		HeightCm:  clone(r.HeightCm),
		WeightKg:  clone(r.WeightKg),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func clone(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return lo.ToPtr(*v)
}
