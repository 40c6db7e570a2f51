package user

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"github.com/burenotti/go_bmi_backend/internal/domain/bmi"
	"github.com/r3labs/diff"
	"github.com/samber/lo"
	"strings"
	"time"
)

var (
	ErrUserNotFound       = fmt.Errorf("%w: user not found", domain.ErrNotFound)
	ErrUserExists         = errors.New("user already exists")
	ErrUserEmailDuplicate = fmt.Errorf("%w: email is not unique", ErrUserExists)
	ErrNameRequired       = fmt.Errorf("%w: name required", domain.ErrValidation)
)

const (
	EventRegistered = "user.registered"
	EventUpdated    = "user.updated"
	EventMeasured   = "user.measured"
)

// Profile holds the client-supplied fields of a user. Age and Gender are
// passed through as decoded JSON values.
type Profile struct {
	Name     string
	Email    string
	Age      any
	Gender   any
	HeightCm *float64
	WeightKg *float64
}

type User struct {
	domain.Aggregate
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

func New(userID string, p Profile) (*User, error) {
	name, err := normalizeName(p.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &User{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	u.assign(name, p)

	u.PushEvent(RegisteredEvent{
		At:     now,
		UserID: u.UserID,
		Email:  u.Email,
	})
	return u, nil
}

// Overwrite replaces every profile field, including the ones missing from p.
func (u *User) Overwrite(p Profile) error {
	name, err := normalizeName(p.Name)
	if err != nil {
		return err
	}

	before := u.snapshot()
	u.assign(name, p)
	u.UpdatedAt = time.Now().UTC()

	changes, err := diff.Diff(before, u.snapshot())
	if err != nil {
		return fmt.Errorf("diff user %s: %w", u.UserID, err)
	}

	u.PushEvent(UpdatedEvent{
		At:     u.UpdatedAt,
		UserID: u.UserID,
		Fields: lo.Map(changes, func(c diff.Change, _ int) string {
			return strings.Join(c.Path, ".")
		}),
	})
	return nil
}

// RecordMeasurement stores the height and weight a measurement was computed
// from, so later measurements can fall back to them.
func (u *User) RecordMeasurement(m bmi.Measurement) {
	u.HeightCm = lo.ToPtr(m.HeightCm)
	u.WeightKg = lo.ToPtr(m.WeightKg)
	u.UpdatedAt = time.Now().UTC()

	u.PushEvent(MeasuredEvent{
		At:       u.UpdatedAt,
		UserID:   u.UserID,
		BMI:      m.BMI,
		Category: m.Category,
	})
}

func (u *User) HasEmail() bool {
	return u.Email != ""
}

func (u *User) assign(name string, p Profile) {
	u.Name = name
	u.Email = p.Email
	u.Age = p.Age
	u.Gender = p.Gender
	u.HeightCm = clonePtr(p.HeightCm)
	u.WeightKg = clonePtr(p.WeightKg)
}

type snapshot struct {
	Name     string  `diff:"name"`
	Email    string  `diff:"email"`
	Age      string  `diff:"age"`
	Gender   string  `diff:"gender"`
	HeightCm float64 `diff:"heightCm"`
	WeightKg float64 `diff:"weightKg"`
}

func (u *User) snapshot() snapshot {
	return snapshot{
		Name:     u.Name,
		Email:    u.Email,
		Age:      opaqueString(u.Age),
		Gender:   opaqueString(u.Gender),
		HeightCm: lo.FromPtr(u.HeightCm),
		WeightKg: lo.FromPtr(u.WeightKg),
	}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}

func opaqueString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return lo.ToPtr(*v)
}

type RegisteredEvent struct {
	At     time.Time
	UserID string
	Email  string
}

func (e RegisteredEvent) Type() string {
	return EventRegistered
}

func (e RegisteredEvent) PublishedAt() time.Time {
	return e.At
}

type UpdatedEvent struct {
	At     time.Time
	UserID string
	Fields []string
}

func (e UpdatedEvent) Type() string {
	return EventUpdated
}

func (e UpdatedEvent) PublishedAt() time.Time {
	return e.At
}

type MeasuredEvent struct {
	At       time.Time
	UserID   string
	BMI      float64
	Category bmi.Category
}

func (e MeasuredEvent) Type() string {
	return EventMeasured
}

func (e MeasuredEvent) PublishedAt() time.Time {
	return e.At
}
