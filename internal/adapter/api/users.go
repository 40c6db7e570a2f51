package api

import (
	"github.com/burenotti/go_bmi_backend/internal/app/unitofwork"
	"github.com/burenotti/go_bmi_backend/internal/app/userapp"
	"github.com/burenotti/go_bmi_backend/internal/domain/user"
	"github.com/labstack/echo/v4"
	"net/http"
	"time"
)

func (s *Server) MountUsers() {
	s.handler.POST("/api/register", s.Register)
	s.handler.GET("/api/users/:userId", s.GetUser)
}

func (s *Server) getUserUoW() *unitofwork.UnitOfWork[*userapp.AtomicContext] {
	return unitofwork.New[*userapp.AtomicContext](
		s.db,
		userapp.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Age       any       `json:"age"`
	Gender    any       `json:"gender"`
	HeightCm  *float64  `json:"heightCm"`
	WeightKg  *float64  `json:"weightKg"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func userFromModel(u *user.User) User {
	res := User{
		ID:        u.UserID,
		Name:      u.Name,
		Age:       u.Age,
		Gender:    u.Gender,
		HeightCm:  u.HeightCm,
		WeightKg:  u.WeightKg,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.HasEmail() {
		res.Email = &u.Email
	}
	return res
}

type UserResponse struct {
	User User `json:"user"`
}

type RegisterRequest struct {
	Name     string        `json:"name" validate:"required"`
	Email    string        `json:"email"`
	Age      any           `json:"age"`
	Gender   any           `json:"gender"`
	HeightCm OptionalFloat `json:"heightCm"`
	WeightKg OptionalFloat `json:"weightKg"`
}

func (s *Server) Register(c echo.Context) error {
	var req RegisterRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	uow := s.getUserUoW()
	ctx := c.Request().Context()

	u, err := s.userService.Register(ctx, uow, user.Profile{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Gender:   req.Gender,
		HeightCm: req.HeightCm.Value,
		WeightKg: req.WeightKg.Value,
	})
	if err != nil {
		return JsonError(c, statusFor(err), err)
	}

	return c.JSON(http.StatusOK, UserResponse{User: userFromModel(u)})
}

type GetUserRequest struct {
	UserID string `param:"userId" validate:"required"`
}

func (s *Server) GetUser(c echo.Context) error {
	var req GetUserRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	u, err := s.userService.GetUserByID(c.Request().Context(), s.getUserUoW(), req.UserID)
	if err != nil {
		return JsonError(c, statusFor(err), err)
	}

	return c.JSON(http.StatusOK, UserResponse{User: userFromModel(u)})
}
