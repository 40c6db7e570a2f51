package api

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_bmi_backend/internal/app/unitofwork"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"github.com/labstack/echo/v4"
	"net/http"
	"strings"
)

type JsonErrorModel struct {
	Error string `json:"error"`
}

// JsonError writes content as {"error": "..."}. Errors are reported without
// the unit of work rollback wrapper, and joined errors by their first line.
func JsonError(c echo.Context, status int, content any) error {
	if err, ok := content.(error); ok {
		var rollback *unitofwork.RollbackError
		if errors.As(err, &rollback) {
			content = rollback.Err
		}
	}
	msg := fmt.Sprintf("%v", content)
	msg, _, _ = strings.Cut(msg, "\n")
	return c.JSON(status, &JsonErrorModel{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
