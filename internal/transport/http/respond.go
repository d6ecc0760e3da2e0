package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/ecommerce_api/internal/middleware/auth"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
)

// fail logs err under event and turns it into the matching HTTP error.
// Unclassified errors become a bare 500 so no detail leaks to the client.
func fail(l *slog.Logger, event string, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		l.Warn(event, "status", http.StatusBadRequest, "reason", ve.Message)
		body := echo.Map{"message": ve.Message}
		if len(ve.Fields) > 0 {
			body["errors"] = ve.Fields
		}
		return echo.NewHTTPError(http.StatusBadRequest, body)
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
		return echo.NewHTTPError(status, "Server error")
	}
	l.Warn(event, "status", status, "reason", err.Error())
	return echo.NewHTTPError(status, err.Error())
}

func principal(c echo.Context) (service.Principal, error) {
	raw, _ := c.Get(authmw.CtxUserID).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return service.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}
	role, _ := c.Get(authmw.CtxRole).(string)
	return service.Principal{UserID: id, Role: role}, nil
}

func bind(c echo.Context, l *slog.Logger, event string, dst any) error {
	if err := c.Bind(dst); err != nil {
		l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return nil
}

func pageParams(c echo.Context) (page, offset, limit int) {
	return util.Calculate(
		util.ParseIntDefault(c.QueryParam("page"), 1),
		util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
