package model

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// HTTPError maps a service error to the echo error the handlers return.
func HTTPError(err error) *echo.HTTPError {
	var te *TransitionError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrVersionConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrPreconditionRequired):
		return echo.NewHTTPError(http.StatusPreconditionFailed, err.Error())
	case errors.As(err, &te), errors.Is(err, ErrUnknownReference):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// RequestContext returns the request context, carrying the expected version
// when the client sent an If-Match header or a non-zero bodyVersion.
func RequestContext(c echo.Context, bodyVersion int) context.Context {
	ctx := c.Request().Context()
	if bodyVersion > 0 {
		return WithExpectedVersion(ctx, bodyVersion)
	}
	tag := strings.Trim(strings.TrimPrefix(c.Request().Header.Get("If-Match"), "W/"), `"`)
	if v, err := strconv.Atoi(tag); err == nil {
		return WithExpectedVersion(ctx, v)
	}
	return ctx
}

// StatusChange is the body of the PATCH .../status endpoints.
type StatusChange struct {
	Status    string `json:"status"`
	PatientID string `json:"patient_id,omitempty"`
	VersionID int    `json:"version_id,omitempty"`
}
