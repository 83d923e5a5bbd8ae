package model

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHTTPError_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("patient 9: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("bill 1: %w", ErrVersionConflict), http.StatusConflict},
		{fmt.Errorf("%w: confirm", ErrPreconditionRequired), http.StatusPreconditionFailed},
		{&TransitionError{Entity: "room", From: "Maintenance", To: "Occupied"}, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: doctor 7", ErrUnknownReference), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: name is required", ErrValidation), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		he := HTTPError(tc.err)
		if he.Code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, he.Code)
		}
	}
	if HTTPError(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestRequestContext_IfMatch(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", nil)
	req.Header.Set("If-Match", `W/"3"`)
	c := e.NewContext(req, httptest.NewRecorder())

	if v := ExpectedVersion(RequestContext(c, 0)); v != 3 {
		t.Errorf("expected version 3 from If-Match, got %d", v)
	}
	if v := ExpectedVersion(RequestContext(c, 5)); v != 5 {
		t.Errorf("expected body version to win, got %d", v)
	}
}

func TestRequestContext_NoVersion(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if v := ExpectedVersion(RequestContext(c, 0)); v != 0 {
		t.Errorf("expected no version, got %d", v)
	}
}
