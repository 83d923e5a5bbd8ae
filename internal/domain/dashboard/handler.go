package dashboard

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/hms/internal/domain/model"
	"github.com/carepoint/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
	now func() time.Time
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.Summary)
	api.GET("/appointments", h.ListAppointments)
	api.GET("/doctors/:id/dashboard", h.DoctorDashboard)
	api.GET("/patients/:id/portal", h.PatientPortal)
}

func (h *Handler) Summary(c echo.Context) error {
	sum, err := h.svc.Summary(c.Request().Context(), h.now())
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, sum)
}

// ListAppointments serves the front-desk list: ?q= searches patient and
// doctor names, ?status= narrows by status ("All" for every status).
func (h *Handler) ListAppointments(c echo.Context) error {
	f := AppointmentFilter{Term: c.QueryParam("q"), Status: c.QueryParam("status")}
	items, err := h.svc.AppointmentDetails(c.Request().Context(), f)
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(items, pagination.FromContext(c)))
}

func (h *Handler) DoctorDashboard(c echo.Context) error {
	dash, err := h.svc.DoctorDashboard(c.Request().Context(), c.Param("id"), h.now())
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, dash)
}

func (h *Handler) PatientPortal(c echo.Context) error {
	portal, err := h.svc.PatientPortal(c.Request().Context(), c.Param("id"), h.now())
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, portal)
}
