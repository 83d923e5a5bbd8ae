package scheduling

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/hms/internal/domain/model"
	"github.com/carepoint/hms/pkg/pagination"
)

// Handler serves appointment writes and the plain lists. The joined,
// searchable appointment list lives with the dashboard.
type Handler struct {
	svc *Service
	now func() time.Time
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.CreateAppointment)
	api.GET("/appointments/today", h.ListToday)
	api.GET("/appointments/:id", h.GetAppointment)
	api.PATCH("/appointments/:id/status", h.UpdateStatus)
	api.POST("/appointments/:id/cancel", h.Cancel)
	api.GET("/doctors/:id/appointments", h.ListForDoctor)
	api.GET("/patients/:id/appointments", h.ListForPatient)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AddAppointment(c.Request().Context(), &a); err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	a, err := h.svc.GetAppointment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListToday(c echo.Context) error {
	appts, err := h.svc.AppointmentsToday(c.Request().Context(), h.now())
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(appts, pagination.FromContext(c)))
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	appts, err := h.svc.AppointmentsForDoctor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(appts, pagination.FromContext(c)))
}

func (h *Handler) ListForPatient(c echo.Context) error {
	appts, err := h.svc.AppointmentsForPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(appts, pagination.FromContext(c)))
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var body model.StatusChange
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.UpdateAppointmentStatus(model.RequestContext(c, body.VersionID), c.Param("id"), AppointmentStatus(body.Status))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Cancel(c echo.Context) error {
	a, err := h.svc.Cancel(model.RequestContext(c, 0), c.Param("id"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, a)
}
