package identity

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/hms/internal/domain/model"
	"github.com/carepoint/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.PATCH("/patients/:id/status", h.SetPatientStatus)

	api.GET("/doctors", h.ListDoctors)
	api.POST("/doctors", h.CreateDoctor)
	api.GET("/doctors/:id", h.GetDoctor)
	api.PATCH("/doctors/:id/status", h.SetDoctorStatus)
	api.DELETE("/doctors/:id", h.DeleteDoctor)
}

// -- Patient Handlers --

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AddPatient(c.Request().Context(), &p); err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.svc.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, err := h.svc.SearchPatients(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(patients, pg))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = c.Param("id")
	if err := h.svc.UpdatePatient(model.RequestContext(c, 0), &p); err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) SetPatientStatus(c echo.Context) error {
	var body model.StatusChange
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.SetPatientStatus(model.RequestContext(c, body.VersionID), c.Param("id"), PatientStatus(body.Status))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

// -- Doctor Handlers --

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AddDoctor(c.Request().Context(), &d); err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	d, err := h.svc.GetDoctor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, d)
}

// ListDoctors accepts ?q= for search and ?available_at=<RFC 3339> to keep
// only doctors free at that instant.
func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	var (
		doctors []*Doctor
		err     error
	)
	if at := c.QueryParam("available_at"); at != "" {
		t, perr := time.Parse(time.RFC3339, at)
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "available_at must be RFC 3339")
		}
		doctors, err = h.svc.AvailableDoctors(ctx, t)
	} else {
		doctors, err = h.svc.SearchDoctors(ctx, c.QueryParam("q"))
	}
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(doctors, pg))
}

func (h *Handler) SetDoctorStatus(c echo.Context) error {
	var body model.StatusChange
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.SetDoctorStatus(model.RequestContext(c, body.VersionID), c.Param("id"), DoctorStatus(body.Status))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, d)
}

// DeleteDoctor requires ?confirm=true.
func (h *Handler) DeleteDoctor(c echo.Context) error {
	confirm, _ := strconv.ParseBool(c.QueryParam("confirm"))
	if err := h.svc.RemoveDoctor(model.RequestContext(c, 0), c.Param("id"), Confirmation(confirm)); err != nil {
		return model.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
