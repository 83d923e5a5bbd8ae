package clinical

import (
	"net/http"

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
	api.GET("/records", h.ListRecords)
	api.POST("/records", h.CreateRecord)
	api.GET("/records/grouped", h.Grouped)
	api.GET("/records/:id", h.GetRecord)
	api.GET("/patients/:id/records", h.ListForPatient)
}

func (h *Handler) CreateRecord(c echo.Context) error {
	var r MedicalRecord
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AddRecord(c.Request().Context(), &r); err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetRecord(c echo.Context) error {
	r, err := h.svc.GetRecord(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListRecords(c echo.Context) error {
	records, err := h.svc.ListRecords(c.Request().Context())
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(records, pagination.FromContext(c)))
}

func (h *Handler) ListForPatient(c echo.Context) error {
	records, err := h.svc.RecordsForPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(records, pagination.FromContext(c)))
}

type yearSummary struct {
	YearGroup
	PatientCount int `json:"patient_count"`
	RecordCount  int `json:"record_count"`
}

// Grouped serves the admission archive. ?q= searches names and patient
// numbers, ?year= picks one year or All.
func (h *Handler) Grouped(c echo.Context) error {
	groups, err := h.svc.Grouped(c.Request().Context(), c.QueryParam("q"), c.QueryParam("year"))
	if err != nil {
		return model.HTTPError(err)
	}
	out := make([]yearSummary, len(groups))
	for i, g := range groups {
		out[i] = yearSummary{YearGroup: g, PatientCount: g.PatientCount(), RecordCount: g.RecordCount()}
	}
	return c.JSON(http.StatusOK, out)
}
