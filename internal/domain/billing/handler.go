package billing

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
	api.GET("/bills", h.ListBills)
	api.POST("/bills", h.CreateBill)
	api.GET("/bills/stats", h.Stats)
	api.GET("/bills/:id", h.GetBill)
	api.POST("/bills/:id/payments", h.RecordPayment)
	api.GET("/patients/:id/bills", h.ListForPatient)
}

// billView adds the derived amount due to the wire form.
type billView struct {
	*Bill
	AmountDue float64 `json:"amount_due"`
}

func view(b *Bill) billView {
	return billView{Bill: b, AmountDue: b.AmountDue()}
}

func views(bills []*Bill) []billView {
	out := make([]billView, len(bills))
	for i, b := range bills {
		out[i] = view(b)
	}
	return out
}

func (h *Handler) CreateBill(c echo.Context) error {
	var b Bill
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AddBill(c.Request().Context(), &b); err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, view(&b))
}

func (h *Handler) GetBill(c echo.Context) error {
	b, err := h.svc.GetBill(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view(b))
}

// ListBills accepts ?status=<status|All>.
func (h *Handler) ListBills(c echo.Context) error {
	bills, err := h.svc.BillsByStatus(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(views(bills), pagination.FromContext(c)))
}

func (h *Handler) ListForPatient(c echo.Context) error {
	bills, err := h.svc.BillsForPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(views(bills), pagination.FromContext(c)))
}

type paymentRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	VersionID     int     `json:"version_id,omitempty"`
}

func (h *Handler) RecordPayment(c echo.Context) error {
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.RecordPayment(model.RequestContext(c, req.VersionID), c.Param("id"), req.Amount, req.PaymentMethod)
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view(b))
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, st)
}
