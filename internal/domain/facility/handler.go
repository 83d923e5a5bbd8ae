package facility

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
	api.GET("/rooms", h.ListRooms)
	api.POST("/rooms", h.CreateRoom)
	api.GET("/rooms/stats", h.Stats)
	api.GET("/rooms/:id", h.GetRoom)
	api.PATCH("/rooms/:id/status", h.SetStatus)
}

func (h *Handler) CreateRoom(c echo.Context) error {
	var r Room
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AddRoom(c.Request().Context(), &r); err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetRoom(c echo.Context) error {
	r, err := h.svc.GetRoom(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

// ListRooms accepts ?status=<status|All>.
func (h *Handler) ListRooms(c echo.Context) error {
	rooms, err := h.svc.RoomsByStatus(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(rooms, pagination.FromContext(c)))
}

func (h *Handler) Stats(c echo.Context) error {
	counts, err := h.svc.CountByStatus(c.Request().Context())
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *Handler) SetStatus(c echo.Context) error {
	var body model.StatusChange
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.svc.SetRoomStatus(model.RequestContext(c, body.VersionID), c.Param("id"), RoomStatus(body.Status), body.PatientID)
	if err != nil {
		return model.HTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}
