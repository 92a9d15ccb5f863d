package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/analytics/summary", h.Summary)
}

// Summary handles GET /analytics/summary.
func (h *Handler) Summary(c echo.Context) error {
	summary, err := h.service.Summary(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build analytics summary")
	}
	return c.JSON(http.StatusOK, summary)
}
