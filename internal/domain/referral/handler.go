package referral

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const defaultLocation = "New Delhi, India"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/referral/recommend", h.Recommend)
}

// Recommend handles GET /referral/recommend?location=...
func (h *Handler) Recommend(c echo.Context) error {
	location := strings.TrimSpace(c.QueryParam("location"))
	if location == "" {
		location = defaultLocation
	}
	if len(location) < 2 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "location must be at least 2 characters")
	}
	return c.JSON(http.StatusOK, h.service.Recommend(c.Request().Context(), location))
}
