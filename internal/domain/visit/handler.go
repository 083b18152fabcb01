package visit

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/osteo/cartella/internal/platform/auth"
	"github.com/osteo/cartella/internal/platform/metrics"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("osteopath", "assistant"))
	read.GET("/patients/:id/visits", h.ListByPatient)
	read.GET("/visits", h.ListVisits)
	read.GET("/visits/:id", h.GetVisit)

	write := api.Group("", auth.RequireRole("osteopath"))
	write.POST("/patients/:id/visits", h.CreateVisit)
	write.PUT("/visits/:id", h.UpdateVisit)
	write.DELETE("/visits/:id", h.DeleteVisit)
}

func (h *Handler) CreateVisit(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var f Form
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := FromForm(&f)
	if err != nil {
		metrics.RecordSave("visit", "validation_failed")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v.PatientID = patientID
	if err := h.svc.CreateVisit(c.Request().Context(), v); err != nil {
		if errors.Is(err, ErrInvalid) {
			metrics.RecordSave("visit", "validation_failed")
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		metrics.RecordSave("visit", "storage_error")
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.RecordSave("visit", "success")
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":    v.ID,
		"visit": ToForm(v),
	})
}

func (h *Handler) GetVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	v, err := h.svc.GetVisit(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "visit not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":        v.ID,
		"patientId": v.PatientID,
		"visit":     ToForm(v),
	})
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	visits, err := h.svc.VisitsByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	summaries := make([]Summary, len(visits))
	for i, v := range visits {
		summaries[i] = ToSummary(v)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patientId": patientID,
		"visits":    summaries,
	})
}

func (h *Handler) ListVisits(c echo.Context) error {
	visits, err := h.svc.ListVisits(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	summaries := make([]Summary, len(visits))
	for i, v := range visits {
		summaries[i] = ToSummary(v)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"visits": summaries})
}

func (h *Handler) UpdateVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	existing, err := h.svc.GetVisit(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "visit not found")
	}
	var f Form
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := FromForm(&f)
	if err != nil {
		metrics.RecordSave("visit", "validation_failed")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v.ID = id
	v.PatientID = existing.PatientID
	if err := h.svc.UpdateVisit(c.Request().Context(), v); err != nil {
		if errors.Is(err, ErrInvalid) {
			metrics.RecordSave("visit", "validation_failed")
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		metrics.RecordSave("visit", "storage_error")
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.RecordSave("visit", "success")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":    v.ID,
		"visit": ToForm(v),
	})
}

func (h *Handler) DeleteVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteVisit(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
