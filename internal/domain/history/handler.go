package history

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
	read.GET("/patients/:id/history", h.GetHistory)

	write := api.Group("", auth.RequireRole("osteopath"))
	write.PUT("/patients/:id/history", h.SaveHistory)
	write.DELETE("/patients/:id/history", h.DeleteHistory)
}

// GetHistory returns the patient's anamnesis as a form payload. A patient
// without one gets an empty form, not a 404; the screen opens blank.
func (h *Handler) GetHistory(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ch, err := h.svc.GetByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if ch == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"patientId": patientID,
			"history":   &Form{},
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patientId": patientID,
		"history":   ToForm(ch),
	})
}

func (h *Handler) SaveHistory(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var f Form
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ch := FromForm(&f)
	ch.PatientID = patientID
	if err := h.svc.Save(c.Request().Context(), ch); err != nil {
		if errors.Is(err, ErrInvalid) {
			metrics.RecordSave("clinical_history", "validation_failed")
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		metrics.RecordSave("clinical_history", "storage_error")
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.RecordSave("clinical_history", "success")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patientId": patientID,
		"history":   ToForm(ch),
	})
}

func (h *Handler) DeleteHistory(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if err := h.svc.DeleteByPatient(c.Request().Context(), patientID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
