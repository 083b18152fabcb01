package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/osteo/cartella/internal/platform/auth"
	"github.com/osteo/cartella/internal/platform/metrics"
	"github.com/osteo/cartella/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("osteopath", "assistant"))
	read.GET("/patients", h.ListPatients)
	read.GET("/patients/:id", h.GetPatient)

	write := api.Group("", auth.RequireRole("osteopath"))
	write.POST("/patients", h.CreatePatient)
	write.PUT("/patients/:id", h.UpdatePatient)
	write.DELETE("/patients/:id", h.DeletePatient)
}

// CreatePatient accepts the registration form payload, maps it to the domain
// model and persists it. Response carries the new id plus the stored form.
func (h *Handler) CreatePatient(c echo.Context) error {
	var f Form
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := FromForm(&f)
	if err != nil {
		metrics.RecordSave("patient", "validation_failed")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePatient(c.Request().Context(), p); err != nil {
		if errors.Is(err, ErrInvalid) {
			metrics.RecordSave("patient", "validation_failed")
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		metrics.RecordSave("patient", "storage_error")
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.RecordSave("patient", "success")
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":      p.ID,
		"patient": ToForm(p),
	})
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":      p.ID,
		"patient": ToForm(p),
	})
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	var (
		patients []*Patient
		total    int
		err      error
	)
	if q := c.QueryParam("q"); q != "" {
		patients, total, err = h.svc.SearchPatients(ctx, q, pg.Limit, pg.Offset)
	} else {
		patients, total, err = h.svc.ListPatients(ctx, pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	summaries := make([]Summary, len(patients))
	for i, p := range patients {
		summaries[i] = ToSummary(p)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(summaries, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var f Form
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := FromForm(&f)
	if err != nil {
		metrics.RecordSave("patient", "validation_failed")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdatePatient(c.Request().Context(), p); err != nil {
		if errors.Is(err, ErrInvalid) {
			metrics.RecordSave("patient", "validation_failed")
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		metrics.RecordSave("patient", "storage_error")
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.RecordSave("patient", "success")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":      p.ID,
		"patient": ToForm(p),
	})
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePatient(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
