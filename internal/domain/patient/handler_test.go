package patient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandlerCreatePatient(t *testing.T) {
	repo := newMockRepo()
	h := NewHandler(NewService(repo))

	body := `{"first_name":"Anna","last_name":"Bianchi","phone":"333","consent_treatment":true,"birth_date":"15/03/1985"}`
	c, rec := newTestContext(http.MethodPost, "/patients", body)

	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID      uuid.UUID `json:"id"`
		Patient Form      `json:"patient"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.ID == uuid.Nil {
		t.Error("response should carry the new id")
	}
	if resp.Patient.BirthDate != "15/03/1985" {
		t.Errorf("birth date echoed as %q", resp.Patient.BirthDate)
	}
	if len(repo.patients) != 1 {
		t.Errorf("stored patients = %d", len(repo.patients))
	}
}

func TestHandlerCreatePatient_ValidationError(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	c, _ := newTestContext(http.MethodPost, "/patients", `{"first_name":"Anna"}`)
	err := h.CreatePatient(c)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", httpErr.Code)
	}
}

func TestHandlerCreatePatient_StorageErrorIs500(t *testing.T) {
	repo := newMockRepo()
	repo.failWith = fmt.Errorf("disk full")
	h := NewHandler(NewService(repo))

	body := `{"first_name":"Anna","last_name":"Bianchi","phone":"333","consent_treatment":true}`
	c, _ := newTestContext(http.MethodPost, "/patients", body)

	err := h.CreatePatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("storage failure status = %d, want 500", httpErr.Code)
	}
}

func TestHandlerGetPatient_NotFound(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	c, _ := newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetPatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandlerGetPatient_InvalidID(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	c, _ := newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetPatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
