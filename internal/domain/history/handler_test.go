package history

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

func TestHandlerSaveHistory(t *testing.T) {
	repo := newMockRepo()
	h := NewHandler(NewService(repo))

	patientID := uuid.New()
	body := `{"hasDrugAllergies":true,"drugAllergiesList":"penicillina"}`
	c, rec := newTestContext(http.MethodPut, "/", body)
	c.SetParamNames("id")
	c.SetParamValues(patientID.String())

	if err := h.SaveHistory(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if repo.byPatient[patientID] == nil {
		t.Error("history should be stored under the patient")
	}
}

func TestHandlerSaveHistory_StorageErrorIs500(t *testing.T) {
	repo := newMockRepo()
	repo.failWith = fmt.Errorf("connection lost")
	h := NewHandler(NewService(repo))

	c, _ := newTestContext(http.MethodPut, "/", `{}`)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.SaveHistory(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("storage failure status = %d, want 500", httpErr.Code)
	}
}

func TestHandlerGetHistory_NoneIsEmptyForm(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	c, rec := newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.GetHistory(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		History *Form `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.History == nil {
		t.Error("missing history should render as an empty form")
	}
}
