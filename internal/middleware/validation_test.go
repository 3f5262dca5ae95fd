package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models/dto"
)

func newValidationRouter(t *testing.T, captured *[]*dto.CreateSessionRequest) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/sessions", ValidateRequest(&dto.CreateSessionRequest{}), func(c *gin.Context) {
		req := c.MustGet(ValidatedBodyKey).(*dto.CreateSessionRequest)
		*captured = append(*captured, req)
		c.Status(http.StatusCreated)
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestValidateRequestPassesBodyToHandler(t *testing.T) {
	var captured []*dto.CreateSessionRequest
	router := newValidationRouter(t, &captured)

	rec := postJSON(router, `{"name":"May_2026","numWeeks":5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if len(captured) != 1 {
		t.Fatalf("handler ran %d times, want 1", len(captured))
	}
	if captured[0].Name != "May_2026" {
		t.Errorf("Name = %q, want May_2026", captured[0].Name)
	}
	if captured[0].NumWeeks == nil || *captured[0].NumWeeks != 5 {
		t.Errorf("NumWeeks = %v, want 5", captured[0].NumWeeks)
	}
}

func TestValidateRequestRejectsMalformedJSON(t *testing.T) {
	var captured []*dto.CreateSessionRequest
	router := newValidationRouter(t, &captured)

	rec := postJSON(router, `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(captured) != 0 {
		t.Fatal("handler ran on malformed body")
	}
}

func TestValidateRequestRejectsFieldViolations(t *testing.T) {
	var captured []*dto.CreateSessionRequest
	router := newValidationRouter(t, &captured)

	rec := postJSON(router, `{"numWeeks":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(captured) != 0 {
		t.Fatal("handler ran on invalid body")
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != dto.ErrorCodeValidationFailed {
		t.Errorf("error = %+v, want code %s", resp.Error, dto.ErrorCodeValidationFailed)
	}
	if resp.Error.Field != "Name" {
		t.Errorf("Field = %q, want Name", resp.Error.Field)
	}
}

func TestValidateRequestAllocatesPerRequest(t *testing.T) {
	var captured []*dto.CreateSessionRequest
	router := newValidationRouter(t, &captured)

	postJSON(router, `{"name":"May_2026","numWeeks":5,"keyDayDate":"2026-04-30"}`)
	postJSON(router, `{"name":"June_2026"}`)
	if len(captured) != 2 {
		t.Fatalf("handler ran %d times, want 2", len(captured))
	}
	if captured[1].NumWeeks != nil || captured[1].KeyDayDate != nil {
		t.Errorf("second request carried fields from the first: numWeeks=%v keyDayDate=%v",
			captured[1].NumWeeks, captured[1].KeyDayDate)
	}
	if captured[0] == captured[1] {
		t.Error("requests shared one body instance")
	}
}
