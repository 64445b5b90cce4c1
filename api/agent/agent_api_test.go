package agent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	agentSvc "imarket.GO/service/agent"
)

func TestAgentMessage(t *testing.T) {
	SetAgentForTesting(agentSvc.New(agentSvc.Script{
		DefaultResponse: "I did not get that.",
		Responses: map[string]string{
			"delivery": "Delivery takes 2-3 days within Nairobi.",
		},
	}))

	e := echo.New()
	RegisterAgentRoutes(e.Group("/api"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/agent/message",
		strings.NewReader(`{"message":"how long is delivery?"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["reply"] != "Delivery takes 2-3 days within Nairobi." {
		t.Fatalf("unexpected reply %q", out["reply"])
	}
}

func TestAgentMessage_Empty(t *testing.T) {
	SetAgentForTesting(agentSvc.New(agentSvc.Script{DefaultResponse: "?"}))

	e := echo.New()
	RegisterAgentRoutes(e.Group("/api"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/agent/message", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
