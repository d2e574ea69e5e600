package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusOK).
		BodyString("test").
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerTransactionCreated(42).
		TriggerFormReset().
		TriggerSummaryRefresh().
		TriggerSuccessNotification("Transaction recorded").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("HX-Trigger header not set")
	}

	expectedParts := []string{
		`"transaction:created"`,
		`"form:reset"`,
		`"summary:refresh"`,
		`"show-notification"`,
		`"id":42`,
		`"type":"success"`,
		`"message":"Transaction recorded"`,
	}
	for _, part := range expectedParts {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestHTMXResponseBuilder_TaskCompleted(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerTaskCompleted(7).
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, `"task:completed"`) {
		t.Errorf("HX-Trigger missing task:completed: %s", trigger)
	}
	if !strings.Contains(trigger, `"id":7`) {
		t.Errorf("HX-Trigger missing task id: %s", trigger)
	}
}

func TestHTMXResponseBuilder_NoTriggersNoHeader(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().BodyString("plain").Write(w)

	if got := w.Header().Get("HX-Trigger"); got != "" {
		t.Errorf("HX-Trigger = %q, want unset", got)
	}
}

func TestHTMXResponseBuilder_CustomHeader(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Header("X-Custom", "value").
		Status(http.StatusCreated).
		Write(w)

	if got := w.Header().Get("X-Custom"); got != "value" {
		t.Errorf("X-Custom = %q, want %q", got, "value")
	}
	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestErrorResponse_EscapesHTML(t *testing.T) {
	w := httptest.NewRecorder()

	BadRequestError(`<script>alert("x")</script>`).Write(w)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusBadRequest)
	}
	body := w.Body.String()
	if strings.Contains(body, "<script>") {
		t.Errorf("Body contains unescaped HTML: %s", body)
	}
	if !strings.Contains(body, `<div class="error">`) {
		t.Errorf("Body missing error wrapper: %s", body)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", got)
	}
}

func TestErrorResponseStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		builder  *HTMXResponseBuilder
		wantCode int
	}{
		{"bad request", BadRequestError("m"), http.StatusBadRequest},
		{"unprocessable entity", UnprocessableEntityError("m"), http.StatusUnprocessableEntity},
		{"internal server error", InternalServerError("m"), http.StatusInternalServerError},
		{"not found", NotFoundError("m"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.wantCode {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}
