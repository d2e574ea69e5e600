package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newParserFromBody(contentType, body string) *RequestBodyParser {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	return NewRequestBodyParser(req)
}

func TestRequestBodyParser_JSON(t *testing.T) {
	p := newParserFromBody("application/json",
		`{"category": "Seeds", "amount": "45.50", "farmId": 3, "completed": true}`)

	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !p.IsJSON() {
		t.Error("IsJSON() = false, want true")
	}
	if got := p.Get("category"); got != "Seeds" {
		t.Errorf("Get(category) = %q, want %q", got, "Seeds")
	}
	if got := p.Get("amount"); got != "45.50" {
		t.Errorf("Get(amount) = %q, want %q", got, "45.50")
	}
	if got := p.GetInt64("farmId"); got != 3 {
		t.Errorf("GetInt64(farmId) = %d, want 3", got)
	}
	if !p.GetBool("completed") {
		t.Error("GetBool(completed) = false, want true")
	}
	if p.Get("missing") != "" {
		t.Errorf("Get(missing) = %q, want empty", p.Get("missing"))
	}
}

func TestRequestBodyParser_Form(t *testing.T) {
	p := newParserFromBody("application/x-www-form-urlencoded",
		"category=Fuel&amount=30.00&farmId=1&includeIncome=on")

	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.IsJSON() {
		t.Error("IsJSON() = true, want false")
	}
	if got := p.Get("category"); got != "Fuel" {
		t.Errorf("Get(category) = %q, want %q", got, "Fuel")
	}
	if got := p.GetInt64("farmId"); got != 1 {
		t.Errorf("GetInt64(farmId) = %d, want 1", got)
	}
	if !p.GetBool("includeIncome") {
		t.Error("GetBool(includeIncome) = false, want true")
	}
	if p.GetBool("includeExpenses") {
		t.Error("GetBool(includeExpenses) = true for absent key, want false")
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	p := newParserFromBody("application/x-www-form-urlencoded", "")

	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Get("anything") != "" {
		t.Errorf("Get on empty body = %q, want empty", p.Get("anything"))
	}
}

func TestRequestBodyParser_MalformedJSON(t *testing.T) {
	p := newParserFromBody("application/json", `{"category": `)

	if err := p.Parse(); err == nil {
		t.Error("Parse() error = nil for malformed JSON, want error")
	}
}

func TestRequestBodyParser_GetBoolVariants(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"on", true},
		{"1", true},
		{"yes", true},
		{"TRUE", true},
		{"false", false},
		{"off", false},
		{"0", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			p := newParserFromBody("application/x-www-form-urlencoded", "flag="+tt.value)
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := p.GetBool("flag"); got != tt.want {
				t.Errorf("GetBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestRequestBodyParser_SanitizesControlCharacters(t *testing.T) {
	p := newParserFromBody("application/x-www-form-urlencoded",
		"category=Seeds%00%01&description=%20padded%20")

	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := p.Get("category"); got != "Seeds" {
		t.Errorf("Get(category) = %q, want control characters stripped", got)
	}
	if got := p.Get("description"); got != "padded" {
		t.Errorf("Get(description) = %q, want trimmed %q", got, "padded")
	}
}

func TestRequestBodyParser_GetInt64Malformed(t *testing.T) {
	p := newParserFromBody("application/x-www-form-urlencoded", "farmId=abc")

	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := p.GetInt64("farmId"); got != 0 {
		t.Errorf("GetInt64 on malformed value = %d, want 0", got)
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	if resp := RequireMethod(req, http.MethodGet, http.MethodPost); resp != nil {
		t.Error("RequireMethod returned error response for allowed method")
	}

	resp := RequireMethod(req, http.MethodDelete)
	if resp == nil {
		t.Fatal("RequireMethod returned nil for disallowed method")
	}
	w := httptest.NewRecorder()
	resp.Write(w)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
	if got := w.Header().Get("Allow"); got != "DELETE" {
		t.Errorf("Allow header = %q, want %q", got, "DELETE")
	}
}
