package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RequestBodyParser reads a request body once and answers keyed lookups over
// it, whether the client sent JSON or an HTMX form post.
type RequestBodyParser struct {
	body     []byte
	readErr  error
	parsed   bool
	parseErr error

	jsonData map[string]any
	formData url.Values
}

// NewRequestBodyParser drains the request body. Call Parse before any Get.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.readErr = io.ReadAll(r.Body)
	return p
}

// Parse decodes the body. A leading brace or bracket selects JSON; anything
// else is treated as a form post. Parsing happens at most once.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.parseErr
	}
	p.parsed = true

	switch {
	case p.readErr != nil:
		p.parseErr = p.readErr
	case len(p.body) == 0:
		p.formData = url.Values{}
	case p.body[0] == '{' || p.body[0] == '[':
		data := make(map[string]any)
		if err := json.Unmarshal(p.body, &data); err != nil {
			p.parseErr = err
		} else {
			p.jsonData = data
		}
	default:
		p.formData, p.parseErr = url.ParseQuery(string(p.body))
	}
	return p.parseErr
}

// Get returns the sanitized string value for key, or "" when absent.
func (p *RequestBodyParser) Get(key string) string {
	var raw string
	if p.jsonData != nil {
		raw = coerceString(p.jsonData[key])
	} else if p.formData != nil {
		raw = p.formData.Get(key)
	}
	return strings.TrimSpace(sanitizeInput(raw))
}

// GetInt64 returns the integer value for key, zero when absent or malformed.
func (p *RequestBodyParser) GetInt64(key string) int64 {
	v, err := strconv.ParseInt(p.Get(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// GetBool interprets checkbox and boolean inputs. Form checkboxes arrive as
// "on"; JSON clients send true.
func (p *RequestBodyParser) GetBool(key string) bool {
	switch strings.ToLower(p.Get(key)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// IsJSON reports whether the body decoded as JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// coerceString renders the scalar JSON values clients actually send. Numbers
// arrive as float64; FormatFloat with precision -1 keeps integers intact.
func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// RequireMethod returns nil when r uses one of the allowed methods, or a
// ready 405 response naming them.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}
