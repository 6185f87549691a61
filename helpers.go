package strand

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// IsDatastar reports whether the request was issued by the browser
// runtime's action plumbing rather than a plain navigation.
func IsDatastar(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

// ParseIncoming extracts the raw signal payload from a runtime-issued
// request: the JSON body for content-type application/json, otherwise the
// datastar query parameter. Plain requests yield ErrNotDatastar.
func ParseIncoming(r *http.Request) (map[string]RawValue, error) {
	body, err := incomingPayload(r)
	if err != nil {
		return nil, err
	}
	var out map[string]RawValue
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode signal payload: %w", err)
	}
	return out, nil
}

func incomingPayload(r *http.Request) ([]byte, error) {
	if !IsDatastar(r) {
		return nil, ErrNotDatastar
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("read signal payload: %w", err)
		}
		return body, nil
	}
	raw := r.URL.Query().Get("datastar")
	if raw == "" {
		return nil, fmt.Errorf("%w: no signal payload on request", ErrMissingSignal)
	}
	return []byte(raw), nil
}

// Read extracts the client's signal values from a runtime-issued request
// and decodes them into a fresh T. Wire names the registry does not know
// are ignored; fields the payload does not mention keep their zero value.
func (r *SignalRegistry[T]) Read(req *http.Request) (T, error) {
	var out T
	body, err := incomingPayload(req)
	if err != nil {
		return out, err
	}
	if err := r.Decode(body, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// ServeHTML renders v as a complete HTML response. Use it for the initial
// full-document request; subsequent updates go over a Stream.
func ServeHTML(w http.ResponseWriter, r *http.Request, v any) error {
	html, err := Render(r.Context(), v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = io.WriteString(w, html)
	return err
}
