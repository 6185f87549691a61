package strand

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewStreamHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/updates", nil)

	s, err := NewStream(w, r)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	if s == nil {
		t.Fatal("NewStream returned nil stream")
	}

	h := w.Header()
	if got := h.Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := h.Get("Cache-Control"); got != "no-cache" {
		t.Errorf("Cache-Control = %q", got)
	}
}

type noFlushWriter struct {
	http.ResponseWriter
}

func TestNewStreamUnsupportedWriter(t *testing.T) {
	w := noFlushWriter{httptest.NewRecorder()}
	r := httptest.NewRequest(http.MethodGet, "/updates", nil)

	if _, err := NewStream(w, r); !errors.Is(err, ErrStreamUnsupported) {
		t.Fatalf("NewStream = %v, want ErrStreamUnsupported", err)
	}
}

func TestStreamPatchOrder(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/updates", nil)

	s, err := NewStream(w, r)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}

	err = s.Patch(
		ElementPatch("<p>one</p>").Selector("#a"),
		SignalPatch(MustPair("count", 1)),
	)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}

	body := w.Body.String()
	first := strings.Index(body, "data: elements <p>one</p>")
	second := strings.Index(body, `data: signals {"count":1}`)
	if first < 0 || second < 0 || second < first {
		t.Errorf("frames missing or out of order:\n%s", body)
	}
	if !strings.HasSuffix(body, "\n\n") {
		t.Errorf("last frame not terminated:\n%q", body)
	}
}

func TestStreamPatchAfterDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/updates", nil).WithContext(ctx)

	s, err := NewStream(w, r)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	cancel()

	if err := s.Patch(ElementPatch("<p>late</p>")); !errors.Is(err, context.Canceled) {
		t.Fatalf("Patch after disconnect = %v, want context.Canceled", err)
	}
	if w.Body.Len() != 0 {
		t.Errorf("frame written after disconnect: %q", w.Body.String())
	}
}
