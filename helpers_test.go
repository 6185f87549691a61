package strand

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func datastarRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	r.Header.Set("Datastar-Request", "true")
	return r
}

func TestIsDatastar(t *testing.T) {
	if IsDatastar(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Error("plain request classified as a runtime request")
	}
	if !IsDatastar(datastarRequest(http.MethodGet, "/?datastar=%7B%7D", "")) {
		t.Error("runtime request not recognized")
	}
}

func TestParseIncoming(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		r := datastarRequest(http.MethodPost, "/todos", `{"newTodo":"x","pageNum":2}`)
		got, err := ParseIncoming(r)
		if err != nil {
			t.Fatalf("ParseIncoming: %v", err)
		}
		want := map[string]RawValue{
			"newTodo": RawValue(`"x"`),
			"pageNum": RawValue(`2`),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("payload mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("query parameter", func(t *testing.T) {
		target := "/todos?datastar=" + url.QueryEscape(`{"pageNum":3}`)
		got, err := ParseIncoming(datastarRequest(http.MethodGet, target, ""))
		if err != nil {
			t.Fatalf("ParseIncoming: %v", err)
		}
		if string(got["pageNum"]) != "3" {
			t.Errorf("pageNum = %s, want 3", got["pageNum"])
		}
	})

	t.Run("plain request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/todos", nil)
		if _, err := ParseIncoming(r); !errors.Is(err, ErrNotDatastar) {
			t.Errorf("err = %v, want ErrNotDatastar", err)
		}
	})

	t.Run("no payload", func(t *testing.T) {
		r := datastarRequest(http.MethodGet, "/todos", "")
		if _, err := ParseIncoming(r); !errors.Is(err, ErrMissingSignal) {
			t.Errorf("err = %v, want ErrMissingSignal", err)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		r := datastarRequest(http.MethodPost, "/todos", `{"broken`)
		if _, err := ParseIncoming(r); err == nil {
			t.Error("ParseIncoming accepted malformed JSON")
		}
	})
}

func TestRegistryRead(t *testing.T) {
	reg := MustSignals[todoSignals]()

	t.Run("json body", func(t *testing.T) {
		r := datastarRequest(http.MethodPost, "/todos", `{"newTodo":"buy milk","pageNum":4}`)
		got, err := reg.Read(r)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if got.NewTodo != "buy milk" || got.Page != 4 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("query parameter", func(t *testing.T) {
		target := "/todos?datastar=" + url.QueryEscape(`{"done":true}`)
		got, err := reg.Read(datastarRequest(http.MethodGet, target, ""))
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if !got.Done {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("plain request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/todos", nil)
		if _, err := reg.Read(r); !errors.Is(err, ErrNotDatastar) {
			t.Errorf("err = %v, want ErrNotDatastar", err)
		}
	})
}

func TestServeHTML(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	if err := ServeHTML(w, r, helloWorld{Msg: "hi"}); err != nil {
		t.Fatalf("ServeHTML: %v", err)
	}
	if got := w.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Body.String(); got != `<div><span>hi</span></div>` {
		t.Errorf("body = %s", got)
	}

	w = httptest.NewRecorder()
	if err := ServeHTML(w, r, 42); err == nil {
		t.Error("ServeHTML accepted a non-component")
	}
}
