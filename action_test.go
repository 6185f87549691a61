package strand

import (
	"strings"
	"testing"
	"time"

	"github.com/strandhtml/strand/lib/encoding"
)

func TestActionExpr(t *testing.T) {
	tests := []struct {
		name   string
		action *Action
		want   string
	}{
		{"get", Get("/todos"), "@get('/todos')"},
		{"post", Post("/todos"), "@post('/todos')"},
		{"put", Put("/todos/1"), "@put('/todos/1')"},
		{"patch", Patch("/todos/1"), "@patch('/todos/1')"},
		{"delete", Delete("/todos/1"), "@delete('/todos/1')"},
		{"form", Post("/todos").Form(), "@post('/todos', {contentType: 'form'})"},
		{"custom method", NewAction("/probe", "HEAD"), "@head('/probe')"},
		{"quote in url", Get("/search?q=o'brien"), `@get('/search?q=o\'brien')`},
		{"backslash in url", Get(`/files/a\b`), `@get('/files/a\\b')`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.action.Expr(); got != tt.want {
				t.Errorf("Expr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionState(t *testing.T) {
	codec, err := encoding.NewCodec([]byte("test key"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	type pos struct{ Page int }

	a := Get("/todos").State(codec, pos{Page: 2})
	if err := a.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	expr := a.Expr()
	if !strings.HasPrefix(expr, "@get('/todos?s=") {
		t.Errorf("state not appended: %q", expr)
	}

	// already has a query string
	b := Get("/todos?page=1").State(codec, pos{Page: 2})
	if !strings.Contains(b.Expr(), "/todos?page=1&s=") {
		t.Errorf("second parameter not joined with &: %q", b.Expr())
	}
}

func TestActionSealedRoundTrip(t *testing.T) {
	codec, err := encoding.NewCodec([]byte("test key"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	type pos struct{ Page int }

	a := Get("/todos").Sealed(codec, pos{Page: 7})
	if err := a.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	expr := a.Expr()
	_, after, ok := strings.Cut(expr, "?s=")
	if !ok {
		t.Fatalf("no state parameter: %q", expr)
	}
	token := strings.TrimSuffix(after, "')")

	var got pos
	if err := codec.DecodeToken(token, true, &got); err != nil {
		t.Fatalf("DecodeToken: %v", err)
	}
	if got.Page != 7 {
		t.Errorf("Page = %d, want 7", got.Page)
	}
}

func TestIntervalAttr(t *testing.T) {
	tests := []struct {
		name     string
		interval *Interval
		want     string
	}{
		{"one second", Every(time.Second), "data-on-interval__duration.1s"},
		{"half second", Every(500 * time.Millisecond), "data-on-interval__duration.500ms"},
		{"two minutes", Every(2 * time.Minute), "data-on-interval__duration.120s"},
		{"mixed", Every(1500 * time.Millisecond), "data-on-interval__duration.1500ms"},
		{"leading", Every(time.Second).Leading(), "data-on-interval__duration.1s.leading"},
		{
			"view transition",
			Every(2 * time.Second).ViewTransition(),
			"data-on-interval__duration.2s__viewtransition",
		},
		{
			"all modifiers",
			Every(time.Second).Leading().ViewTransition(),
			"data-on-interval__duration.1s.leading__viewtransition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.interval.Attr(); got != tt.want {
				t.Errorf("Attr() = %q, want %q", got, tt.want)
			}
		})
	}
}
