package strand

import (
	"context"
	"strings"
	"testing"
)

func TestDocumentRender(t *testing.T) {
	doc := NewDocument("Todos").
		Stylesheet("/static/app.css").
		Script("/static/datastar.js").
		Signals(`{"newTodo":""}`).
		Class("dark").
		Append(helloWorld{Msg: "hi"})

	html, err := doc.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.HasPrefix(html, "<!DOCTYPE html><html lang=\"en\">") {
		t.Errorf("missing doctype or html open: %s", html)
	}
	for _, want := range []string{
		"<title>Todos</title>",
		`<link rel="stylesheet" href="/static/app.css"/>`,
		`<script src="/static/datastar.js" type="module"></script>`,
		`<body class="dark" data-signals="{&#34;newTodo&#34;:&#34;&#34;}">`,
		"<div><span>hi</span></div>",
		"</body></html>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q:\n%s", want, html)
		}
	}
}

func TestDocumentDefaults(t *testing.T) {
	html, err := NewDocument("Bare").Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := `<!DOCTYPE html><html lang="en"><head><title>Bare</title></head><body></body></html>`
	if html != want {
		t.Errorf("got  %s\nwant %s", html, want)
	}
}

func TestDocumentHeadExtra(t *testing.T) {
	doc := NewDocument("X").HeadExtra(`<meta name="robots" content="noindex"/>`)
	html, err := doc.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, `<meta name="robots" content="noindex"/>`) {
		t.Errorf("head extra not emitted raw:\n%s", html)
	}
}

func TestDocumentOrderIsStable(t *testing.T) {
	build := func() string {
		doc := NewDocument("T").
			Stylesheet("/a.css").
			Stylesheet("/b.css").
			Append(helloWorld{Msg: "1"}, helloWorld{Msg: "2"})
		html, err := doc.Render(context.Background())
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		return html
	}

	first := build()
	if build() != first {
		t.Error("document render is not deterministic")
	}
	if strings.Index(first, "/a.css") > strings.Index(first, "/b.css") {
		t.Error("stylesheets out of declaration order")
	}
	if strings.Index(first, "<span>1</span>") > strings.Index(first, "<span>2</span>") {
		t.Error("children out of append order")
	}
}
