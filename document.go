package strand

import "context"

// Link is a stylesheet or other head link.
type Link struct {
	Elem Elem `elem:"link"`

	ID   *string `attr:"id"`
	Rel  string  `attr:"rel"`
	Href string  `attr:"href"`
}

// Script loads a script in the document head.
type Script struct {
	Elem Elem `elem:"script"`

	Src   string `attr:"src"`
	Type  string `attr:"type"`
	Async bool   `attr:"async"`
}

type documentHead struct {
	Elem Elem `elem:"head"`

	Title   string   `elem:"title"`
	Links   []Link   `elem:""`
	Scripts []Script `elem:""`
	Extra   Raw      `elem:""`
}

type documentBody struct {
	Elem Elem `elem:"body"`

	Class    *string `attr:"class"`
	Signals  *string `attr:"data-signals"`
	Children []any   `elem:""`
}

type documentPage struct {
	Elem Elem `elem:"html"`

	Lang string       `attr:"lang"`
	Head documentHead `elem:""`
	Body documentBody `elem:""`
}

// Document is a complete HTML page: doctype, head with title and assets,
// and a body holding arbitrary components. Build one with NewDocument and
// the fluent setters, then Render it.
type Document struct {
	Elem Elem `elem:""`

	Doctype Raw          `elem:""`
	Page    documentPage `elem:""`
}

// NewDocument creates a page with the given title and lang "en".
func NewDocument(title string) *Document {
	return &Document{
		Doctype: "<!DOCTYPE html>",
		Page: documentPage{
			Lang: "en",
			Head: documentHead{Title: title},
		},
	}
}

// Lang sets the html element's lang attribute.
func (d *Document) Lang(lang string) *Document {
	d.Page.Lang = lang
	return d
}

// Stylesheet adds a rel=stylesheet link to the head.
func (d *Document) Stylesheet(href string) *Document {
	d.Page.Head.Links = append(d.Page.Head.Links, Link{Rel: "stylesheet", Href: href})
	return d
}

// Script adds a script tag with type module to the head.
func (d *Document) Script(src string) *Document {
	d.Page.Head.Scripts = append(d.Page.Head.Scripts, Script{Src: src, Type: "module"})
	return d
}

// HeadExtra appends trusted markup to the head, after links and scripts.
func (d *Document) HeadExtra(markup Raw) *Document {
	d.Page.Head.Extra += markup
	return d
}

// Signals sets the body's data-signals attribute to a serialized signal
// snapshot, seeding the client store on load.
func (d *Document) Signals(snapshot string) *Document {
	d.Page.Body.Signals = &snapshot
	return d
}

// Class sets the body's class attribute.
func (d *Document) Class(class string) *Document {
	d.Page.Body.Class = &class
	return d
}

// Append adds components to the end of the body.
func (d *Document) Append(children ...any) *Document {
	d.Page.Body.Children = append(d.Page.Body.Children, children...)
	return d
}

// Render produces the complete page.
func (d *Document) Render(ctx context.Context) (string, error) {
	return Render(ctx, d)
}
