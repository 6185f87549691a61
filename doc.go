// Package strand renders Go structs to HTML and pushes updates to the
// browser as patch frames.
//
// A component is a struct whose layout describes its markup. Struct tags
// declare the element, its attributes, and how each field renders:
//
//	type Todo struct {
//	    Elem strand.Elem `elem:"li" attr:"id=todo-{ID},class=todo"`
//	    ID    string
//	    Title string `elem:"span"`
//	    Done  bool   `attr:"data-done"`
//	}
//
//	html, err := strand.RenderString(Todo{ID: "7", Title: "ship it"})
//	// <li id="todo-7" class="todo"><span>ship it</span></li>
//
// The schema for a type is compiled from its tags once, on first render,
// and cached; every structural mistake (an unknown {Field} reference, a
// duplicate attribute, an optional field without a fallback) surfaces as
// an error at that point rather than as broken markup later.
//
// # Fields
//
// A field with an `elem` tag becomes content. The tag names a wrapper
// element, or is empty to render the value inline:
//
//	Title string  `elem:"span"` // <span>…</span>
//	Note  string  `elem:""`     // inlined text
//	Items []Todo  `elem:"ul"`   // <ul> around all rendered items
//	When  *string `elem:"time" fallback:"never"`
//
// Slices render each item in order. Pointer fields are optional and must
// declare a fallback, which renders in place of an absent value. Fields
// without an `elem` or `attr` tag do not render at all.
//
// A field with an `attr` tag becomes an attribute on the component's own
// element. Booleans render bare when true and vanish when false; pointer
// attributes vanish when nil.
//
// Field values of type [Raw] (and fields tagged `elem:"…,raw"`) bypass
// escaping; everything else is escaped on output. Use [Sanitized] to
// admit user-supplied HTML through a sanitizer.
//
// # Interpolation
//
// Attribute templates and `format` tags interpolate {Field} references
// against the component instance. Paths may dot through nested structs
// and call zero-argument methods:
//
//	Elem strand.Elem `elem:"a" attr:"href=/users/{Profile.Slug}" format:"{First} {Nick}"`
//
// When a path crosses a nil pointer, the reference renders the pointer
// field's `fallback` tag if it has one, and nothing otherwise.
//
// Doubled braces ({{ and }}) emit literal braces.
//
// # Signals
//
// Signals are the mutable client-side state. Declare them as a struct and
// build a registry once at startup:
//
//	type TodoSignals struct {
//	    NewTodo string
//	    Page    int `signal:"pageNum"`
//	}
//
//	var signals = strand.MustSignals[TodoSignals]()
//
// Field names map to lowerCamelCase wire names unless a `signal` tag
// overrides them. The registry serializes snapshots for the data-signals
// attribute, decodes inbound values from runtime requests ([SignalRegistry.Read]),
// and builds signal patches ([SignalRegistry.Patch]).
//
// # Patching
//
// After the initial page load, handlers push updates over a [Stream] as
// patch frames:
//
//	stream, err := strand.NewStream(w, r)
//	if err != nil { … }
//	html, _ := strand.RenderString(item)
//	stream.Patch(
//	    strand.ElementPatch(html).Selector("#list").Mode(strand.ModePrepend),
//	)
//
// [ElementPatch] carries rendered fragments with a merge mode (morph by
// default); [SignalPatch] carries signal values. Frames are written whole
// and in order, and are idempotent on the client.
//
// # Documents
//
// [NewDocument] assembles a complete page — doctype, head, assets, and a
// body seeded with a signal snapshot — from the same component machinery:
//
//	doc := strand.NewDocument("Todos").
//	    Script("/static/datastar.js").
//	    Signals(snapshot).
//	    Append(list)
//
// # Actions
//
// [Get], [Post], and friends build the expressions that wire client events
// to handlers, and [Every] builds recurring triggers:
//
//	strand.Post("/todos").Expr()           // "@post('/todos')"
//	strand.Every(2 * time.Second).Attr()   // "data-on-interval__duration.2s"
//
// Actions can carry signed or sealed server state in the URL; see
// [Action.State] and the lib/encoding package.
package strand
