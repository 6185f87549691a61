package strand

import (
	"context"
	"io"
	"reflect"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

// Raw is trusted markup emitted without escaping.
//
// This is the library's one escape hatch from HTML escaping, and it is a
// trust boundary: never wrap untrusted user input in Raw. For user-supplied
// HTML, use Sanitized instead. Fields of type Raw (and string fields with
// the `,raw` elem option) render verbatim.
type Raw string

var (
	rawType       = reflect.TypeOf(Raw(""))
	templCompType = reflect.TypeOf((*templ.Component)(nil)).Elem()

	// ugcPolicy strips scripts and event handlers but keeps the markup
	// reasonable user content needs. Built once, safe for concurrent use.
	ugcPolicy = bluemonday.UGCPolicy()
)

// Sanitized runs untrusted HTML through a user-generated-content sanitizer
// and returns it as Raw. Use this when callers legitimately hold HTML they
// did not author themselves.
func Sanitized(html string) Raw {
	return Raw(ugcPolicy.Sanitize(html))
}

// Component wraps a strand component value as a templ.Component so it can
// be embedded in templ templates. The inverse direction needs no adapter:
// fields of type templ.Component are rendered in place as trusted markup.
func Component(v any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		s, err := Render(ctx, v)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	})
}
