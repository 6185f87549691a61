package strand

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/strandhtml/strand/lib/encoding"
)

// Action builds the backend-call expression placed in a data-on-*
// attribute, for example "@get('/todos')". The builder is fluent; call
// Expr to produce the final expression.
type Action struct {
	url    string
	method string
	form   bool
	err    error
}

// NewAction creates an action for an arbitrary HTTP method.
func NewAction(u, method string) *Action {
	return &Action{url: u, method: strings.ToLower(method)}
}

// Get creates a GET action.
func Get(u string) *Action { return NewAction(u, "get") }

// Post creates a POST action.
func Post(u string) *Action { return NewAction(u, "post") }

// Put creates a PUT action.
func Put(u string) *Action { return NewAction(u, "put") }

// Patch creates a PATCH action.
func Patch(u string) *Action { return NewAction(u, "patch") }

// Delete creates a DELETE action.
func Delete(u string) *Action { return NewAction(u, "delete") }

// Form makes the action submit enclosing form fields instead of signals.
func (a *Action) Form() *Action {
	a.form = true
	return a
}

// State appends a signed snapshot of v to the action URL as the s query
// parameter, so the handling route can restore it via Codec.DecodeToken.
// The token is readable by the client but tamper-evident.
func (a *Action) State(c *encoding.Codec, v any) *Action {
	return a.state(c, v, false)
}

// Sealed is State with an encrypted token: the snapshot stays opaque to
// the client.
func (a *Action) Sealed(c *encoding.Codec, v any) *Action {
	return a.state(c, v, true)
}

func (a *Action) state(c *encoding.Codec, v any, sensitive bool) *Action {
	if a.err != nil {
		return a
	}
	token, err := c.EncodeToken(v, sensitive)
	if err != nil {
		a.err = err
		return a
	}
	sep := "?"
	if strings.Contains(a.url, "?") {
		sep = "&"
	}
	a.url += sep + "s=" + url.QueryEscape(token)
	return a
}

// Err reports the first error accumulated while building the action.
func (a *Action) Err() error { return a.err }

// Expr returns the action expression for a data-on-* attribute value.
func (a *Action) Expr() string {
	u := quoteURL(a.url)
	if a.form {
		return fmt.Sprintf("@%s('%s', {contentType: 'form'})", a.method, u)
	}
	return fmt.Sprintf("@%s('%s')", a.method, u)
}

// quoteURL escapes the characters that would break out of the
// single-quoted string the URL is embedded in.
func quoteURL(u string) string {
	u = strings.ReplaceAll(u, `\`, `\\`)
	return strings.ReplaceAll(u, "'", `\'`)
}

// Interval builds the attribute name for a recurring trigger. The period
// is encoded in the name itself, so Attr returns the full attribute to
// pair with an action expression:
//
//	strand.Every(2 * time.Second).Attr()  // "data-on-interval__duration.2s"
type Interval struct {
	period         time.Duration
	leading        bool
	viewTransition bool
}

// Every creates an interval trigger firing once per period.
func Every(period time.Duration) *Interval {
	return &Interval{period: period}
}

// Leading makes the trigger also fire immediately on load.
func (i *Interval) Leading() *Interval {
	i.leading = true
	return i
}

// ViewTransition wraps each triggered update in a view transition.
func (i *Interval) ViewTransition() *Interval {
	i.viewTransition = true
	return i
}

// Attr returns the complete attribute name. Whole seconds are written in
// seconds, anything finer in milliseconds.
func (i *Interval) Attr() string {
	ms := i.period.Milliseconds()
	var dur string
	if ms >= 1000 && ms%1000 == 0 {
		dur = fmt.Sprintf("%ds", ms/1000)
	} else {
		dur = fmt.Sprintf("%dms", ms)
	}

	var b strings.Builder
	b.WriteString("data-on-interval__duration.")
	b.WriteString(dur)
	if i.leading {
		b.WriteString(".leading")
	}
	if i.viewTransition {
		b.WriteString("__viewtransition")
	}
	return b.String()
}
