package strand

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// Template is a parsed interpolation template: literal text interleaved
// with {path} placeholders resolved against a live instance at render time.
//
// A path is a dot-separated chain of exported field names or zero-argument
// methods ({Name}, {User.Name}, {FormattedPrice}). Literal braces are
// written as {{ and }}. Every path is validated against the owning type
// when the schema is built, so resolution cannot fail on an unknown field
// at render time; only value conversion can fail.
type Template struct {
	src   string
	parts []templatePart
}

type templatePart struct {
	lit string
	ref *fieldRef
}

type fieldRef struct {
	path  string
	steps []refStep
}

type refStep struct {
	name        string
	index       []int
	isMethod    bool
	onPtr       bool
	fallback    string
	hasFallback bool
}

// parseTemplate splits src into literal and placeholder parts.
// Paths are not resolved here; bind attaches them to a concrete type.
func parseTemplate(src string) (*Template, error) {
	t := &Template{src: src}
	var lit strings.Builder
	runes := []rune(src)

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '{':
			if i+1 < len(runes) && runes[i+1] == '{' {
				lit.WriteRune('{')
				i++
				continue
			}
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '}' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed placeholder in %q", ErrBadTag, src)
			}
			path := string(runes[i+1 : end])
			if path == "" {
				return nil, fmt.Errorf("%w: empty placeholder in %q", ErrBadTag, src)
			}
			if lit.Len() > 0 {
				t.parts = append(t.parts, templatePart{lit: lit.String()})
				lit.Reset()
			}
			t.parts = append(t.parts, templatePart{ref: &fieldRef{path: path}})
			i = end
		case '}':
			if i+1 < len(runes) && runes[i+1] == '}' {
				lit.WriteRune('}')
				i++
				continue
			}
			lit.WriteRune('}')
		default:
			lit.WriteRune(runes[i])
		}
	}
	if lit.Len() > 0 {
		t.parts = append(t.parts, templatePart{lit: lit.String()})
	}
	return t, nil
}

// bind resolves every placeholder path against root, recording field
// indices and method names. Unknown paths are a build-time error.
func (t *Template) bind(root reflect.Type) error {
	for _, p := range t.parts {
		if p.ref == nil {
			continue
		}
		if err := p.ref.bind(root); err != nil {
			return err
		}
	}
	return nil
}

func (r *fieldRef) bind(root reflect.Type) error {
	cur := root
	for _, name := range strings.Split(r.path, ".") {
		for cur.Kind() == reflect.Pointer {
			cur = cur.Elem()
		}

		if cur.Kind() == reflect.Struct {
			if f, ok := cur.FieldByName(name); ok && f.PkgPath == "" {
				step := refStep{name: name, index: f.Index}
				if fb, ok := f.Tag.Lookup("fallback"); ok {
					step.fallback = fb
					step.hasFallback = true
				}
				r.steps = append(r.steps, step)
				cur = f.Type
				continue
			}
		}

		m, ok := cur.MethodByName(name)
		onPtr := false
		if !ok {
			m, ok = reflect.PointerTo(cur).MethodByName(name)
			onPtr = true
		}
		if !ok || m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			return fmt.Errorf("%w: %q on %s", ErrUnknownField, r.path, root)
		}
		r.steps = append(r.steps, refStep{name: name, isMethod: true, onPtr: onPtr})
		cur = m.Type.Out(0)
	}
	return nil
}

// resolve evaluates the template against a live instance, left to right.
// Each placeholder is resolved independently.
func (t *Template) resolve(root reflect.Value) (string, error) {
	var sb strings.Builder
	for _, p := range t.parts {
		if p.ref == nil {
			sb.WriteString(p.lit)
			continue
		}
		s, err := p.ref.resolve(root)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func (r *fieldRef) resolve(root reflect.Value) (string, error) {
	v := root
	applied := -1 // index of the step that produced v
	for i, st := range r.steps {
		var absent bool
		v, absent = indirect(v)
		if absent {
			return r.fallbackAt(applied), nil
		}

		if st.isMethod {
			recv := v
			if st.onPtr {
				if recv.CanAddr() {
					recv = recv.Addr()
				} else {
					nv := reflect.New(recv.Type())
					nv.Elem().Set(recv)
					recv = nv
				}
			}
			v = recv.MethodByName(st.name).Call(nil)[0]
		} else {
			v = v.FieldByIndex(st.index)
		}
		applied = i
	}

	v, absent := indirect(v)
	if absent {
		return r.fallbackAt(len(r.steps) - 1), nil
	}
	return toDisplay(v)
}

// fallbackAt returns the fallback declared on the step whose value was
// nil, or the empty string when that step has none. A nil is never
// papered over with a fallback declared elsewhere on the path.
func (r *fieldRef) fallbackAt(i int) string {
	if i >= 0 && r.steps[i].hasFallback {
		return r.steps[i].fallback
	}
	return ""
}

// indirect unwraps pointers and interfaces, reporting a nil along the way.
func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v, true
		}
		v = v.Elem()
	}
	return v, false
}

// toDisplay stringifies a leaf value. Conversion failures surface as
// rendering errors rather than empty output.
func toDisplay(v reflect.Value) (string, error) {
	if v.Kind() == reflect.Struct && v.NumField() == 0 {
		return "", nil
	}
	iv := v.Interface()
	if _, ok := iv.(fmt.Stringer); !ok {
		// cast switches on concrete types; unwrap named basic kinds so
		// user-defined string and number types still convert.
		switch v.Kind() {
		case reflect.String:
			iv = v.String()
		case reflect.Bool:
			iv = v.Bool()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			iv = v.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			iv = v.Uint()
		case reflect.Float32, reflect.Float64:
			iv = v.Float()
		}
	}
	s, err := cast.ToStringE(iv)
	if err != nil {
		return "", fmt.Errorf("%w: %v (%s)", ErrConvert, err, v.Type())
	}
	return s, nil
}
