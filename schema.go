package strand

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/strandhtml/strand/lib/naming"
)

// Elem marks a struct as a renderable component. Its struct tag carries
// the type-level directives:
//
//	type Row struct {
//	    Elem strand.Elem `elem:"tr" attr:"class=row,id={ID}"`
//	    ID   string
//	    Name string `elem:"td"`
//	}
//
// A component without a marker (or with `elem:""`) is a fragment: no
// wrapper tag is emitted and its children are inlined into the parent.
type Elem struct{}

// ElementSchema is the compiled, immutable description of how a component
// type renders. It is built once per type, cached process-wide, and shared
// by all concurrent renders of that type.
type ElementSchema struct {
	// Tag is the wrapper tag; empty for fragments.
	Tag string
	// Void reports whether Tag is a void element (self-closing, no content).
	Void bool
	// Attrs are the element's attributes in declared order.
	Attrs []Attr
	// Format, when set, is the content template; the schema then has no
	// child slots.
	Format *Template
	// Children are the element's child slots in declared order.
	Children []ChildSlot

	typ reflect.Type
}

// Type returns the component type this schema was compiled from.
func (s *ElementSchema) Type() reflect.Type { return s.typ }

type attrKind int

const (
	attrTemplate attrKind = iota // value resolved from a tag template
	attrFlag                     // bare boolean attribute from the tag
	attrField                    // value read from an instance field
)

// Attr is one attribute of an element: a name plus either a template
// expression or a backing instance field.
type Attr struct {
	Name string

	kind   attrKind
	tmpl   *Template
	index  []int
	isBool bool // field-backed bool: bare when true, omitted when false
}

type slotKind int

const (
	slotValue slotKind = iota
	slotCollection
	slotOptional
)

// ChildSlot is one renderable child position of an element: a field,
// an optional wrapper tag for this slot, and the nested schema or leaf
// behavior of the field's type.
type ChildSlot struct {
	// Name is the backing field's name.
	Name string
	// Tag is the wrapper tag applied to this slot only; empty renders the
	// child inline. Never a void element, which could not hold the
	// field's content.
	Tag string
	// Attrs are attributes on the wrapper tag, resolved against the
	// owning instance.
	Attrs []Attr
	// Fallback is rendered verbatim (escaped) when an optional value is
	// absent. Only set for optional slots.
	Fallback string
	// Format is a fmt verb applied to present leaf values.
	Format string
	// Raw marks trusted content that bypasses escaping.
	Raw bool
	// Schema is the nested component schema; nil for leaves and dynamic
	// slots.
	Schema *ElementSchema

	kind      slotKind
	leaf      bool
	templComp bool
	dynamic   bool
	verb      byte // letter of the format verb, when Format is set
	index     []int
}

var (
	elemType = reflect.TypeOf(Elem{})

	schemaCache = struct {
		mu sync.RWMutex
		m  map[reflect.Type]*schemaResult
	}{m: make(map[reflect.Type]*schemaResult)}
)

type schemaResult struct {
	schema *ElementSchema
	err    error
}

// voidElements are tags that self-close and carry no content.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// SchemaOf returns the compiled element schema for v's type, building and
// caching it on first use. Construction is deterministic for a given type,
// so the result can be treated as a compile-time constant. All schema
// validation happens here; a type that passes SchemaOf cannot fail on an
// unknown field at render time.
func SchemaOf(v any) (*ElementSchema, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrNotStruct, v)
	}
	return schemaFor(t)
}

// MustSchema is SchemaOf but panics on schema errors. Use at process
// initialization where a broken schema definition should abort startup.
func MustSchema(v any) *ElementSchema {
	s, err := SchemaOf(v)
	if err != nil {
		panic(err)
	}
	return s
}

func schemaFor(t reflect.Type) (*ElementSchema, error) {
	schemaCache.mu.RLock()
	r, ok := schemaCache.m[t]
	schemaCache.mu.RUnlock()
	if ok {
		return r.schema, r.err
	}

	schemaCache.mu.Lock()
	defer schemaCache.mu.Unlock()
	return buildSchema(t, nil)
}

// buildSchema compiles t's schema and caches the result (including
// failures, which are definitional and will not heal on retry).
// The caller must hold the cache write lock.
func buildSchema(t reflect.Type, stack []reflect.Type) (*ElementSchema, error) {
	if r, ok := schemaCache.m[t]; ok {
		return r.schema, r.err
	}
	for _, anc := range stack {
		if anc == t {
			return nil, fmt.Errorf("%w: %s nests itself", ErrSchemaCycle, t)
		}
	}
	stack = append(stack, t)

	sch, err := compileStruct(t, stack)
	if err != nil {
		schemaCache.m[t] = &schemaResult{err: err}
		return nil, err
	}
	schemaCache.m[t] = &schemaResult{schema: sch}
	return sch, nil
}

func compileStruct(t reflect.Type, stack []reflect.Type) (*ElementSchema, error) {
	sch := &ElementSchema{typ: t}
	seen := make(map[string]bool)

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		if f.Type == elemType {
			if tag, ok := f.Tag.Lookup("elem"); ok {
				if strings.Contains(tag, ",") {
					return nil, fmt.Errorf("%w: %s: options are not valid on the element marker", ErrBadTag, t)
				}
				sch.Tag = tag
				sch.Void = voidElements[tag]
			}
			if attrTag, ok := f.Tag.Lookup("attr"); ok {
				attrs, err := parseAttrList(t, attrTag, seen)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", t, err)
				}
				sch.Attrs = append(sch.Attrs, attrs...)
			}
			if src, ok := f.Tag.Lookup("format"); ok {
				tmpl, err := parseTemplate(src)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", t, err)
				}
				if err := tmpl.bind(t); err != nil {
					return nil, fmt.Errorf("%s: %w", t, err)
				}
				sch.Format = tmpl
			}
			continue
		}

		if f.PkgPath != "" {
			continue // unexported
		}

		elemTag, hasElem := f.Tag.Lookup("elem")
		attrTag, hasAttr := f.Tag.Lookup("attr")

		switch {
		case hasElem:
			slot, err := compileSlot(t, f, elemTag, attrTag, stack)
			if err != nil {
				return nil, err
			}
			sch.Children = append(sch.Children, slot)

		case hasAttr:
			name := attrTag
			if name == "" {
				name = naming.Kebab(f.Name)
			}
			if seen[name] {
				return nil, fmt.Errorf("%w: %q on %s", ErrDuplicateAttr, name, t)
			}
			seen[name] = true
			sch.Attrs = append(sch.Attrs, Attr{
				Name:   name,
				kind:   attrField,
				index:  f.Index,
				isBool: f.Type.Kind() == reflect.Bool,
			})
		}
	}

	if sch.Format != nil && len(sch.Children) > 0 {
		return nil, fmt.Errorf("%w: %s declares both a format template and element fields", ErrBadTag, t)
	}
	if sch.Void && (sch.Format != nil || len(sch.Children) > 0) {
		return nil, fmt.Errorf("%w: void element %q on %s cannot have content", ErrBadTag, sch.Tag, t)
	}
	return sch, nil
}

func compileSlot(owner reflect.Type, f reflect.StructField, elemTag, attrTag string, stack []reflect.Type) (ChildSlot, error) {
	slot := ChildSlot{Name: f.Name, index: f.Index}

	parts := strings.Split(elemTag, ",")
	slot.Tag = parts[0]
	if voidElements[slot.Tag] {
		return slot, fmt.Errorf("%w: void wrapper %q on %s.%s would drop the field's content", ErrBadTag, slot.Tag, owner, f.Name)
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "raw":
			slot.Raw = true
		default:
			return slot, fmt.Errorf("%w: unknown elem option %q on %s.%s", ErrBadTag, opt, owner, f.Name)
		}
	}

	if attrTag != "" {
		seen := make(map[string]bool)
		attrs, err := parseAttrList(owner, attrTag, seen)
		if err != nil {
			return slot, fmt.Errorf("%s.%s: %w", owner, f.Name, err)
		}
		slot.Attrs = attrs
	}

	if verb, ok := f.Tag.Lookup("format"); ok {
		letter, ok := fmtVerbLetter(verb)
		if !ok {
			return slot, fmt.Errorf("%w: field format %q on %s.%s is not a fmt verb", ErrBadTag, verb, owner, f.Name)
		}
		slot.Format = verb
		slot.verb = letter
	}

	ft := f.Type
	var elem reflect.Type
	switch {
	case ft.Kind() == reflect.Pointer:
		fb, ok := f.Tag.Lookup("fallback")
		if !ok {
			return slot, fmt.Errorf("%w: %s.%s", ErrMissingFallback, owner, f.Name)
		}
		slot.kind = slotOptional
		slot.Fallback = fb
		elem = ft.Elem()

	case (ft.Kind() == reflect.Slice || ft.Kind() == reflect.Array) &&
		ft.Elem().Kind() != reflect.Uint8 && ft != rawType:
		slot.kind = slotCollection
		elem = ft.Elem()

	default:
		slot.kind = slotValue
		elem = ft
	}

	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	switch {
	case elem == rawType:
		slot.Raw = true
		slot.leaf = true
	case elem.Kind() == reflect.Struct && hasElementMetadata(elem):
		nested, err := buildSchema(elem, stack)
		if err != nil {
			return slot, err
		}
		slot.Schema = nested
	case elem == templCompType || (elem.Kind() == reflect.Interface && elem.Implements(templCompType)):
		slot.templComp = true
	case elem.Kind() == reflect.Interface:
		slot.dynamic = true
	default:
		slot.leaf = true
	}

	if slot.Format != "" && !slot.leaf {
		return slot, fmt.Errorf("%w: format verb on non-leaf field %s.%s", ErrBadTag, owner, f.Name)
	}
	return slot, nil
}

// fmtVerbLetter returns the verb letter of the last fmt directive in s,
// skipping flags, width, precision, and %% literals.
func fmtVerbLetter(s string) (byte, bool) {
	var letter byte
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		i++
		for i < len(s) && strings.ContainsRune("+-# 0123456789.", rune(s[i])) {
			i++
		}
		if i >= len(s) || s[i] == '%' {
			continue
		}
		letter = s[i]
	}
	return letter, letter != 0
}

// hasElementMetadata reports whether t declares any strand directives,
// distinguishing nested components from plain value structs like time.Time.
func hasElementMetadata(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == elemType {
			return true
		}
		if _, ok := f.Tag.Lookup("elem"); ok {
			return true
		}
		if _, ok := f.Tag.Lookup("attr"); ok {
			return true
		}
	}
	return false
}

// parseAttrList parses an attr tag: comma-separated name=template pairs,
// with bare names becoming boolean attributes. Commas inside braces,
// parentheses, and single quotes belong to the value.
func parseAttrList(owner reflect.Type, src string, seen map[string]bool) ([]Attr, error) {
	var attrs []Attr
	for _, item := range splitAttrItems(src) {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, fmt.Errorf("%w: empty attribute in %q", ErrBadTag, src)
		}

		name, value, hasValue := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: attribute without a name in %q", ErrBadTag, src)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAttr, name)
		}
		seen[name] = true

		if !hasValue {
			attrs = append(attrs, Attr{Name: name, kind: attrFlag})
			continue
		}

		tmpl, err := parseTemplate(value)
		if err != nil {
			return nil, err
		}
		if err := tmpl.bind(owner); err != nil {
			return nil, err
		}
		attrs = append(attrs, Attr{Name: name, kind: attrTemplate, tmpl: tmpl})
	}
	return attrs, nil
}

func splitAttrItems(s string) []string {
	var items []string
	depth := 0
	inQuote := false
	start := 0
	for i, r := range s {
		switch r {
		case '\'':
			inQuote = !inQuote
		case '{', '(', '[':
			if !inQuote {
				depth++
			}
		case '}', ')', ']':
			if !inQuote {
				depth--
			}
		case ',':
			if depth == 0 && !inQuote {
				items = append(items, s[start:i])
				start = i + 1
			}
		}
	}
	return append(items, s[start:])
}
