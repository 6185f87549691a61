package strand

import (
	"context"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/a-h/templ"
)

// Render walks v's compiled schema against the live value and returns the
// HTML text. It is a pure function of (schema, instance): no side effects,
// byte-identical output for identical field values, and safe to call
// concurrently for independent instances. On error no partial output is
// returned.
//
// All interpolated text and attribute values are HTML-escaped; only Raw
// values, `,raw` fields, and embedded templ components bypass escaping.
// The context is passed through to embedded templ components.
func Render(ctx context.Context, v any) (string, error) {
	sch, err := SchemaOf(v)
	if err != nil {
		return "", err
	}

	rv := reflect.ValueOf(v)
	rv, absent := indirect(rv)
	if absent {
		return "", fmt.Errorf("%w: nil %T", ErrNotStruct, v)
	}

	var sb strings.Builder
	if err := renderSchema(ctx, sch, rv, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderString is Render with a background context, for components that
// embed no templ content.
func RenderString(v any) (string, error) {
	return Render(context.Background(), v)
}

func renderSchema(ctx context.Context, s *ElementSchema, rv reflect.Value, sb *strings.Builder) error {
	if s.Tag != "" {
		sb.WriteByte('<')
		sb.WriteString(s.Tag)
		if err := renderAttrs(s.Attrs, rv, sb); err != nil {
			return err
		}
		if s.Void {
			sb.WriteString("/>")
			return nil
		}
		sb.WriteByte('>')
	}

	if s.Format != nil {
		txt, err := s.Format.resolve(rv)
		if err != nil {
			return fmt.Errorf("render %s: %w", s.typ, err)
		}
		sb.WriteString(html.EscapeString(txt))
	} else {
		for i := range s.Children {
			if err := renderSlot(ctx, &s.Children[i], rv, sb); err != nil {
				return err
			}
		}
	}

	if s.Tag != "" {
		sb.WriteString("</")
		sb.WriteString(s.Tag)
		sb.WriteByte('>')
	}
	return nil
}

func renderAttrs(attrs []Attr, rv reflect.Value, sb *strings.Builder) error {
	for i := range attrs {
		a := &attrs[i]
		switch a.kind {
		case attrFlag:
			sb.WriteByte(' ')
			sb.WriteString(a.Name)

		case attrTemplate:
			val, err := a.tmpl.resolve(rv)
			if err != nil {
				return fmt.Errorf("attribute %q: %w", a.Name, err)
			}
			writeAttr(sb, a.Name, val)

		case attrField:
			fv := rv.FieldByIndex(a.index)
			if a.isBool {
				if fv.Bool() {
					sb.WriteByte(' ')
					sb.WriteString(a.Name)
				}
				continue
			}
			fv, absent := indirect(fv)
			if absent {
				continue
			}
			val, err := toDisplay(fv)
			if err != nil {
				return fmt.Errorf("attribute %q: %w", a.Name, err)
			}
			writeAttr(sb, a.Name, val)
		}
	}
	return nil
}

func writeAttr(sb *strings.Builder, name, value string) {
	sb.WriteByte(' ')
	sb.WriteString(name)
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeString(value))
	sb.WriteByte('"')
}

// renderSlot emits one child position: its wrapper tag (attributes resolve
// against the owning instance), then the field's content. A collection
// renders once per item in sequence order with no separator; an absent
// optional renders the declared fallback.
func renderSlot(ctx context.Context, slot *ChildSlot, rv reflect.Value, sb *strings.Builder) error {
	if slot.Tag != "" {
		sb.WriteByte('<')
		sb.WriteString(slot.Tag)
		if err := renderAttrs(slot.Attrs, rv, sb); err != nil {
			return err
		}
		sb.WriteByte('>')
	}

	fv := rv.FieldByIndex(slot.index)
	switch slot.kind {
	case slotCollection:
		for i := 0; i < fv.Len(); i++ {
			if err := renderChildValue(ctx, slot, fv.Index(i), sb); err != nil {
				return err
			}
		}

	case slotOptional:
		if fv.IsNil() {
			sb.WriteString(html.EscapeString(slot.Fallback))
		} else if err := renderChildValue(ctx, slot, fv.Elem(), sb); err != nil {
			return err
		}

	default:
		if err := renderChildValue(ctx, slot, fv, sb); err != nil {
			return err
		}
	}

	if slot.Tag != "" {
		sb.WriteString("</")
		sb.WriteString(slot.Tag)
		sb.WriteByte('>')
	}
	return nil
}

func renderChildValue(ctx context.Context, slot *ChildSlot, v reflect.Value, sb *strings.Builder) error {
	if slot.templComp {
		if (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) && v.IsNil() {
			return nil
		}
		comp, ok := v.Interface().(templ.Component)
		if !ok || comp == nil {
			return nil
		}
		return comp.Render(ctx, sb)
	}

	v, absent := indirect(v)
	if absent {
		return nil
	}

	switch {
	case slot.Schema != nil:
		return renderSchema(ctx, slot.Schema, v, sb)

	case slot.dynamic:
		return renderDynamic(ctx, v, sb)

	case slot.Raw:
		s, err := toDisplay(v)
		if err != nil {
			return fmt.Errorf("field %s: %w", slot.Name, err)
		}
		sb.WriteString(s)
		return nil

	default:
		s, err := displayLeaf(slot, v)
		if err != nil {
			return err
		}
		sb.WriteString(html.EscapeString(s))
		return nil
	}
}

func displayLeaf(slot *ChildSlot, v reflect.Value) (string, error) {
	if slot.Format != "" {
		out := fmt.Sprintf(slot.Format, v.Interface())
		// fmt reports a mismatch as %!verb(type=value) or %!(REASON);
		// matching that exact shape keeps literal "%!" in values legal.
		if strings.Contains(out, "%!"+string(slot.verb)+"(") || strings.Contains(out, "%!(") {
			return "", fmt.Errorf("%w: verb %q rejected %s value", ErrConvert, slot.Format, v.Type())
		}
		return out, nil
	}
	s, err := toDisplay(v)
	if err != nil {
		return "", fmt.Errorf("field %s: %w", slot.Name, err)
	}
	return s, nil
}

// renderDynamic handles interface-typed slots, resolving the schema per
// concrete value at render time.
func renderDynamic(ctx context.Context, v reflect.Value, sb *strings.Builder) error {
	if comp, ok := v.Interface().(templ.Component); ok {
		return comp.Render(ctx, sb)
	}
	if v.Type() == rawType {
		sb.WriteString(v.String())
		return nil
	}
	if v.Kind() == reflect.Struct && hasElementMetadata(v.Type()) {
		sch, err := schemaFor(v.Type())
		if err != nil {
			return err
		}
		return renderSchema(ctx, sch, v, sb)
	}
	s, err := toDisplay(v)
	if err != nil {
		return err
	}
	sb.WriteString(html.EscapeString(s))
	return nil
}
