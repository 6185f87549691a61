package strand

import (
	"fmt"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/strandhtml/strand/lib/naming"
)

// RawValue is a pre-serialized JSON payload. It is inserted into signal
// objects verbatim, making it the raw payload shape for values the caller
// serializes themselves.
type RawValue []byte

// MarshalJSON returns v unmodified, or null when empty.
func (v RawValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

// UnmarshalJSON stores data as-is.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	*v = append((*v)[:0], data...)
	return nil
}

// PayloadShape classifies how a signal's value is carried on the wire.
type PayloadShape int

const (
	// ShapePrimitive is a directly serializable value (string, number, bool).
	ShapePrimitive PayloadShape = iota
	// ShapeOptional is a pointer payload; nil means "no value" and is
	// omitted from snapshots and patches.
	ShapeOptional
	// ShapeRaw is a RawValue inserted verbatim.
	ShapeRaw
)

// SignalSchema describes one signal variant: its Go field name, its
// canonical wire name, and its payload shape.
type SignalSchema struct {
	Name  string
	Wire  string
	Shape PayloadShape

	index []int
	typ   reflect.Type
}

// SignalRegistry maps wire names to the signal variants of one signal set
// type T. A signal set is a struct whose exported fields are the variants;
// the wire name is the lowerCamelCase of the field name unless overridden
// with a `signal:"name"` tag. The registry is built once per type and is
// read-only thereafter, so concurrent readers need no synchronization.
type SignalRegistry[T any] struct {
	typ     reflect.Type
	signals []SignalSchema
	byWire  map[string]int
}

// NewSignals builds the registry for signal set T. Construction fails on a
// wire-name collision; the derivation itself is a pure function of the
// field names, so a given T always yields the same registry.
func NewSignals[T any]() (*SignalRegistry[T], error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrNotStruct, zero)
	}

	reg := &SignalRegistry[T]{typ: t, byWire: make(map[string]int)}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		tag := f.Tag.Get("signal")
		if tag == "-" {
			continue
		}
		wire := tag
		if wire == "" {
			wire = naming.LowerCamel(f.Name)
		}
		if _, dup := reg.byWire[wire]; dup {
			return nil, fmt.Errorf("%w: %q on %s", ErrDuplicateSignal, wire, t)
		}

		shape := ShapePrimitive
		switch {
		case f.Type == reflect.TypeOf(RawValue(nil)):
			shape = ShapeRaw
		case f.Type.Kind() == reflect.Pointer:
			shape = ShapeOptional
		}

		reg.byWire[wire] = len(reg.signals)
		reg.signals = append(reg.signals, SignalSchema{
			Name:  f.Name,
			Wire:  wire,
			Shape: shape,
			index: f.Index,
			typ:   f.Type,
		})
	}
	return reg, nil
}

// MustSignals is NewSignals but panics on construction errors. Use at
// process initialization.
func MustSignals[T any]() *SignalRegistry[T] {
	reg, err := NewSignals[T]()
	if err != nil {
		panic(err)
	}
	return reg
}

// Schemas returns the signal schemas in declaration order.
func (r *SignalRegistry[T]) Schemas() []SignalSchema {
	out := make([]SignalSchema, len(r.signals))
	copy(out, r.signals)
	return out
}

// Lookup resolves a wire name back to its variant schema.
func (r *SignalRegistry[T]) Lookup(wire string) (SignalSchema, bool) {
	i, ok := r.byWire[wire]
	if !ok {
		return SignalSchema{}, false
	}
	return r.signals[i], true
}

// Wire returns the wire name for a Go field name.
func (r *SignalRegistry[T]) Wire(fieldName string) (string, bool) {
	for _, s := range r.signals {
		if s.Name == fieldName {
			return s.Wire, true
		}
	}
	return "", false
}

// SignalPair is one (wire name, serialized value) pair of a signals patch
// or snapshot.
type SignalPair struct {
	Wire  string
	Value RawValue
}

// NewPair serializes value into a signal pair.
func NewPair(wire string, value any) (SignalPair, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return SignalPair{}, fmt.Errorf("strand: signal %q: %w", wire, err)
	}
	return SignalPair{Wire: wire, Value: RawValue(b)}, nil
}

// MustPair is NewPair but panics on serialization errors.
func MustPair(wire string, value any) SignalPair {
	p, err := NewPair(wire, value)
	if err != nil {
		panic(err)
	}
	return p
}

// Pairs serializes the supplied signal values in declaration order.
// Optional signals that are nil and raw signals that are empty carry no
// value and are omitted, not defaulted.
func (r *SignalRegistry[T]) Pairs(v T) ([]SignalPair, error) {
	rv := reflect.ValueOf(v)
	var pairs []SignalPair
	for _, s := range r.signals {
		fv := rv.FieldByIndex(s.index)
		switch s.Shape {
		case ShapeRaw:
			raw := fv.Bytes()
			if len(raw) == 0 {
				continue
			}
			pairs = append(pairs, SignalPair{Wire: s.Wire, Value: RawValue(raw)})

		case ShapeOptional:
			if fv.IsNil() {
				continue
			}
			b, err := json.Marshal(fv.Elem().Interface())
			if err != nil {
				return nil, fmt.Errorf("strand: signal %q: %w", s.Wire, err)
			}
			pairs = append(pairs, SignalPair{Wire: s.Wire, Value: RawValue(b)})

		default:
			b, err := json.Marshal(fv.Interface())
			if err != nil {
				return nil, fmt.Errorf("strand: signal %q: %w", s.Wire, err)
			}
			pairs = append(pairs, SignalPair{Wire: s.Wire, Value: RawValue(b)})
		}
	}
	return pairs, nil
}

// Snapshot serializes the supplied values as the initial signal object for
// the document's data-signals attribute.
func (r *SignalRegistry[T]) Snapshot(v T) (string, error) {
	pairs, err := r.Pairs(v)
	if err != nil {
		return "", err
	}
	return encodePairs(pairs), nil
}

// Decode decodes a wire-name keyed JSON object into dst, using the
// registry's wire-name table. Unknown wire names are ignored. On any
// failure dst is left untouched.
func (r *SignalRegistry[T]) Decode(data []byte, dst *T) error {
	var m map[string]RawValue
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("strand: decode signals: %w", err)
	}

	var out T
	rv := reflect.ValueOf(&out).Elem()
	for _, s := range r.signals {
		raw, ok := m[s.Wire]
		if !ok {
			continue
		}
		fv := rv.FieldByIndex(s.index)
		if err := json.Unmarshal(raw, fv.Addr().Interface()); err != nil {
			return fmt.Errorf("strand: signal %q: %w", s.Wire, err)
		}
	}
	*dst = out
	return nil
}

// encodePairs writes pairs as a compact JSON object, preserving order.
func encodePairs(pairs []SignalPair) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte(',')
		}
		k, _ := json.Marshal(p.Wire)
		sb.Write(k)
		sb.WriteByte(':')
		sb.Write(p.Value)
	}
	sb.WriteByte('}')
	return sb.String()
}
