package strand

import (
	"bytes"
	"strings"
)

// Frame is one self-contained patch protocol unit: either rendered
// elements or signal values. Frames are independently applicable by the
// receiving runtime, and re-delivery of an identical frame is idempotent
// on the client (morphing is value-based, not delta-based).
type Frame interface {
	// Encode returns the complete wire form of the frame, including the
	// terminating blank line. The wire syntax is the push-event format the
	// browser runtime expects and must not be altered.
	Encode() []byte
}

// PatchElements is an elements patch: a selector, a merge mode, and one or
// more rendered HTML fragments.
//
//	strand.ElementPatch(frag).Selector("#list").Mode(strand.ModePrepend)
type PatchElements struct {
	selector       string
	mode           MergeMode
	namespace      Namespace
	viewTransition bool
	fragments      []string
}

// ElementPatch creates an elements patch carrying rendered fragments.
// The default merge mode is ModeMorph; with no selector the runtime
// matches fragments to existing elements by id.
func ElementPatch(fragments ...string) *PatchElements {
	return &PatchElements{fragments: fragments}
}

// Selector sets the CSS selector identifying the patch target.
func (p *PatchElements) Selector(sel string) *PatchElements {
	p.selector = sel
	return p
}

// Mode sets the merge mode. ModeMorph is the default and is omitted from
// the wire form.
func (p *PatchElements) Mode(m MergeMode) *PatchElements {
	p.mode = m
	return p
}

// WithNamespace sets the element namespace for SVG or MathML fragments.
func (p *PatchElements) WithNamespace(ns Namespace) *PatchElements {
	p.namespace = ns
	return p
}

// ViewTransition wraps the patch application in a view transition.
func (p *PatchElements) ViewTransition() *PatchElements {
	p.viewTransition = true
	return p
}

// Encode renders the frame in wire form.
func (p *PatchElements) Encode() []byte {
	var b bytes.Buffer
	b.WriteString("event: datastar-patch-elements\n")

	if p.selector != "" {
		b.WriteString("data: selector ")
		b.WriteString(p.selector)
		b.WriteByte('\n')
	}
	if p.mode != "" && p.mode != ModeMorph {
		b.WriteString("data: mode ")
		b.WriteString(string(p.mode))
		b.WriteByte('\n')
	}
	if p.namespace != "" {
		b.WriteString("data: namespace ")
		b.WriteString(string(p.namespace))
		b.WriteByte('\n')
	}
	if p.viewTransition {
		b.WriteString("data: useViewTransition true\n")
	}

	for _, frag := range p.fragments {
		if frag == "" {
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(frag, "\n"), "\n") {
			b.WriteString("data: elements ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	return b.Bytes()
}

func (p *PatchElements) String() string { return string(p.Encode()) }

// PatchSignals is a signals patch: an ordered set of (wire name, value)
// pairs serialized as one flat object.
type PatchSignals struct {
	onlyIfMissing bool
	pairs         []SignalPair
}

// SignalPatch creates a signals patch from explicit pairs. To patch from a
// live signal set, use SignalRegistry.Patch.
func SignalPatch(pairs ...SignalPair) *PatchSignals {
	return &PatchSignals{pairs: pairs}
}

// OnlyIfMissing tells the runtime to apply the values only for signals the
// client does not already have.
func (p *PatchSignals) OnlyIfMissing() *PatchSignals {
	p.onlyIfMissing = true
	return p
}

// Encode renders the frame in wire form.
func (p *PatchSignals) Encode() []byte {
	var b bytes.Buffer
	b.WriteString("event: datastar-patch-signals\n")
	if p.onlyIfMissing {
		b.WriteString("data: onlyIfMissing true\n")
	}
	b.WriteString("data: signals ")
	b.WriteString(encodePairs(p.pairs))
	b.WriteString("\n\n")
	return b.Bytes()
}

func (p *PatchSignals) String() string { return string(p.Encode()) }

// Patch builds a signals patch from a live signal set, in declaration
// order. Nil optional signals are omitted.
func (r *SignalRegistry[T]) Patch(v T) (*PatchSignals, error) {
	pairs, err := r.Pairs(v)
	if err != nil {
		return nil, err
	}
	return SignalPatch(pairs...), nil
}
