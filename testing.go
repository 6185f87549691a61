package strand

import (
	"fmt"
	"strings"
)

// DecodedFrame is the parsed form of one wire frame, for asserting on
// patches in tests without string-matching the raw framing.
type DecodedFrame struct {
	Event             string
	Selector          string
	Mode              MergeMode
	Namespace         Namespace
	UseViewTransition bool
	OnlyIfMissing     bool
	// Elements is the reassembled fragment markup, one string per frame
	// (element lines joined with newlines).
	Elements string
	// Signals is the raw signals JSON object.
	Signals string
}

// DecodeFrame parses a single encoded frame. Elements frames with no mode
// line decode to ModeMorph, matching the runtime's default.
func DecodeFrame(raw string) (*DecodedFrame, error) {
	body, _, ok := strings.Cut(raw, "\n\n")
	if !ok {
		return nil, fmt.Errorf("frame missing blank-line terminator: %q", raw)
	}

	f := &DecodedFrame{}
	var elements []string
	for i, line := range strings.Split(body, "\n") {
		if i == 0 {
			event, ok := strings.CutPrefix(line, "event: ")
			if !ok {
				return nil, fmt.Errorf("frame missing event line: %q", line)
			}
			f.Event = event
			continue
		}

		field, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			return nil, fmt.Errorf("unexpected frame line: %q", line)
		}
		key, value, _ := strings.Cut(field, " ")
		switch key {
		case "selector":
			f.Selector = value
		case "mode":
			f.Mode = MergeMode(value)
		case "namespace":
			f.Namespace = Namespace(value)
		case "useViewTransition":
			f.UseViewTransition = value == "true"
		case "onlyIfMissing":
			f.OnlyIfMissing = value == "true"
		case "elements":
			elements = append(elements, value)
		case "signals":
			f.Signals = value
		default:
			return nil, fmt.Errorf("unknown frame field %q", key)
		}
	}

	f.Elements = strings.Join(elements, "\n")
	if f.Event == "datastar-patch-elements" && f.Mode == "" {
		f.Mode = ModeMorph
	}
	return f, nil
}

// MustRender renders v and panics on error. Test helper.
func MustRender(v any) string {
	html, err := RenderString(v)
	if err != nil {
		panic(err)
	}
	return html
}
