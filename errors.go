package strand

import "errors"

// Sentinel errors for schema construction and rendering.
//
// Schema errors (unknown field, duplicate attribute, duplicate wire name,
// cycle, missing fallback) are build-time failures: they abort schema or
// registry construction and have no runtime recovery path. Render and
// request errors are per-call and never affect other renders.
var (
	ErrUnknownField    = errors.New("strand: unknown field reference")
	ErrDuplicateAttr   = errors.New("strand: duplicate attribute name")
	ErrDuplicateSignal = errors.New("strand: duplicate signal wire name")
	ErrSchemaCycle     = errors.New("strand: cyclic component nesting")
	ErrMissingFallback = errors.New("strand: optional field has no fallback")
	ErrBadTag          = errors.New("strand: malformed struct tag")
	ErrNotStruct       = errors.New("strand: not a struct type")

	ErrConvert = errors.New("strand: value conversion failed")

	ErrNotDatastar       = errors.New("strand: missing Datastar-Request header")
	ErrMissingSignal     = errors.New("strand: signal missing from payload")
	ErrStreamUnsupported = errors.New("strand: response writer does not support streaming")
)

// IsSchemaError checks if err is a build-time schema construction error.
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrDuplicateAttr) ||
		errors.Is(err, ErrDuplicateSignal) ||
		errors.Is(err, ErrSchemaCycle) ||
		errors.Is(err, ErrMissingFallback) ||
		errors.Is(err, ErrBadTag) ||
		errors.Is(err, ErrNotStruct)
}

// IsRenderError checks if err is a runtime rendering failure.
func IsRenderError(err error) bool {
	return errors.Is(err, ErrConvert)
}
