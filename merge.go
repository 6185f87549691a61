package strand

// MergeMode defines how a patched fragment is merged into the client DOM.
//
// Each mode corresponds to a mode value in the patch protocol. The default
// is ModeMorph, which reconciles the fragment against the existing element
// by value, making re-delivery of the same patch idempotent.
type MergeMode string

const (
	// ModeMorph morphs the target element to match the fragment.
	// This is the default merge mode and is value-based: applying the
	// same patch twice yields the same DOM as applying it once.
	ModeMorph MergeMode = "morph"

	// ModePrepend inserts the fragment as the target's first child.
	ModePrepend MergeMode = "prepend"

	// ModeAppend inserts the fragment as the target's last child.
	ModeAppend MergeMode = "append"

	// ModeBefore inserts the fragment as the target's previous sibling.
	ModeBefore MergeMode = "before"

	// ModeAfter inserts the fragment as the target's next sibling.
	ModeAfter MergeMode = "after"

	// ModeReplace replaces the target element wholesale, without morphing.
	ModeReplace MergeMode = "replace"

	// ModeRemove removes the target element. Fragment content is ignored.
	ModeRemove MergeMode = "remove"
)

// Namespace selects the XML namespace for patched elements when the
// fragment is not plain HTML.
type Namespace string

const (
	NamespaceSVG    Namespace = "svg"
	NamespaceMathML Namespace = "mathml"
)
