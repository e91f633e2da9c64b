package camera

import "strings"

// Prepass is a bitmask of the auxiliary passes a camera asks the renderer to run
// before its main pass.
type Prepass uint32

const (
	// PrepassDepth writes a sampled depth attachment.
	PrepassDepth Prepass = 1 << iota

	// PrepassNormal writes a world-space normal attachment.
	PrepassNormal

	// PrepassDeferred writes the deferred G-buffer.
	PrepassDeferred
)

// PrepassNone requests no prepasses.
const PrepassNone Prepass = 0

// Has reports whether every flag in want is set.
func (p Prepass) Has(want Prepass) bool {
	return p&want == want
}

func (p Prepass) String() string {
	if p == PrepassNone {
		return "none"
	}
	var parts []string
	if p.Has(PrepassDepth) {
		parts = append(parts, "depth")
	}
	if p.Has(PrepassNormal) {
		parts = append(parts, "normal")
	}
	if p.Has(PrepassDeferred) {
		parts = append(parts, "deferred")
	}
	return strings.Join(parts, "|")
}
