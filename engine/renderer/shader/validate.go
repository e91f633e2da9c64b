package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
)

var (
	// ErrInvalidSource wraps a naga parse or validation failure.
	ErrInvalidSource = errors.New("shader: invalid WGSL")

	// ErrValidatorLimitation wraps a naga failure caused by a feature the validator
	// does not implement yet. The source may still be accepted by the device.
	ErrValidatorLimitation = errors.New("shader: validator limitation")
)

// limitationMarkers are substrings naga uses for unimplemented features.
var limitationMarkers = []string{
	"not yet implemented",
	"not implemented",
	"not supported",
	"unsupported",
	"unknown",
	"lowering error",
}

// Validate compiles WGSL through naga to catch shader errors before the device sees them.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - []byte: the SPIR-V produced by naga
//   - error: nil, or an error wrapping ErrInvalidSource or ErrValidatorLimitation
func Validate(source string) ([]byte, error) {
	if source == "" {
		return nil, ErrEmptySource
	}
	spirv, err := naga.Compile(source)
	if err == nil {
		return spirv, nil
	}

	msg := err.Error()
	for _, marker := range limitationMarkers {
		if strings.Contains(msg, marker) {
			return nil, fmt.Errorf("%w: %w", ErrValidatorLimitation, err)
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
}
