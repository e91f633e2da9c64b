package outline

// EffectBuilderOption is a functional option used to configure an Effect during construction.
type EffectBuilderOption func(*effectImpl)

// WithRequireDeferred makes Attach demand a deferred prepass in addition to depth and normal.
// Enable it when the host renders the camera through its deferred path.
//
// Parameters:
//   - require: whether the deferred prepass is required
//
// Returns:
//   - EffectBuilderOption: a function that sets the requirement
func WithRequireDeferred(require bool) EffectBuilderOption {
	return func(e *effectImpl) {
		e.requireDeferred = require
	}
}
