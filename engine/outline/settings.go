package outline

// OutlineSettings configures the outline drawn for one camera.
//
// The zero value draws nothing useful; start from DefaultOutlineSettings or NewOutlineSettings.
// All fields are comparable, so == compares two settings structurally.
type OutlineSettings struct {
	// Weight is the outline thickness in pixels. Neighbours are sampled round(Weight) texels away.
	Weight float32 `toml:"weight"`

	// Color is the linear RGBA outline tint before adaptive inversion. Alpha below 1 blends.
	Color [4]float32 `toml:"color"`

	// NormalThreshold is the normal divergence, 1 - dot(n0, n1), an edge must exceed.
	NormalThreshold float32 `toml:"normal_threshold"`

	// DepthThreshold is the linear depth difference in scene units an edge must exceed.
	DepthThreshold float32 `toml:"depth_threshold"`

	// AdaptiveThreshold is the luminance above which the outline color is inverted.
	// 1 disables inversion.
	AdaptiveThreshold float32 `toml:"adaptive_threshold"`

	cameraNear float32
}

// NewOutlineSettings returns settings holding exactly the given values. The cached near
// plane starts at 0 and is filled in by Effect.Sync.
//
// Parameters:
//   - weight: outline thickness in pixels
//   - color: linear RGBA outline color
//   - normalThreshold: normal divergence an edge must exceed
//   - depthThreshold: linear depth difference an edge must exceed
//   - adaptiveThreshold: luminance threshold for inversion, 1 disables it
//
// Returns:
//   - OutlineSettings: the settings
func NewOutlineSettings(weight float32, color [4]float32, normalThreshold, depthThreshold, adaptiveThreshold float32) OutlineSettings {
	return OutlineSettings{
		Weight:            weight,
		Color:             color,
		NormalThreshold:   normalThreshold,
		DepthThreshold:    depthThreshold,
		AdaptiveThreshold: adaptiveThreshold,
	}
}

// DefaultOutlineSettings returns a one pixel opaque black outline with adaptive inversion off.
//
// Returns:
//   - OutlineSettings: the default settings
func DefaultOutlineSettings() OutlineSettings {
	return NewOutlineSettings(1.0, [4]float32{0, 0, 0, 1}, 0.01, 0.05, 1.0)
}

// CameraNear returns the near plane cached from the owning camera's last perspective projection.
func (s OutlineSettings) CameraNear() float32 {
	return s.cameraNear
}

// Equal reports whether every field of s and other matches.
func (s OutlineSettings) Equal(other OutlineSettings) bool {
	return s == other
}

// AdaptiveEnabled reports whether the outline color inverts over bright pixels.
func (s OutlineSettings) AdaptiveEnabled() bool {
	return s.AdaptiveThreshold < 1
}

// Validate checks the ranges of the user supplied fields. NaN fails both checks.
//
// Returns:
//   - error: ErrNegativeWeight or ErrAdaptiveRange, nil when valid
func (s OutlineSettings) Validate() error {
	if !(s.Weight >= 0) {
		return ErrNegativeWeight
	}
	if !(s.AdaptiveThreshold >= 0 && s.AdaptiveThreshold <= 1) {
		return ErrAdaptiveRange
	}
	return nil
}

// withCameraNear returns a copy of s with the cached near plane replaced.
func (s OutlineSettings) withCameraNear(near float32) OutlineSettings {
	s.cameraNear = near
	return s
}
