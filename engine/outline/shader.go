package outline

import (
	_ "embed"
)

//go:embed assets/outline.wgsl
var outlineShaderBody string

// ShaderSource returns the complete WGSL of the outline pass: the OutlineSettings struct
// followed by the fullscreen vertex stage and the edge-detection fragment stage.
func ShaderSource() string {
	return GPUOutlineSettingsSource + "\n" + outlineShaderBody
}
