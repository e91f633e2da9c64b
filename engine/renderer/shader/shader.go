package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is created for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage of a render pipeline.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// visibility maps the shader type to the wgpu stage flag applied to its bind group entries.
func (t ShaderType) visibility() wgpu.ShaderStage {
	switch t {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}

var (
	// ErrEmptySource is returned when a shader is created without WGSL source.
	ErrEmptySource = errors.New("shader: empty source")

	// ErrMissingEntryPoint is returned when the source has no entry point for the requested stage.
	ErrMissingEntryPoint = errors.New("shader: missing entry point")
)

type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string
	module     *wgpu.ShaderModuleDescriptor

	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              map[int][]wgpu.VertexBufferLayout
}

// Shader is a parsed WGSL stage. It carries the module descriptor handed to the device,
// the entry point of its stage, and the bind group and vertex layouts reflected from the
// source so the renderer can build pipelines without hand-written layout tables.
type Shader interface {
	// Key returns the unique identifier of the shader.
	//
	// Returns:
	//   - string: the shader key
	Key() string

	// Source returns the WGSL source.
	//
	// Returns:
	//   - string: the WGSL source code
	Source() string

	// ShaderType returns the stage this shader was created for.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the name of the entry point function for the shader's stage.
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor
	Module() *wgpu.ShaderModuleDescriptor

	// BindGroupLayoutDescriptor returns the reflected layout of one bind group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, empty if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every reflected bind group layout keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the @group index
	//   - binding: the @binding index
	//
	// Returns:
	//   - string: the variable name, or empty if nothing is declared there
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName returns the binding index of a named variable in a group.
	//
	// Parameters:
	//   - group: the @group index
	//   - varName: the WGSL variable name
	//
	// Returns:
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable was found
	BindGroupFromVarName(group int, varName string) (int, bool)

	// BindGroupVarNames returns every declared variable name keyed by group and binding.
	//
	// Returns:
	//   - map[int]map[int]string: variable names
	BindGroupVarNames() map[int]map[int]string

	// VertexLayouts returns the vertex buffer layouts reflected from vertex input structs.
	// Fragment shaders and vertex shaders without input structs return an empty map.
	//
	// Returns:
	//   - map[int][]wgpu.VertexBufferLayout: layouts keyed by declaration order
	VertexLayouts() map[int][]wgpu.VertexBufferLayout
}

var _ Shader = &shader{}

// NewShaderFromSource parses WGSL source for one pipeline stage.
// A single source may declare both stages; create one Shader per stage from it.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage to reflect
//   - source: the WGSL source code
//
// Returns:
//   - Shader: the parsed shader
//   - error: ErrEmptySource or ErrMissingEntryPoint
func NewShaderFromSource(key string, shaderType ShaderType, source string) (Shader, error) {
	if source == "" {
		return nil, fmt.Errorf("%s: %w", key, ErrEmptySource)
	}

	s := &shader{
		key:           key,
		source:        source,
		shaderType:    shaderType,
		vertexLayouts: make(map[int][]wgpu.VertexBufferLayout),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
		},
	}

	cleaned := stripComments(source)
	s.entryPoint = parseEntryPoint(cleaned, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("%s: %w for %s stage", key, ErrMissingEntryPoint, shaderType)
	}

	structs := parseStructBlocks(cleaned)
	if shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(structs)
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(cleaned, structs, shaderType.visibility())
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) BindGroupVarNames() map[int]map[int]string {
	return s.bindingVarNames
}

func (s *shader) VertexLayouts() map[int][]wgpu.VertexBufferLayout {
	return s.vertexLayouts
}
