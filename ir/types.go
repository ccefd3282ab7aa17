package ir

import "fmt"

// Type is the element type of a declaration or expression.
type Type uint8

const (
	// TypeInvalid marks a value produced after a construction error.
	TypeInvalid Type = iota
	Float
	Float2
	Float3
	Float4
	Matrix44
	// Texture2D is an opaque 2D texture handle. It can only be sampled.
	Texture2D
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case Float:
		return "float"
	case Float2:
		return "float2"
	case Float3:
		return "float3"
	case Float4:
		return "float4"
	case Matrix44:
		return "float4x4"
	case Texture2D:
		return "texture2d"
	default:
		return "invalid"
	}
}

// Components returns the number of float components of a scalar or vector
// type, and 0 for every other type.
func (t Type) Components() int {
	switch t {
	case Float:
		return 1
	case Float2:
		return 2
	case Float3:
		return 3
	case Float4:
		return 4
	default:
		return 0
	}
}

// IsNumeric reports whether t is a scalar or vector float type.
func (t Type) IsNumeric() bool {
	return t.Components() > 0
}

// VectorOf returns the float type with n components.
// It returns TypeInvalid for n outside [1, 4].
func VectorOf(n int) Type {
	switch n {
	case 1:
		return Float
	case 2:
		return Float2
	case 3:
		return Float3
	case 4:
		return Float4
	default:
		return TypeInvalid
	}
}

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	StageVertex Stage = iota
	StagePixel
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageVertex, StagePixel}

// String returns "vertex" or "pixel".
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StagePixel:
		return "pixel"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

// ParseStage parses the output of Stage.String. "fragment" is accepted as an
// alias for the pixel stage.
func ParseStage(name string) (Stage, error) {
	switch name {
	case "vertex", "vs":
		return StageVertex, nil
	case "pixel", "fragment", "ps", "fs":
		return StagePixel, nil
	default:
		return 0, fmt.Errorf("ir: unknown stage %q", name)
	}
}

// Semantic is the pipeline role bound to a stage input or output.
type Semantic uint8

const (
	SemanticNone Semantic = iota
	// SemanticPosition is a vertex position attribute.
	SemanticPosition
	// SemanticTexCoord is a generic interpolated attribute; it is the only
	// index-qualified semantic.
	SemanticTexCoord
	// SemanticSystemPosition is the clip-space position written by the
	// vertex stage.
	SemanticSystemPosition
	// SemanticSystemColor is the color written to the render target by the
	// pixel stage.
	SemanticSystemColor
)

// String returns the semantic name.
func (s Semantic) String() string {
	switch s {
	case SemanticPosition:
		return "POSITION"
	case SemanticTexCoord:
		return "TEXCOORD"
	case SemanticSystemPosition:
		return "SYSTEM_POSITION"
	case SemanticSystemColor:
		return "SYSTEM_COLOR"
	default:
		return "NONE"
	}
}

// Indexed reports whether the semantic carries a meaningful index.
func (s Semantic) Indexed() bool {
	return s == SemanticTexCoord
}

// IsSystem reports whether the semantic is a fixed pipeline value rather
// than a user attribute.
func (s Semantic) IsSystem() bool {
	return s == SemanticSystemPosition || s == SemanticSystemColor
}

// Category selects one of a program's declaration lists.
type Category uint8

const (
	CategoryInput Category = iota
	CategoryOutput
	CategoryUniform
	CategoryTexture
	CategoryTemporary
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryInput:
		return "input"
	case CategoryOutput:
		return "output"
	case CategoryUniform:
		return "uniform"
	case CategoryTexture:
		return "texture"
	case CategoryTemporary:
		return "temporary"
	default:
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
}

// Assignable reports whether declarations of the category are lvalues that
// the body may assign.
func (c Category) Assignable() bool {
	return c == CategoryOutput || c == CategoryTemporary
}
