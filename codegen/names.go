package codegen

import (
	"fmt"
	"strings"

	"github.com/gogpu/ffshader/ir"
)

// FieldName returns the struct member name of a stage input or output.
func FieldName(d ir.Declaration) string {
	switch d.Semantic {
	case ir.SemanticPosition:
		return "position"
	case ir.SemanticTexCoord:
		return fmt.Sprintf("texcoord%d", d.SemanticIndex)
	case ir.SemanticSystemPosition:
		return "systemPosition"
	case ir.SemanticSystemColor:
		return "systemColor"
	default:
		return fmt.Sprintf("attr%d", d.SemanticIndex)
	}
}

// TextureName returns the global name of the texture bound to slot.
func TextureName(slot uint32) string {
	return fmt.Sprintf("t_texture%d", slot)
}

// SamplerName returns the global name of the sampler paired with slot.
func SamplerName(slot uint32) string {
	return fmt.Sprintf("s_texture%d", slot)
}

// TemporaryName returns the local name of temporary i.
func TemporaryName(i int) string {
	return fmt.Sprintf("temp%d", i)
}

// Locations assigns vertex attribute locations to the inputs of a vertex
// program: system semantics get -1, every other entry the next location in
// declaration order.
func Locations(decls []ir.Declaration) []int {
	locs := make([]int, len(decls))
	next := 0
	for i, d := range decls {
		if d.Semantic.IsSystem() {
			locs[i] = -1
			continue
		}
		locs[i] = next
		next++
	}
	return locs
}

// InterStageLocations is the number of user locations between the vertex
// and pixel stages.
const InterStageLocations = 16

// PositionLocation is the location of a position attribute passed from the
// vertex to the pixel stage. It is the last inter-stage location so that
// texture coordinate n can take location n.
const PositionLocation = InterStageLocations - 1

// InterStageLocation returns the location of a vertex output or pixel input.
// The location depends only on the semantic, so both stages agree whatever
// their declaration order. System semantics get -1. It reports false for a
// texture coordinate index with no location.
func InterStageLocation(d ir.Declaration) (int, bool) {
	switch {
	case d.Semantic.IsSystem():
		return -1, true
	case d.Semantic == ir.SemanticPosition:
		return PositionLocation, true
	case d.Semantic == ir.SemanticTexCoord && d.SemanticIndex < PositionLocation:
		return int(d.SemanticIndex), true
	default:
		return 0, false
	}
}

// FormatFloat formats a float literal so that it always reads as a float.
func FormatFloat(f float32) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}
