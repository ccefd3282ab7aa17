package codegen

import (
	"github.com/gogpu/ffshader/ir"
)

// Prepare runs the checks every generator performs before emitting text and
// returns the body in emission order. Errors carry lang as their language.
func Prepare(lang string, p *ir.Program) ([]ir.Assignment, error) {
	if p == nil {
		return nil, NewError(lang, 0, ErrInvalidProgram, "nil program")
	}
	for i, d := range p.Outputs {
		if _, ok := p.Writer(ir.SymbolRef{Category: ir.CategoryOutput, Index: uint32(i)}); !ok {
			return nil, NewError(lang, p.Stage, ErrUnassignedOutput,
				"output %s%d has no assignment", d.Semantic, d.SemanticIndex)
		}
	}
	if err := ir.Validate(p); err != nil {
		e := NewError(lang, p.Stage, ErrInvalidProgram, "%v", err)
		e.Err = err
		return nil, e
	}
	if err := CheckSemantics(lang, p); err != nil {
		return nil, err
	}
	if p.Stage != ir.StagePixel && p.HasSample() {
		return nil, NewError(lang, p.Stage, ErrUnsupportedExpression,
			"texture sampling requires implicit derivatives, available only in the pixel stage")
	}

	order, err := schedule(lang, p)
	if err != nil {
		return nil, err
	}
	body := make([]ir.Assignment, len(order))
	for i, idx := range order {
		body[i] = p.Body[idx]
	}
	return body, nil
}

// Representable reports whether a semantic can be bound in the given
// direction of the given stage. The rules are shared by every generator:
// position and texcoord attributes travel anywhere except out of the pixel
// stage, the system position leaves the vertex stage and enters the pixel
// stage, and the system color only leaves the pixel stage.
func Representable(stage ir.Stage, c ir.Category, sem ir.Semantic) bool {
	switch sem {
	case ir.SemanticPosition, ir.SemanticTexCoord:
		return c == ir.CategoryInput || stage == ir.StageVertex
	case ir.SemanticSystemPosition:
		return (stage == ir.StageVertex && c == ir.CategoryOutput) ||
			(stage == ir.StagePixel && c == ir.CategoryInput)
	case ir.SemanticSystemColor:
		return stage == ir.StagePixel && c == ir.CategoryOutput
	default:
		return false
	}
}

// CheckSemantics fails with ErrUnsupportedSemantic on the first input or
// output that is not Representable.
func CheckSemantics(lang string, p *ir.Program) error {
	for _, c := range []ir.Category{ir.CategoryInput, ir.CategoryOutput} {
		for _, d := range p.Declarations(c) {
			if !Representable(p.Stage, c, d.Semantic) {
				return NewError(lang, p.Stage, ErrUnsupportedSemantic,
					"%s %s%d has no binding", c, d.Semantic, d.SemanticIndex)
			}
		}
	}
	return nil
}
