// Package ir is the intermediate representation for synthesized shader
// stages.
//
// A Program is straight-line dataflow for one stage: ordered declaration
// lists (inputs, outputs, uniforms, textures, temporaries), an arena of pure
// expressions, and a body of single assignments to declared lvalues. There is
// no control flow. Expressions refer to each other by handle and an operand
// always has a smaller handle than its user, so the expression graph is a DAG
// by construction.
//
// Programs are assembled with a Builder, an explicit context object owned by
// one goroutine:
//
//	b := ir.NewBuilder(ir.StagePixel)
//	color := b.CreateInput(ir.SemanticTexCoord, 1)
//	out := b.CreateOutput(ir.SemanticSystemColor, 0)
//	b.Assign(out, b.Mul(color, b.NewFloat4(1, 1, 1, 1)))
//	prog, err := b.Finish()
//
// The package knows nothing about target shading languages or graphics APIs;
// lowering lives in the codegen packages.
package ir
