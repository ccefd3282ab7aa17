// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgsl lowers ir programs to WebGPU Shading Language source.
//
// Stage inputs and outputs become structs. Vertex attributes use @location
// in declaration order. Between the stages the location follows the
// semantic: TEXCOORDn is @location(n) and a position attribute takes
// codegen.PositionLocation. The system position maps to @builtin(position)
// and the system color to @location(0) of the pixel stage output. Resources of stage
// s live in @group(s): uniforms take the first bindings, then every texture
// takes two consecutive bindings, texture_2d<f32> followed by its sampler.
//
// A uniform named like a WGSL keyword is emitted with a leading underscore,
// and one that clashes with a name the generator uses gets a numeric suffix.
// Bindings, not names, connect uniforms to the host.
package wgsl

import (
	"fmt"
	"strings"

	nagawgsl "github.com/gogpu/naga/wgsl"

	"github.com/gogpu/ffshader/codegen"
	"github.com/gogpu/ffshader/ir"
)

// Language is the name reported by Generator.Language.
const Language = "wgsl"

// Generator implements codegen.Generator for WGSL.
type Generator struct{}

// New returns a WGSL generator.
func New() Generator {
	return Generator{}
}

// Language returns "wgsl".
func (Generator) Language() string {
	return Language
}

// Generate returns the WGSL source of p. WGSL has no combined texture and
// sampler type, so FlagCombinedSamplerTexture is rejected.
func (Generator) Generate(p *ir.Program, entry string, flags codegen.Flags) (string, error) {
	if flags.Has(codegen.FlagCombinedSamplerTexture) {
		stage := ir.StageVertex
		if p != nil {
			stage = p.Stage
		}
		return "", codegen.NewError(Language, stage, codegen.ErrUnsupportedFlag,
			"%s: WGSL binds textures and samplers separately", codegen.FlagCombinedSamplerTexture)
	}
	body, err := codegen.Prepare(Language, p)
	if err != nil {
		return "", err
	}
	if !ir.ValidName(entry) {
		return "", codegen.NewError(Language, p.Stage, codegen.ErrInvalidProgram, "entry point %q is not an identifier", entry)
	}

	if err := checkInterStage(p); err != nil {
		return "", err
	}

	w := &writer{p: p}
	w.writeStructs()
	w.writeResources()
	if err := w.writeEntry(entry, body); err != nil {
		return "", err
	}
	return w.out.String(), nil
}

// Group returns the bind group that holds the resources of a stage.
func Group(stage ir.Stage) uint32 {
	return uint32(stage)
}

// TextureBinding returns the binding of the texture at index i of a program
// with the given uniform count. Its sampler takes the next binding.
func TextureBinding(uniforms, i int) uint32 {
	return uint32(uniforms + 2*i)
}

// Reserved reports whether name cannot be declared as a WGSL identifier: a
// keyword or type of the language, a builtin the generator calls, or a name
// WGSL keeps for itself.
func Reserved(name string) bool {
	if name == "_" || strings.HasPrefix(name, "__") || name == "textureSample" {
		return true
	}
	tokens, err := nagawgsl.NewLexer(name).Tokenize()
	return err != nil || len(tokens) != 2 || tokens[0].Kind != nagawgsl.TokenIdent
}

// uniformNames returns the identifiers of the uniforms of p. Keywords are
// escaped and names the generator uses are renamed.
func uniformNames(p *ir.Program, entry string) ([]string, error) {
	namer := codegen.NewNamer(Reserved, false)
	slots := make([]uint32, len(p.Textures))
	for i, d := range p.Textures {
		slots[i] = d.Slot
	}
	namer.ReserveGenerated(entry, []string{"VertexInput", "VertexOutput", "PixelInput", "PixelOutput"},
		len(p.Temporaries), slots)

	names := make([]string, len(p.Uniforms))
	for i, d := range p.Uniforms {
		if d.Name == "_" || strings.HasPrefix(d.Name, "__") {
			return nil, codegen.NewError(Language, p.Stage, codegen.ErrInvalidProgram,
				"uniform %q: WGSL identifiers cannot be _ or start with __", d.Name)
		}
		names[i] = namer.Call(d.Name)
	}
	return names, nil
}

type writer struct {
	p        *ir.Program
	uniforms []string
	out      strings.Builder
	indent   int
}

//nolint:goprintffuncname
func (w *writer) writeLine(format string, args ...any) {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

func (w *writer) structNames() (in, out string) {
	if w.p.Stage == ir.StageVertex {
		return "VertexInput", "VertexOutput"
	}
	return "PixelInput", "PixelOutput"
}

func (w *writer) writeStructs() {
	inName, outName := w.structNames()
	if len(w.p.Inputs) > 0 {
		w.writeStruct(inName, ir.CategoryInput, w.p.Inputs)
	}
	if len(w.p.Outputs) > 0 {
		w.writeStruct(outName, ir.CategoryOutput, w.p.Outputs)
	}
}

// interStage reports whether declarations of category c cross from the
// vertex to the pixel stage.
func interStage(stage ir.Stage, c ir.Category) bool {
	return (stage == ir.StageVertex && c == ir.CategoryOutput) ||
		(stage == ir.StagePixel && c == ir.CategoryInput)
}

func checkInterStage(p *ir.Program) error {
	for _, c := range []ir.Category{ir.CategoryInput, ir.CategoryOutput} {
		if !interStage(p.Stage, c) {
			continue
		}
		for _, d := range p.Declarations(c) {
			if _, ok := codegen.InterStageLocation(d); !ok {
				return codegen.NewError(Language, p.Stage, codegen.ErrUnsupportedSemantic,
					"%s %s%d has no inter-stage location", c, d.Semantic, d.SemanticIndex)
			}
		}
	}
	return nil
}

func (w *writer) locations(c ir.Category, decls []ir.Declaration) []int {
	if !interStage(w.p.Stage, c) {
		return codegen.Locations(decls)
	}
	locs := make([]int, len(decls))
	for i, d := range decls {
		locs[i], _ = codegen.InterStageLocation(d)
	}
	return locs
}

func (w *writer) writeStruct(name string, c ir.Category, decls []ir.Declaration) {
	locs := w.locations(c, decls)
	w.writeLine("struct %s {", name)
	w.indent++
	for i, d := range decls {
		w.writeLine("%s %s: %s,", w.attribute(d, locs[i]), codegen.FieldName(d), typeName(d.Type))
	}
	w.indent--
	w.writeLine("}")
	w.writeLine("")
}

func (w *writer) attribute(d ir.Declaration, loc int) string {
	switch d.Semantic {
	case ir.SemanticSystemPosition:
		return "@builtin(position)"
	case ir.SemanticSystemColor:
		return "@location(0)"
	default:
		return fmt.Sprintf("@location(%d)", loc)
	}
}

func (w *writer) writeResources() {
	if len(w.p.Uniforms) == 0 && len(w.p.Textures) == 0 {
		return
	}
	group := Group(w.p.Stage)
	for i, d := range w.p.Uniforms {
		w.writeLine("@group(%d) @binding(%d) var<uniform> %s: %s;", group, i, w.uniforms[i], typeName(d.Type))
	}
	for i, d := range w.p.Textures {
		b := TextureBinding(len(w.p.Uniforms), i)
		w.writeLine("@group(%d) @binding(%d) var %s: texture_2d<f32>;", group, b, codegen.TextureName(d.Slot))
		w.writeLine("@group(%d) @binding(%d) var %s: sampler;", group, b+1, codegen.SamplerName(d.Slot))
	}
	w.writeLine("")
}

func (w *writer) writeEntry(entry string, body []ir.Assignment) error {
	inName, outName := w.structNames()
	stageAttr := "@vertex"
	if w.p.Stage == ir.StagePixel {
		stageAttr = "@fragment"
	}
	params := ""
	if len(w.p.Inputs) > 0 {
		params = "input: " + inName
	}
	result := ""
	if len(w.p.Outputs) > 0 {
		result = " -> " + outName
	}

	w.writeLine("%s", stageAttr)
	w.writeLine("fn %s(%s)%s {", entry, params, result)
	w.indent++
	if len(w.p.Outputs) > 0 {
		w.writeLine("var output: %s;", outName)
	}
	for i, d := range w.p.Temporaries {
		w.writeLine("var %s: %s;", codegen.TemporaryName(i), typeName(d.Type))
	}
	for _, a := range body {
		value, err := w.expr(a.Value)
		if err != nil {
			return err
		}
		w.writeLine("%s = %s;", w.symbol(a.Target), value)
	}
	if len(w.p.Outputs) > 0 {
		w.writeLine("return output;")
	}
	w.indent--
	w.writeLine("}")
	return nil
}

func (w *writer) symbol(ref ir.SymbolRef) string {
	d, _ := w.p.Declaration(ref)
	switch ref.Category {
	case ir.CategoryInput:
		return "input." + codegen.FieldName(d)
	case ir.CategoryOutput:
		return "output." + codegen.FieldName(d)
	case ir.CategoryUniform:
		return w.uniforms[ref.Index]
	case ir.CategoryTexture:
		return codegen.TextureName(d.Slot)
	default:
		return codegen.TemporaryName(int(ref.Index))
	}
}

// expr renders the expression tree rooted at h. Binary operands that are
// themselves binary are parenthesized.
func (w *writer) expr(h ir.ExpressionHandle) (string, error) {
	e := w.p.Expressions[h]
	switch k := e.Kind.(type) {
	case ir.ExprSymbol:
		return w.symbol(k.Ref), nil
	case ir.ExprConstant:
		parts := make([]string, len(k.Values))
		for i, v := range k.Values {
			parts[i] = codegen.FormatFloat(v)
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return fmt.Sprintf("%s(%s)", typeName(e.Type), strings.Join(parts, ", ")), nil
	case ir.ExprBinary:
		l, err := w.operand(k.Left)
		if err != nil {
			return "", err
		}
		r, err := w.operand(k.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", l, k.Op, r), nil
	case ir.ExprSwizzle:
		v, err := w.operand(k.Vector)
		if err != nil {
			return "", err
		}
		return v + "." + ir.SwizzleLetters(k.Components()), nil
	case ir.ExprConstruct:
		parts := make([]string, len(k.Components))
		for i, c := range k.Components {
			s, err := w.expr(c)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return fmt.Sprintf("%s(%s)", typeName(e.Type), strings.Join(parts, ", ")), nil
	case ir.ExprSample:
		slot, err := w.textureSlot(k.Texture)
		if err != nil {
			return "", err
		}
		coord, err := w.expr(k.Coordinate)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("textureSample(%s, %s, %s)", codegen.TextureName(slot), codegen.SamplerName(slot), coord), nil
	default:
		return "", codegen.NewError(Language, w.p.Stage, codegen.ErrUnsupportedExpression, "expression %d: %T", h, e.Kind)
	}
}

func (w *writer) operand(h ir.ExpressionHandle) (string, error) {
	s, err := w.expr(h)
	if err != nil {
		return "", err
	}
	if _, ok := w.p.Expressions[h].Kind.(ir.ExprBinary); ok {
		return "(" + s + ")", nil
	}
	return s, nil
}

func (w *writer) textureSlot(h ir.ExpressionHandle) (uint32, error) {
	if sym, ok := w.p.Expressions[h].Kind.(ir.ExprSymbol); ok && sym.Ref.Category == ir.CategoryTexture {
		d, _ := w.p.Declaration(sym.Ref)
		return d.Slot, nil
	}
	return 0, codegen.NewError(Language, w.p.Stage, codegen.ErrUnsupportedExpression,
		"expression %d samples a texture that is not a declared binding", h)
}

func typeName(t ir.Type) string {
	switch t {
	case ir.Float:
		return "f32"
	case ir.Float2:
		return "vec2<f32>"
	case ir.Float3:
		return "vec3<f32>"
	case ir.Float4:
		return "vec4<f32>"
	case ir.Matrix44:
		return "mat4x4<f32>"
	case ir.Texture2D:
		return "texture_2d<f32>"
	default:
		return "invalid"
	}
}
