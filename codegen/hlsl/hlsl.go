// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package hlsl lowers ir programs to High-Level Shading Language source for
// Direct3D compilers.
//
// The shader model of the generator selects where uniforms live:
//
//	ShaderModel3  float constant registers c0, c4, ...
//	ShaderModel4  cbuffer Uniforms : register(b0)
//
// codegen.FlagCombinedSamplerTexture selects how textures are bound:
//
//	combined  sampler2D s_textureN : register(sN), sampled with tex2D
//	separate  Texture2D t_textureN : register(tN) with SamplerState
//	          s_textureN : register(sN), sampled with .Sample
//
// Shader model 3 has no separate texture objects, so a shader model 3
// program with textures needs the combined flag.
//
// Uniforms named like an HLSL keyword or intrinsic get a leading underscore,
// and those that clash with a generated name get a numeric suffix. Names are
// compared without case, as fxc does for its legacy keywords.
package hlsl

import (
	"fmt"
	"strings"

	nagahlsl "github.com/gogpu/naga/hlsl"

	"github.com/gogpu/ffshader/codegen"
	"github.com/gogpu/ffshader/ir"
)

// Language is the name reported by Generator.Language.
const Language = "hlsl"

// ShaderModel is the Direct3D shader model a generator targets.
type ShaderModel uint8

const (
	// ShaderModel4 targets vs_4_0/ps_4_0 and later profiles.
	ShaderModel4 ShaderModel = iota

	// ShaderModel3 targets vs_3_0/ps_3_0.
	ShaderModel3
)

// String returns "SM 4.0" or "SM 3.0".
func (sm ShaderModel) String() string {
	switch sm {
	case ShaderModel3:
		return "SM 3.0"
	case ShaderModel4:
		return "SM 4.0"
	default:
		return fmt.Sprintf("ShaderModel(%d)", uint8(sm))
	}
}

// Generator implements codegen.Generator for HLSL.
type Generator struct {
	Model ShaderModel
}

// New returns an HLSL generator for model.
func New(model ShaderModel) Generator {
	return Generator{Model: model}
}

// Reserved reports whether name is an HLSL keyword, type or intrinsic.
func Reserved(name string) bool {
	return nagahlsl.IsReserved(name) || nagahlsl.IsCaseInsensitiveReserved(name)
}

// Language returns "hlsl".
func (Generator) Language() string {
	return Language
}

// Generate returns the HLSL source of p.
func (g Generator) Generate(p *ir.Program, entry string, flags codegen.Flags) (string, error) {
	if rest := flags &^ codegen.FlagCombinedSamplerTexture; rest != 0 {
		stage := ir.StageVertex
		if p != nil {
			stage = p.Stage
		}
		return "", codegen.NewError(Language, stage, codegen.ErrUnsupportedFlag, "unknown flags %s", rest)
	}
	body, err := codegen.Prepare(Language, p)
	if err != nil {
		return "", err
	}
	if !ir.ValidName(entry) || Reserved(entry) {
		return "", codegen.NewError(Language, p.Stage, codegen.ErrInvalidProgram, "entry point %q is not an identifier", entry)
	}
	combined := flags.Has(codegen.FlagCombinedSamplerTexture)
	if g.Model == ShaderModel3 && len(p.Textures) > 0 && !combined {
		return "", codegen.NewError(Language, p.Stage, codegen.ErrUnsupportedFlag,
			"%s has no separate textures; set %s", g.Model, codegen.FlagCombinedSamplerTexture)
	}

	w := &writer{
		p:        p,
		legacy:   g.Model == ShaderModel3,
		combined: combined,
		uniforms: uniformNames(p, entry),
	}
	w.writeStructs()
	w.writeUniforms()
	w.writeTextures()
	if err := w.writeEntry(entry, body); err != nil {
		return "", err
	}
	return w.out.String(), nil
}

// ConstantRegister returns the first float constant register of uniform i in
// shader model 3. Each float4x4 occupies four registers.
func ConstantRegister(i int) uint32 {
	return uint32(4 * i)
}

func uniformNames(p *ir.Program, entry string) []string {
	namer := codegen.NewNamer(Reserved, true)
	slots := make([]uint32, len(p.Textures))
	for i, d := range p.Textures {
		slots[i] = d.Slot
	}
	namer.ReserveGenerated(entry, []string{"VertexInput", "VertexOutput", "PixelInput", "PixelOutput", "Uniforms"},
		len(p.Temporaries), slots)

	names := make([]string, len(p.Uniforms))
	for i, d := range p.Uniforms {
		names[i] = namer.Call(d.Name)
	}
	return names
}

type writer struct {
	p        *ir.Program
	legacy   bool // shader model 3 constant registers
	combined bool
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
		w.writeStruct(inName, w.p.Inputs)
	}
	if len(w.p.Outputs) > 0 {
		w.writeStruct(outName, w.p.Outputs)
	}
}

func (w *writer) writeStruct(name string, decls []ir.Declaration) {
	w.writeLine("struct %s", name)
	w.writeLine("{")
	w.indent++
	for _, d := range decls {
		w.writeLine("%s %s : %s;", typeName(d.Type), codegen.FieldName(d), semanticName(d))
	}
	w.indent--
	w.writeLine("};")
	w.writeLine("")
}

func semanticName(d ir.Declaration) string {
	switch d.Semantic {
	case ir.SemanticPosition:
		return "POSITION"
	case ir.SemanticTexCoord:
		return fmt.Sprintf("TEXCOORD%d", d.SemanticIndex)
	case ir.SemanticSystemPosition:
		return "SV_Position"
	case ir.SemanticSystemColor:
		return "SV_Target"
	default:
		return "UNKNOWN"
	}
}

func (w *writer) writeUniforms() {
	if len(w.p.Uniforms) == 0 {
		return
	}
	if w.legacy {
		for i, d := range w.p.Uniforms {
			w.writeLine("%s %s : register(c%d);", typeName(d.Type), w.uniforms[i], ConstantRegister(i))
		}
		w.writeLine("")
		return
	}
	w.writeLine("cbuffer Uniforms : register(b0)")
	w.writeLine("{")
	w.indent++
	for i, d := range w.p.Uniforms {
		w.writeLine("%s %s;", typeName(d.Type), w.uniforms[i])
	}
	w.indent--
	w.writeLine("};")
	w.writeLine("")
}

func (w *writer) writeTextures() {
	if len(w.p.Textures) == 0 {
		return
	}
	for _, d := range w.p.Textures {
		if w.combined {
			w.writeLine("sampler2D %s : register(s%d);", codegen.SamplerName(d.Slot), d.Slot)
			continue
		}
		w.writeLine("Texture2D %s : register(t%d);", codegen.TextureName(d.Slot), d.Slot)
		w.writeLine("SamplerState %s : register(s%d);", codegen.SamplerName(d.Slot), d.Slot)
	}
	w.writeLine("")
}

func (w *writer) writeEntry(entry string, body []ir.Assignment) error {
	inName, outName := w.structNames()
	params := ""
	if len(w.p.Inputs) > 0 {
		params = inName + " input"
	}
	result := "void"
	if len(w.p.Outputs) > 0 {
		result = outName
	}

	w.writeLine("%s %s(%s)", result, entry, params)
	w.writeLine("{")
	w.indent++
	if len(w.p.Outputs) > 0 {
		w.writeLine("%s output;", outName)
	}
	for i, d := range w.p.Temporaries {
		w.writeLine("%s %s;", typeName(d.Type), codegen.TemporaryName(i))
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
		if w.combined {
			return codegen.SamplerName(d.Slot)
		}
		return codegen.TextureName(d.Slot)
	default:
		return codegen.TemporaryName(int(ref.Index))
	}
}

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
		if k.Op == ir.OpMultiply && w.p.Expressions[k.Left].Type == ir.Matrix44 {
			m, err := w.expr(k.Left)
			if err != nil {
				return "", err
			}
			v, err := w.expr(k.Right)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("mul(%s, %s)", m, v), nil
		}
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
		if w.combined {
			return fmt.Sprintf("tex2D(%s, %s)", codegen.SamplerName(slot), coord), nil
		}
		return fmt.Sprintf("%s.Sample(%s, %s)", codegen.TextureName(slot), codegen.SamplerName(slot), coord), nil
	default:
		return "", codegen.NewError(Language, w.p.Stage, codegen.ErrUnsupportedExpression, "expression %d: %T", h, e.Kind)
	}
}

func (w *writer) operand(h ir.ExpressionHandle) (string, error) {
	s, err := w.expr(h)
	if err != nil {
		return "", err
	}
	if b, ok := w.p.Expressions[h].Kind.(ir.ExprBinary); ok && !(b.Op == ir.OpMultiply && w.p.Expressions[b.Left].Type == ir.Matrix44) {
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
		return "float"
	case ir.Float2:
		return "float2"
	case ir.Float3:
		return "float3"
	case ir.Float4:
		return "float4"
	case ir.Matrix44:
		return "float4x4"
	default:
		return "invalid"
	}
}
