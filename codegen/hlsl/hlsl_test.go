package hlsl

import (
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/gogpu/ffshader/caps"
	"github.com/gogpu/ffshader/codegen"
	"github.com/gogpu/ffshader/fixedfunc"
	"github.com/gogpu/ffshader/ir"
)

var modes = []struct {
	name  string
	model ShaderModel
	flags codegen.Flags
}{
	{"combined", ShaderModel3, codegen.FlagCombinedSamplerTexture},
	{"separate", ShaderModel4, 0},
}

func generate(t *testing.T, model ShaderModel, stage ir.Stage, set caps.Set, flags codegen.Flags) string {
	t.Helper()
	p, err := fixedfunc.Build(stage, set)
	if err != nil {
		t.Fatalf("Build(%s, %s): %v", stage, set, err)
	}
	src, err := New(model).Generate(p, "main", flags)
	if err != nil {
		t.Fatalf("Generate(%s, %s, %s): %v", stage, set, flags, err)
	}
	return src
}

func TestGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, mode := range modes {
		for _, set := range caps.Supported() {
			for _, stage := range ir.Stages {
				name := mode.name + "_" + stage.String() + "_" + set.String()
				t.Run(name, func(t *testing.T) {
					g.Assert(t, name, []byte(generate(t, mode.model, stage, set, mode.flags)))
				})
			}
		}
	}
}

func TestDeterministic(t *testing.T) {
	for _, mode := range modes {
		for _, set := range caps.Supported() {
			for _, stage := range ir.Stages {
				a := generate(t, mode.model, stage, set, mode.flags)
				b := generate(t, mode.model, stage, set, mode.flags)
				if a != b {
					t.Errorf("%s/%s/%s: output differs between runs", mode.name, stage, set)
				}
			}
		}
	}
}

func TestSampleOnlyWithTexture(t *testing.T) {
	for _, mode := range modes {
		src := generate(t, mode.model, ir.StagePixel, 0, mode.flags)
		if strings.Contains(src, "tex2D(") || strings.Contains(src, ".Sample(") {
			t.Errorf("%s: untextured pixel shader samples", mode.name)
		}
	}
	if src := generate(t, ShaderModel3, ir.StagePixel, caps.Texture, codegen.FlagCombinedSamplerTexture); !strings.Contains(src, "tex2D(s_texture0, input.texcoord0.xy)") {
		t.Error("combined mode does not use tex2D")
	}
	if src := generate(t, ShaderModel4, ir.StagePixel, caps.Texture, 0); !strings.Contains(src, "t_texture0.Sample(s_texture0, input.texcoord0.xy)") {
		t.Error("separate mode does not use Texture2D.Sample")
	}
}

func TestMatrixRegisters(t *testing.T) {
	b := ir.NewBuilder(ir.StageVertex)
	pos := b.CreateInput(ir.SemanticPosition, 0)
	out := b.CreateOutput(ir.SemanticSystemPosition, 0)
	view := b.CreateUniformMatrix("view")
	proj := b.CreateUniformMatrix("proj")
	b.Assign(out, b.Mul(proj, b.Mul(view, pos)))
	p, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	src, err := New(ShaderModel3).Generate(p, "main", 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{
		"float4x4 view : register(c0);",
		"float4x4 proj : register(c4);",
		"output.systemPosition = mul(proj, mul(view, input.position));",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q in\n%s", want, src)
		}
	}
	if strings.Contains(src, "cbuffer") {
		t.Errorf("shader model 3 declares a cbuffer:\n%s", src)
	}

	src, err = New(ShaderModel4).Generate(p, "main", codegen.FlagCombinedSamplerTexture)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(src, "cbuffer Uniforms : register(b0)") || strings.Contains(src, "register(c0)") {
		t.Errorf("shader model 4 does not use a cbuffer:\n%s", src)
	}
}

func TestShaderModel3NeedsCombinedSamplers(t *testing.T) {
	p, err := fixedfunc.BuildPixel(caps.Texture)
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(ShaderModel3).Generate(p, "main", 0)
	var genErr *codegen.Error
	if !errors.As(err, &genErr) || genErr.Kind != codegen.ErrUnsupportedFlag {
		t.Errorf("got %v, want ErrUnsupportedFlag", err)
	}
}

func TestUniformNamesEscaped(t *testing.T) {
	b := ir.NewBuilder(ir.StageVertex)
	pos := b.CreateInput(ir.SemanticPosition, 0)
	out := b.CreateOutput(ir.SemanticSystemPosition, 0)
	names := []string{"float4x4", "Input", "main", "Uniforms", "mul", "input_1"}
	e := pos
	for _, name := range names {
		e = b.Mul(b.CreateUniformMatrix(name), e)
	}
	b.Assign(out, e)
	p, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	for _, model := range []ShaderModel{ShaderModel3, ShaderModel4} {
		src, err := New(model).Generate(p, "main", 0)
		if err != nil {
			t.Fatalf("%s: Generate: %v", model, err)
		}
		for _, want := range []string{
			"float4x4 _float4x4",
			"float4x4 Input_1",
			"float4x4 main_2",
			"float4x4 Uniforms_3",
			"float4x4 _mul",
			"float4x4 input_1_4",
			"mul(input_1_4, mul(_mul, mul(Uniforms_3, mul(main_2, mul(Input_1, mul(_float4x4, input.position))))))",
		} {
			if !strings.Contains(src, want) {
				t.Errorf("%s: missing %q in\n%s", model, want, src)
			}
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	pixel, err := fixedfunc.BuildPixel(0)
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(ShaderModel4).Generate(pixel, "main", codegen.Flags(1<<8))
	var genErr *codegen.Error
	if !errors.As(err, &genErr) || genErr.Kind != codegen.ErrUnsupportedFlag {
		t.Errorf("unknown flag: got %v", err)
	}

	_, err = New(ShaderModel4).Generate(nil, "main", 0)
	if !errors.As(err, &genErr) || genErr.Kind != codegen.ErrInvalidProgram {
		t.Errorf("nil program: got %v", err)
	}

	_, err = New(ShaderModel4).Generate(pixel, "float4", 0)
	if !errors.As(err, &genErr) || genErr.Kind != codegen.ErrInvalidProgram {
		t.Errorf("reserved entry point: got %v", err)
	}
}
