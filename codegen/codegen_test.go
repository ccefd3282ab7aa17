package codegen

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gogpu/ffshader/ir"
)

var (
	colorIn  = ir.Declaration{Type: ir.Float4, Semantic: ir.SemanticTexCoord, SemanticIndex: 1}
	colorOut = ir.Declaration{Type: ir.Float4, Semantic: ir.SemanticSystemColor}
	temp4    = ir.Declaration{Type: ir.Float4}

	inRef   = ir.SymbolRef{Category: ir.CategoryInput}
	outRef  = ir.SymbolRef{Category: ir.CategoryOutput}
	tempRef = func(i uint32) ir.SymbolRef { return ir.SymbolRef{Category: ir.CategoryTemporary, Index: i} }
)

// outOfOrderProgram assigns the output before the temporary it reads.
func outOfOrderProgram() *ir.Program {
	return &ir.Program{
		Stage:       ir.StagePixel,
		Inputs:      []ir.Declaration{colorIn},
		Outputs:     []ir.Declaration{colorOut},
		Temporaries: []ir.Declaration{temp4},
		Expressions: []ir.Expression{
			{Kind: ir.ExprSymbol{Ref: inRef}, Type: ir.Float4},
			{Kind: ir.ExprSymbol{Ref: tempRef(0)}, Type: ir.Float4},
			{Kind: ir.ExprBinary{Op: ir.OpMultiply, Left: 0, Right: 1}, Type: ir.Float4},
			{Kind: ir.ExprConstant{Values: []float32{1, 1, 1, 1}}, Type: ir.Float4},
		},
		Body: []ir.Assignment{
			{Target: outRef, Value: 2},
			{Target: tempRef(0), Value: 3},
		},
	}
}

func cyclicProgram() *ir.Program {
	return &ir.Program{
		Stage:       ir.StagePixel,
		Outputs:     []ir.Declaration{colorOut},
		Temporaries: []ir.Declaration{temp4, temp4},
		Expressions: []ir.Expression{
			{Kind: ir.ExprSymbol{Ref: tempRef(1)}, Type: ir.Float4},
			{Kind: ir.ExprSymbol{Ref: tempRef(0)}, Type: ir.Float4},
		},
		Body: []ir.Assignment{
			{Target: tempRef(0), Value: 0},
			{Target: tempRef(1), Value: 1},
			{Target: outRef, Value: 1},
		},
	}
}

func TestScheduleReordersDependencies(t *testing.T) {
	order, err := Schedule(outOfOrderProgram())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if want := []int{1, 0}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestScheduleKeepsOrderedBody(t *testing.T) {
	p := outOfOrderProgram()
	p.Body[0], p.Body[1] = p.Body[1], p.Body[0]
	order, err := Schedule(p)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if want := []int{0, 1}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestScheduleIsStable(t *testing.T) {
	// Three independent statements and one that depends on the last.
	p := &ir.Program{
		Stage:       ir.StagePixel,
		Outputs:     []ir.Declaration{colorOut},
		Temporaries: []ir.Declaration{temp4, temp4, temp4},
		Expressions: []ir.Expression{
			{Kind: ir.ExprConstant{Values: []float32{0, 0, 0, 0}}, Type: ir.Float4},
			{Kind: ir.ExprSymbol{Ref: tempRef(2)}, Type: ir.Float4},
		},
		Body: []ir.Assignment{
			{Target: outRef, Value: 1},
			{Target: tempRef(0), Value: 0},
			{Target: tempRef(1), Value: 0},
			{Target: tempRef(2), Value: 0},
		},
	}
	order, err := Schedule(p)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if want := []int{1, 2, 3, 0}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestScheduleCycle(t *testing.T) {
	_, err := Schedule(cyclicProgram())
	var genErr *Error
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *codegen.Error, got %v", err)
	}
	if genErr.Kind != ErrDependencyCycle {
		t.Errorf("kind = %s, want %s", genErr.Kind, ErrDependencyCycle)
	}
}

func TestPrepare(t *testing.T) {
	body, err := Prepare("test", outOfOrderProgram())
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if len(body) != 2 || body[0].Target != tempRef(0) || body[1].Target != outRef {
		t.Errorf("body = %+v", body)
	}
}

func TestPrepareErrors(t *testing.T) {
	unassigned := outOfOrderProgram()
	unassigned.Body = unassigned.Body[1:]

	pixelPosition := outOfOrderProgram()
	pixelPosition.Outputs[0].Semantic = ir.SemanticPosition

	vertexColor := outOfOrderProgram()
	vertexColor.Stage = ir.StageVertex

	invalid := outOfOrderProgram()
	invalid.Expressions[2].Type = ir.Float2

	vertexSample := &ir.Program{
		Stage:    ir.StageVertex,
		Inputs:   []ir.Declaration{{Type: ir.Float4, Semantic: ir.SemanticTexCoord}},
		Outputs:  []ir.Declaration{{Type: ir.Float4, Semantic: ir.SemanticSystemPosition}},
		Textures: []ir.Declaration{{Type: ir.Texture2D}},
		Expressions: []ir.Expression{
			{Kind: ir.ExprSymbol{Ref: ir.SymbolRef{Category: ir.CategoryTexture}}, Type: ir.Texture2D},
			{Kind: ir.ExprSymbol{Ref: inRef}, Type: ir.Float4},
			{Kind: ir.ExprSwizzle{Size: 2, Vector: 1, Pattern: [4]ir.SwizzleComponent{ir.SwizzleX, ir.SwizzleY}}, Type: ir.Float2},
			{Kind: ir.ExprSample{Texture: 0, Coordinate: 2}, Type: ir.Float4},
		},
		Body: []ir.Assignment{{Target: outRef, Value: 3}},
	}

	tests := []struct {
		name string
		p    *ir.Program
		want ErrorKind
	}{
		{"nil", nil, ErrInvalidProgram},
		{"unassigned output", unassigned, ErrUnassignedOutput},
		{"position out of pixel stage", pixelPosition, ErrUnsupportedSemantic},
		{"color out of vertex stage", vertexColor, ErrUnsupportedSemantic},
		{"invalid ir", invalid, ErrInvalidProgram},
		{"cycle", cyclicProgram(), ErrDependencyCycle},
		{"vertex sample", vertexSample, ErrUnsupportedExpression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare("test", tt.p)
			var genErr *Error
			if !errors.As(err, &genErr) {
				t.Fatalf("expected *codegen.Error, got %v", err)
			}
			if genErr.Kind != tt.want {
				t.Errorf("kind = %s, want %s (%v)", genErr.Kind, tt.want, err)
			}
			if genErr.Language != "test" {
				t.Errorf("language = %q", genErr.Language)
			}
		})
	}
}

func TestPrepareInvalidWrapsIRError(t *testing.T) {
	p := outOfOrderProgram()
	p.Expressions[2].Type = ir.Float2
	_, err := Prepare("test", p)
	var irErr *ir.Error
	if !errors.As(err, &irErr) {
		t.Fatalf("expected wrapped *ir.Error in %v", err)
	}
}

func TestRepresentable(t *testing.T) {
	tests := []struct {
		stage ir.Stage
		cat   ir.Category
		sem   ir.Semantic
		want  bool
	}{
		{ir.StageVertex, ir.CategoryInput, ir.SemanticPosition, true},
		{ir.StageVertex, ir.CategoryOutput, ir.SemanticTexCoord, true},
		{ir.StagePixel, ir.CategoryInput, ir.SemanticTexCoord, true},
		{ir.StagePixel, ir.CategoryOutput, ir.SemanticTexCoord, false},
		{ir.StageVertex, ir.CategoryOutput, ir.SemanticSystemPosition, true},
		{ir.StagePixel, ir.CategoryInput, ir.SemanticSystemPosition, true},
		{ir.StageVertex, ir.CategoryInput, ir.SemanticSystemPosition, false},
		{ir.StagePixel, ir.CategoryOutput, ir.SemanticSystemColor, true},
		{ir.StagePixel, ir.CategoryInput, ir.SemanticSystemColor, false},
		{ir.StageVertex, ir.CategoryOutput, ir.SemanticSystemColor, false},
		{ir.StageVertex, ir.CategoryInput, ir.SemanticNone, false},
	}
	for _, tt := range tests {
		if got := Representable(tt.stage, tt.cat, tt.sem); got != tt.want {
			t.Errorf("Representable(%s, %s, %s) = %v, want %v", tt.stage, tt.cat, tt.sem, got, tt.want)
		}
	}
}

func TestLocations(t *testing.T) {
	decls := []ir.Declaration{
		{Semantic: ir.SemanticSystemPosition},
		{Semantic: ir.SemanticTexCoord, SemanticIndex: 0},
		{Semantic: ir.SemanticTexCoord, SemanticIndex: 1},
	}
	if got, want := Locations(decls), []int{-1, 0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Locations = %v, want %v", got, want)
	}
}

func TestInterStageLocation(t *testing.T) {
	tests := []struct {
		d    ir.Declaration
		want int
		ok   bool
	}{
		{ir.Declaration{Semantic: ir.SemanticSystemPosition}, -1, true},
		{ir.Declaration{Semantic: ir.SemanticTexCoord, SemanticIndex: 0}, 0, true},
		{ir.Declaration{Semantic: ir.SemanticTexCoord, SemanticIndex: 7}, 7, true},
		{ir.Declaration{Semantic: ir.SemanticPosition}, PositionLocation, true},
		{ir.Declaration{Semantic: ir.SemanticTexCoord, SemanticIndex: PositionLocation}, 0, false},
	}
	for _, tt := range tests {
		got, ok := InterStageLocation(tt.d)
		if got != tt.want || ok != tt.ok {
			t.Errorf("InterStageLocation(%s%d) = %d, %v, want %d, %v",
				tt.d.Semantic, tt.d.SemanticIndex, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float32]string{
		1:    "1.0",
		0:    "0.0",
		0.5:  "0.5",
		-2:   "-2.0",
		1e20: "1e+20",
	}
	for f, want := range tests {
		if got := FormatFloat(f); got != want {
			t.Errorf("FormatFloat(%v) = %q, want %q", f, got, want)
		}
	}
}

func TestFlagsString(t *testing.T) {
	if got := Flags(0).String(); got != "none" {
		t.Errorf("got %q", got)
	}
	if got := FlagCombinedSamplerTexture.String(); got != "combined-sampler-texture" {
		t.Errorf("got %q", got)
	}
}
