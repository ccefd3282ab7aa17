package fixedfunc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ffshader/caps"
	"github.com/gogpu/ffshader/ir"
)

func build(t *testing.T, stage ir.Stage, set caps.Set) *ir.Program {
	t.Helper()
	p, err := Build(stage, set)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

// assigned returns the expression stored into ref.
func assigned(t *testing.T, p *ir.Program, ref ir.SymbolRef) ir.Expression {
	t.Helper()
	i, ok := p.Writer(ref)
	require.True(t, ok, "%v not assigned", ref)
	e, ok := p.Expression(p.Body[i].Value)
	require.True(t, ok)
	return e
}

func output(i uint32) ir.SymbolRef { return ir.SymbolRef{Category: ir.CategoryOutput, Index: i} }

func TestCompleteness(t *testing.T) {
	for _, set := range caps.Supported() {
		for _, stage := range ir.Stages {
			t.Run(stage.String()+"/"+set.String(), func(t *testing.T) {
				p := build(t, stage, set)
				require.NoError(t, ir.Validate(p))
				for i := range p.Outputs {
					count := 0
					for _, a := range p.Body {
						if a.Target == output(uint32(i)) {
							count++
						}
					}
					assert.Equal(t, 1, count, "output %d assignments", i)
				}
			})
		}
	}
}

func TestDeterminism(t *testing.T) {
	for _, set := range caps.Supported() {
		for _, stage := range ir.Stages {
			a := build(t, stage, set)
			b := build(t, stage, set)
			assert.Equal(t, a, b, "%s/%s differs between builds", stage, set)
		}
	}
}

func TestConcurrentBuilds(t *testing.T) {
	want := build(t, ir.StagePixel, caps.Texture)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := BuildPixel(caps.Texture)
			if assert.NoError(t, err) {
				assert.Equal(t, want, p)
			}
		}()
	}
	wg.Wait()
}

func TestVertexDeclarations(t *testing.T) {
	for _, set := range caps.Supported() {
		p := build(t, ir.StageVertex, set)

		require.Len(t, p.Inputs, 3)
		assert.Equal(t, ir.SemanticPosition, p.Inputs[0].Semantic)
		assert.Equal(t, ir.SemanticTexCoord, p.Inputs[1].Semantic)
		assert.Equal(t, uint32(TexCoordIndex), p.Inputs[1].SemanticIndex)
		assert.Equal(t, ir.SemanticTexCoord, p.Inputs[2].Semantic)
		assert.Equal(t, uint32(ColorIndex), p.Inputs[2].SemanticIndex)

		require.Len(t, p.Outputs, 3)
		assert.Equal(t, ir.SemanticSystemPosition, p.Outputs[0].Semantic)
		assert.Equal(t, uint32(TexCoordIndex), p.Outputs[1].SemanticIndex)
		assert.Equal(t, uint32(ColorIndex), p.Outputs[2].SemanticIndex)

		require.Len(t, p.Uniforms, 1)
		assert.Equal(t, ProjectionMatrix, p.Uniforms[0].Name)
		assert.Empty(t, p.Textures)
		assert.Empty(t, p.Temporaries)
	}
}

func TestVertexPositionTransform(t *testing.T) {
	p := build(t, ir.StageVertex, 0)

	mul, ok := assigned(t, p, output(0)).Kind.(ir.ExprBinary)
	require.True(t, ok, "position is not a binary expression")
	assert.Equal(t, ir.OpMultiply, mul.Op)

	proj, ok := p.Expressions[mul.Left].Kind.(ir.ExprSymbol)
	require.True(t, ok)
	assert.Equal(t, ir.SymbolRef{Category: ir.CategoryUniform}, proj.Ref)

	construct, ok := p.Expressions[mul.Right].Kind.(ir.ExprConstruct)
	require.True(t, ok, "right operand is not a constructor")
	require.Len(t, construct.Components, 2)

	xyz, ok := p.Expressions[construct.Components[0]].Kind.(ir.ExprSwizzle)
	require.True(t, ok)
	assert.Equal(t, "xyz", ir.SwizzleLetters(xyz.Components()))
	pos, ok := p.Expressions[xyz.Vector].Kind.(ir.ExprSymbol)
	require.True(t, ok)
	assert.Equal(t, ir.SymbolRef{Category: ir.CategoryInput, Index: 0}, pos.Ref)

	one, ok := p.Expressions[construct.Components[1]].Kind.(ir.ExprConstant)
	require.True(t, ok)
	assert.Equal(t, []float32{1}, one.Values)
}

func TestVertexPassThrough(t *testing.T) {
	p := build(t, ir.StageVertex, caps.Texture)
	for out, in := range map[uint32]uint32{1: 1, 2: 2} {
		sw, ok := assigned(t, p, output(out)).Kind.(ir.ExprSwizzle)
		require.True(t, ok)
		assert.Equal(t, "xyzw", ir.SwizzleLetters(sw.Components()))
		sym, ok := p.Expressions[sw.Vector].Kind.(ir.ExprSymbol)
		require.True(t, ok)
		assert.Equal(t, ir.SymbolRef{Category: ir.CategoryInput, Index: in}, sym.Ref)
	}
}

func TestPixelDeclarationsIndependentOfCaps(t *testing.T) {
	plain := build(t, ir.StagePixel, 0)
	textured := build(t, ir.StagePixel, caps.Texture)
	for _, c := range []ir.Category{ir.CategoryInput, ir.CategoryOutput, ir.CategoryUniform, ir.CategoryTexture, ir.CategoryTemporary} {
		assert.Equal(t, plain.Declarations(c), textured.Declarations(c), "%s declarations", c)
	}
	require.Len(t, plain.Textures, 1)
	assert.Equal(t, uint32(TextureSlot), plain.Textures[0].Slot)
	require.Len(t, plain.Temporaries, 1)
	assert.Equal(t, ir.Float4, plain.Temporaries[0].Type)
	require.Len(t, plain.Outputs, 1)
	assert.Equal(t, ir.SemanticSystemColor, plain.Outputs[0].Semantic)
}

func TestPixelWithoutTexture(t *testing.T) {
	p := build(t, ir.StagePixel, 0)
	assert.False(t, p.HasSample(), "untextured pixel program samples")

	temp := ir.SymbolRef{Category: ir.CategoryTemporary}
	c, ok := assigned(t, p, temp).Kind.(ir.ExprConstant)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 1, 1, 1}, c.Values)

	assertModulates(t, p)
}

func TestPixelWithTexture(t *testing.T) {
	p := build(t, ir.StagePixel, caps.Texture)
	require.True(t, p.HasSample())

	temp := ir.SymbolRef{Category: ir.CategoryTemporary}
	sample, ok := assigned(t, p, temp).Kind.(ir.ExprSample)
	require.True(t, ok)

	tex, ok := p.Expressions[sample.Texture].Kind.(ir.ExprSymbol)
	require.True(t, ok)
	assert.Equal(t, ir.CategoryTexture, tex.Ref.Category)

	xy, ok := p.Expressions[sample.Coordinate].Kind.(ir.ExprSwizzle)
	require.True(t, ok)
	assert.Equal(t, "xy", ir.SwizzleLetters(xy.Components()))
	coord, ok := p.Expressions[xy.Vector].Kind.(ir.ExprSymbol)
	require.True(t, ok)
	assert.Equal(t, ir.SymbolRef{Category: ir.CategoryInput, Index: 0}, coord.Ref)

	assertModulates(t, p)
}

// assertModulates checks outColor = inColor * temp.
func assertModulates(t *testing.T, p *ir.Program) {
	t.Helper()
	mul, ok := assigned(t, p, output(0)).Kind.(ir.ExprBinary)
	require.True(t, ok)
	assert.Equal(t, ir.OpMultiply, mul.Op)
	l, ok := p.Expressions[mul.Left].Kind.(ir.ExprSymbol)
	require.True(t, ok)
	assert.Equal(t, ir.SymbolRef{Category: ir.CategoryInput, Index: 1}, l.Ref)
	r, ok := p.Expressions[mul.Right].Kind.(ir.ExprSymbol)
	require.True(t, ok)
	assert.Equal(t, ir.SymbolRef{Category: ir.CategoryTemporary}, r.Ref)
}

func TestReservedBits(t *testing.T) {
	for _, stage := range ir.Stages {
		_, err := Build(stage, caps.Set(1<<7))
		assert.ErrorIs(t, err, caps.ErrUnsupported)
	}
}

func TestUnknownStage(t *testing.T) {
	_, err := Build(ir.Stage(9), 0)
	assert.Error(t, err)
}
