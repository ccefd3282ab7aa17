package ir

// ExpressionHandle indexes Program.Expressions.
type ExpressionHandle uint32

// Expression is a typed node in a program's expression arena.
type Expression struct {
	Kind ExpressionKind
	Type Type
}

// ExpressionKind is implemented by every expression variant.
type ExpressionKind interface {
	expressionKind()
}

// SymbolRef names a declaration by category and position in its list.
type SymbolRef struct {
	Category Category
	Index    uint32
}

// ExprSymbol reads a declared input, output, uniform, texture or temporary.
type ExprSymbol struct {
	Ref SymbolRef
}

func (ExprSymbol) expressionKind() {}

// ExprConstant is a float scalar or vector literal with 1 to 4 components.
type ExprConstant struct {
	Values []float32
}

func (ExprConstant) expressionKind() {}

// BinaryOp is an arithmetic operator.
type BinaryOp uint8

const (
	// OpMultiply is elementwise for vectors and matrix-times-column-vector
	// when the left operand is a Matrix44.
	OpMultiply BinaryOp = iota
	OpAdd
)

// String returns the operator symbol.
func (op BinaryOp) String() string {
	switch op {
	case OpMultiply:
		return "*"
	case OpAdd:
		return "+"
	default:
		return "?"
	}
}

// ExprBinary applies a binary operator.
type ExprBinary struct {
	Op    BinaryOp
	Left  ExpressionHandle
	Right ExpressionHandle
}

func (ExprBinary) expressionKind() {}

// SwizzleComponent selects one vector component.
type SwizzleComponent uint8

const (
	SwizzleX SwizzleComponent = 0
	SwizzleY SwizzleComponent = 1
	SwizzleZ SwizzleComponent = 2
	SwizzleW SwizzleComponent = 3
)

// ExprSwizzle selects Size components of Vector in Pattern order.
type ExprSwizzle struct {
	Size    uint8
	Vector  ExpressionHandle
	Pattern [4]SwizzleComponent
}

func (ExprSwizzle) expressionKind() {}

// Components returns the active part of the pattern.
func (s ExprSwizzle) Components() []SwizzleComponent {
	return s.Pattern[:s.Size]
}

// ExprConstruct builds a vector from scalars and smaller vectors. The
// component counts of the parts add up to the result type's.
type ExprConstruct struct {
	Components []ExpressionHandle
}

func (ExprConstruct) expressionKind() {}

// ExprSample samples a Texture2D at a Float2 coordinate, yielding a Float4.
type ExprSample struct {
	Texture    ExpressionHandle
	Coordinate ExpressionHandle
}

func (ExprSample) expressionKind() {}

// Operands returns the handles an expression reads, in evaluation order.
func Operands(kind ExpressionKind) []ExpressionHandle {
	switch e := kind.(type) {
	case ExprBinary:
		return []ExpressionHandle{e.Left, e.Right}
	case ExprSwizzle:
		return []ExpressionHandle{e.Vector}
	case ExprConstruct:
		return e.Components
	case ExprSample:
		return []ExpressionHandle{e.Texture, e.Coordinate}
	default:
		return nil
	}
}

// binaryResult returns the type of op applied to l and r, or TypeInvalid.
func binaryResult(op BinaryOp, l, r Type) Type {
	switch {
	case op == OpMultiply && l == Matrix44 && r == Float4:
		return Float4
	case !l.IsNumeric() || !r.IsNumeric():
		return TypeInvalid
	case l == r:
		return l
	case l == Float:
		return r
	case r == Float:
		return l
	default:
		return TypeInvalid
	}
}

// swizzleComponent maps a pattern letter to its component.
func swizzleComponent(c byte) (SwizzleComponent, bool) {
	switch c {
	case 'x', 'r':
		return SwizzleX, true
	case 'y', 'g':
		return SwizzleY, true
	case 'z', 'b':
		return SwizzleZ, true
	case 'w', 'a':
		return SwizzleW, true
	default:
		return 0, false
	}
}

// SwizzleLetters renders swizzle components as "xyzw" letters.
func SwizzleLetters(components []SwizzleComponent) string {
	const letters = "xyzw"
	buf := make([]byte, len(components))
	for i, c := range components {
		buf[i] = letters[c&3]
	}
	return string(buf)
}
