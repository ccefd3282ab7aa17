// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ir

// Value is a typed expression produced by a Builder.
// The zero Value is invalid.
type Value struct {
	handle ExpressionHandle
	typ    Type
	owner  *Builder
}

// Handle returns the expression handle in the builder's arena.
func (v Value) Handle() ExpressionHandle { return v.handle }

// Type returns the value's type, or TypeInvalid after a construction error.
func (v Value) Type() Type { return v.typ }

// Valid reports whether the value came from a successful construction.
func (v Value) Valid() bool { return v.owner != nil && v.typ != TypeInvalid }

func (v Value) operand(*Builder) Value { return v }

// Lvalue is an assignable reference to a declared input, output or
// temporary. Reading an input is always allowed; outputs and temporaries
// must be assigned before they are read, and are assigned exactly once.
type Lvalue struct {
	ref   SymbolRef
	typ   Type
	owner *Builder
}

// Ref returns the declaration the lvalue refers to.
func (l Lvalue) Ref() SymbolRef { return l.ref }

// Type returns the declared type.
func (l Lvalue) Type() Type { return l.typ }

// Value reads the lvalue through its builder. It is Builder.Load(l).
func (l Lvalue) Value() Value {
	if l.owner == nil {
		return Value{}
	}
	return l.owner.Load(l)
}

func (l Lvalue) operand(b *Builder) Value { return b.Load(l) }

// Operand is a Value or an Lvalue. Lvalues are read implicitly.
type Operand interface {
	operand(b *Builder) Value
}

// Builder assembles one Program. It is an explicit context: nothing is
// shared between builders, so independent builds may run on different
// goroutines. A single Builder is not safe for concurrent use.
//
// Errors are sticky. The first invariant violation is recorded, every later
// call returns an invalid Value, and Finish reports the recorded error.
type Builder struct {
	prog     *Program
	assigned map[SymbolRef]bool
	err      *Error
	done     bool
}

// NewBuilder returns a builder for a program of the given stage.
func NewBuilder(stage Stage) *Builder {
	return &Builder{
		prog:     &Program{Stage: stage},
		assigned: make(map[SymbolRef]bool),
	}
}

// Stage returns the stage being built.
func (b *Builder) Stage() Stage { return b.prog.Stage }

// Err returns the first recorded construction error, if any.
func (b *Builder) Err() error {
	if b.err == nil {
		return nil
	}
	return b.err
}

func (b *Builder) fail(kind ErrorKind, format string, args ...any) Value {
	if b.err == nil {
		b.err = newError(b.prog.Stage, kind, format, args...)
	}
	return Value{}
}

// usable reports whether construction may continue.
func (b *Builder) usable() bool {
	if b.done {
		b.fail(ErrFinished, "builder used after Finish")
		return false
	}
	return b.err == nil
}

func (b *Builder) appendDecl(c Category, d Declaration) SymbolRef {
	p := b.prog
	var index int
	switch c {
	case CategoryInput:
		index = len(p.Inputs)
		p.Inputs = append(p.Inputs, d)
	case CategoryOutput:
		index = len(p.Outputs)
		p.Outputs = append(p.Outputs, d)
	case CategoryUniform:
		index = len(p.Uniforms)
		p.Uniforms = append(p.Uniforms, d)
	case CategoryTexture:
		index = len(p.Textures)
		p.Textures = append(p.Textures, d)
	case CategoryTemporary:
		index = len(p.Temporaries)
		p.Temporaries = append(p.Temporaries, d)
	}
	return SymbolRef{Category: c, Index: uint32(index)}
}

func (b *Builder) emit(kind ExpressionKind, t Type) Value {
	h := ExpressionHandle(len(b.prog.Expressions))
	b.prog.Expressions = append(b.prog.Expressions, Expression{Kind: kind, Type: t})
	return Value{handle: h, typ: t, owner: b}
}

// resolve turns an operand into a value owned by b.
func (b *Builder) resolve(op Operand) (Value, bool) {
	if op == nil {
		b.fail(ErrInvalidHandle, "nil operand")
		return Value{}, false
	}
	v := op.operand(b)
	if b.err != nil {
		return Value{}, false
	}
	if v.owner != b || v.typ == TypeInvalid {
		b.fail(ErrInvalidHandle, "operand does not belong to this builder")
		return Value{}, false
	}
	return v, true
}

// CreateInput declares a Float4 stage input bound to a semantic.
func (b *Builder) CreateInput(sem Semantic, index uint32) Lvalue {
	return b.declareIO(CategoryInput, sem, index)
}

// CreateOutput declares a Float4 stage output bound to a semantic.
func (b *Builder) CreateOutput(sem Semantic, index uint32) Lvalue {
	return b.declareIO(CategoryOutput, sem, index)
}

func (b *Builder) declareIO(c Category, sem Semantic, index uint32) Lvalue {
	if !b.usable() {
		return Lvalue{}
	}
	if sem == SemanticNone {
		b.fail(ErrInvalidSemantic, "%s declared without a semantic", c)
		return Lvalue{}
	}
	if !sem.Indexed() && index != 0 {
		b.fail(ErrInvalidSemantic, "%s %s does not take an index (got %d)", c, sem, index)
		return Lvalue{}
	}
	for _, d := range b.prog.Declarations(c) {
		if d.Semantic == sem && d.SemanticIndex == index {
			b.fail(ErrDuplicateSemantic, "%s %s%d declared twice", c, sem, index)
			return Lvalue{}
		}
	}
	ref := b.appendDecl(c, Declaration{Type: Float4, Semantic: sem, SemanticIndex: index})
	return Lvalue{ref: ref, typ: Float4, owner: b}
}

// CreateUniformMatrix declares a 4x4 matrix uniform. The name is normalized
// to Unicode NFC and must then be an ASCII identifier.
func (b *Builder) CreateUniformMatrix(name string) Value {
	if !b.usable() {
		return Value{}
	}
	normalized, ok := normalizeName(name)
	if !ok {
		return b.fail(ErrInvalidName, "uniform name %q is not an identifier", name)
	}
	for _, d := range b.prog.Uniforms {
		if d.Name == normalized {
			return b.fail(ErrDuplicateBinding, "uniform %q declared twice", normalized)
		}
	}
	ref := b.appendDecl(CategoryUniform, Declaration{Type: Matrix44, Name: normalized})
	return b.emit(ExprSymbol{Ref: ref}, Matrix44)
}

// CreateTexture2D declares a 2D texture bound to a texture unit.
func (b *Builder) CreateTexture2D(slot uint32) Value {
	if !b.usable() {
		return Value{}
	}
	for _, d := range b.prog.Textures {
		if d.Slot == slot {
			return b.fail(ErrDuplicateBinding, "texture slot %d declared twice", slot)
		}
	}
	ref := b.appendDecl(CategoryTexture, Declaration{Type: Texture2D, Slot: slot})
	return b.emit(ExprSymbol{Ref: ref}, Texture2D)
}

// CreateTemporary declares a temporary of a scalar or vector type.
func (b *Builder) CreateTemporary(t Type) Lvalue {
	if !b.usable() {
		return Lvalue{}
	}
	if !t.IsNumeric() {
		b.fail(ErrTypeMismatch, "temporary of type %s", t)
		return Lvalue{}
	}
	ref := b.appendDecl(CategoryTemporary, Declaration{Type: t})
	return Lvalue{ref: ref, typ: t, owner: b}
}

// Load reads an lvalue.
func (b *Builder) Load(l Lvalue) Value {
	if !b.usable() {
		return Value{}
	}
	if l.owner != b {
		return b.fail(ErrInvalidHandle, "lvalue does not belong to this builder")
	}
	if l.ref.Category.Assignable() && !b.assigned[l.ref] {
		return b.fail(ErrUnassignedRead, "%s %d read before assignment", l.ref.Category, l.ref.Index)
	}
	return b.emit(ExprSymbol{Ref: l.ref}, l.typ)
}

// Assign stores v into l. Each output and temporary is assigned once.
func (b *Builder) Assign(l Lvalue, v Operand) {
	if !b.usable() {
		return
	}
	if l.owner != b {
		b.fail(ErrInvalidHandle, "lvalue does not belong to this builder")
		return
	}
	if !l.ref.Category.Assignable() {
		b.fail(ErrNotAssignable, "cannot assign %s %d", l.ref.Category, l.ref.Index)
		return
	}
	if b.assigned[l.ref] {
		b.fail(ErrDuplicateAssignment, "%s %d assigned twice", l.ref.Category, l.ref.Index)
		return
	}
	val, ok := b.resolve(v)
	if !ok {
		return
	}
	if val.typ != l.typ {
		b.fail(ErrTypeMismatch, "cannot assign %s to %s %s %d", val.typ, l.typ, l.ref.Category, l.ref.Index)
		return
	}
	b.prog.Body = append(b.prog.Body, Assignment{Target: l.ref, Value: val.handle})
	b.assigned[l.ref] = true
}

// Constant returns a float literal with 1 to 4 components.
func (b *Builder) Constant(values ...float32) Value {
	if !b.usable() {
		return Value{}
	}
	t := VectorOf(len(values))
	if t == TypeInvalid {
		return b.fail(ErrTypeMismatch, "constant with %d components", len(values))
	}
	for i, v := range values {
		if !finite(v) {
			return b.fail(ErrInvalidConstant, "constant component %d is %v", i, v)
		}
	}
	return b.emit(ExprConstant{Values: append([]float32(nil), values...)}, t)
}

// NewFloat4 returns a Float4 literal.
func (b *Builder) NewFloat4(x, y, z, w float32) Value {
	return b.Constant(x, y, z, w)
}

// Construct builds a vector of type t from scalars and vectors whose
// component counts add up to t's.
func (b *Builder) Construct(t Type, parts ...Operand) Value {
	if !b.usable() {
		return Value{}
	}
	if !t.IsNumeric() {
		return b.fail(ErrTypeMismatch, "cannot construct %s", t)
	}
	handles := make([]ExpressionHandle, 0, len(parts))
	total := 0
	for _, part := range parts {
		v, ok := b.resolve(part)
		if !ok {
			return Value{}
		}
		if !v.typ.IsNumeric() {
			return b.fail(ErrTypeMismatch, "cannot use %s in a %s constructor", v.typ, t)
		}
		total += v.typ.Components()
		handles = append(handles, v.handle)
	}
	if total != t.Components() {
		return b.fail(ErrTypeMismatch, "%s constructor given %d components", t, total)
	}
	return b.emit(ExprConstruct{Components: handles}, t)
}

// Swizzle selects components of v. The pattern uses "xyzw" or "rgba"
// letters, e.g. "xyz" or "wzyx".
func (b *Builder) Swizzle(v Operand, pattern string) Value {
	if !b.usable() {
		return Value{}
	}
	src, ok := b.resolve(v)
	if !ok {
		return Value{}
	}
	n := src.typ.Components()
	if n == 0 {
		return b.fail(ErrInvalidSwizzle, "cannot swizzle %s", src.typ)
	}
	if len(pattern) == 0 || len(pattern) > 4 {
		return b.fail(ErrInvalidSwizzle, "swizzle %q must select 1 to 4 components", pattern)
	}
	sw := ExprSwizzle{Size: uint8(len(pattern)), Vector: src.handle}
	for i := 0; i < len(pattern); i++ {
		c, ok := swizzleComponent(pattern[i])
		if !ok || int(c) >= n {
			return b.fail(ErrInvalidSwizzle, "swizzle %q out of range for %s", pattern, src.typ)
		}
		sw.Pattern[i] = c
	}
	return b.emit(sw, VectorOf(len(pattern)))
}

// XYZ selects the first three components.
func (b *Builder) XYZ(v Operand) Value { return b.Swizzle(v, "xyz") }

// XY selects the first two components.
func (b *Builder) XY(v Operand) Value { return b.Swizzle(v, "xy") }

// XYZW selects all four components.
func (b *Builder) XYZW(v Operand) Value { return b.Swizzle(v, "xyzw") }

// Mul multiplies elementwise, broadcasts a scalar, or applies a Matrix44 to
// a Float4 column vector.
func (b *Builder) Mul(l, r Operand) Value {
	return b.binary(OpMultiply, l, r)
}

// Add adds elementwise or broadcasts a scalar.
func (b *Builder) Add(l, r Operand) Value {
	return b.binary(OpAdd, l, r)
}

func (b *Builder) binary(op BinaryOp, l, r Operand) Value {
	if !b.usable() {
		return Value{}
	}
	lv, ok := b.resolve(l)
	if !ok {
		return Value{}
	}
	rv, ok := b.resolve(r)
	if !ok {
		return Value{}
	}
	t := binaryResult(op, lv.typ, rv.typ)
	if t == TypeInvalid {
		return b.fail(ErrTypeMismatch, "%s %s %s", lv.typ, op, rv.typ)
	}
	return b.emit(ExprBinary{Op: op, Left: lv.handle, Right: rv.handle}, t)
}

// Sample reads tex at a Float2 coordinate.
func (b *Builder) Sample(tex, coord Operand) Value {
	if !b.usable() {
		return Value{}
	}
	tv, ok := b.resolve(tex)
	if !ok {
		return Value{}
	}
	cv, ok := b.resolve(coord)
	if !ok {
		return Value{}
	}
	if tv.typ != Texture2D || cv.typ != Float2 {
		return b.fail(ErrTypeMismatch, "sample(%s, %s)", tv.typ, cv.typ)
	}
	return b.emit(ExprSample{Texture: tv.handle, Coordinate: cv.handle}, Float4)
}

// Finish completes the program. It fails if any construction error was
// recorded or an output was never assigned. The builder cannot be used
// afterwards.
func (b *Builder) Finish() (*Program, error) {
	if !b.usable() {
		return nil, b.err
	}
	for i := range b.prog.Outputs {
		ref := SymbolRef{Category: CategoryOutput, Index: uint32(i)}
		if !b.assigned[ref] {
			d := b.prog.Outputs[i]
			b.fail(ErrUnassignedOutput, "output %s%d never assigned", d.Semantic, d.SemanticIndex)
			return nil, b.err
		}
	}
	b.done = true
	return b.prog, nil
}
