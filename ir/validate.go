package ir

import (
	"errors"
	"fmt"
	"math"
)

// Validate checks the structural invariants of a program built outside a
// Builder, or received from elsewhere. Programs returned by Builder.Finish
// always validate. All violations are reported, joined with errors.Join;
// each is an *Error.
func Validate(p *Program) error {
	if p == nil {
		return newError(0, ErrInvalidHandle, "nil program")
	}
	v := validator{p: p}
	v.declarations()
	v.expressions()
	v.body()
	return errors.Join(v.errs...)
}

type validator struct {
	p    *Program
	errs []error
}

func (v *validator) add(kind ErrorKind, format string, args ...any) {
	v.errs = append(v.errs, newError(v.p.Stage, kind, format, args...))
}

func (v *validator) declarations() {
	for _, c := range []Category{CategoryInput, CategoryOutput} {
		seen := make(map[string]bool)
		for i, d := range v.p.Declarations(c) {
			if d.Type != Float4 {
				v.add(ErrTypeMismatch, "%s %d has type %s", c, i, d.Type)
			}
			if d.Semantic == SemanticNone || (!d.Semantic.Indexed() && d.SemanticIndex != 0) {
				v.add(ErrInvalidSemantic, "%s %d has semantic %s%d", c, i, d.Semantic, d.SemanticIndex)
				continue
			}
			key := fmt.Sprintf("%s%d", d.Semantic, d.SemanticIndex)
			if seen[key] {
				v.add(ErrDuplicateSemantic, "%s %s declared twice", c, key)
			}
			seen[key] = true
		}
	}

	names := make(map[string]bool)
	for i, d := range v.p.Uniforms {
		if d.Type != Matrix44 {
			v.add(ErrTypeMismatch, "uniform %d has type %s", i, d.Type)
		}
		n, ok := normalizeName(d.Name)
		if !ok || n != d.Name {
			v.add(ErrInvalidName, "uniform %d has name %q", i, d.Name)
			continue
		}
		if names[n] {
			v.add(ErrDuplicateBinding, "uniform %q declared twice", n)
		}
		names[n] = true
	}

	slots := make(map[uint32]bool)
	for i, d := range v.p.Textures {
		if d.Type != Texture2D {
			v.add(ErrTypeMismatch, "texture %d has type %s", i, d.Type)
		}
		if slots[d.Slot] {
			v.add(ErrDuplicateBinding, "texture slot %d declared twice", d.Slot)
		}
		slots[d.Slot] = true
	}

	for i, d := range v.p.Temporaries {
		if !d.Type.IsNumeric() {
			v.add(ErrTypeMismatch, "temporary %d has type %s", i, d.Type)
		}
	}
}

func (v *validator) expressions() {
	for i, e := range v.p.Expressions {
		h := ExpressionHandle(i)
		ok := true
		for _, op := range Operands(e.Kind) {
			if op >= h {
				v.add(ErrInvalidHandle, "expression %d uses expression %d", h, op)
				ok = false
			}
		}
		if !ok {
			continue
		}
		want := v.typeOf(h, e)
		if want == TypeInvalid || want != e.Type {
			v.add(ErrTypeMismatch, "expression %d has type %s, operands give %s", h, e.Type, want)
		}
	}
}

// typeOf recomputes the type of an expression whose operands are in range.
func (v *validator) typeOf(h ExpressionHandle, e Expression) Type {
	exprs := v.p.Expressions
	switch k := e.Kind.(type) {
	case ExprSymbol:
		d, ok := v.p.Declaration(k.Ref)
		if !ok {
			v.add(ErrInvalidHandle, "expression %d reads missing %s %d", h, k.Ref.Category, k.Ref.Index)
			return TypeInvalid
		}
		return d.Type
	case ExprConstant:
		for i, c := range k.Values {
			if !finite(c) {
				v.add(ErrInvalidConstant, "expression %d component %d is %v", h, i, c)
			}
		}
		return VectorOf(len(k.Values))
	case ExprBinary:
		return binaryResult(k.Op, exprs[k.Left].Type, exprs[k.Right].Type)
	case ExprSwizzle:
		n := exprs[k.Vector].Type.Components()
		if k.Size == 0 || k.Size > 4 || n == 0 {
			return TypeInvalid
		}
		for _, c := range k.Components() {
			if int(c) >= n {
				v.add(ErrInvalidSwizzle, "expression %d selects component %d of %s", h, c, exprs[k.Vector].Type)
				return TypeInvalid
			}
		}
		return VectorOf(int(k.Size))
	case ExprConstruct:
		if !e.Type.IsNumeric() {
			return TypeInvalid
		}
		total := 0
		for _, c := range k.Components {
			if !exprs[c].Type.IsNumeric() {
				return TypeInvalid
			}
			total += exprs[c].Type.Components()
		}
		if total != e.Type.Components() {
			return TypeInvalid
		}
		return e.Type
	case ExprSample:
		if exprs[k.Texture].Type != Texture2D || exprs[k.Coordinate].Type != Float2 {
			return TypeInvalid
		}
		return Float4
	default:
		return TypeInvalid
	}
}

func (v *validator) body() {
	assigned := make(map[SymbolRef]bool)
	for i, a := range v.p.Body {
		d, ok := v.p.Declaration(a.Target)
		if !ok {
			v.add(ErrInvalidHandle, "statement %d assigns missing %s %d", i, a.Target.Category, a.Target.Index)
			continue
		}
		if !a.Target.Category.Assignable() {
			v.add(ErrNotAssignable, "statement %d assigns %s %d", i, a.Target.Category, a.Target.Index)
			continue
		}
		if assigned[a.Target] {
			v.add(ErrDuplicateAssignment, "%s %d assigned twice", a.Target.Category, a.Target.Index)
		}
		assigned[a.Target] = true
		e, ok := v.p.Expression(a.Value)
		if !ok {
			v.add(ErrInvalidHandle, "statement %d stores missing expression %d", i, a.Value)
			continue
		}
		if e.Type != d.Type {
			v.add(ErrTypeMismatch, "statement %d stores %s into %s", i, e.Type, d.Type)
		}
		for _, ref := range v.p.Reads(a.Value) {
			if _, ok := v.p.Writer(ref); !ok {
				v.add(ErrUnassignedRead, "statement %d reads %s %d, which is never assigned", i, ref.Category, ref.Index)
			}
		}
	}
	for i, d := range v.p.Outputs {
		if !assigned[SymbolRef{Category: CategoryOutput, Index: uint32(i)}] {
			v.add(ErrUnassignedOutput, "output %s%d never assigned", d.Semantic, d.SemanticIndex)
		}
	}
}

func finite(f float32) bool {
	return !math.IsInf(float64(f), 0) && !math.IsNaN(float64(f))
}
