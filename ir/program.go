package ir

// Declaration describes one entry of a program's declaration lists.
// Only the fields relevant to the entry's category are set.
type Declaration struct {
	Type Type

	// Semantic and SemanticIndex bind inputs and outputs to pipeline slots.
	Semantic      Semantic
	SemanticIndex uint32

	// Name identifies a uniform to the host.
	Name string

	// Slot is the texture unit of a texture declaration.
	Slot uint32
}

// Assignment stores the value of an expression into an output or temporary.
type Assignment struct {
	Target SymbolRef
	Value  ExpressionHandle
}

// Program is the IR of one shader stage.
//
// Declaration order within each list is significant: it is the binding-slot
// order used by backends, and it is stable for a given capability set.
type Program struct {
	Stage Stage

	Inputs      []Declaration
	Outputs     []Declaration
	Uniforms    []Declaration
	Textures    []Declaration
	Temporaries []Declaration

	Expressions []Expression
	Body        []Assignment
}

// Declarations returns the declaration list of a category.
func (p *Program) Declarations(c Category) []Declaration {
	switch c {
	case CategoryInput:
		return p.Inputs
	case CategoryOutput:
		return p.Outputs
	case CategoryUniform:
		return p.Uniforms
	case CategoryTexture:
		return p.Textures
	case CategoryTemporary:
		return p.Temporaries
	default:
		return nil
	}
}

// Declaration returns the declaration named by ref.
func (p *Program) Declaration(ref SymbolRef) (Declaration, bool) {
	decls := p.Declarations(ref.Category)
	if int(ref.Index) >= len(decls) {
		return Declaration{}, false
	}
	return decls[ref.Index], true
}

// Expression returns the expression at handle h.
func (p *Program) Expression(h ExpressionHandle) (Expression, bool) {
	if int(h) >= len(p.Expressions) {
		return Expression{}, false
	}
	return p.Expressions[h], true
}

// Reads returns the assignable symbols (outputs and temporaries) that the
// expression tree rooted at h reads, in first-use order without duplicates.
// Inputs, uniforms and textures are omitted: they are available before the
// body runs.
func (p *Program) Reads(h ExpressionHandle) []SymbolRef {
	var refs []SymbolRef
	seen := make(map[SymbolRef]bool)
	visited := make(map[ExpressionHandle]bool)
	var walk func(ExpressionHandle)
	walk = func(h ExpressionHandle) {
		if visited[h] {
			return
		}
		visited[h] = true
		expr, ok := p.Expression(h)
		if !ok {
			return
		}
		if sym, ok := expr.Kind.(ExprSymbol); ok {
			if sym.Ref.Category.Assignable() && !seen[sym.Ref] {
				seen[sym.Ref] = true
				refs = append(refs, sym.Ref)
			}
			return
		}
		for _, op := range Operands(expr.Kind) {
			walk(op)
		}
	}
	walk(h)
	return refs
}

// Writer returns the index in Body of the assignment to ref.
func (p *Program) Writer(ref SymbolRef) (int, bool) {
	for i, a := range p.Body {
		if a.Target == ref {
			return i, true
		}
	}
	return 0, false
}

// HasSample reports whether any expression samples a texture.
func (p *Program) HasSample() bool {
	for _, e := range p.Expressions {
		if _, ok := e.Kind.(ExprSample); ok {
			return true
		}
	}
	return false
}
