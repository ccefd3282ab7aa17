package codegen

import (
	"github.com/gogpu/ffshader/ir"
)

// Schedule returns the indices of p.Body in an order where every statement
// follows the statements that assign the outputs and temporaries it reads.
//
// The order is a stable topological sort: among the statements whose
// dependencies are satisfied, the one with the smallest body index is emitted
// first. A body that is already in dependency order is returned unchanged.
func Schedule(p *ir.Program) ([]int, error) {
	return schedule("", p)
}

func schedule(lang string, p *ir.Program) ([]int, error) {
	n := len(p.Body)
	deps := make([][]int, n)
	for i, a := range p.Body {
		for _, ref := range p.Reads(a.Value) {
			w, ok := p.Writer(ref)
			if !ok {
				return nil, NewError(lang, p.Stage, ErrInvalidProgram,
					"statement %d reads %s %d, which is never assigned", i, ref.Category, ref.Index)
			}
			deps[i] = append(deps[i], w)
		}
	}

	order := make([]int, 0, n)
	emitted := make([]bool, n)
	for len(order) < n {
		next := -1
		for i := 0; i < n && next < 0; i++ {
			if emitted[i] {
				continue
			}
			ready := true
			for _, d := range deps[i] {
				if !emitted[d] {
					ready = false
					break
				}
			}
			if ready {
				next = i
			}
		}
		if next < 0 {
			var stuck []int
			for i := 0; i < n; i++ {
				if !emitted[i] {
					stuck = append(stuck, i)
				}
			}
			return nil, NewError(lang, p.Stage, ErrDependencyCycle, "statements %v depend on each other", stuck)
		}
		emitted[next] = true
		order = append(order, next)
	}
	return order, nil
}
