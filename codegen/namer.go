package codegen

import (
	"fmt"
	"strings"
)

// Namer hands out the global identifiers of one generated program.
//
// Names the generator emits itself are reserved up front. A requested name
// that is a keyword of the target language is escaped with a leading
// underscore, and a name already taken gets a numeric suffix. The result
// depends only on the order of the calls.
type Namer struct {
	keyword  func(string) bool
	foldCase bool
	used     map[string]struct{}
	counter  int
}

// NewNamer returns a Namer for a language whose reserved words are reported
// by keyword. With foldCase, names that differ only in case collide.
func NewNamer(keyword func(string) bool, foldCase bool) *Namer {
	return &Namer{
		keyword:  keyword,
		foldCase: foldCase,
		used:     make(map[string]struct{}),
	}
}

func (n *Namer) key(name string) string {
	if n.foldCase {
		return strings.ToLower(name)
	}
	return name
}

// Reserve marks names as taken without returning them.
func (n *Namer) Reserve(names ...string) {
	for _, name := range names {
		n.used[n.key(name)] = struct{}{}
	}
}

// Taken reports whether name is a keyword or already handed out.
func (n *Namer) Taken(name string) bool {
	if n.keyword(name) {
		return true
	}
	_, ok := n.used[n.key(name)]
	return ok
}

// Call returns a unique identifier derived from base.
func (n *Namer) Call(base string) string {
	escaped := base
	if n.keyword(escaped) {
		escaped = "_" + escaped
	}
	name := escaped
	for n.Taken(name) {
		n.counter++
		name = fmt.Sprintf("%s_%d", escaped, n.counter)
	}
	n.used[n.key(name)] = struct{}{}
	return name
}

// ReserveGenerated reserves every global name a generator derives from p
// besides its uniforms: the entry point, the stage structs and their
// parameter names, temporaries, textures and samplers.
func (n *Namer) ReserveGenerated(entry string, structs []string, temporaries int, slots []uint32) {
	n.Reserve(entry, "input", "output")
	n.Reserve(structs...)
	for i := range temporaries {
		n.Reserve(TemporaryName(i))
	}
	for _, slot := range slots {
		n.Reserve(TextureName(slot), SamplerName(slot))
	}
}
