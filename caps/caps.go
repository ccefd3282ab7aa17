// Package caps describes which optional fixed-function features are active
// for one draw configuration.
//
// A Set is a plain bit record. It is read once when shader programs are built
// and is the specialization key for every program derived from it: two equal
// sets always produce structurally identical programs, so callers can key
// compiled shaders by (stage, Set) alone.
//
//	set := caps.Set(0).With(caps.Texture)
//	if err := set.Validate(); err != nil {
//	    // reserved bits were set
//	}
package caps

import (
	"errors"
	"fmt"
	"strings"
)

// Set is a fixed-width capability bit record.
type Set uint32

// Capability flags.
const (
	// Texture enables modulation of the vertex color by a 2D texture
	// sampled at the interpolated texture coordinate.
	Texture Set = 1 << iota
)

// Mask covers every defined capability bit. Bits outside the mask are
// reserved and rejected by Validate.
const Mask = Texture

// ErrUnsupported is returned when a Set carries reserved bits or a name
// cannot be parsed.
var ErrUnsupported = errors.New("caps: unsupported capability")

// flagNames lists defined flags in bit order.
var flagNames = []struct {
	flag Set
	name string
}{
	{Texture, "texture"},
}

// Has reports whether every bit of flag is set.
func (s Set) Has(flag Set) bool {
	return s&flag == flag
}

// With returns a copy of s with flag set.
func (s Set) With(flag Set) Set {
	return s | flag
}

// Without returns a copy of s with flag cleared.
func (s Set) Without(flag Set) Set {
	return s &^ flag
}

// Validate returns ErrUnsupported if s carries reserved bits.
func (s Set) Validate() error {
	if reserved := s &^ Mask; reserved != 0 {
		return fmt.Errorf("%w: reserved bits %#x", ErrUnsupported, uint32(reserved))
	}
	return nil
}

// String returns a "+"-separated list of flag names, or "none".
// Reserved bits are rendered in hex so the result is never ambiguous.
func (s Set) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for _, f := range flagNames {
		if s.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	if reserved := s &^ Mask; reserved != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(reserved)))
	}
	return strings.Join(parts, "+")
}

// Parse parses the output of String. Names are case-insensitive and may be
// separated by "+" or ",". The empty string and "none" yield the empty set.
func Parse(text string) (Set, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "none") {
		return 0, nil
	}
	var s Set
	for _, field := range strings.FieldsFunc(text, func(r rune) bool { return r == '+' || r == ',' }) {
		name := strings.TrimSpace(field)
		found := false
		for _, f := range flagNames {
			if strings.EqualFold(name, f.name) {
				s |= f.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %q", ErrUnsupported, name)
		}
	}
	return s, nil
}

// Supported returns every valid Set in ascending numeric order.
func Supported() []Set {
	sets := make([]Set, 0, Mask+1)
	for s := Set(0); s <= Mask; s++ {
		if s&^Mask == 0 {
			sets = append(sets, s)
		}
	}
	return sets
}
