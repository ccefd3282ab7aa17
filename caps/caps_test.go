package caps

import (
	"errors"
	"testing"
)

func TestSetFlags(t *testing.T) {
	var s Set
	if s.Has(Texture) {
		t.Error("empty set reports Texture")
	}
	s = s.With(Texture)
	if !s.Has(Texture) {
		t.Error("With(Texture) did not set Texture")
	}
	if got := s.Without(Texture); got != 0 {
		t.Errorf("Without(Texture) = %v, want none", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		set     Set
		wantErr bool
	}{
		{"none", 0, false},
		{"texture", Texture, false},
		{"reserved bit", 1 << 5, true},
		{"texture with reserved", Texture | 1<<31, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsupported) {
				t.Errorf("Validate() error %v does not wrap ErrUnsupported", err)
			}
		})
	}
}

func TestStringParse(t *testing.T) {
	tests := []struct {
		set  Set
		want string
	}{
		{0, "none"},
		{Texture, "texture"},
	}
	for _, tt := range tests {
		if got := tt.set.String(); got != tt.want {
			t.Errorf("Set(%d).String() = %q, want %q", uint32(tt.set), got, tt.want)
		}
		parsed, err := Parse(tt.want)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.want, err)
		}
		if parsed != tt.set {
			t.Errorf("Parse(%q) = %d, want %d", tt.want, uint32(parsed), uint32(tt.set))
		}
	}
}

func TestStringReserved(t *testing.T) {
	if got := (Texture | 1<<4).String(); got != "texture+0x10" {
		t.Errorf("String() = %q, want %q", got, "texture+0x10")
	}
}

func TestParseVariants(t *testing.T) {
	for _, text := range []string{"", "none", "NONE", " none "} {
		s, err := Parse(text)
		if err != nil || s != 0 {
			t.Errorf("Parse(%q) = %v, %v; want none, nil", text, s, err)
		}
	}
	for _, text := range []string{"Texture", "texture,", " texture "} {
		s, err := Parse(text)
		if err != nil || s != Texture {
			t.Errorf("Parse(%q) = %v, %v; want texture, nil", text, s, err)
		}
	}
	if _, err := Parse("fog"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Parse(fog) error = %v, want ErrUnsupported", err)
	}
}

func TestSupported(t *testing.T) {
	got := Supported()
	want := []Set{0, Texture}
	if len(got) != len(want) {
		t.Fatalf("Supported() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Supported()[%d] = %v, want %v", i, got[i], want[i])
		}
		if err := got[i].Validate(); err != nil {
			t.Errorf("supported set %v fails Validate: %v", got[i], err)
		}
	}
}
