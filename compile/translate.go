package compile

import (
	"fmt"

	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/msl"
)

// Languages accepted by Translate.
const (
	LanguageMSL  = "msl"
	LanguageGLSL = "glsl"
	LanguageHLSL = "hlsl"
)

// TranslateLanguages lists the languages Translate accepts.
var TranslateLanguages = []string{LanguageMSL, LanguageGLSL, LanguageHLSL}

// Translate cross-compiles WGSL source to another shading language with
// naga. It serves backends that have no generator of their own. For GLSL and
// HLSL only the named entry point is emitted; MSL keeps every entry point.
func Translate(source, lang, entry string) (string, error) {
	if entry == "" {
		entry = EntryPoint
	}
	module, err := parseWGSL(source)
	if err != nil {
		return "", fmt.Errorf("compile: translate to %s: %w", lang, err)
	}

	var out string
	switch lang {
	case LanguageMSL:
		out, _, err = msl.Compile(module, msl.DefaultOptions())
	case LanguageGLSL:
		opts := glsl.DefaultOptions()
		opts.EntryPoint = entry
		out, _, err = glsl.Compile(module, opts)
	case LanguageHLSL:
		opts := hlsl.DefaultOptions()
		opts.EntryPoint = entry
		out, _, err = hlsl.Compile(module, opts)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	if err != nil {
		return "", fmt.Errorf("compile: translate to %s: %w", lang, err)
	}
	slogger().Debug("compile: translated", "lang", lang, "bytes", len(out))
	return out, nil
}
