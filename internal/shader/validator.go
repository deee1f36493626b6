package shader

import "strings"

// StructuralValidator is a minimal Transpiler that doesn't generate real
// WGSL: it only checks the structural properties a wrapped shader must
// have before a real translator (naga, tint, or similar — see the
// Transpiler doc comment) is handed the source. It exists so callers
// without a real GLSL backend wired up yet still get file/line-located
// errors for the most common authoring mistakes, rather than a silent
// pass-through.
type StructuralValidator struct{}

func (StructuralValidator) TranspileToWGSL(wrappedGLSL, shaderPath string) (string, []TranspileError) {
	var errs []TranspileError

	if !strings.Contains(wrappedGLSL, "void mainImage(") {
		errs = append(errs, TranspileError{
			File:    shaderPath,
			Message: "shader must define void mainImage(out vec4 fragColor, in vec2 fragCoord)",
		})
	}

	if braces := balance(wrappedGLSL, '{', '}'); braces != 0 {
		errs = append(errs, TranspileError{
			File:    shaderPath,
			Line:    lineOfImbalance(wrappedGLSL, '{', '}'),
			Message: "unbalanced braces",
		})
	}

	if parens := balance(wrappedGLSL, '(', ')'); parens != 0 {
		errs = append(errs, TranspileError{
			File:    shaderPath,
			Line:    lineOfImbalance(wrappedGLSL, '(', ')'),
			Message: "unbalanced parentheses",
		})
	}

	if len(errs) > 0 {
		return "", errs
	}

	// Without a real GLSL-to-WGSL backend, the renamed-entry-point
	// convention is the only translation step this validator performs.
	wgsl := strings.Replace(wrappedGLSL, "void main()", "fn fs_main()", 1)
	return wgsl, nil
}

func balance(source string, open, close rune) int {
	depth := 0
	for _, r := range source {
		switch r {
		case open:
			depth++
		case close:
			depth--
		}
	}
	return depth
}

func lineOfImbalance(source string, open, close rune) int {
	depth := 0
	line := 1
	for _, r := range source {
		switch r {
		case open:
			depth++
		case close:
			depth--
			if depth < 0 {
				return line
			}
		case '\n':
			line++
		}
	}
	return line
}
