package shader

import (
	"strings"
	"testing"
)

func TestStructuralValidatorAcceptsWellFormedShader(t *testing.T) {
	wrapped := Shell("void mainImage(out vec4 fragColor, in vec2 fragCoord) { fragColor = vec4(1.0); }")
	wgsl, errs := StructuralValidator{}.TranspileToWGSL(wrapped, "ok.glsl")
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if !strings.Contains(wgsl, "fn fs_main()") {
		t.Fatalf("expected main() renamed to fs_main(), got %q", wgsl)
	}
}

func TestStructuralValidatorRejectsMissingMainImage(t *testing.T) {
	_, errs := StructuralValidator{}.TranspileToWGSL("void main() {}", "broken.glsl")
	if len(errs) == 0 {
		t.Fatal("expected an error for missing mainImage")
	}
}

func TestStructuralValidatorRejectsUnbalancedBraces(t *testing.T) {
	source := "void mainImage(out vec4 fragColor, in vec2 fragCoord) { fragColor = vec4(1.0);"
	_, errs := StructuralValidator{}.TranspileToWGSL(source, "unbalanced.glsl")
	if len(errs) == 0 {
		t.Fatal("expected an error for unbalanced braces")
	}
}
