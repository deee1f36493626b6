package shader

import (
	"strings"
	"testing"
	"unsafe"
)

func TestUniformsSizeMatchesContract(t *testing.T) {
	if got := unsafe.Sizeof(Uniforms{}); got != UniformsSize {
		t.Fatalf("Uniforms struct size = %d, want %d", got, UniformsSize)
	}
}

func TestShellDeclaresUniformBlockAndChannels(t *testing.T) {
	wrapped := Shell("void mainImage(out vec4 fragColor, in vec2 fragCoord) { fragColor = vec4(1.0); }")
	if !strings.Contains(wrapped, "uniform Uniforms") {
		t.Fatal("expected Uniforms block declaration")
	}
	for i := 0; i < ChannelCount; i++ {
		def := "#define iChannel" + string(rune('0'+i))
		if !strings.Contains(wrapped, def) {
			t.Fatalf("expected channel macro %q in shell output", def)
		}
	}
	if !strings.Contains(wrapped, "void mainImage") {
		t.Fatal("expected user mainImage preserved in wrapped output")
	}
	if !strings.Contains(wrapped, "void main()") {
		t.Fatal("expected generated main() epilogue")
	}
}

func TestShellFullContentCompositing(t *testing.T) {
	wrapped := Shell("void mainImage(out vec4 fragColor, in vec2 fragCoord) {}")
	if !strings.Contains(wrapped, "iFullContent") {
		t.Fatal("expected iFullContent branch in composited main()")
	}
	if !strings.Contains(wrapped, "step(0.01, terminalColor.a)") {
		t.Fatal("expected text-pixel detection via alpha step")
	}
}

type fakeTranspiler struct {
	wgsl string
	errs []TranspileError
}

func (f fakeTranspiler) TranspileToWGSL(wrappedGLSL, shaderPath string) (string, []TranspileError) {
	return f.wgsl, f.errs
}

func TestTranspileSuccess(t *testing.T) {
	tp := fakeTranspiler{wgsl: "@fragment fn fs_main() {}"}
	wgsl, errs, err := Transpile(tp, "void mainImage(out vec4 c, in vec2 f) {}", "test.glsl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if errs != nil {
		t.Fatalf("expected no errs, got %v", errs)
	}
	if wgsl != "@fragment fn fs_main() {}" {
		t.Fatalf("unexpected wgsl: %q", wgsl)
	}
}

func TestTranspileFailureReportsFileAndLine(t *testing.T) {
	tp := fakeTranspiler{errs: []TranspileError{{File: "test.glsl", Line: 12, Message: "unexpected token"}}}
	_, errs, err := Transpile(tp, "broken", "test.glsl")
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if !strings.Contains(err.Error(), "test.glsl:12") {
		t.Fatalf("expected file:line in error message, got %q", err.Error())
	}
}
