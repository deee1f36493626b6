package shader

import (
	"fmt"
	"strings"
)

// Shell wraps a Shadertoy-style user fragment shader (a `mainImage`
// function) in the GLSL declarations a transpiled shader needs: the
// Uniforms block, the five texture-channel binding pairs, and the
// synthesized iChannelResolution[5] accessor array.
//
// The result is still GLSL — TranspileToWGSL is what turns it into a
// runnable WGSL module.
func Shell(userGLSL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#version 450\n\n")
	fmt.Fprintf(&b, "// Uniforms - must match the Go Uniforms struct layout (std140)\n")
	fmt.Fprintf(&b, "// Total size: %d bytes\n", UniformsSize)
	b.WriteString(`layout(set = 0, binding = 0) uniform Uniforms {
    vec2 iResolution;
    float iTime;
    float iTimeDelta;
    vec4 iMouse;
    vec4 iDate;
    float iOpacity;
    float iTextOpacity;
    float iFullContent;
    float iFrame;
    float iFrameRate;
    float iResolutionZ;
    float iBrightness;
    float _pad1;

    vec4 iCurrentCursor;
    vec4 iPreviousCursor;
    vec4 iCurrentCursorColor;
    vec4 iPreviousCursorColor;
    float iTimeCursorChange;

    float iCursorTrailDuration;
    float iCursorGlowRadius;
    float iCursorGlowIntensity;
    vec4 iCursorShaderColor;

    vec4 iChannelResolution0;
    vec4 iChannelResolution1;
    vec4 iChannelResolution2;
    vec4 iChannelResolution3;
    vec4 iChannelResolution4;
};

vec3 iChannelResolution[5] = vec3[5](
    iChannelResolution0.xyz,
    iChannelResolution1.xyz,
    iChannelResolution2.xyz,
    iChannelResolution3.xyz,
    iChannelResolution4.xyz
);

layout(set = 0, binding = 1) uniform texture2D _iChannel0Tex;
layout(set = 0, binding = 2) uniform sampler _iChannel0Sampler;
layout(set = 0, binding = 3) uniform texture2D _iChannel1Tex;
layout(set = 0, binding = 4) uniform sampler _iChannel1Sampler;
layout(set = 0, binding = 5) uniform texture2D _iChannel2Tex;
layout(set = 0, binding = 6) uniform sampler _iChannel2Sampler;
layout(set = 0, binding = 7) uniform texture2D _iChannel3Tex;
layout(set = 0, binding = 8) uniform sampler _iChannel3Sampler;
layout(set = 0, binding = 9) uniform texture2D _iChannel4Tex;
layout(set = 0, binding = 10) uniform sampler _iChannel4Sampler;

#define iChannel0 sampler2D(_iChannel0Tex, _iChannel0Sampler)
#define iChannel1 sampler2D(_iChannel1Tex, _iChannel1Sampler)
#define iChannel2 sampler2D(_iChannel2Tex, _iChannel2Sampler)
#define iChannel3 sampler2D(_iChannel3Tex, _iChannel3Sampler)
#define iChannel4 sampler2D(_iChannel4Tex, _iChannel4Sampler)

layout(location = 0) in vec2 v_uv;
layout(location = 0) out vec4 outColor;

`)
	b.WriteString(userGLSL)
	b.WriteString(mainEpilogue)
	return b.String()
}

// mainEpilogue drives the user's mainImage with fragment coordinates
// derived from v_uv and iResolution, then composites per iFullContent:
// full-content mode premultiplies the shader output by window opacity;
// background-only mode keeps terminal text pixels (detected via the
// alpha channel) at text opacity and dims only the background.
const mainEpilogue = `
void main() {
    vec4 terminalColor = texture(iChannel0, v_uv);
    vec2 fragCoord = v_uv * iResolution.xy;

    vec4 shaderColor;
    mainImage(shaderColor, fragCoord);

    if (iFullContent > 0.5) {
        outColor = vec4(shaderColor.rgb, shaderColor.a * iOpacity);
        return;
    }

    float isText = step(0.01, terminalColor.a);
    vec3 dimmed = shaderColor.rgb * iBrightness;
    vec3 rgb = mix(dimmed, terminalColor.rgb, isText * iTextOpacity);
    outColor = vec4(rgb, iOpacity);
}
`

// TranspileError is one diagnostic from a GLSL parse/validation
// failure, shaped so it can be surfaced directly to a shader-editing UI.
type TranspileError struct {
	File    string
	Line    int
	Message string
}

func (e TranspileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Transpiler turns wrapped Shadertoy-style GLSL into a complete WGSL
// module (a generated full-screen-quad vertex shader plus the
// translated fragment, with the user's `main` renamed to `fs_main`).
//
// No GLSL parser/WGSL backend exists in this module's dependency
// surface, so the actual parse-validate-translate step is delegated to
// an external collaborator satisfying this interface (e.g. a CGo
// binding to naga, or a subprocess wrapping naga-cli/tint). TranspileError
// is the stable error shape that collaborator must report failures in.
type Transpiler interface {
	TranspileToWGSL(wrappedGLSL, shaderPath string) (wgsl string, errs []TranspileError)
}

// Transpile wraps userGLSL in the standard shell and hands it to t for
// translation, returning the first error's message as err for simple
// call sites while exposing the full diagnostic list via errs.
func Transpile(t Transpiler, userGLSL, shaderPath string) (wgsl string, errs []TranspileError, err error) {
	wrapped := Shell(userGLSL)
	wgsl, errs = t.TranspileToWGSL(wrapped, shaderPath)
	if len(errs) > 0 {
		return "", errs, errs[0]
	}
	return wgsl, nil, nil
}
