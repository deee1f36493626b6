package shader

// Uniforms is the std140-layout uniform block every transpiled shader
// receives, matching the GPU-side struct byte-for-byte. Field order and
// padding are a public contract: the GLSL shell generated by Shell()
// declares this exact layout, so reordering fields here breaks every
// compiled shader.
type Uniforms struct {
	Resolution  [2]float32 // offset 0,  size 8
	Time        float32    // offset 8,  size 4
	TimeDelta   float32    // offset 12, size 4
	Mouse       [4]float32 // offset 16, size 16
	Date        [4]float32 // offset 32, size 16
	Opacity     float32    // offset 48, size 4
	TextOpacity float32    // offset 52, size 4
	FullContent float32    // offset 56, size 4 (1.0 = enabled)
	Frame       float32    // offset 60, size 4
	FrameRate   float32    // offset 64, size 4
	ResolutionZ float32    // offset 68, size 4 (pixel aspect ratio, usually 1.0)
	Brightness  float32    // offset 72, size 4
	_pad1       float32    // offset 76, size 4

	CurrentCursor       [4]float32 // offset 80,  size 16
	PreviousCursor      [4]float32 // offset 96,  size 16
	CurrentCursorColor  [4]float32 // offset 112, size 16
	PreviousCursorColor [4]float32 // offset 128, size 16
	TimeCursorChange    float32    // offset 144, size 4

	CursorTrailDuration float32    // offset 148, size 4
	CursorGlowRadius    float32    // offset 152, size 4
	CursorGlowIntensity float32    // offset 156, size 4
	CursorShaderColor   [4]float32 // offset 160, size 16

	ChannelResolution0 [4]float32 // offset 176, size 16
	ChannelResolution1 [4]float32 // offset 192, size 16
	ChannelResolution2 [4]float32 // offset 208, size 16
	ChannelResolution3 [4]float32 // offset 224, size 16
	ChannelResolution4 [4]float32 // offset 240, size 16
}

// UniformsSize is the total byte size of the Uniforms block; the
// transpiled shader's WGSL declaration must match it exactly.
const UniformsSize = 256

// ChannelCount is how many texture channels (iChannel0-4) the shell
// declares bindings for.
const ChannelCount = 5
