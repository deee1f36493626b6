// Package renderer builds the per-frame instance buffers a GPU cell
// renderer draws from: background quads (with run-length merging),
// cursor overlay slots, separator/gutter indicator strips, and block
// character geometry. It is deliberately backend-agnostic — the
// instance-buffer math is pure data transformation, while actually
// drawing the buffers is delegated to a Backend implementation.
package renderer

// BackgroundInstance is one quad the GPU draws: a normalized device
// coordinate rectangle and an RGBA color, matching the vertex-shader
// instance layout the tcell-based software backend emulates in
// software.
type BackgroundInstance struct {
	Position [2]float32
	Size     [2]float32
	Color    [4]float32
}

var zeroInstance = BackgroundInstance{}

// Cell is the minimal per-cell state the background builder needs.
type Cell struct {
	Rune    rune
	BgColor [3]uint8
	FgColor [3]uint8
}

// Grid carries the layout measurements needed to place a cell's quad
// in pixel space before it is converted to normalized device coordinates.
type Grid struct {
	Cols             int
	Rows             int
	CellWidth        float32
	CellHeight       float32
	WindowPadding    float32
	ContentOffsetX   float32
	ContentOffsetY   float32
	ContentInsetRight float32
}

// FrameConfig carries the current framebuffer size, needed to convert
// pixel coordinates to the [-1, 1] normalized device coordinate space.
type FrameConfig struct {
	Width  int
	Height int
}

// Named slot indices for the cursor overlay instance buffer. The buffer
// always has exactly CursorOverlaySlots entries so the draw call can be
// a fixed-size no-op for inactive slots.
const (
	CursorOverlaySlotOverlay = iota // beam/underline cursor shape
	CursorOverlaySlotGuide          // horizontal guide line at cursor row
	CursorOverlaySlotShadow         // offset shadow rectangle
	CursorOverlaySlotBoost          // boost glow rectangle
	CursorOverlaySlotBorderTop      // hollow cursor outline: top
	CursorOverlaySlotBorderBottom   // hollow cursor outline: bottom
	CursorOverlaySlotBorderLeft     // hollow cursor outline: left
	CursorOverlaySlotBorderRight    // hollow cursor outline: right
	cursorOverlaySlotReserved8
	cursorOverlaySlotReserved9

	CursorOverlaySlots // total slot count; keep last
)

const (
	// ColorComponentEpsilon is the tolerance used when comparing a
	// cell's background color against the window's default background,
	// to decide whether the cell needs its own quad at all.
	ColorComponentEpsilon = 1.0 / 512.0

	// CursorBoostMaxAlpha caps the cursor boost glow's alpha contribution
	// regardless of how large the boost value itself is.
	CursorBoostMaxAlpha = 0.35

	// HollowCursorBorderPx is the stroke width, in logical pixels, of the
	// four rectangles that make up a hollow (unfocused) block cursor.
	HollowCursorBorderPx = 1.5

	// GutterWidthCells is how many cell-widths wide a gutter indicator
	// (e.g. a git-diff marker strip) renders.
	GutterWidthCells = 0.3
)

// UnfocusedCursorStyle controls how the cursor renders when the pane
// does not have focus.
type UnfocusedCursorStyle int

const (
	UnfocusedCursorHidden UnfocusedCursorStyle = iota
	UnfocusedCursorHollow
	UnfocusedCursorSame
)

// CursorShape is the cursor's blink/box/beam rendering style.
type CursorShape int

const (
	CursorSteadyBlock CursorShape = iota
	CursorBlinkingBlock
	CursorSteadyUnderline
	CursorBlinkingUnderline
	CursorSteadyBar
	CursorBlinkingBar
)

func (s CursorShape) isBlock() bool {
	return s == CursorSteadyBlock || s == CursorBlinkingBlock
}

// CursorState is the renderer-facing view of the terminal cursor: its
// cell position plus every visual knob the background builder consults.
type CursorState struct {
	Col, Row        int
	Opacity         float32
	HiddenForShader bool
	Style           CursorShape
	Color           [3]float32
	UnfocusedStyle  UnfocusedCursorStyle

	GuideEnabled bool
	GuideColor   [4]float32

	ShadowEnabled bool
	ShadowOffset  [2]float32
	ShadowColor   [4]float32

	Boost      float32
	BoostColor [3]float32

	Overlay *BackgroundInstance
}

// SeparatorMark is a single shell-integration command-boundary marker
// at a given screen row.
type SeparatorMark struct {
	ScreenRow   int
	ExitCode    int
	CustomColor *[4]float32
}

// GutterMark is a single indicator (e.g. a diff marker) at a screen row.
type GutterMark struct {
	ScreenRow int
	Color     [4]float32
}
