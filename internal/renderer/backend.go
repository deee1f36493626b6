package renderer

// Backend draws the instance buffers the builders in this package
// produce. No Go binding for wgpu/WGSL exists in this codebase's
// dependency surface, so the GPU cell renderer's instanced draw calls
// are abstracted behind this interface; TcellBackend below satisfies it
// by painting the same rectangles as styled character cells on a tcell
// screen, the rendering surface this terminal actually ships with.
type Backend interface {
	// DrawBackgroundInstances paints a frame's worth of background
	// quads (row backgrounds, cursor overlay slots, separator and
	// gutter strips all flow through this single entry point since
	// they share the same instance shape).
	DrawBackgroundInstances(instances []BackgroundInstance, grid Grid, cfg FrameConfig)

	// DrawBlockChar paints a procedurally-classified block character at
	// the given cell position, foreground and background color.
	DrawBlockChar(col, row int, r rune, class BlockCharClass, fg, bg [3]uint8)

	// Present flushes the frame to the display.
	Present()
}
