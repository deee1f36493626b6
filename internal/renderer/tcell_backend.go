package renderer

import (
	"github.com/ellery/par-term/internal/config"
	"github.com/micro-editor/tcell/v2"
)

// TcellBackend implements Backend over a plain tcell.Screen, painting
// each background instance as a run of styled space characters. This is
// the only Backend this module ships: there is no Go wgpu/WGSL binding
// available, so every instance the builders in this package produce is
// rasterized in software onto the same screen the rest of the terminal
// draws to.
type TcellBackend struct {
	Screen tcell.Screen
}

func NewTcellBackend(screen tcell.Screen) *TcellBackend {
	return &TcellBackend{Screen: screen}
}

// ndcToCell converts a background instance's normalized device
// coordinate rectangle back into an inclusive cell-column/row range,
// given the grid and frame the instance was built against.
func ndcToCell(inst BackgroundInstance, grid Grid, cfg FrameConfig) (col0, row0, col1, row1 int) {
	width := float32(cfg.Width)
	height := float32(cfg.Height)

	x0 := (inst.Position[0] + 1) / 2 * width
	x1 := x0 + inst.Size[0]/2*width
	y1 := (1 - inst.Position[1]) / 2 * height
	y0 := y1 - inst.Size[1]/2*height

	contentX := grid.WindowPadding + grid.ContentOffsetX
	contentY := grid.WindowPadding + grid.ContentOffsetY

	col0 = int((x0 - contentX) / grid.CellWidth)
	col1 = int((x1-contentX)/grid.CellWidth) - 1
	row0 = int((y0 - contentY) / grid.CellHeight)
	row1 = int((y1-contentY)/grid.CellHeight) - 1
	return
}

func colorFromF32(c [4]float32) tcell.Color {
	if c[3] <= 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c[0]*255), int32(c[1]*255), int32(c[2]*255))
}

func (b *TcellBackend) DrawBackgroundInstances(instances []BackgroundInstance, grid Grid, cfg FrameConfig) {
	if b.Screen == nil {
		return
	}
	for _, inst := range instances {
		if inst.Color[3] <= 0 && inst.Size[0] == 0 && inst.Size[1] == 0 {
			continue
		}
		col0, row0, col1, row1 := ndcToCell(inst, grid, cfg)
		style := config.DefStyle.Background(colorFromF32(inst.Color))
		for row := row0; row <= row1; row++ {
			for col := col0; col <= col1; col++ {
				b.Screen.SetContent(col, row, ' ', nil, style)
			}
		}
	}
}

func (b *TcellBackend) DrawBlockChar(col, row int, r rune, class BlockCharClass, fg, bg [3]uint8) {
	if b.Screen == nil || class == BlockCharNone {
		return
	}
	style := config.DefStyle.
		Foreground(tcell.NewRGBColor(int32(fg[0]), int32(fg[1]), int32(fg[2]))).
		Background(tcell.NewRGBColor(int32(bg[0]), int32(bg[1]), int32(bg[2])))
	b.Screen.SetContent(col, row, r, nil, style)
}

func (b *TcellBackend) Present() {
	if b.Screen == nil {
		return
	}
	b.Screen.Show()
}
