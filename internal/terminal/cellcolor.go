package terminal

import (
	"github.com/ellery/par-term/internal/config"
	"github.com/hinshun/vt10x"
)

// defaultBackgroundRGB is config.DefaultBackgroundColor decoded once, used
// as the renderer package's CellRenderer.BackgroundColor so its
// default-background run-merging matches the panel's actual background.
var defaultBackgroundRGB = hexRGB(config.DefaultBackgroundColor)

func hexDigit(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return 0
}

func hexRGB(s string) [3]uint8 {
	if len(s) != 7 || s[0] != '#' {
		return [3]uint8{}
	}
	r := hexDigit(s[1])<<4 | hexDigit(s[2])
	g := hexDigit(s[3])<<4 | hexDigit(s[4])
	b := hexDigit(s[5])<<4 | hexDigit(s[6])
	return [3]uint8{uint8(r), uint8(g), uint8(b)}
}

// ansi256Palette is the standard 256-color xterm palette: 16 named
// colors, a 6x6x6 color cube, and a 24-step grayscale ramp. vt10x glyphs
// carry palette indices rather than RGB triples for indexed colors, so
// this table is what lets the renderer package's instance builders (which
// operate on plain [3]uint8 RGB) consume them.
var ansi256Palette = buildAnsi256Palette()

func buildAnsi256Palette() [256][3]uint8 {
	var p [256][3]uint8
	named := [16][3]uint8{
		{0, 0, 0}, {205, 49, 49}, {13, 188, 121}, {229, 229, 16},
		{36, 114, 200}, {188, 63, 188}, {17, 168, 205}, {229, 229, 229},
		{102, 102, 102}, {241, 76, 76}, {35, 209, 139}, {245, 245, 67},
		{59, 142, 234}, {214, 112, 214}, {41, 184, 219}, {255, 255, 255},
	}
	copy(p[:16], named[:])

	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[i] = [3]uint8{uint8(r * 51), uint8(g * 51), uint8(b * 51)}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		p[232+j] = [3]uint8{gray, gray, gray}
	}
	return p
}

// colorToF32 converts an 8-bit RGB triple to the renderer package's
// [3]float32 color representation.
func colorToF32(c [3]uint8) [3]float32 {
	return [3]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255}
}

// vtColorToRGB resolves a vt10x.Color into the [3]uint8 RGB triple the
// renderer package's Cell/CursorState structs expect, mirroring the
// palette/truecolor split glyphToTcellStyle applies when building tcell
// styles directly.
func vtColorToRGB(c vt10x.Color, def vt10x.Color, defRGB [3]uint8) [3]uint8 {
	if c == def {
		return defRGB
	}
	if c > 255 {
		return [3]uint8{uint8((c >> 16) & 0xFF), uint8((c >> 8) & 0xFF), uint8(c & 0xFF)}
	}
	return ansi256Palette[c&0xFF]
}
