package graphics

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// maxTextureDimension bounds how large a single inline-image texture is
// allowed to become. A terminal program can paste an arbitrarily large
// image (e.g. a full-resolution photo via Kitty protocol); without a
// cap that upload alone could exceed reasonable GPU texture limits.
const maxTextureDimension = 4096

// clampToMaxDimension downscales pixels (tightly packed RGBA8, width x
// height) to fit within maxTextureDimension on its longer edge,
// returning the input unchanged when it already fits. The scale
// preserves aspect ratio.
func clampToMaxDimension(pixels []byte, width, height int) ([]byte, int, int) {
	if width <= maxTextureDimension && height <= maxTextureDimension {
		return pixels, width, height
	}

	scale := float64(maxTextureDimension) / float64(width)
	if hScale := float64(maxTextureDimension) / float64(height); hScale < scale {
		scale = hScale
	}
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	src := &image.RGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	return dst.Pix, newWidth, newHeight
}

// grayPreview renders a small grayscale thumbnail of a cached texture,
// used by diagnostic surfaces that want a quick visual hint without
// holding the full RGBA buffer.
func grayPreview(tex *CachedTexture, maxSide int) *image.Gray {
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}

	src := &image.RGBA{
		Pix:    tex.Pixels,
		Stride: tex.Width * 4,
		Rect:   image.Rect(0, 0, tex.Width, tex.Height),
	}

	scale := 1.0
	if tex.Width > maxSide || tex.Height > maxSide {
		scale = float64(maxSide) / float64(tex.Width)
		if hScale := float64(maxSide) / float64(tex.Height); hScale < scale {
			scale = hScale
		}
	}
	w := maxInt(1, int(float64(tex.Width)*scale))
	h := maxInt(1, int(float64(tex.Height)*scale))

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Gray{}), image.Point{}, draw.Src)
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
