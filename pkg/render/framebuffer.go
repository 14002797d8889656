// Package render provides the software renderer: a z-buffered rasterizer
// that draws a scene graph into an RGBA framebuffer presented as terminal
// half-block cells.
package render

import (
	"image"
	"image/color"
)

// Framebuffer is a 2D grid of pixels. When presented to the terminal, one
// cell covers a vertical strip of pixels (two with the half-block trick),
// so the buffer height is the terminal rows times the vertical pixel
// ratio.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // row-major
}

// NewFramebuffer creates a framebuffer with the given pixel dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets the pixel at (x, y), ignoring out-of-bounds writes.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the pixel at (x, y), or transparent black when out of
// bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DownsampleInto box-filters this framebuffer into dst. The source must be
// an integer multiple of dst in both dimensions; used by the antialiasing
// (supersampling) path.
func (fb *Framebuffer) DownsampleInto(dst *Framebuffer) {
	if dst.Width == 0 || dst.Height == 0 {
		return
	}
	fx := fb.Width / dst.Width
	fy := fb.Height / dst.Height
	if fx < 1 || fy < 1 {
		return
	}
	samples := fx * fy

	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			var r, g, b, a int
			for sy := 0; sy < fy; sy++ {
				row := (y*fy + sy) * fb.Width
				for sx := 0; sx < fx; sx++ {
					p := fb.Pixels[row+x*fx+sx]
					r += int(p.R)
					g += int(p.G)
					b += int(p.B)
					a += int(p.A)
				}
			}
			dst.Pixels[y*dst.Width+x] = color.RGBA{
				R: uint8(r / samples),
				G: uint8(g / samples),
				B: uint8(b / samples),
				A: uint8(a / samples),
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}
