package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and writes them to the
// screen. The vertical pixel ratio is derived from the buffer and area
// heights. At ratio 2 each cell is an upper half block "▀" with the top
// pixel as foreground and the bottom pixel as background; at ratio 1 both
// halves show the same pixel, which reads as a full block.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	ratio := 1
	if rows := area.Dy(); rows > 0 && fb.Height/rows > 1 {
		ratio = fb.Height / rows
	}

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * ratio
		botY := topY + ratio - 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to the color.Color interface, mapping
// fully transparent pixels to "no color".
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}
