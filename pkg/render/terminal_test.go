package render

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestDrawHalfBlocks(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	fb.Clear(RGB(0, 0, 0))
	fb.SetPixel(0, 2, RGB(255, 0, 0))
	fb.SetPixel(0, 3, RGB(0, 0, 255))

	scr := uv.NewScreenBuffer(2, 2)
	fb.Draw(scr, uv.Rect(0, 0, 2, 2))

	// Cell row 1 shows pixel rows 2 and 3.
	cell := scr.CellAt(0, 1)
	if cell == nil || cell.Content != "▀" {
		t.Fatalf("cell = %+v, want upper half block", cell)
	}
	if cell.Style.Fg != RGB(255, 0, 0) {
		t.Errorf("fg = %v, want red top pixel", cell.Style.Fg)
	}
	if cell.Style.Bg != RGB(0, 0, 255) {
		t.Errorf("bg = %v, want blue bottom pixel", cell.Style.Bg)
	}
}

func TestDrawSinglePixelRows(t *testing.T) {
	// A buffer with one pixel row per cell row renders solid cells.
	fb := NewFramebuffer(2, 2)
	fb.Clear(RGB(0, 255, 0))

	scr := uv.NewScreenBuffer(2, 2)
	fb.Draw(scr, uv.Rect(0, 0, 2, 2))

	cell := scr.CellAt(1, 1)
	if cell == nil {
		t.Fatal("no cell written")
	}
	if cell.Style.Fg != RGB(0, 255, 0) || cell.Style.Bg != RGB(0, 255, 0) {
		t.Errorf("cell colors = %v/%v, want solid green", cell.Style.Fg, cell.Style.Bg)
	}
}
