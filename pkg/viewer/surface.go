package viewer

import (
	"context"
	"fmt"
	"os"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/Amirkhon3223/first3d/pkg/render"
)

// Surface is the display target a viewer session renders into.
type Surface interface {
	// Size returns the content area in cells.
	Size() (cols, rows int)

	// PixelRatio is the number of vertical pixels per cell.
	PixelRatio() int

	// Present displays a rendered framebuffer.
	Present(fb *render.Framebuffer) error

	// Events delivers input events. The channel closes when the surface
	// shuts down.
	Events() <-chan uv.Event

	// Close restores the surface to its pre-session state.
	Close() error
}

// Resizable is implemented by surfaces whose content area can change
// while a session runs.
type Resizable interface {
	Resize(cols, rows int)
}

// TerminalSurface presents frames on a terminal using half-block cells,
// one cell per two vertical pixels.
type TerminalSurface struct {
	term *uv.Terminal
	cols int
	rows int
}

// NewTerminalSurface takes over the controlling terminal: alt screen,
// hidden cursor, mouse tracking enabled. Close undoes all of it.
func NewTerminalSurface() (*TerminalSurface, error) {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	// Any-event mouse tracking plus SGR extended coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	return &TerminalSurface{term: term, cols: cols, rows: rows}, nil
}

func (s *TerminalSurface) Size() (cols, rows int) {
	return s.cols, s.rows
}

// PixelRatio is 2: the upper half block packs two pixels per cell.
func (s *TerminalSurface) PixelRatio() int {
	return 2
}

// Resize adjusts the content area after a window size change.
func (s *TerminalSurface) Resize(cols, rows int) {
	s.cols = cols
	s.rows = rows
	s.term.Erase()
	s.term.Resize(cols, rows)
}

// Present draws the framebuffer into the terminal cell grid and flushes.
func (s *TerminalSurface) Present(fb *render.Framebuffer) error {
	fb.Draw(s.term, uv.Rect(0, 0, s.cols, s.rows))
	return s.term.Display()
}

func (s *TerminalSurface) Events() <-chan uv.Event {
	return s.term.Events()
}

// Close disables mouse tracking and restores the terminal.
func (s *TerminalSurface) Close() error {
	fmt.Fprint(os.Stdout, "\x1b[?1003l")
	fmt.Fprint(os.Stdout, "\x1b[?1006l")
	s.term.ExitAltScreen()
	s.term.ShowCursor()
	return s.term.Shutdown(context.Background())
}
