// first3d - Terminal 3D Model Catalog Viewer
// Browse a catalog of glTF models and view them with orbit controls.
//
// Controls (viewer):
//
//	Mouse drag  - Orbit around the model
//	Scroll      - Zoom in/out
//	Arrows/WASD - Orbit
//	+/-         - Zoom
//	X           - Toggle wireframe
//	R           - Reset view
//	Esc/Q       - Back to catalog
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/Amirkhon3223/first3d/pkg/catalog"
	"github.com/Amirkhon3223/first3d/pkg/tui"
	"github.com/Amirkhon3223/first3d/pkg/viewer"
)

var (
	catalogSource = flag.String("catalog", "", "Catalog path or URL (default assets/models.json, env FIRST3D_CATALOG)")
	modelPath     = flag.String("model", "", "View a single model file directly, skipping the catalog")
	targetFPS     = flag.Int("fps", 60, "Target FPS")
	bgColor       = flag.String("bg", "30,30,40", "Background color (R,G,B)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "first3d - Terminal 3D Model Catalog Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: first3d [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit around the model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  Arrows/WASD - Orbit\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  Esc/Q       - Back to catalog\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env, ignored when absent.
	_ = godotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "first3d",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)
	background := color.RGBA{bgR, bgG, bgB, 255}

	// Direct mode: view one file and exit.
	if *modelPath != "" {
		return view(ctx, *modelPath, background, logger)
	}

	source := *catalogSource
	if source == "" {
		source = os.Getenv("FIRST3D_CATALOG")
	}
	if source == "" {
		source = filepath.Join("assets", "models.json")
	}

	for {
		records, loadErr := catalog.Load(ctx, source)
		if loadErr != nil {
			logger.Error("load catalog", "source", source, "err", loadErr)
		}

		model := tui.NewModel(records, loadErr)
		out, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		if err != nil {
			return fmt.Errorf("catalog browser: %w", err)
		}

		record, ok := out.(tui.Model).Selected()
		if !ok {
			return nil
		}

		// Relative files resolve next to a local catalog; URL catalogs
		// leave them relative to the working directory.
		path := record.File
		if !filepath.IsAbs(path) && !strings.HasPrefix(source, "http") {
			path = filepath.Join(filepath.Dir(source), path)
		}

		if err := view(ctx, path, background, logger); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

// view runs a single viewer session on the terminal.
func view(ctx context.Context, path string, background color.RGBA, logger *log.Logger) error {
	surface, err := viewer.NewTerminalSurface()
	if err != nil {
		return fmt.Errorf("open terminal surface: %w", err)
	}

	session := viewer.New(surface, path, viewer.Options{
		FPS:        *targetFPS,
		Background: background,
		Logger:     logger,
	})

	return session.Run(ctx)
}
