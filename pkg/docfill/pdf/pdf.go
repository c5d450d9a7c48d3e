// Package pdf renders print HTML to PDF. Two engines are available: a
// headless Chrome driven over the DevTools protocol, and a native fallback
// that lays the text out with tdewolff/canvas when no browser is installed.
package pdf

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// PageConfig describes paper size and margins in millimetres.
type PageConfig struct {
	Width, Height float64
	MarginTop     float64
	MarginBottom  float64
	MarginLeft    float64
	MarginRight   float64
	// PrintBackground includes CSS backgrounds in the output.
	PrintBackground bool
}

// A4 paper size.
const (
	A4Width  = 210.0
	A4Height = 297.0
)

const mmPerInch = 25.4

// DefaultPageConfig returns A4 with 18mm top/bottom and 15mm left/right
// margins.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Width:           A4Width,
		Height:          A4Height,
		MarginTop:       18,
		MarginBottom:    18,
		MarginLeft:      15,
		MarginRight:     15,
		PrintBackground: true,
	}
}

// ContentWidth is the printable width in millimetres.
func (p PageConfig) ContentWidth() float64 {
	return p.Width - p.MarginLeft - p.MarginRight
}

// ContentHeight is the printable height in millimetres.
func (p PageConfig) ContentHeight() float64 {
	return p.Height - p.MarginTop - p.MarginBottom
}

func (p PageConfig) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid page size %.1fx%.1fmm", p.Width, p.Height)
	}
	if p.ContentWidth() <= 0 || p.ContentHeight() <= 0 {
		return fmt.Errorf("margins leave no printable area on %.1fx%.1fmm page", p.Width, p.Height)
	}
	return nil
}

func inches(mm float64) float64 {
	return mm / mmPerInch
}

// Renderer converts a complete HTML page to PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string, page PageConfig) ([]byte, error)
	Name() string
}

// Engine names accepted by New.
const (
	EngineAuto   = "auto"
	EngineChrome = "chrome"
	EngineCanvas = "canvas"
)

var browserNames = []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome"}

var lookPath = exec.LookPath

// FindBrowser returns the first Chrome or Chromium executable on PATH.
func FindBrowser() (string, bool) {
	for _, name := range browserNames {
		if path, err := lookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// New returns the renderer for engine. With "auto" the chrome engine is used
// when chromePath is set or a browser is found on PATH, otherwise canvas.
func New(engine, chromePath string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case EngineChrome:
		if chromePath == "" {
			chromePath, _ = FindBrowser()
		}
		return NewChromeRenderer(chromePath), nil
	case EngineCanvas:
		return NewCanvasRenderer(), nil
	case EngineAuto, "":
		if chromePath != "" {
			return NewChromeRenderer(chromePath), nil
		}
		if path, ok := FindBrowser(); ok {
			return NewChromeRenderer(path), nil
		}
		return NewCanvasRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown pdf engine %q", engine)
	}
}
