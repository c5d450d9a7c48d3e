package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultChromeTimeout bounds one browser render.
const DefaultChromeTimeout = 60 * time.Second

// ChromeRenderer prints HTML with headless Chrome. A browser process is
// started per render and closed afterwards.
type ChromeRenderer struct {
	// ExecPath is the browser executable; empty lets chromedp search for one.
	ExecPath string
	Timeout  time.Duration
}

// NewChromeRenderer creates a renderer using the browser at execPath.
func NewChromeRenderer(execPath string) *ChromeRenderer {
	return &ChromeRenderer{ExecPath: execPath, Timeout: DefaultChromeTimeout}
}

func (r *ChromeRenderer) Name() string {
	return EngineChrome
}

func (r *ChromeRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.DisableGPU,
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}
	return opts
}

// Render loads html into a blank page and prints it.
func (r *ChromeRenderer) Render(ctx context.Context, html string, cfg PageConfig) ([]byte, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var out []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(cfg.PrintBackground).
				WithPaperWidth(inches(cfg.Width)).
				WithPaperHeight(inches(cfg.Height)).
				WithMarginTop(inches(cfg.MarginTop)).
				WithMarginBottom(inches(cfg.MarginBottom)).
				WithMarginLeft(inches(cfg.MarginLeft)).
				WithMarginRight(inches(cfg.MarginRight)).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			out = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome render failed: %w", err)
	}
	return out, nil
}
