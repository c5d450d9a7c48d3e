package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/tdewolff/canvas"
	canvaspdf "github.com/tdewolff/canvas/renderers/pdf"
)

const (
	mmPerPoint = 25.4 / 72
	lineFactor = 1.45
	bodySize   = 12.0
)

var headingSizes = map[string]float64{
	"h1": 20, "h2": 16, "h3": 14, "h4": 13, "h5": 12, "h6": 12,
}

// SystemFonts are tried in order when the canvas renderer loads its font.
var SystemFonts = []string{
	"Times New Roman", "Liberation Serif", "DejaVu Serif", "Noto Serif",
	"Arial", "Liberation Sans", "DejaVu Sans", "Noto Sans",
}

// CanvasRenderer is the fallback engine. It flows the text of block elements
// onto pages; CSS is ignored.
type CanvasRenderer struct {
	fontOnce sync.Once
	fontErr  error
	family   *canvas.FontFamily
	hasBold  bool
}

// NewCanvasRenderer creates a canvas renderer. Fonts are loaded on first use.
func NewCanvasRenderer() *CanvasRenderer {
	return &CanvasRenderer{}
}

func (r *CanvasRenderer) Name() string {
	return EngineCanvas
}

func (r *CanvasRenderer) loadFonts() error {
	r.fontOnce.Do(func() {
		for _, name := range SystemFonts {
			ff := canvas.NewFontFamily(name)
			if err := ff.LoadSystemFont(name, canvas.FontRegular); err != nil {
				continue
			}
			r.family = ff
			r.hasBold = ff.LoadSystemFont(name, canvas.FontBold) == nil
			return
		}
		r.fontErr = errors.New("no usable system font found for the canvas renderer")
	})
	return r.fontErr
}

// block is one paragraph of text to lay out.
type block struct {
	text string
	size float64
	bold bool
}

// Render lays out the text of html on pages of the configured size.
func (r *CanvasRenderer) Render(ctx context.Context, html string, cfg PageConfig) ([]byte, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := r.loadFonts(); err != nil {
		return nil, err
	}

	blocks, err := extractBlocks(html)
	if err != nil {
		return nil, err
	}

	var pages []*canvas.Canvas
	var cc *canvas.Context
	var y float64
	newPage := func() {
		c := canvas.New(cfg.Width, cfg.Height)
		cc = canvas.NewContext(c)
		pages = append(pages, c)
		y = cfg.Height - cfg.MarginTop
	}
	newPage()

	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		style := canvas.FontRegular
		if b.bold && r.hasBold {
			style = canvas.FontBold
		}
		face := r.family.Face(b.size, canvas.Black, style, canvas.FontNormal)
		lineHeight := b.size * mmPerPoint * lineFactor

		for _, line := range wrapText(b.text, cfg.ContentWidth(), face.TextWidth) {
			if y-lineHeight < cfg.MarginBottom {
				newPage()
			}
			y -= lineHeight
			if line != "" {
				cc.DrawText(cfg.MarginLeft, y, canvas.NewTextLine(face, line, canvas.Left))
			}
		}
		y -= bodySize * mmPerPoint * 0.5
	}

	var buf bytes.Buffer
	p := canvaspdf.New(&buf, cfg.Width, cfg.Height, nil)
	for i, c := range pages {
		if i > 0 {
			p.NewPage(c.W, c.H)
		}
		c.RenderTo(p)
	}
	if err := p.Close(); err != nil {
		return nil, fmt.Errorf("canvas render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// extractBlocks walks the block elements of an HTML document in order.
func extractBlocks(html string) ([]block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("head, style, script").Remove()

	var blocks []block
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Children().Each(func(_ int, s *goquery.Selection) {
			tag := goquery.NodeName(s)
			switch tag {
			case "p":
				blocks = append(blocks, block{text: blockText(s), size: bodySize})
			case "h1", "h2", "h3", "h4", "h5", "h6":
				blocks = append(blocks, block{text: blockText(s), size: headingSizes[tag], bold: true})
			case "ul", "ol":
				s.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
					marker := "• "
					if tag == "ol" {
						marker = strconv.Itoa(i+1) + ". "
					}
					blocks = append(blocks, block{text: marker + blockText(li), size: bodySize})
				})
			case "table":
				s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
					var cells []string
					tr.ChildrenFiltered("td, th").Each(func(_ int, td *goquery.Selection) {
						cells = append(cells, blockText(td))
					})
					blocks = append(blocks, block{text: strings.Join(cells, " | "), size: bodySize})
				})
			default:
				if s.Children().Length() > 0 {
					walk(s)
				} else if text := blockText(s); text != "" {
					blocks = append(blocks, block{text: text, size: bodySize})
				}
			}
		})
	}
	walk(doc.Find("body"))
	return blocks, nil
}

// blockText collapses whitespace inside each line of an element's text.
func blockText(s *goquery.Selection) string {
	lines := strings.Split(s.Text(), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// wrapText breaks text into lines no wider than width. Explicit newlines
// start a new line; a word wider than width gets a line of its own.
func wrapText(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if measure(candidate) <= width {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}
