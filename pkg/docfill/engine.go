package docfill

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/convert"
	"github.com/benjaminschreck/go-docfill/pkg/docfill/pdf"
	"github.com/benjaminschreck/go-docfill/pkg/docfill/render"
)

// NormalizedTemplate is a template whose split placeholders have been merged
// back into single text elements. It is immutable once built and safe to
// share between goroutines.
type NormalizedTemplate struct {
	Path string
	// Parts maps part names to merged markup.
	Parts map[string]string
	// PartOrder is word/document.xml followed by headers and footers.
	PartOrder []string
	// Placeholders lists every placeholder name in document order, deduplicated
	// across parts.
	Placeholders []string
	// Diagnostics holds DiagUnterminated entries when unterminated
	// placeholders were allowed.
	Diagnostics []Diagnostic

	source *DocxReader
}

// Engine generates reports from DOCX templates and form data.
// Use New() to create a new engine instance.
type Engine struct {
	config *Config
	cache  *TemplateCache
	logger *Logger

	pdfMu    sync.Mutex
	renderer pdf.Renderer
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		e.config = config
	}
}

// WithLogger returns an option that sets the logger diagnostics are written to.
func WithLogger(logger *Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPDFRenderer returns an option that sets the PDF renderer.
func WithPDFRenderer(r pdf.Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// WithCache returns an option that sets the template cache.
func WithCache(cache *TemplateCache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// New creates a new engine from the global configuration.
func New(opts ...Option) *Engine {
	e := &Engine{config: GetGlobalConfig()}
	for _, opt := range opts {
		opt(e)
	}
	if e.config == nil {
		e.config = DefaultConfig()
	}
	if e.cache == nil {
		e.cache = NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: e.config.CacheMaxSize,
			TTL:     e.config.CacheTTL,
		})
	}
	if e.logger == nil {
		e.logger = GetLogger()
	}
	return e
}

// NewWithConfig creates a new engine with custom configuration.
func NewWithConfig(config *Config, opts ...Option) *Engine {
	return New(append([]Option{WithConfig(config)}, opts...)...)
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// ClearCache removes all templates from the cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Normalize validates a template, merges split placeholders in every template
// part and extracts the placeholder names.
func (e *Engine) Normalize(ctx context.Context, path string) (*NormalizedTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := ValidateTemplateFile(path)
	if err != nil {
		return nil, err
	}

	tmpl, hit, err := e.cache.GetOrLoad(CacheKey(path, info), func() (*NormalizedTemplate, error) {
		return e.normalize(path)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		e.logger.WithField("template", path).Debug("using cached template")
	}
	return tmpl, nil
}

func (e *Engine) normalize(path string) (*NormalizedTemplate, error) {
	reader, _, err := OpenTemplate(path)
	if err != nil {
		return nil, err
	}

	tmpl := &NormalizedTemplate{
		Path:      path,
		Parts:     make(map[string]string),
		PartOrder: reader.TemplateParts(),
		source:    reader,
	}

	seen := make(map[string]bool)
	for _, part := range tmpl.PartOrder {
		content, err := reader.GetPart(part)
		if err != nil {
			return nil, &DocumentError{Operation: "read", Path: path, Cause: err, Hint: HintResaveTemplate}
		}

		merged, err := render.Merge(string(content))
		if err != nil {
			var unterminated *UnterminatedPlaceholderError
			if !e.config.AllowUnterminated || !errors.As(err, &unterminated) {
				return nil, WithContext(err, "normalize", map[string]interface{}{"part": part})
			}
			merged = render.MergeLenient(string(content))
			tmpl.Diagnostics = append(tmpl.Diagnostics, Diagnostic{
				Code:        DiagUnterminated,
				Placeholder: unterminated.Fragment,
				Message:     fmt.Sprintf("%s in %s", unterminated.Error(), part),
			})
		}
		tmpl.Parts[part] = merged

		for _, name := range render.Extract(render.TextContent(merged)) {
			if !seen[name] {
				seen[name] = true
				tmpl.Placeholders = append(tmpl.Placeholders, name)
			}
		}
	}

	if tmpl.Placeholders == nil {
		tmpl.Placeholders = []string{}
	}

	e.logger.WithFields(Fields{
		"template":     path,
		"parts":        len(tmpl.PartOrder),
		"placeholders": len(tmpl.Placeholders),
	}).Debug("normalized template")
	return tmpl, nil
}

// Generate fills a template with form data and returns the report in the
// requested format. Placeholders without a matching key are left blank and
// reported as diagnostics, each logged at warn level.
func (e *Engine) Generate(ctx context.Context, req Request) (*Report, error) {
	format, err := ParseFormat(string(req.Format))
	if err != nil {
		return nil, err
	}

	tmpl, err := e.Normalize(ctx, req.TemplatePath)
	if err != nil {
		return nil, err
	}

	values, diags := ResolveAll(tmpl.Placeholders, req.FormData)
	diags = append(append([]Diagnostic{}, tmpl.Diagnostics...), diags...)
	e.logDiagnostics(req.TemplatePath, diags)

	fillValues := values
	if e.config.StrictMode {
		// unresolved placeholders must fail the fill instead of going blank
		fillValues = make(map[string]string, len(values))
		for name, v := range values {
			fillValues[name] = v
		}
		for _, d := range FilterDiagnostics(diags, DiagUnresolved) {
			delete(fillValues, d.Placeholder)
		}
	}

	filled := make(map[string][]byte, len(tmpl.PartOrder))
	opts := render.FillOptions{Strict: e.config.StrictMode}
	for _, part := range tmpl.PartOrder {
		out, err := render.Fill(tmpl.Parts[part], fillValues, opts)
		if err != nil {
			return nil, &RenderError{Part: part, Cause: err, Hint: HintCheckData}
		}
		filled[part] = []byte(out)
	}

	var buf bytes.Buffer
	if err := tmpl.source.WriteDocx(&buf, filled); err != nil {
		return nil, &RenderError{Cause: err, Hint: HintCheckData}
	}

	report := &Report{
		Format:       format,
		DocType:      req.DocType,
		Data:         buf.Bytes(),
		Placeholders: slices.Clone(tmpl.Placeholders),
		Values:       values,
		Diagnostics:  diags,
	}
	if report.DocType == "" {
		report.DocType = DefaultDocType
	}

	if format != FormatDOCX {
		if err := e.convert(ctx, report, string(filled[DocumentPart])); err != nil {
			return nil, err
		}
	}

	e.logger.WithFields(Fields{
		"template":    req.TemplatePath,
		"format":      string(format),
		"bytes":       len(report.Data),
		"diagnostics": len(report.Diagnostics),
	}).Info("generated report")
	return report, nil
}

func (e *Engine) convert(ctx context.Context, report *Report, documentXML string) error {
	body, messages, err := convert.ToHTML(documentXML)
	if err != nil {
		return &ConvertError{Format: report.Format, Stage: "html", Cause: err}
	}
	for _, m := range messages {
		d := Diagnostic{Code: DiagConversion, Message: m.String()}
		report.Diagnostics = append(report.Diagnostics, d)
		e.logger.WithField("format", string(report.Format)).Debug("conversion: %s", d.Message)
	}

	switch report.Format {
	case FormatMarkdown:
		text, err := convert.ToMarkdown(body)
		if err != nil {
			return &ConvertError{Format: report.Format, Stage: "markdown", Cause: err}
		}
		report.Data = []byte(text)

	case FormatPDF:
		page, err := convert.PrintPage(body, convert.PageOptions{Title: report.DocType})
		if err != nil {
			return &ConvertError{Format: report.Format, Stage: "print page", Cause: err}
		}
		renderer, err := e.pdfRenderer()
		if err != nil {
			return &ConvertError{Format: report.Format, Stage: "renderer", Cause: err}
		}
		data, err := renderer.Render(ctx, page, pdf.DefaultPageConfig())
		if err != nil {
			return &ConvertError{Format: report.Format, Stage: renderer.Name(), Cause: err}
		}
		report.Data = data
	}
	return nil
}

func (e *Engine) pdfRenderer() (pdf.Renderer, error) {
	e.pdfMu.Lock()
	defer e.pdfMu.Unlock()

	if e.renderer != nil {
		return e.renderer, nil
	}
	r, err := pdf.New(e.config.PDFEngine, e.config.ChromePath)
	if err != nil {
		return nil, err
	}
	e.logger.WithField("engine", r.Name()).Debug("selected pdf renderer")
	e.renderer = r
	return r, nil
}

func (e *Engine) logDiagnostics(template string, diags []Diagnostic) {
	for _, d := range diags {
		fields := Fields{
			"template": template,
			"code":     d.Code.String(),
		}
		if d.Placeholder != "" {
			fields["placeholder"] = d.Placeholder
		}
		if d.Code == DiagUnresolved {
			fields["available_keys"] = d.Keys
		}
		e.logger.WithFields(fields).Warn("%s", d.Message)
	}
}

// GenerateAll generates reports concurrently, at most Config.Workers at a
// time. Reports are returned in request order. The first error cancels the
// remaining requests.
func (e *Engine) GenerateAll(ctx context.Context, reqs []Request) ([]*Report, error) {
	reports := make([]*Report, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := e.Generate(ctx, req)
			if err != nil {
				return WithContext(err, "generate", map[string]interface{}{"index": i, "template": req.TemplatePath})
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// GenerateEach is GenerateAll without the early stop: every request runs.
// Failed requests leave a nil report, and their errors are returned together
// as a MultiError in request order.
func (e *Engine) GenerateEach(ctx context.Context, reqs []Request) ([]*Report, error) {
	reports := make([]*Report, len(reqs))
	errs := make([]error, len(reqs))

	var g errgroup.Group
	g.SetLimit(e.workers())
	for i, req := range reqs {
		g.Go(func() error {
			report, err := e.Generate(ctx, req)
			if err != nil {
				errs[i] = WithContext(err, "generate", map[string]interface{}{"index": i, "template": req.TemplatePath})
				return nil
			}
			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()

	multi := NewMultiError()
	for _, err := range errs {
		multi.Add(err)
	}
	return reports, multi.Err()
}

func (e *Engine) workers() int {
	if e.config.Workers <= 0 {
		return 1
	}
	return e.config.Workers
}
