package ledgerscan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tsawler/ledgerscan/format"
	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/internal/logger"
	"github.com/tsawler/ledgerscan/layout"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/ocr"
	"github.com/tsawler/ledgerscan/profile"
	"github.com/tsawler/ledgerscan/reconcile"
	"github.com/tsawler/ledgerscan/source"
	"github.com/tsawler/ledgerscan/tables"
)

// Extractor provides a fluent interface for extracting statements.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source: a file, or pages supplied by the caller
	filename string
	source   source.Source

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		source:   e.source,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	stmt, _, err := ledgerscan.Open("statement.pdf").Profile(p).Pages(1, 2).Statement(ctx)
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Profile sets the layout profile explicitly.
func (e *Extractor) Profile(p *profile.Profile) *Extractor {
	newExt := e.clone()
	newExt.options.profile = p
	return newExt
}

// Registry sets the profiles available for ProfileName and for issuer
// detection.
func (e *Extractor) Registry(r *profile.Registry) *Extractor {
	newExt := e.clone()
	newExt.options.registry = r
	return newExt
}

// ProfileFile loads a profiles file (YAML, JSON or TOML) as the registry.
//
// Example:
//
//	stmt, _, err := ledgerscan.Open("statement.pdf").ProfileFile("profiles.yaml").Statement(ctx)
func (e *Extractor) ProfileFile(path string) *Extractor {
	newExt := e.clone()
	if newExt.err != nil {
		return newExt
	}
	reg, err := profile.LoadFile(path)
	if err != nil {
		newExt.err = err
		return newExt
	}
	newExt.options.registry = reg
	return newExt
}

// ProfileName selects a profile from the registry by name instead of
// detecting the issuer.
func (e *Extractor) ProfileName(name string) *Extractor {
	newExt := e.clone()
	newExt.options.profileName = name
	return newExt
}

// ForceOCR skips the digital text layer and recognizes every page.
func (e *Extractor) ForceOCR() *Extractor {
	newExt := e.clone()
	newExt.options.forceOCR = true
	return newExt
}

// AllowDegraded uses an illegible text layer when OCR fails, instead of
// failing. The statement is marked Degraded.
func (e *Extractor) AllowDegraded() *Extractor {
	newExt := e.clone()
	newExt.options.allowDegraded = true
	return newExt
}

// Legibility overrides the thresholds for judging the text layer.
func (e *Extractor) Legibility(config source.LegibilityConfig) *Extractor {
	newExt := e.clone()
	newExt.options.legibility = config
	return newExt
}

// Languages sets the Tesseract languages, e.g. "eng+spa".
func (e *Extractor) Languages(langs string) *Extractor {
	newExt := e.clone()
	newExt.options.languages = langs
	return newExt
}

// DPI sets the rasterization resolution for OCR.
func (e *Extractor) DPI(dpi int) *Extractor {
	newExt := e.clone()
	newExt.options.dpi = dpi
	return newExt
}

// MinConfidence sets the lowest OCR word confidence kept.
func (e *Extractor) MinConfidence(c float64) *Extractor {
	newExt := e.clone()
	newExt.options.minConfidence = c
	return newExt
}

// Rasterizer replaces pdftoppm for rendering pages to images.
func (e *Extractor) Rasterizer(r source.Rasterizer) *Extractor {
	newExt := e.clone()
	newExt.options.rasterizer = r
	return newExt
}

// Recognizer replaces the Tesseract client.
func (e *Extractor) Recognizer(r source.Recognizer) *Extractor {
	newExt := e.clone()
	newExt.options.recognizer = r
	return newExt
}

// Corrector replaces the post-recognition correction chain.
func (e *Extractor) Corrector(c source.Corrector) *Extractor {
	newExt := e.clone()
	newExt.options.corrector = c
	return newExt
}

// EngineConfig overrides the table engine configuration.
func (e *Extractor) EngineConfig(config tables.EngineConfig) *Extractor {
	newExt := e.clone()
	newExt.options.engine = config
	return newExt
}

// HeaderFooter overrides the thresholds for detecting page headers and
// footers, which are dropped before reconstruction.
func (e *Extractor) HeaderFooter(config layout.HeaderFooterConfig) *Extractor {
	newExt := e.clone()
	newExt.options.headerFooter = config
	return newExt
}

// KeepHeaderFooter disables header and footer removal.
func (e *Extractor) KeepHeaderFooter() *Extractor {
	newExt := e.clone()
	newExt.options.keepHeaderFooter = true
	return newExt
}

// Declared supplies a control total, overriding any value parsed from the
// statement text. value is printed amount text such as "1,234.56".
//
// Example:
//
//	stmt, _, err := ledgerscan.Open("statement.pdf").Profile(p).Declared("Total debit", "1,045.50").Statement(ctx)
func (e *Extractor) Declared(concept, value string) *Extractor {
	newExt := e.clone()
	if newExt.err != nil {
		return newExt
	}
	d, err := grammar.ParseAmount(value)
	if err != nil {
		newExt.err = fmt.Errorf("declared %q: %w", concept, err)
		return newExt
	}
	if newExt.options.declared == nil {
		newExt.options.declared = make(map[string]decimal.Decimal)
	}
	newExt.options.declared[concept] = d
	return newExt
}

// Logger sets the logger for extraction decisions.
func (e *Extractor) Logger(l *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Statement extracts the records of the configured pages and reconciles
// them against the statement's control totals.
//
// Returns the statement, any warnings encountered during processing, and
// an error if the document could not be read. Warnings indicate non-fatal
// issues (no content, degraded source, unreconciled totals) where
// extraction succeeded but results may be incomplete.
func (e *Extractor) Statement(ctx context.Context) (*Statement, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	runID := logger.RunIDFromContext(ctx)
	if runID == "" {
		runID = logger.NewRunID()
		ctx = logger.WithRunID(ctx, runID)
	}
	l := logger.Or(e.options.logger).With("run_id", runID)
	if e.filename != "" {
		l = l.With("file", e.filename)
	}

	src, closeSource, err := e.buildSource(l)
	if err != nil {
		return nil, nil, err
	}
	defer closeSource()

	pages, err := src.Extract(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("extract %s: %w", e.name(), err)
	}

	stmt := &Statement{File: e.filename, RunID: runID}
	var warnings []Warning
	if sel, ok := src.(*source.Selector); ok {
		s := sel.Selection()
		stmt.OCR, stmt.Degraded, stmt.Legibility = s.OCR, s.Degraded, s.Legibility
		if s.Degraded {
			warnings = append(warnings, Warning{Type: WarningDegraded, Message: s.Cause.Error()})
		}
	} else if len(pages) > 0 {
		stmt.OCR = pages[0].OCR
	}

	pages, err = selectPages(pages, e.options.pages)
	if err != nil {
		return nil, nil, err
	}
	stmt.Pages = len(pages)

	p, err := e.resolveProfile(pages)
	if err != nil {
		if !e.detecting() || !errors.Is(err, profile.ErrNoProfile) || countTokens(pages) > 0 {
			return nil, nil, err
		}
		// Nothing to detect an issuer from: an empty statement.
		stmt.Report = &reconcile.Report{}
		warnings = append(warnings, Warning{Type: WarningNoContent, Message: "document has no text"})
		l.Info("statement extracted", "pages", stmt.Pages, "records", 0, "profile", "")
		return stmt, warnings, nil
	}
	stmt.Profile = p.Name
	l = l.With("profile", p.Name)

	config := e.options.engine
	config.Logger = l
	engine, err := tables.NewEngineWithConfig(p, config)
	if err != nil {
		return nil, nil, err
	}
	compiled := engine.Compiled()

	prepared := make([][]model.Token, len(pages))
	for i, page := range pages {
		prepared[i] = e.prepare(page, compiled)
		stmt.Tokens += len(prepared[i])
	}
	prepared, stmt.HeaderFooter = e.dropHeaderFooter(prepared, p.Tolerance())
	if len(stmt.HeaderFooter) > 0 {
		l.Debug("dropped page headers and footers", "rows", stmt.HeaderFooter)
	}
	for i, page := range pages {
		engine.AddPage(prepared[i], page.OCR)
	}
	stmt.Records = engine.Finish()
	stmt.Stats = engine.Stats()
	stmt.KeyValues = engine.KeyValues()
	stmt.compiled = compiled

	declared := e.options.declared
	if declared == nil {
		controls := p.Controls
		if len(controls) == 0 {
			controls = reconcile.DefaultControls(p)
		}
		declared, err = reconcile.ParseControls(source.Text(pages), controls)
		if err != nil {
			return nil, nil, err
		}
	}
	stmt.Report = reconcile.Check(stmt.Records, compiled, declared)

	if stmt.Tokens == 0 {
		warnings = append(warnings, Warning{Type: WarningNoContent, Message: "document has no text"})
	}
	warnings = append(warnings, stmt.warnings()...)

	l.Info("statement extracted",
		"pages", stmt.Pages,
		"records", len(stmt.Records),
		"ocr", stmt.OCR,
		"degraded", stmt.Degraded,
		"reconciled", stmt.Reconciled())
	return stmt, warnings, nil
}

// Records extracts the records of the configured pages.
func (e *Extractor) Records(ctx context.Context) ([]model.Record, []Warning, error) {
	stmt, warnings, err := e.Statement(ctx)
	if err != nil {
		return nil, warnings, err
	}
	return stmt.Records, warnings, nil
}

// Table extracts the statement and renders it as a table with a TOTAL row.
func (e *Extractor) Table(ctx context.Context) (*model.Table, []Warning, error) {
	stmt, warnings, err := e.Statement(ctx)
	if err != nil {
		return nil, warnings, err
	}
	return stmt.Table(), warnings, nil
}

// ============================================================================
// Helpers
// ============================================================================

func (e *Extractor) name() string {
	if e.filename != "" {
		return e.filename
	}
	return "source"
}

// buildSource picks the page source: the caller's, OCR for scanned
// images, or the digital layer with OCR fallback for PDFs.
func (e *Extractor) buildSource(l *slog.Logger) (source.Source, func(), error) {
	noop := func() {}
	if e.source != nil {
		return e.source, noop, nil
	}
	if e.filename == "" {
		return nil, noop, fmt.Errorf("no filename specified")
	}

	f, err := format.DetectFile(e.filename)
	if err != nil {
		return nil, noop, err
	}

	rec := e.options.recognizer
	closeRec := noop
	if rec == nil {
		lazy := &lazyRecognizer{config: ocr.Config{
			Languages:   e.options.languages,
			PageSegMode: ocr.PSM_SPARSE_TEXT,
			Scale:       ocr.DefaultScaleConfig(),
		}}
		rec = lazy
		closeRec = lazy.close
	}
	ocrConfig := source.OCRConfig{
		DPI:           e.options.dpi,
		MinConfidence: e.options.minConfidence,
	}

	if f.IsImage() {
		data, err := os.ReadFile(e.filename)
		if err != nil {
			closeRec()
			return nil, noop, fmt.Errorf("read %s: %w", e.filename, err)
		}
		return source.NewImageSource([][]byte{data}, rec, ocrConfig, l), closeRec, nil
	}

	rasterizer := e.options.rasterizer
	if rasterizer == nil {
		rasterizer = source.Pdftoppm{}
	}
	sel := source.NewSelector(
		source.NewPDFText(e.filename, l),
		source.NewOCRSource(e.filename, rasterizer, rec, ocrConfig, l),
		source.SelectorConfig{
			Legibility:    e.options.legibility,
			ForceOCR:      e.options.forceOCR,
			AllowDegraded: e.options.allowDegraded,
		},
		l,
	)
	return sel, closeRec, nil
}

// resolveProfile returns the explicit profile, the named one, or the one
// detected from the statement text. A registry holding a single profile
// falls back to it when detection finds no keywords.
func (e *Extractor) resolveProfile(pages []source.Page) (*profile.Profile, error) {
	switch {
	case e.options.profile != nil:
		return e.options.profile, nil
	case e.options.registry == nil:
		return nil, fmt.Errorf("no profile or registry configured: %w", profile.ErrNoProfile)
	case e.options.profileName != "":
		return e.options.registry.Get(e.options.profileName)
	}

	reg := e.options.registry
	p, err := reg.Detect(source.Text(pages))
	if err != nil && reg.Len() == 1 {
		return reg.Get(reg.Names()[0])
	}
	return p, err
}

// detecting reports whether the profile comes from issuer detection.
func (e *Extractor) detecting() bool {
	return e.options.profile == nil && e.options.registry != nil && e.options.profileName == ""
}

func countTokens(pages []source.Page) int {
	n := 0
	for _, p := range pages {
		n += len(p.Tokens)
	}
	return n
}

// prepare converts recognizer pages to the profile's coordinate space and
// applies post-recognition correction.
func (e *Extractor) prepare(page source.Page, c *profile.Compiled) []model.Token {
	if !page.OCR {
		return page.Tokens
	}
	tokens := page.Tokens
	if page.Pixels && len(c.Profile.OCRColumns) == 0 {
		tokens = source.ToPoints(tokens, page.DPI)
	}
	corrector := source.NewColumnCorrector(c.Profile.ColumnsFor(true), c.Amounts, e.options.corrector)
	return corrector.Apply(tokens)
}

// dropHeaderFooter removes rows repeated at the top or bottom of several
// pages and returns the normalized text of what was removed.
func (e *Extractor) dropHeaderFooter(pages [][]model.Token, tolerance float64) ([][]model.Token, []string) {
	if e.options.keepHeaderFooter || len(pages) < 2 {
		return pages, nil
	}

	rows := layout.NewRowDetectorWithConfig(layout.RowConfig{Tolerance: tolerance})
	pageRows := make([]layout.PageRows, len(pages))
	for i, tokens := range pages {
		pageRows[i] = layout.PageRows{PageIndex: i, Rows: rows.Detect(tokens)}
	}

	result := layout.NewHeaderFooterDetectorWithConfig(e.options.headerFooter).Detect(pageRows)
	if !result.HasHeadersOrFooters() {
		return pages, nil
	}

	out := make([][]model.Token, len(pages))
	for i, pr := range pageRows {
		out[i] = layout.Flatten(result.Filter(pr))
	}
	return out, result.Texts()
}

// selectPages keeps the requested 1-indexed pages, in page order.
func selectPages(pages []source.Page, requested []int) ([]source.Page, error) {
	if len(requested) == 0 {
		return pages, nil
	}

	seen := make(map[int]bool)
	var indices []int
	for _, p := range requested {
		if p < 1 || p > len(pages) {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, len(pages))
		}
		if !seen[p] {
			seen[p] = true
			indices = append(indices, p-1)
		}
	}
	sort.Ints(indices)

	out := make([]source.Page, len(indices))
	for i, idx := range indices {
		out[i] = pages[idx]
	}
	return out, nil
}

// lazyRecognizer starts Tesseract on first use, so documents with a
// legible text layer never pay for it.
type lazyRecognizer struct {
	config ocr.Config
	client *ocr.Client
	err    error
}

func (r *lazyRecognizer) Recognize(ctx context.Context, image []byte) ([]ocr.Word, error) {
	if r.client == nil && r.err == nil {
		r.client, r.err = ocr.NewWithConfig(r.config)
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.client.Recognize(ctx, image)
}

func (r *lazyRecognizer) close() {
	if r.client != nil {
		r.client.Close()
	}
}
