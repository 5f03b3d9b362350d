package tables

import (
	"log/slog"

	"github.com/tsawler/ledgerscan/internal/logger"
	"github.com/tsawler/ledgerscan/layout"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/profile"
)

// EngineConfig holds configuration for the reconstruction engine
type EngineConfig struct {
	Split     SplitConfig
	Amounts   AmountConfig
	KeyValues KeyValueConfig

	// OCRLineHints starts a new row on recognizer pages whenever two
	// tokens come from different recognizer lines.
	// Default: false
	OCRLineHints bool

	// Logger receives debug-level decisions (skipped rows, orphaned
	// continuations, split disagreements). Nil means the default logger.
	Logger *slog.Logger
}

// DefaultEngineConfig returns sensible default configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Split:     DefaultSplitConfig(),
		Amounts:   DefaultAmountConfig(),
		KeyValues: DefaultKeyValueConfig(),
	}
}

// Stats counts what the engine did with the rows it saw.
type Stats struct {
	Pages         int
	Rows          int // rows inside the table body, before splitting
	OutsideTable  int // rows outside the start/end markers
	Skipped       int // boilerplate rows
	Splits        int // rows divided into two or more records
	Continuations int // undated rows merged into the previous record
	Orphans       int // undated rows with no dated record before them
	Records       int
}

// pipeline is the per-column-set machinery. Digital and recognizer pages
// use different column ranges.
type pipeline struct {
	columns    *layout.ColumnAssigner
	splitter   *Splitter
	extractor  *RecordExtractor
	reconciler *AmountReconciler
}

// Engine reconstructs transaction records from the pages of one document.
// Pages must be added in document order. An Engine is not safe for
// concurrent use; run one per document.
type Engine struct {
	config   EngineConfig
	compiled *profile.Compiled
	rows     *layout.RowDetector
	ocrRows  *layout.RowDetector
	section  *Section
	digital  *pipeline
	ocr      *pipeline
	summary  *KeyValueExtractor
	logger   *slog.Logger

	// open is the dated record still accepting continuation rows.
	open *model.Record
	// openPipe reconciles open when it is closed.
	openPipe *pipeline
	records  []model.Record
	stats    Stats
}

// NewEngine creates an engine for a profile with default configuration.
func NewEngine(p *profile.Profile) (*Engine, error) {
	return NewEngineWithConfig(p, DefaultEngineConfig())
}

// NewEngineWithConfig creates an engine with custom configuration.
func NewEngineWithConfig(p *profile.Profile, config EngineConfig) (*Engine, error) {
	compiled, err := p.Compile()
	if err != nil {
		return nil, err
	}
	l := logger.Or(config.Logger).With("profile", p.Name)

	e := &Engine{
		config:   config,
		compiled: compiled,
		rows:     layout.NewRowDetectorWithConfig(layout.RowConfig{Tolerance: p.Tolerance()}),
		section:  NewSection(p.StartMarker, p.EndMarker),
		summary:  NewKeyValueExtractor(compiled, config.KeyValues),
		logger:   l,
	}
	e.ocrRows = layout.NewRowDetectorWithConfig(layout.RowConfig{
		Tolerance:       p.Tolerance(),
		SplitOnLineHint: config.OCRLineHints,
	})
	e.digital = e.newPipeline(p.ColumnsFor(false))
	e.ocr = e.digital
	if len(p.OCRColumns) > 0 {
		e.ocr = e.newPipeline(p.OCRColumns)
	}
	return e, nil
}

func (e *Engine) newPipeline(cols []profile.Column) *pipeline {
	columns := layout.NewColumnAssigner(cols)
	return &pipeline{
		columns:    columns,
		splitter:   NewSplitter(e.compiled, columns, e.config.Split, e.logger),
		extractor:  NewRecordExtractor(e.compiled, columns),
		reconciler: NewAmountReconciler(columns, e.compiled.Amounts, e.config.Amounts, e.logger),
	}
}

// Compiled returns the engine's compiled profile.
func (e *Engine) Compiled() *profile.Compiled {
	return e.compiled
}

// AddPage feeds one page of tokens. ocr selects the profile's recognizer
// column ranges, when it has them.
func (e *Engine) AddPage(tokens []model.Token, ocr bool) {
	e.stats.Pages++
	pipe, rows := e.digital, e.rows
	if ocr {
		pipe, rows = e.ocr, e.ocrRows
	}

	for _, row := range rows.Detect(tokens) {
		text := row.Text()
		wasOpen := e.section.Open()
		inBody := e.section.Observe(text)
		if wasOpen != e.section.Open() {
			e.summary.Break()
		}
		if wasOpen && !e.section.Open() {
			e.closeOpen()
		}
		if !inBody {
			e.stats.OutsideTable++
			if !e.compiled.Skipped(text) {
				e.summary.Row(text)
			}
			continue
		}
		e.stats.Rows++

		if e.compiled.Skipped(text) {
			e.stats.Skipped++
			e.logger.Debug("skipping boilerplate row", "page", row.Page, "text", text)
			continue
		}

		parts := pipe.splitter.Split(row)
		if len(parts) > 1 {
			e.stats.Splits++
		}
		for _, part := range parts {
			e.addRow(pipe, part)
		}
	}
}

func (e *Engine) addRow(pipe *pipeline, row model.RowGroup) {
	rec := pipe.extractor.Extract(row)
	if pipe.extractor.Dated(rec) {
		e.closeOpen()
		e.summary.Break()
		e.open = rec
		e.openPipe = pipe
		return
	}
	if !rec.HasContent() {
		return
	}
	if e.open == nil {
		e.stats.Orphans++
		e.logger.Debug("dropping continuation with no dated record",
			"page", row.Page, "text", row.Text())
		e.summary.Row(row.Text())
		return
	}
	MergeContinuation(e.open, rec, pipe.columns, e.compiled.Amounts)
	e.stats.Continuations++
}

// closeOpen reconciles and stores the open record.
func (e *Engine) closeOpen() {
	if e.open == nil {
		return
	}
	e.openPipe.reconciler.Reconcile(e.open)
	e.extractReference(e.open)
	e.records = append(e.records, *e.open)
	e.open = nil
	e.openPipe = nil
}

// extractReference moves the first reference matched by the profile's
// reference pattern out of the description.
func (e *Engine) extractReference(rec *model.Record) {
	re := e.compiled.Reference
	if re == nil {
		return
	}
	loc := re.FindStringIndex(rec.Description)
	if loc == nil {
		return
	}
	rec.AppendField(profile.ColumnReference, rec.Description[loc[0]:loc[1]])
	rec.Description = model.JoinText(rec.Description[:loc[0]], rec.Description[loc[1]:])
}

// Finish closes the last open record and returns every record in document
// order. The engine must not be used afterwards.
func (e *Engine) Finish() []model.Record {
	e.closeOpen()
	e.stats.Records = len(e.records)
	return e.records
}

// KeyValues returns the labeled figures found outside the transaction
// rows, in document order.
func (e *Engine) KeyValues() []model.KeyValue {
	return e.summary.Pairs()
}

// Stats returns the engine's counters.
func (e *Engine) Stats() Stats {
	return e.stats
}
