// Package tables reconstructs transaction records from positioned tokens.
//
// The [Engine] runs the pipeline for one document, page by page:
//
//  1. Rows are grouped by top edge ([layout.RowDetector]).
//  2. Rows outside the profile's start and end markers, and boilerplate
//     rows, are dropped.
//  3. The [Splitter] divides rows that hold several records, using dates
//     at distinct heights or several amounts stacked in one numeric
//     column.
//  4. The [RecordExtractor] builds a candidate record: the date (rebuilt
//     from fragments if needed), raw amounts with their positions, column
//     values and the description.
//  5. Undated records are merged into the previous dated record with
//     [MergeContinuation].
//  6. When a record closes, the [AmountReconciler] settles its amounts
//     into numeric columns.
//
// Usage:
//
//	engine, err := tables.NewEngine(p)
//	if err != nil {
//	    return err
//	}
//	for _, page := range pages {
//	    engine.AddPage(page.Tokens, page.OCR)
//	}
//	records := engine.Finish()
//
// # Configuration
//
// Split and amount tolerances are controlled by [EngineConfig]:
//
//	config := tables.DefaultEngineConfig()
//	config.Amounts.MaxDistance = 25
//	engine, err := tables.NewEngineWithConfig(p, config)
package tables
