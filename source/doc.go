// Package source produces positioned page tokens for the table engine.
//
// A [Source] yields the pages of one document in order. [PDFText] reads
// the digital text layer; [OCRSource] rasterizes pages (or takes scanned
// images directly) and recognizes words with their pixel boxes; [Selector]
// measures the legibility of the digital layer and falls back to OCR for
// the whole document when the layer is unusable. [Static] serves pages
// held in memory.
//
// Every source returns top-down coordinates. OCR pages carry their DPI and
// may be converted to points with [ToPoints].
package source
