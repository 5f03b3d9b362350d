// Package model provides the data types shared by every stage of statement
// table reconstruction.
//
// # Tokens
//
// A [Token] is a positioned text fragment produced by a source adapter, either
// from a digital text layer or from OCR. Coordinates are top-down: Top grows
// towards the bottom of the page. Tokens are immutable; callers that need
// well-ordered edges use [Token.Normalized].
//
// # Rows and Records
//
// A [RowGroup] is a cluster of tokens believed to share one visual table line.
// A [Record] is the structured candidate transaction built from one or more
// row groups:
//
//	rec := model.NewRecord(1)
//	rec.Date = "15 JAN"
//	rec.Description = "GROCERY STORE"
//	rec.Amounts["debit"] = "45.00"
//
// # Tables
//
// A [Table] is the rendered output of a statement: a header, one row of
// [Cell] values per record and a trailing [TotalLabel] row.
//
// # Geometry
//
//   - [Range] - a closed horizontal interval used for column geometry
//   - [BBox] - a top-down bounding box
package model
