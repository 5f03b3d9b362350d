// Package batch converts every statement in a folder to a spreadsheet.
//
// A Runner finds PDFs and scanned images (optionally in subfolders),
// converts them in parallel and collects a Summary with per-file timings.
// A statement whose control totals do not reconcile counts as a failed
// file even when its spreadsheet was written.
//
// Each run can be recorded in a sqlite Ledger, one row per file with its
// Done or Failed status and error message:
//
//	ledger, err := batch.OpenLedger("runs.db")
//	if err != nil {
//	    return err
//	}
//	defer ledger.Close()
//
//	runner := batch.NewRunner(batch.XLSXConverter{}, batch.Config{Workers: 4, Ledger: ledger})
//	summary, err := runner.Run(ctx, "statements/")
//	if err != nil {
//	    return err
//	}
//	summary.Write(os.Stdout)
package batch
