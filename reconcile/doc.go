// Package reconcile checks extracted records against the control totals a
// statement prints in its header or footer.
//
// Column sums, the closing balance and the record count are computed with
// decimal arithmetic and compared with the declared values:
//
//	declared, err := reconcile.ParseControls(headerText, p.Controls)
//	report := reconcile.Check(records, compiled, declared)
//	if !report.Passed {
//	    for _, e := range report.Failed() {
//	        fmt.Println(e.Concept, e.Difference)
//	    }
//	}
//
// A concept matches when the declared and computed values differ by less
// than one cent. A concept with no declared value is reported as not
// found and does not match.
package reconcile
