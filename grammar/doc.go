// Package grammar recognizes the dates and monetary amounts printed in
// statement tables.
//
// # Date Grammars
//
// Every statement family prints dates in one dialect. A [DateGrammar] is
// selected by name from a layout profile:
//
//	g, err := grammar.DateByName("day-month")
//	m, ok := g.Prefix("01/JUN SPEI RECIBIDO")
//	// m.Text == "01/JUN", m.End == 6
//
// The available variants are:
//
//   - day-month - "15 JAN", "01/JUN", "15/01"
//   - month-day - "JAN 15", "01/15"
//   - day-month-year - "15/01/2024", "15 JAN 2024", "15-01-24"
//   - hyphenated - "15-JAN-24", re-scanning for the year suffix
//   - day-only - a bare day number leading the row
//
// Month names are recognized in English and Spanish, in any letter case.
//
// # Amount Grammars
//
// An [AmountGrammar] finds decimal numbers with standard digit grouping
// ("1,234.56", "1.234,56", "45.00"). The currency variant requires a "$"
// marker so that short account-number-like digit runs are not mistaken for
// amounts.
//
// # Time of Day
//
// [MaskClock] blanks out time-of-day substrings ("14:32", "09:15:00 AM") so
// that they are never read as dates.
package grammar
