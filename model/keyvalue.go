package model

// KeyValue is a labeled figure printed outside the transaction table, such
// as an average balance, a yield rate or a statement period bound.
type KeyValue struct {
	// Title is the heading the figure was printed under.
	Title string

	Label string
	Value string

	// Percent is a rate printed beside the value, such as "3.50%".
	Percent string

	// Raw is the row text the figure came from.
	Raw string
}
