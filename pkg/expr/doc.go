// Package expr provides CEL (Common Expression Language) functionality for
// formatting the page indicator of a legend.
//
// Expressions have access to the variables:
//   - `current` (int): The one-based page number, or 0 when there is no page.
//   - `total` (int): The number of pages.
//
// Besides the standard CEL string and math extensions, the functions
// `ordinal(int)` ("1st", "2nd", ...) and `comma(int)` ("1,234") are
// available. Expressions must evaluate to a string, for example:
//
//	string(current) + " of " + string(total)
//	ordinal(current) + " page"
package expr
