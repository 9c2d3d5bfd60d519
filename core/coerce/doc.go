// Package coerce turns raw cell text into typed property values.
//
// Dates accept day-month-year style patterns (dd.MM.yyyy, yyyy-MM-dd'T'HH:mm)
// as well as Go layouts. Decimals accept the keywords "comma" and "point" or
// number patterns (#.##0,00, #,##0.00, 0,00) and validate grouping strictly,
// so "1.23,4" is rejected rather than guessed.
//
// A decimal property without formats is not parsed cell by cell. Its raw
// values are collected and DetectDecimalStyle decides one notation for the
// whole column, because a value like "1.234" is ambiguous on its own.
package coerce
