// Package utils provides small helpers shared by the engine and the import
// types: rendering property values for reports and cleaning raw cells.
package utils
