package coerce

import (
	"errors"
	"fmt"
)

// Kind is the statically known target type of a property.
type Kind int

const (
	String Kind = iota
	Date
	DateTime
	Decimal
	Int
	Long
	Bool
	Unknown
)

var kindNames = map[Kind]string{
	String:   "string",
	Date:     "date",
	DateTime: "datetime",
	Decimal:  "decimal",
	Int:      "int",
	Long:     "long",
	Bool:     "bool",
	Unknown:  "unknown",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrNoMatchingFormat is wrapped by CellError when no configured format
// accepts a value.
var ErrNoMatchingFormat = errors.New("no matching format")

// CellError describes a cell that could not be coerced.
type CellError struct {
	Property string
	Kind     Kind
	Raw      string
	Err      error
}

func (e *CellError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("cannot parse %q as %s: %v", e.Raw, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: cannot parse %q as %s: %v", e.Property, e.Raw, e.Kind, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
