package protocol

import "fmt"

// Field identifies a component of a `dfu-util --list` line.
type Field int

const (
	// FieldType is the "Found DFU" / "Found Runtime" marker
	FieldType Field = iota

	// FieldVIDPID is the bracketed [vid:pid] pair
	FieldVIDPID

	// FieldDevNum is the devnum=N token
	FieldDevNum

	// FieldAlt is the alt=N token
	FieldAlt
)

func (f Field) String() string {
	switch f {
	case FieldType:
		return "DFU/Runtime type"
	case FieldVIDPID:
		return "[vid:pid]"
	case FieldDevNum:
		return "devnum=N"
	case FieldAlt:
		return "alt=N"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// ListParseError reports a line that is not a device entry.
// Err is nil when the field is missing and holds the strconv error when the
// field is present but its number does not fit.
type ListParseError struct {
	// Field is the first field that is missing or invalid
	Field Field

	// Line is the input line
	Line string

	// Err is the number conversion error, if any
	Err error
}

func (e *ListParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s in %q: %v", e.Field, e.Line, e.Err)
	}
	return fmt.Sprintf("missing %s in %q", e.Field, e.Line)
}

func (e *ListParseError) Unwrap() error {
	return e.Err
}

// IsListParseError returns true if the error is a ListParseError.
func IsListParseError(err error) bool {
	_, ok := err.(*ListParseError)
	return ok
}
