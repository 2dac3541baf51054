package scanconfig

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange reports a value outside its declared numeric range.
	ErrOutOfRange = errors.New("value out of range")
	// ErrUnknownEnum reports an ordinal that maps to no enum member.
	ErrUnknownEnum = errors.New("unknown enum value")
	// ErrUnknownType reports an unrecognized symbology constant.
	ErrUnknownType = errors.New("unknown barcode type")
	// ErrNotSupported reports a sub-setting that does not apply to the symbology.
	ErrNotSupported = errors.New("setting not supported for barcode type")
	// ErrInvalidValue reports a value of the wrong kind, e.g. a string for a flag.
	ErrInvalidValue = errors.New("invalid value")
	// ErrUnknownCharset reports a character set that is not a known IANA name.
	ErrUnknownCharset = errors.New("unknown character set")
	// ErrUnknownField reports a bulk document key with no matching setting.
	ErrUnknownField = errors.New("unknown configuration key")
	// ErrMalformedDocument reports a bulk document that cannot be applied at all.
	ErrMalformedDocument = errors.New("malformed configuration document")
)

// FieldError wraps a validation failure with the field it was raised for.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v (got %v)", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(field string, value any, err error) error {
	return &FieldError{Field: field, Value: value, Err: err}
}
