package transform

import (
	"fmt"
)

// ParseError is returned when a batch file is not well-formed XML or does not hold an
// <items> container. It is never recovered from.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when an item lacks a required element or attribute.
type MissingFieldError struct {
	// ItemID is the raw id attribute of the item, empty when the id itself is missing.
	ItemID string
	Field  string
}

func (e *MissingFieldError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("item: missing required field %q", e.Field)
	}
	return fmt.Sprintf("item %s: missing required field %q", e.ItemID, e.Field)
}

// TypeCoercionError is returned when a field's text cannot be parsed as its expected type.
type TypeCoercionError struct {
	ItemID string
	Field  string
	Value  string
	Type   string
	Err    error
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf(
		"item %s: field %q: cannot parse %q as %s: %s",
		e.ItemID, e.Field, e.Value, e.Type, e.Err,
	)
}

func (e *TypeCoercionError) Unwrap() error {
	return e.Err
}

// IOError is returned when a source cannot be read or a destination cannot be written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
