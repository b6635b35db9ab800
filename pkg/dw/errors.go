package dw

import (
	"debug/dwarf"
	"errors"
	"fmt"
)

var (
	// ErrNoDwarf is returned when a file carries no .debug_info.
	ErrNoDwarf = errors.New("no DWARF information")
	// ErrInvalidDwarf is returned for malformed section contents.
	ErrInvalidDwarf = errors.New("invalid DWARF")
	// ErrNoAttr is returned when a DIE does not carry the requested attribute.
	ErrNoAttr = errors.New("no such attribute")
	// ErrInvalidClass is returned when an attribute is read as the wrong class.
	ErrInvalidClass = errors.New("invalid attribute class")
	// ErrInvalidOffset is returned for offsets that do not name a DIE.
	ErrInvalidOffset = errors.New("invalid DIE offset")
	// ErrNoAddress is returned when no unit covers an address.
	ErrNoAddress = errors.New("no matching address range")
	// ErrNoTag is returned for the null entry that terminates a sibling list.
	ErrNoTag = errors.New("invalid tag")
)

// Error records a failed operation and the DIE offset it was applied to.
type Error struct {
	Op     string
	Offset dwarf.Offset
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("dw: %s at %#x: %v", e.Op, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, off dwarf.Offset, err error) error {
	return &Error{Op: op, Offset: off, Err: err}
}
