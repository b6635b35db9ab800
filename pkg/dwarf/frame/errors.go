package frame

import "fmt"

// ErrNoFDEForPC FDE for PC not found error
type ErrNoFDEForPC struct {
	PC uint64
}

func (err *ErrNoFDEForPC) Error() string {
	return fmt.Sprintf("could not find FDE for PC %#v", err.PC)
}

// ErrMalformed is returned when .debug_frame data is truncated or an FDE
// points at a CIE that does not exist.
type ErrMalformed struct {
	Offset uint64
	Reason string
}

func (err *ErrMalformed) Error() string {
	return fmt.Sprintf("malformed frame entry at %#x: %s", err.Offset, err.Reason)
}
