package dw

import (
	"debug/dwarf"
	"fmt"
)

const (
	iterFresh = iota
	iterRunning
	iterDone
)

// Children iterates the direct children of a DIE.
//
//	it := die.Children()
//	for it.Next() {
//		child := it.Die()
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Children struct {
	parent Die
	r      *dwarf.Reader
	cur    Die
	err    error
	state  int
}

// Next advances to the next child and reports whether there is one.
func (it *Children) Next() bool {
	switch it.state {
	case iterDone:
		return false
	case iterFresh:
		it.state = iterRunning
		if !it.parent.entry.Children {
			it.state = iterDone
			return false
		}
		r, err := it.parent.reader()
		if err != nil {
			it.fail(err)
			return false
		}
		it.r = r
	default:
		// step over the grandchildren of the previous child
		it.r.SkipChildren()
	}

	e, err := it.r.Next()
	if err != nil {
		it.fail(newError("children", it.parent.entry.Offset, fmt.Errorf("%w: %v", ErrInvalidDwarf, err)))
		return false
	}
	if !it.parent.sameUnit(e) {
		it.state = iterDone
		return false
	}
	it.cur = it.parent.wrap(e)
	return true
}

func (it *Children) fail(err error) {
	it.err = err
	it.state = iterDone
}

// Die returns the current child.
func (it *Children) Die() Die {
	return it.cur
}

// Err returns the error that stopped the iteration, if any.
func (it *Children) Err() error {
	return it.err
}
