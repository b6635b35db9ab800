package dw

import (
	"debug/dwarf"
	"errors"
	"io"
)

// lineTable is the decoded line program of one unit.
type lineTable struct {
	files   []*dwarf.LineFile
	entries []dwarf.LineEntry
	err     error
}

// lineTable decodes, once, the line program referenced by the unit of u.
func (d *Dwarf) lineTable(u *unitHeader) *lineTable {
	d.mu.Lock()
	lt, ok := d.lines[u.dieOffset]
	d.mu.Unlock()
	if ok {
		return lt
	}

	lt = d.readLineTable(u)

	d.mu.Lock()
	if cached, ok := d.lines[u.dieOffset]; ok {
		lt = cached
	} else {
		d.lines[u.dieOffset] = lt
	}
	d.mu.Unlock()
	return lt
}

func (d *Dwarf) readLineTable(u *unitHeader) *lineTable {
	cu, err := d.DieAt(u.dieOffset)
	if err != nil {
		return &lineTable{err: err}
	}
	lr, err := d.data.LineReader(cu.entry)
	if err != nil {
		return &lineTable{err: newError("lines", cu.Offset(), err)}
	}
	if lr == nil {
		return &lineTable{err: newError("lines", cu.Offset(), ErrNoAttr)}
	}

	lt := &lineTable{}
	var entry dwarf.LineEntry
	for {
		err := lr.Next(&entry)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			lt.err = newError("lines", cu.Offset(), err)
			return lt
		}
		lt.entries = append(lt.entries, entry)
	}
	// DW_LNE_define_file may grow the table, so take it after the program ran.
	lt.files = lr.Files()
	return lt
}

// Lines returns the rows of the line program of the DIE's unit.
func (d Die) Lines() ([]dwarf.LineEntry, error) {
	lt := d.dw.lineTable(d.unit)
	return lt.entries, lt.err
}

// Files returns the file table of the DIE's unit. For DWARF 2-4 units
// index 0 is unused and nil.
func (d Die) Files() ([]*dwarf.LineFile, error) {
	lt := d.dw.lineTable(d.unit)
	return lt.files, lt.err
}
