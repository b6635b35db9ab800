// Package dw provides iterator-style access to the DWARF debugging
// information of an ELF file: compile units, the DIE tree of each unit,
// and the attributes of every DIE.
//
// A Dwarf session is safe for concurrent use. Die and Attribute are small
// values that copy by assignment; Clone exists for call sites that want to
// make the copy explicit.
package dw

import (
	"bytes"
	"debug/dwarf"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hitzhangjie/godw/pkg/dwarf/godwarf"
)

// Dwarf is an open DWARF session.
type Dwarf struct {
	data   *dwarf.Data
	elf    *elf.File
	closer io.Closer
	order  binary.ByteOrder
	units  []unitHeader

	mu    sync.Mutex
	lines map[dwarf.Offset]*lineTable // key=unit DIE offset

	rangesOnce sync.Once
	unitRanges []unitRange
	rangesErr  error
}

type unitRange struct {
	unit   *unitHeader
	ranges [][2]uint64
}

// Open opens the ELF file at path and loads its DWARF data.
func Open(path string) (*Dwarf, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, err
	}
	d, err := FromELF(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	d.closer = f
	return d, nil
}

// FromReader loads the DWARF data of the ELF image readable through r.
// The caller keeps ownership of r.
func FromReader(r io.ReaderAt) (*Dwarf, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	return FromELF(f)
}

// FromBytes loads the DWARF data of an in-memory ELF image.
func FromBytes(b []byte) (*Dwarf, error) {
	return FromReader(bytes.NewReader(b))
}

// FromELF loads the DWARF data of an already opened ELF file. Closing the
// session does not close f.
func FromELF(f *elf.File) (*Dwarf, error) {
	if !godwarf.HasDebugSection(f, "info") {
		return nil, ErrNoDwarf
	}
	data, err := f.DWARF()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDwarf, err)
	}
	info, err := godwarf.GetDebugSection(f, "info")
	if err != nil {
		return nil, err
	}
	d, err := New(data, info, f.ByteOrder)
	if err != nil {
		return nil, err
	}
	d.elf = f
	return d, nil
}

// New wraps already decoded DWARF data. info must be the raw .debug_info
// section data was built from; it is used to recover the unit headers.
func New(data *dwarf.Data, info []byte, order binary.ByteOrder) (*Dwarf, error) {
	units, err := parseUnitHeaders(info, order)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("units", len(units)).Int("info_bytes", len(info)).Msg("dw: parsed unit headers")

	return &Dwarf{
		data:  data,
		order: order,
		units: units,
		lines: make(map[dwarf.Offset]*lineTable),
	}, nil
}

// Close releases the file opened by Open.
func (d *Dwarf) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

// ELF returns the underlying ELF file, nil for sessions built with New.
func (d *Dwarf) ELF() *elf.File {
	return d.elf
}

// Data returns the underlying debug/dwarf data.
func (d *Dwarf) Data() *dwarf.Data {
	return d.data
}

// ByteOrder returns the byte order of the debug sections.
func (d *Dwarf) ByteOrder() binary.ByteOrder {
	return d.order
}

// unitFor returns the unit whose extent covers off.
func (d *Dwarf) unitFor(off dwarf.Offset) *unitHeader {
	i := sort.Search(len(d.units), func(i int) bool {
		return d.units[i].end > off
	})
	if i < len(d.units) && d.units[i].contains(off) {
		return &d.units[i]
	}
	return nil
}

// DieAt returns the DIE at the given .debug_info offset.
func (d *Dwarf) DieAt(off dwarf.Offset) (Die, error) {
	u := d.unitFor(off)
	if u == nil || off < u.dieOffset {
		return Die{}, newError("die", off, ErrInvalidOffset)
	}

	r := d.data.Reader()
	r.Seek(off)
	e, err := r.Next()
	if err != nil {
		return Die{}, newError("die", off, fmt.Errorf("%w: %v", ErrInvalidDwarf, err))
	}
	if e == nil || e.Tag == 0 {
		return Die{}, newError("die", off, ErrInvalidOffset)
	}
	return Die{dw: d, unit: u, entry: e}, nil
}

// TypeDieAt is DieAt restricted to offsets inside a type unit.
func (d *Dwarf) TypeDieAt(off dwarf.Offset) (Die, error) {
	u := d.unitFor(off)
	if u == nil || !u.unitType.isType() {
		return Die{}, newError("type die", off, ErrInvalidOffset)
	}
	return d.DieAt(off)
}

// typeUnitBySignature resolves a DW_FORM_ref_sig8 reference.
func (d *Dwarf) typeUnitBySignature(sig uint64) (Die, error) {
	for i := range d.units {
		u := &d.units[i]
		if u.unitType.isType() && u.signature == sig {
			return d.DieAt(u.offset + dwarf.Offset(u.typeOffset))
		}
	}
	return Die{}, newError("type signature", 0, fmt.Errorf("%w: signature %#x", ErrInvalidOffset, sig))
}

func (d *Dwarf) loadUnitRanges() {
	for i := range d.units {
		u := &d.units[i]
		if u.unitType.isType() {
			continue
		}
		die, err := d.DieAt(u.dieOffset)
		if err != nil {
			d.rangesErr = err
			return
		}
		rngs, err := d.data.Ranges(die.entry)
		if err != nil {
			// a broken unit should not hide the others
			log.Debug().Err(err).Uint64("unit", uint64(u.offset)).Msg("dw: skip unit ranges")
			continue
		}
		d.unitRanges = append(d.unitRanges, unitRange{unit: u, ranges: rngs})
	}
}

// DieForAddress returns the DIE of the compile unit whose ranges cover pc.
func (d *Dwarf) DieForAddress(pc uint64) (Die, error) {
	d.rangesOnce.Do(d.loadUnitRanges)
	if d.rangesErr != nil {
		return Die{}, d.rangesErr
	}
	for _, ur := range d.unitRanges {
		for _, rng := range ur.ranges {
			if pc >= rng[0] && pc < rng[1] {
				return d.DieAt(ur.unit.dieOffset)
			}
		}
	}
	return Die{}, newError("addrdie", 0, fmt.Errorf("%w: %#x", ErrNoAddress, pc))
}
