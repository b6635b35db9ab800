package dw

import (
	"debug/dwarf"
	"fmt"
)

// maxIntegrateChain bounds the abstract_origin/specification chain
// followed by the *Integrate lookups.
const maxIntegrateChain = 16

// Range is a half-open pc range [Start, End).
type Range struct {
	Start uint64
	End   uint64
}

// Die is a debugging information entry.
//
// see DWARFv4 2.1 The Debugging Information Entry (DIE)
type Die struct {
	dw    *Dwarf
	unit  *unitHeader
	entry *dwarf.Entry
}

// Clone returns a copy of d. Both copies stay valid for the lifetime of the
// session.
func (d Die) Clone() Die {
	return d
}

// Valid reports whether d was produced by a session.
func (d Die) Valid() bool {
	return d.dw != nil && d.entry != nil
}

func (d Die) String() string {
	if !d.Valid() {
		return "Die(<nil>)"
	}
	return fmt.Sprintf("Die(%#x %s)", d.entry.Offset, d.entry.Tag)
}

// Entry exposes the decoded debug/dwarf entry.
func (d Die) Entry() *dwarf.Entry {
	return d.entry
}

// Dwarf returns the session the DIE belongs to.
func (d Die) Dwarf() *Dwarf {
	return d.dw
}

// Offset returns the .debug_info offset of the DIE.
func (d Die) Offset() dwarf.Offset {
	return d.entry.Offset
}

// UnitOffset returns the offset of the DIE relative to its unit header.
func (d Die) UnitOffset() dwarf.Offset {
	return d.entry.Offset - d.unit.offset
}

// Tag returns the DW_TAG of the DIE.
func (d Die) Tag() (dwarf.Tag, error) {
	if d.entry == nil || d.entry.Tag == 0 {
		return 0, newError("tag", d.offsetOrZero(), ErrNoTag)
	}
	return d.entry.Tag, nil
}

func (d Die) offsetOrZero() dwarf.Offset {
	if d.entry == nil {
		return 0
	}
	return d.entry.Offset
}

// Unit returns the DIE of the unit containing d.
func (d Die) Unit() (Die, error) {
	return d.dw.DieAt(d.unit.dieOffset)
}

// IsUnit reports whether d is the root DIE of its unit.
func (d Die) IsUnit() bool {
	return d.entry.Offset == d.unit.dieOffset
}

// wrap builds a Die for an entry read from the same unit.
func (d Die) wrap(e *dwarf.Entry) Die {
	return Die{dw: d.dw, unit: d.unit, entry: e}
}

// reader returns a reader positioned right after d.
func (d Die) reader() (*dwarf.Reader, error) {
	r := d.dw.data.Reader()
	r.Seek(d.entry.Offset)
	if _, err := r.Next(); err != nil {
		return nil, newError("read", d.entry.Offset, fmt.Errorf("%w: %v", ErrInvalidDwarf, err))
	}
	return r, nil
}

// sameUnit rejects entries a reader produced after running off the end of
// a unit whose sibling chain lacks its terminator.
func (d Die) sameUnit(e *dwarf.Entry) bool {
	return e != nil && e.Tag != 0 && d.unit.contains(e.Offset)
}

// HasChildren reports whether the DIE owns a child list.
func (d Die) HasChildren() bool {
	return d.entry.Children
}

// Child returns the first child of d; ok is false when d has none.
func (d Die) Child() (child Die, ok bool, err error) {
	if !d.entry.Children {
		return Die{}, false, nil
	}
	r, err := d.reader()
	if err != nil {
		return Die{}, false, err
	}
	e, err := r.Next()
	if err != nil {
		return Die{}, false, newError("child", d.entry.Offset, fmt.Errorf("%w: %v", ErrInvalidDwarf, err))
	}
	if !d.sameUnit(e) {
		return Die{}, false, nil
	}
	return d.wrap(e), true, nil
}

// Sibling returns the next sibling of d; ok is false when d is the last
// entry of its list or the unit DIE.
func (d Die) Sibling() (sibling Die, ok bool, err error) {
	if d.IsUnit() {
		return Die{}, false, nil
	}
	r, err := d.reader()
	if err != nil {
		return Die{}, false, err
	}
	r.SkipChildren()
	e, err := r.Next()
	if err != nil {
		return Die{}, false, newError("sibling", d.entry.Offset, fmt.Errorf("%w: %v", ErrInvalidDwarf, err))
	}
	if !d.sameUnit(e) {
		return Die{}, false, nil
	}
	return d.wrap(e), true, nil
}

// Children returns an iterator over the direct children of d.
func (d Die) Children() *Children {
	return &Children{parent: d}
}

// ForEachChild calls fn for each direct child of d until fn returns false
// or an error.
func (d Die) ForEachChild(fn func(Die) (bool, error)) error {
	it := d.Children()
	for it.Next() {
		cont, err := fn(it.Die())
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return it.Err()
}

// Name returns DW_AT_name, following abstract origins.
func (d Die) Name() (string, error) {
	a, err := d.AttrIntegrate(dwarf.AttrName)
	if err != nil {
		return "", err
	}
	return a.Str()
}

// DeclFile returns the name of the source file declaring d.
func (d Die) DeclFile() (string, error) {
	a, err := d.AttrIntegrate(dwarf.AttrDeclFile)
	if err != nil {
		return "", err
	}
	idx, err := a.Unsigned()
	if err != nil {
		return "", err
	}
	// the index refers to the file table of the unit holding the attribute
	files, err := a.die.Files()
	if err != nil {
		return "", err
	}
	if idx >= uint64(len(files)) || files[idx] == nil {
		return "", newError("decl_file", a.die.Offset(), fmt.Errorf("%w: file index %d out of range", ErrInvalidDwarf, idx))
	}
	return files[idx].Name, nil
}

func (d Die) integratedUnsigned(attr dwarf.Attr) (uint64, error) {
	a, err := d.AttrIntegrate(attr)
	if err != nil {
		return 0, err
	}
	return a.Unsigned()
}

// DeclLine returns DW_AT_decl_line.
func (d Die) DeclLine() (int, error) {
	v, err := d.integratedUnsigned(dwarf.AttrDeclLine)
	return int(v), err
}

// DeclColumn returns DW_AT_decl_column.
func (d Die) DeclColumn() (int, error) {
	v, err := d.integratedUnsigned(dwarf.AttrDeclColumn)
	return int(v), err
}

// LowPC returns DW_AT_low_pc.
func (d Die) LowPC() (uint64, error) {
	a, err := d.Attr(dwarf.AttrLowpc)
	if err != nil {
		return 0, err
	}
	return a.Address()
}

// HighPC returns DW_AT_high_pc. A constant-class high_pc is an offset from
// low_pc and is resolved to an address.
func (d Die) HighPC() (uint64, error) {
	a, err := d.Attr(dwarf.AttrHighpc)
	if err != nil {
		return 0, err
	}
	if a.Class() == dwarf.ClassAddress {
		return a.Address()
	}
	size, err := a.Unsigned()
	if err != nil {
		return 0, err
	}
	low, err := d.LowPC()
	if err != nil {
		return 0, err
	}
	return low + size, nil
}

// EntryPC returns DW_AT_entry_pc, or the lowest address of the DIE when
// the attribute is absent.
func (d Die) EntryPC() (uint64, error) {
	a, err := d.Attr(dwarf.AttrEntrypc)
	if err != nil {
		return d.lowestPC()
	}
	if a.Class() == dwarf.ClassAddress {
		return a.Address()
	}
	// DWARF 5 allows a constant, relative to the unit base address
	off, err := a.Unsigned()
	if err != nil {
		return 0, err
	}
	unit, err := d.Unit()
	if err != nil {
		return 0, err
	}
	base, err := unit.LowPC()
	if err != nil {
		return 0, err
	}
	return base + off, nil
}

func (d Die) lowestPC() (uint64, error) {
	if low, err := d.LowPC(); err == nil {
		return low, nil
	}
	rngs, err := d.Ranges()
	if err != nil {
		return 0, err
	}
	if len(rngs) == 0 {
		return 0, newError("entry_pc", d.entry.Offset, ErrNoAddress)
	}
	low := rngs[0].Start
	for _, r := range rngs[1:] {
		if r.Start < low {
			low = r.Start
		}
	}
	return low, nil
}

// Ranges returns the pc ranges covered by the DIE, from low_pc/high_pc or
// DW_AT_ranges.
func (d Die) Ranges() ([]Range, error) {
	rngs, err := d.dw.data.Ranges(d.entry)
	if err != nil {
		return nil, newError("ranges", d.entry.Offset, err)
	}
	out := make([]Range, 0, len(rngs))
	for _, r := range rngs {
		out = append(out, Range{Start: r[0], End: r[1]})
	}
	return out, nil
}

// HasPC reports whether one of the DIE's ranges covers pc.
func (d Die) HasPC(pc uint64) (bool, error) {
	rngs, err := d.Ranges()
	if err != nil {
		return false, err
	}
	for _, r := range rngs {
		if pc >= r.Start && pc < r.End {
			return true, nil
		}
	}
	return false, nil
}

// ByteSize returns DW_AT_byte_size.
func (d Die) ByteSize() (uint64, error) {
	return d.integratedUnsigned(dwarf.AttrByteSize)
}

// BitSize returns DW_AT_bit_size.
func (d Die) BitSize() (uint64, error) {
	return d.integratedUnsigned(dwarf.AttrBitSize)
}

// BitOffset returns DW_AT_bit_offset.
func (d Die) BitOffset() (uint64, error) {
	return d.integratedUnsigned(dwarf.AttrBitOffset)
}

// ArrayOrder returns DW_AT_ordering, one of OrderRowMajor or OrderColMajor.
func (d Die) ArrayOrder() (uint64, error) {
	return d.integratedUnsigned(dwarf.AttrOrdering)
}

// SourceLanguage returns the DW_AT_language of the DIE's unit.
func (d Die) SourceLanguage() (Language, error) {
	unit, err := d.Unit()
	if err != nil {
		return 0, err
	}
	v, err := unit.integratedUnsigned(dwarf.AttrLanguage)
	return Language(v), err
}

// lookup finds attr on the DIE itself.
func (d Die) lookup(attr dwarf.Attr) (Attribute, bool) {
	for _, f := range d.entry.Field {
		if f.Attr == attr {
			return Attribute{die: d, field: f}, true
		}
	}
	return Attribute{}, false
}

// HasAttr reports whether the DIE carries attr.
func (d Die) HasAttr(attr dwarf.Attr) bool {
	_, ok := d.lookup(attr)
	return ok
}

// HasAttrIntegrate is HasAttr following abstract origins and specifications.
func (d Die) HasAttrIntegrate(attr dwarf.Attr) bool {
	_, err := d.AttrIntegrate(attr)
	return err == nil
}

// Attr returns the attribute attr of the DIE.
func (d Die) Attr(attr dwarf.Attr) (Attribute, error) {
	if a, ok := d.lookup(attr); ok {
		return a, nil
	}
	return Attribute{}, newError("attr "+attr.String(), d.entry.Offset, ErrNoAttr)
}

// AttrIntegrate returns attr from the DIE, or from the DIEs reached through
// DW_AT_abstract_origin and DW_AT_specification.
func (d Die) AttrIntegrate(attr dwarf.Attr) (Attribute, error) {
	cur := d
	for i := 0; i < maxIntegrateChain; i++ {
		if a, ok := cur.lookup(attr); ok {
			return a, nil
		}
		ref, ok := cur.lookup(dwarf.AttrAbstractOrigin)
		if !ok {
			ref, ok = cur.lookup(dwarf.AttrSpecification)
		}
		if !ok {
			break
		}
		next, err := ref.Ref()
		if err != nil {
			return Attribute{}, err
		}
		cur = next
	}
	return Attribute{}, newError("attr "+attr.String(), d.entry.Offset, ErrNoAttr)
}

// AttrCount returns the number of attributes of the DIE.
func (d Die) AttrCount() int {
	return len(d.entry.Field)
}

// Attrs returns the attributes of the DIE in declaration order.
func (d Die) Attrs() []Attribute {
	attrs := make([]Attribute, 0, len(d.entry.Field))
	for _, f := range d.entry.Field {
		attrs = append(attrs, Attribute{die: d, field: f})
	}
	return attrs
}

// ForEachAttr calls fn for each attribute until fn returns false or an
// error.
func (d Die) ForEachAttr(fn func(Attribute) (bool, error)) error {
	for _, f := range d.entry.Field {
		cont, err := fn(Attribute{die: d, field: f})
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// IsDeclaration reports whether DW_AT_declaration is set.
func (d Die) IsDeclaration() bool {
	a, ok := d.lookup(dwarf.AttrDeclaration)
	if !ok {
		return false
	}
	v, err := a.Bool()
	return err == nil && v
}
