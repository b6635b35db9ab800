package dw

import (
	"bytes"
	"debug/dwarf"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// DW_FORM codes used by the fixtures.
const (
	formAddr        = 0x01
	formData4       = 0x06
	formString      = 0x08
	formData1       = 0x0b
	formSdata       = 0x0d
	formRef4        = 0x13
	formSecOffset   = 0x17
	formExprloc     = 0x18
	formFlagPresent = 0x19
	formRefSig8     = 0x20
)

type abbrevSpec struct {
	code     uint64
	tag      dwarf.Tag
	children bool
	attrs    [][2]uint64 // attr, form
}

func uleb(buf *bytes.Buffer, v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

func sleb(buf *bytes.Buffer, v int64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		done := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if !done {
			b |= 0x80
		}
		buf.WriteByte(b)
		if done {
			return
		}
	}
}

func encodeAbbrevs(specs []abbrevSpec) []byte {
	var buf bytes.Buffer
	for _, s := range specs {
		uleb(&buf, s.code)
		uleb(&buf, uint64(s.tag))
		if s.children {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		for _, a := range s.attrs {
			uleb(&buf, a[0])
			uleb(&buf, a[1])
		}
		buf.WriteByte(0)
		buf.WriteByte(0)
	}
	buf.WriteByte(0)
	return buf.Bytes()
}

type fixup struct {
	pos       int
	label     string
	unitStart int
}

// infoBuilder assembles a little endian, 32-bit .debug_info section.
type infoBuilder struct {
	buf       bytes.Buffer
	labels    map[string]int
	fixups    []fixup
	unitStart int
	unitEnd   []int // positions of unit length fields
}

func newInfoBuilder() *infoBuilder {
	return &infoBuilder{labels: make(map[string]int)}
}

func (b *infoBuilder) u8(v uint8)   { b.buf.WriteByte(v) }
func (b *infoBuilder) u16(v uint16) { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *infoBuilder) u32(v uint32) { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *infoBuilder) u64(v uint64) { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *infoBuilder) uleb(v uint64) {
	uleb(&b.buf, v)
}
func (b *infoBuilder) sleb(v int64) {
	sleb(&b.buf, v)
}
func (b *infoBuilder) str(s string) {
	b.buf.WriteString(s)
	b.buf.WriteByte(0)
}

func (b *infoBuilder) offset() int {
	return b.buf.Len()
}

// label names the DIE that starts at the current position.
func (b *infoBuilder) label(name string) {
	b.labels[name] = b.offset()
}

// ref4 writes a unit relative reference to a label.
func (b *infoBuilder) ref4(label string) {
	b.fixups = append(b.fixups, fixup{pos: b.offset(), label: label, unitStart: b.unitStart})
	b.u32(0)
}

// beginUnitV4 writes a DWARF 4 compile unit header.
func (b *infoBuilder) beginUnitV4() {
	b.unitStart = b.offset()
	b.unitEnd = append(b.unitEnd, b.offset())
	b.u32(0) // patched by endUnit
	b.u16(4)
	b.u32(0) // abbrev offset
	b.u8(8)
}

// beginUnitV5 writes a DWARF 5 unit header of the given type.
func (b *infoBuilder) beginUnitV5(ut UnitType, sig uint64, typeLabel string) {
	b.unitStart = b.offset()
	b.unitEnd = append(b.unitEnd, b.offset())
	b.u32(0)
	b.u16(5)
	b.u8(uint8(ut))
	b.u8(8)
	b.u32(0)
	if ut == UnitTypeUnit {
		b.u64(sig)
		b.ref4(typeLabel)
	}
}

func (b *infoBuilder) endUnit() {
	start := b.unitEnd[len(b.unitEnd)-1]
	length := uint32(b.offset() - start - 4)
	binary.LittleEndian.PutUint32(b.buf.Bytes()[start:], length)
}

func (b *infoBuilder) bytes(t *testing.T) []byte {
	out := append([]byte(nil), b.buf.Bytes()...)
	for _, f := range b.fixups {
		off, ok := b.labels[f.label]
		require.True(t, ok, "undefined label %s", f.label)
		binary.LittleEndian.PutUint32(out[f.pos:], uint32(off-f.unitStart))
	}
	return out
}

// lineProgramV4 returns a .debug_line section with a single sequence for
// "main.c": 0x1000 line 10, 0x1010 line 11, end at 0x1200.
func lineProgramV4() []byte {
	var hdr bytes.Buffer
	hdr.WriteByte(1)    // minimum_instruction_length
	hdr.WriteByte(1)    // maximum_operations_per_instruction
	hdr.WriteByte(1)    // default_is_stmt
	hdr.WriteByte(0xfb) // line_base -5
	hdr.WriteByte(14)   // line_range
	hdr.WriteByte(13)   // opcode_base
	hdr.Write([]byte{0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 1})
	hdr.WriteByte(0) // no include directories
	hdr.WriteString("main.c\x00")
	uleb(&hdr, 0) // directory
	uleb(&hdr, 0) // mtime
	uleb(&hdr, 0) // length
	hdr.WriteByte(0)

	var prog bytes.Buffer
	prog.Write([]byte{0x00, 0x09, 0x02})
	binary.Write(&prog, binary.LittleEndian, uint64(0x1000))
	prog.WriteByte(0x03) // advance_line
	sleb(&prog, 9)
	prog.WriteByte(0x01) // copy
	prog.WriteByte(0x02) // advance_pc
	uleb(&prog, 0x10)
	prog.WriteByte(0x03)
	sleb(&prog, 1)
	prog.WriteByte(0x01)
	prog.WriteByte(0x02)
	uleb(&prog, 0x1f0)
	prog.Write([]byte{0x00, 0x01, 0x01}) // end_sequence

	var out bytes.Buffer
	unitLen := 2 + 4 + hdr.Len() + prog.Len()
	binary.Write(&out, binary.LittleEndian, uint32(unitLen))
	binary.Write(&out, binary.LittleEndian, uint16(4))
	binary.Write(&out, binary.LittleEndian, uint32(hdr.Len()))
	out.Write(hdr.Bytes())
	out.Write(prog.Bytes())
	return out.Bytes()
}

var fixtureAbbrevs = []abbrevSpec{
	{1, dwarf.TagCompileUnit, true, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrCompDir), formString},
		{uint64(dwarf.AttrProducer), formString},
		{uint64(dwarf.AttrLanguage), formData1},
		{uint64(dwarf.AttrLowpc), formAddr},
		{uint64(dwarf.AttrHighpc), formData4},
		{uint64(dwarf.AttrStmtList), formSecOffset},
	}},
	{2, dwarf.TagBaseType, false, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrByteSize), formData1},
		{uint64(dwarf.AttrEncoding), formData1},
	}},
	{3, dwarf.TagStructType, true, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrByteSize), formData1},
		{uint64(dwarf.AttrDeclFile), formData1},
		{uint64(dwarf.AttrDeclLine), formData1},
	}},
	{4, dwarf.TagMember, false, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrType), formRef4},
		{uint64(dwarf.AttrDataMemberLoc), formData1},
	}},
	{5, dwarf.TagTypedef, false, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrType), formRef4},
	}},
	{6, dwarf.TagConstType, false, [][2]uint64{
		{uint64(dwarf.AttrType), formRef4},
	}},
	{7, dwarf.TagSubprogram, true, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrExternal), formFlagPresent},
		{uint64(dwarf.AttrDeclFile), formData1},
		{uint64(dwarf.AttrDeclLine), formData1},
		{uint64(dwarf.AttrLowpc), formAddr},
		{uint64(dwarf.AttrHighpc), formData4},
		{uint64(dwarf.AttrFrameBase), formExprloc},
	}},
	{8, dwarf.TagFormalParameter, false, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrType), formRef4},
		{uint64(dwarf.AttrDeclLine), formData1},
	}},
	{9, dwarf.TagSubprogram, false, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrDeclaration), formFlagPresent},
	}},
	{10, dwarf.TagSubprogram, false, [][2]uint64{
		{uint64(dwarf.AttrAbstractOrigin), formRef4},
		{uint64(dwarf.AttrLowpc), formAddr},
		{uint64(dwarf.AttrHighpc), formData4},
	}},
	{11, dwarf.TagNamespace, true, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
	}},
	{12, dwarf.TagSubprogram, false, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrLowpc), formAddr},
		{uint64(dwarf.AttrHighpc), formAddr},
	}},
	{13, dwarf.TagVariable, false, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrConstValue), formSdata},
	}},
	{14, dwarf.TagCompileUnit, false, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrLanguage), formData1},
	}},
}

// fixture is the decoded form of buildFixture's output.
type fixture struct {
	dw     *Dwarf
	info   []byte
	labels map[string]int
}

// buildFixture assembles two DWARF 4 compile units:
//
//	cu "main.c" [0x1000, 0x1200)
//	  int                  base_type
//	  point { x, y int }   structure_type
//	  point_t              typedef -> point
//	  const point_t        const_type
//	  area(p, n)           subprogram [0x1000, 0x1010)
//	  helper               subprogram declaration
//	  <concrete helper>    subprogram, abstract_origin -> helper
//	  ns { inner(), k }    namespace
//	cu "lib.go"            no children, no ranges
func buildFixture(t *testing.T) *fixture {
	b := newInfoBuilder()

	b.beginUnitV4()
	b.label("cu")
	b.uleb(1)
	b.str("main.c")
	b.str("/src")
	b.str("GNU C17 12.2.0 -g")
	b.u8(uint8(LangC99))
	b.u64(0x1000)
	b.u32(0x200)
	b.u32(0)

	b.label("int")
	b.uleb(2)
	b.str("int")
	b.u8(4)
	b.u8(5)

	b.label("point")
	b.uleb(3)
	b.str("point")
	b.u8(8)
	b.u8(1)
	b.u8(3)
	{
		b.label("x")
		b.uleb(4)
		b.str("x")
		b.ref4("int")
		b.u8(0)

		b.label("y")
		b.uleb(4)
		b.str("y")
		b.ref4("int")
		b.u8(4)
		b.u8(0)
	}

	b.label("point_t")
	b.uleb(5)
	b.str("point_t")
	b.ref4("point")

	b.label("const")
	b.uleb(6)
	b.ref4("point_t")

	b.label("area")
	b.uleb(7)
	b.str("area")
	b.u8(1)
	b.u8(10)
	b.u64(0x1000)
	b.u32(0x10)
	b.uleb(1)
	b.u8(0x9c)
	{
		b.label("p")
		b.uleb(8)
		b.str("p")
		b.ref4("const")
		b.u8(10)

		b.label("n")
		b.uleb(8)
		b.str("n")
		b.ref4("int")
		b.u8(10)
		b.u8(0)
	}

	b.label("helper")
	b.uleb(9)
	b.str("helper")

	b.label("helper.impl")
	b.uleb(10)
	b.ref4("helper")
	b.u64(0x1010)
	b.u32(0x1f0)

	b.label("ns")
	b.uleb(11)
	b.str("ns")
	{
		b.label("inner")
		b.uleb(12)
		b.str("inner")
		b.u64(0x1100)
		b.u64(0x1180)

		b.label("k")
		b.uleb(13)
		b.str("k")
		b.sleb(-3)
		b.u8(0)
	}
	b.u8(0)
	b.endUnit()

	b.beginUnitV4()
	b.label("cu2")
	b.uleb(14)
	b.str("lib.go")
	b.u8(uint8(LangGo))
	b.endUnit()

	info := b.bytes(t)
	abbrev := encodeAbbrevs(fixtureAbbrevs)
	data, err := dwarf.New(abbrev, nil, nil, info, lineProgramV4(), nil, nil, nil)
	require.NoError(t, err)

	d, err := New(data, info, binary.LittleEndian)
	require.NoError(t, err)
	return &fixture{dw: d, info: info, labels: b.labels}
}

// die returns the fixture DIE registered under label.
func (f *fixture) die(t *testing.T, label string) Die {
	off, ok := f.labels[label]
	require.True(t, ok, "unknown label %s", label)
	d, err := f.dw.DieAt(dwarf.Offset(off))
	require.NoError(t, err)
	return d
}

var typeUnitAbbrevs = []abbrevSpec{
	{1, dwarf.TagCompileUnit, true, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
	}},
	{2, dwarf.TagVariable, false, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrType), formRefSig8},
	}},
	{3, dwarf.TagTypeUnit, true, nil},
	{4, dwarf.TagStructType, false, [][2]uint64{
		{uint64(dwarf.AttrName), formString},
		{uint64(dwarf.AttrByteSize), formData1},
	}},
}

const fixtureSignature = 0x1122334455667788

// buildTypeUnitFixture assembles a DWARF 5 compile unit whose variable
// refers, by signature, to a struct in a DWARF 5 type unit.
func buildTypeUnitFixture(t *testing.T) *fixture {
	b := newInfoBuilder()

	b.beginUnitV5(UnitCompile, 0, "")
	b.label("cu")
	b.uleb(1)
	b.str("a.cc")
	b.label("v")
	b.uleb(2)
	b.str("v")
	b.u64(fixtureSignature)
	b.u8(0)
	b.endUnit()

	b.beginUnitV5(UnitTypeUnit, fixtureSignature, "widget")
	b.label("tu")
	b.uleb(3)
	b.label("widget")
	b.uleb(4)
	b.str("widget")
	b.u8(16)
	b.u8(0)
	b.endUnit()

	info := b.bytes(t)
	data, err := dwarf.New(encodeAbbrevs(typeUnitAbbrevs), nil, nil, info, nil, nil, nil, nil)
	require.NoError(t, err)

	d, err := New(data, info, binary.LittleEndian)
	require.NoError(t, err)
	return &fixture{dw: d, info: info, labels: b.labels}
}
