package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFDEForPC(t *testing.T) {
	frames := newFrameDescriptionEntries()
	frames = append(frames,
		&FrameDescriptionEntry{begin: 10, size: 40},
		&FrameDescriptionEntry{begin: 50, size: 50},
		&FrameDescriptionEntry{begin: 100, size: 100},
		&FrameDescriptionEntry{begin: 300, size: 10})

	type arg struct {
		pc  uint64
		fde *FrameDescriptionEntry
	}

	args := []arg{
		{0, nil},
		{9, nil},
		{10, frames[0]},
		{35, frames[0]},
		{49, frames[0]},
		{50, frames[1]},
		{75, frames[1]},
		{100, frames[2]},
		{199, frames[2]},
		{200, nil},
		{299, nil},
		{300, frames[3]},
		{309, frames[3]},
		{310, nil},
		{400, nil},
	}

	for _, arg := range args {
		out, err := frames.FDEForPC(arg.pc)
		if arg.fde != nil {
			if err != nil {
				t.Fatal(err)
			}
			if out != arg.fde {
				t.Errorf("[pc = %#x] got incorrect fde\noutput:\t%#v\nexpected:\t%#v", arg.pc, out, arg.fde)
			}
		} else {
			var notFound *ErrNoFDEForPC
			if !errors.As(err, &notFound) {
				t.Errorf("[pc = %#x] expected error got fde %#v", arg.pc, out)
			}
		}
	}
}

// frameBuilder assembles a 32-bit .debug_frame section.
type frameBuilder struct {
	buf   bytes.Buffer
	order binary.ByteOrder
}

func (b *frameBuilder) u32(v uint32) { binary.Write(&b.buf, b.order, v) }
func (b *frameBuilder) u64(v uint64) { binary.Write(&b.buf, b.order, v) }

// cie appends a version 1 CIE and returns its offset.
func (b *frameBuilder) cie(instrs ...byte) uint32 {
	off := uint32(b.buf.Len())
	body := []byte{1, 0, 0x01, 0x78, 0x10}
	body = append(body, instrs...)
	b.u32(uint32(4 + len(body)))
	b.u32(0xffffffff)
	b.buf.Write(body)
	return off
}

func (b *frameBuilder) fde(cie uint32, begin, size uint64, instrs ...byte) {
	b.u32(uint32(4 + 16 + len(instrs)))
	b.u32(cie)
	b.u64(begin)
	b.u64(size)
	b.buf.Write(instrs)
}

func TestParse(t *testing.T) {
	b := &frameBuilder{order: binary.LittleEndian}
	cie := b.cie(0x0c, 0x07, 0x08)
	b.fde(cie, 0x2000, 0x40, 0x41, 0x0e, 0x10)
	b.fde(cie, 0x1000, 0x80)
	b.u32(0) // terminator

	fdes, err := Parse(b.buf.Bytes(), binary.LittleEndian, 0, 8)
	require.NoError(t, err)
	require.Len(t, fdes, 2)

	// sorted by begin address
	assert.Equal(t, uint64(0x1000), fdes[0].Begin())
	assert.Equal(t, uint64(0x1080), fdes[0].End())
	assert.Equal(t, uint64(0x2000), fdes[1].Begin())
	assert.Equal(t, []byte{0x41, 0x0e, 0x10}, fdes[1].Instructions)
	assert.Equal(t, binary.LittleEndian, fdes[1].ByteOrder())

	c := fdes[0].CIE
	require.NotNil(t, c)
	assert.Same(t, c, fdes[1].CIE)
	assert.Equal(t, uint8(1), c.Version)
	assert.Equal(t, "", c.Augmentation)
	assert.Equal(t, uint64(1), c.CodeAlignmentFactor)
	assert.Equal(t, int64(-8), c.DataAlignmentFactor)
	assert.Equal(t, uint64(16), c.ReturnAddressRegister)
	assert.Equal(t, []byte{0x0c, 0x07, 0x08}, c.InitialInstructions)
	assert.Len(t, fdes.CIEs(), 1)

	fde, err := fdes.FDEForPC(0x2010)
	require.NoError(t, err)
	assert.Same(t, fdes[1], fde)

	_, err = fdes.FDEForPC(0x1fff)
	assert.Error(t, err)
}

func TestParseStaticBase(t *testing.T) {
	b := &frameBuilder{order: binary.BigEndian}
	cie := b.cie()
	b.fde(cie, 0x10, 0x10)

	fdes, err := Parse(b.buf.Bytes(), binary.BigEndian, 0x400000, 8)
	require.NoError(t, err)
	require.Len(t, fdes, 1)
	assert.Equal(t, uint64(0x400010), fdes[0].Begin())
}

func TestParseMalformed(t *testing.T) {
	b := &frameBuilder{order: binary.LittleEndian}
	b.fde(0x40, 0x10, 0x10)

	_, err := Parse(b.buf.Bytes(), binary.LittleEndian, 0, 8)
	var malformed *ErrMalformed
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, uint64(0), malformed.Offset)

	_, err = Parse([]byte{0x10, 0, 0, 0, 0xff}, binary.LittleEndian, 0, 8)
	assert.ErrorAs(t, err, &malformed)
}
