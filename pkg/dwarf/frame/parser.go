// Package frame contains data structures and
// related functions for parsing and searching
// through Dwarf .debug_frame data.
package frame

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/hitzhangjie/godw/pkg/dwarf/util"
)

type parsefunc func(*parseContext) parsefunc

// parseContext context which helps parsing the CIE and FDEs stored in .debug_frame
type parseContext struct {
	staticBase uint64

	data    []byte
	buf     *bytes.Buffer
	order   binary.ByteOrder
	entries FrameDescriptionEntries
	cies    map[uint64]*CommonInformationEntry
	common  *CommonInformationEntry
	frame   *FrameDescriptionEntry
	offset  uint64 // offset of the entry being parsed
	length  uint64
	dwarf64 bool
	ptrSize int
	err     error
}

// Parse takes in data (a byte slice) and returns FrameDescriptionEntries,
// which is a slice of FrameDescriptionEntry. Each FrameDescriptionEntry
// has a pointer to CommonInformationEntry.
func Parse(data []byte, order binary.ByteOrder, staticBase uint64, ptrSize int) (FrameDescriptionEntries, error) {
	var (
		buf  = bytes.NewBuffer(data)
		pctx = &parseContext{
			data:       data,
			buf:        buf,
			order:      order,
			entries:    newFrameDescriptionEntries(),
			cies:       make(map[uint64]*CommonInformationEntry),
			staticBase: staticBase,
			ptrSize:    ptrSize,
		}
	)

	for fn := parselength; fn != nil && buf.Len() != 0; {
		fn = fn(pctx)
	}
	if pctx.err != nil {
		return nil, pctx.err
	}

	for i := range pctx.entries {
		pctx.entries[i].order = order
	}
	sort.SliceStable(pctx.entries, func(i, j int) bool {
		return pctx.entries[i].begin < pctx.entries[j].begin
	})

	return pctx.entries, nil
}

func (ctx *parseContext) fail(reason string) parsefunc {
	ctx.err = &ErrMalformed{Offset: ctx.offset, Reason: reason}
	return nil
}

// cieEntry determines if id is the CIE_id of a CIE
func cieEntry(id uint64, dwarf64 bool) bool {
	if dwarf64 {
		return id == 0xffffffffffffffff
	}
	return id == 0xffffffff
}

// parselength parse the length of CIE or FDE
func parselength(ctx *parseContext) parsefunc {
	ctx.offset = uint64(len(ctx.data) - ctx.buf.Len())

	if ctx.buf.Len() < 4 {
		return ctx.fail("truncated length")
	}
	var length32 uint32
	binary.Read(ctx.buf, ctx.order, &length32)

	ctx.dwarf64 = length32 == 0xffffffff
	ctx.length = uint64(length32)
	if ctx.dwarf64 {
		if ctx.buf.Len() < 8 {
			return ctx.fail("truncated 64-bit length")
		}
		binary.Read(ctx.buf, ctx.order, &ctx.length)
	}

	if ctx.length == 0 {
		// ZERO terminator
		return parselength
	}
	if ctx.length > uint64(ctx.buf.Len()) {
		return ctx.fail("length exceeds section")
	}

	// parsing CIE_id of CIE
	// parsing CIE_pointer of FDE
	idSize := 4
	if ctx.dwarf64 {
		idSize = 8
	}
	if ctx.length < uint64(idSize) {
		return ctx.fail("entry shorter than its id")
	}
	id, _ := util.ReadUintRaw(ctx.buf, ctx.order, idSize)

	// take off the length of the CIE id / CIE pointer.
	ctx.length -= uint64(idSize)

	if cieEntry(id, ctx.dwarf64) {
		ctx.common = &CommonInformationEntry{Length: ctx.length, Offset: ctx.offset, staticBase: ctx.staticBase}
		ctx.cies[ctx.offset] = ctx.common
		return parseCIE
	}

	cie, ok := ctx.cies[id]
	if !ok {
		return ctx.fail("FDE refers to unknown CIE")
	}
	ctx.frame = &FrameDescriptionEntry{Length: ctx.length, Offset: ctx.offset, CIE: cie}
	return parseFDE
}

// parseFDE parse FDE entry
func parseFDE(ctx *parseContext) parsefunc {
	ptrSize := ctx.ptrSize
	if ctx.frame.CIE.AddressSize != 0 {
		ptrSize = int(ctx.frame.CIE.AddressSize)
	}

	r := ctx.buf.Next(int(ctx.length))
	if len(r) < 2*ptrSize {
		return ctx.fail("FDE shorter than its address range")
	}
	reader := bytes.NewReader(r)

	// parsing initial_location of FDE
	num, err := util.ReadUintRaw(reader, ctx.order, ptrSize)
	if err != nil {
		return ctx.fail(err.Error())
	}
	ctx.frame.begin = num + ctx.staticBase

	// parsing address_range of FDE
	num, _ = util.ReadUintRaw(reader, ctx.order, ptrSize)
	ctx.frame.size = num

	ctx.entries = append(ctx.entries, ctx.frame)

	// parsing instructions of FDE
	ctx.frame.Instructions = r[2*ptrSize:]
	ctx.length = 0

	// prepare to parse next FDE or CIE
	return parselength
}

// parseCIE parse CIE entry
func parseCIE(ctx *parseContext) parsefunc {
	data := ctx.buf.Next(int(ctx.length))
	buf := bytes.NewBuffer(data)
	// parse version
	ctx.common.Version, _ = buf.ReadByte()

	// parse augmentation
	ctx.common.Augmentation, _ = util.ParseString(buf)

	if ctx.common.Version >= 4 {
		ctx.common.AddressSize, _ = buf.ReadByte()
		ctx.common.SegmentSize, _ = buf.ReadByte()
	}

	// parse code alignment factor
	ctx.common.CodeAlignmentFactor, _ = util.DecodeULEB128(buf)

	// parse data alignment factor
	ctx.common.DataAlignmentFactor, _ = util.DecodeSLEB128(buf)

	// parse return address register
	if ctx.common.Version == 1 {
		b, _ := buf.ReadByte()
		ctx.common.ReturnAddressRegister = uint64(b)
	} else {
		ctx.common.ReturnAddressRegister, _ = util.DecodeULEB128(buf)
	}

	// The rest of this entry consists of the instructions
	// so we can just grab all of the data from the buffer
	// cursor to length.
	ctx.common.InitialInstructions = buf.Bytes()

	// prepare to parse FDEs following this CIE
	ctx.length = 0

	return parselength
}
