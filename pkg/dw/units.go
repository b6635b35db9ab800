package dw

import (
	"debug/dwarf"
	"encoding/binary"
	"fmt"
)

// UnitType is the DW_UT_* value of a unit header. Units from DWARF 2-4
// headers are reported as UnitCompile.
type UnitType uint8

const (
	UnitCompile      UnitType = 0x01
	UnitTypeUnit     UnitType = 0x02
	UnitPartial      UnitType = 0x03
	UnitSkeleton     UnitType = 0x04
	UnitSplitCompile UnitType = 0x05
	UnitSplitType    UnitType = 0x06
)

func (t UnitType) String() string {
	switch t {
	case UnitCompile:
		return "compile"
	case UnitTypeUnit:
		return "type"
	case UnitPartial:
		return "partial"
	case UnitSkeleton:
		return "skeleton"
	case UnitSplitCompile:
		return "split_compile"
	case UnitSplitType:
		return "split_type"
	}
	return fmt.Sprintf("unit_type(%#x)", uint8(t))
}

func (t UnitType) isType() bool {
	return t == UnitTypeUnit || t == UnitSplitType
}

// unitHeader is a decoded .debug_info unit header.
//
// see DWARFv5 7.5.1 Unit Headers
type unitHeader struct {
	offset     dwarf.Offset // start of the header
	end        dwarf.Offset // first byte after the unit
	dieOffset  dwarf.Offset // the unit DIE, right after the header
	version    uint16
	unitType   UnitType
	addrSize   uint8
	dwarf64    bool
	abbrevOff  uint64
	dwoID      uint64
	signature  uint64
	typeOffset uint64 // relative to offset
}

func (u *unitHeader) contains(off dwarf.Offset) bool {
	return off >= u.offset && off < u.end
}

// parseUnitHeaders walks every unit header in info.
func parseUnitHeaders(info []byte, order binary.ByteOrder) ([]unitHeader, error) {
	var (
		units []unitHeader
		off   uint64
		size  = uint64(len(info))
	)

	for off < size {
		u := unitHeader{offset: dwarf.Offset(off)}
		bad := func(reason string) error {
			return newError("unit header", dwarf.Offset(off), fmt.Errorf("%w: %s", ErrInvalidDwarf, reason))
		}

		if size-off < 4 {
			return nil, bad("truncated unit length")
		}
		p := off + 4
		length := uint64(order.Uint32(info[off:]))
		switch {
		case length == 0xffffffff:
			if size-p < 8 {
				return nil, bad("truncated 64-bit unit length")
			}
			length = order.Uint64(info[p:])
			p += 8
			u.dwarf64 = true
		case length >= 0xfffffff0:
			return nil, bad("reserved unit length")
		}
		if length > size-p {
			return nil, bad("unit length exceeds section")
		}
		end := p + length
		u.end = dwarf.Offset(end)

		offSize := uint64(4)
		if u.dwarf64 {
			offSize = 8
		}
		need := func(n uint64) bool { return end-p >= n }
		readOff := func() uint64 {
			if u.dwarf64 {
				v := order.Uint64(info[p:])
				p += 8
				return v
			}
			v := uint64(order.Uint32(info[p:]))
			p += 4
			return v
		}

		if !need(2) {
			return nil, bad("truncated version")
		}
		u.version = order.Uint16(info[p:])
		p += 2

		switch {
		case u.version == 5:
			if !need(2 + offSize) {
				return nil, bad("truncated v5 header")
			}
			u.unitType = UnitType(info[p])
			u.addrSize = info[p+1]
			p += 2
			u.abbrevOff = readOff()
			switch u.unitType {
			case UnitSkeleton, UnitSplitCompile:
				if !need(8) {
					return nil, bad("truncated dwo id")
				}
				u.dwoID = order.Uint64(info[p:])
				p += 8
			case UnitTypeUnit, UnitSplitType:
				if !need(8 + offSize) {
					return nil, bad("truncated type unit header")
				}
				u.signature = order.Uint64(info[p:])
				p += 8
				u.typeOffset = readOff()
			}
		case u.version >= 2 && u.version <= 4:
			if !need(offSize + 1) {
				return nil, bad("truncated header")
			}
			u.unitType = UnitCompile
			u.abbrevOff = readOff()
			u.addrSize = info[p]
			p++
		default:
			return nil, bad(fmt.Sprintf("unsupported version %d", u.version))
		}

		u.dieOffset = dwarf.Offset(p)
		units = append(units, u)
		off = end
	}

	return units, nil
}

// CompileUnit is a non-type unit of .debug_info: a normal, partial,
// skeleton or split compilation unit.
//
// see DWARFv4 3.1.1 normal and partial compilation unit entries
type CompileUnit struct {
	Offset      dwarf.Offset // unit header offset
	DieOffset   dwarf.Offset
	Version     int
	AddressSize int
	Type        UnitType

	dw *Dwarf
}

// Die returns the unit DIE, usually a DW_TAG_compile_unit.
func (cu *CompileUnit) Die() (Die, error) {
	return cu.dw.DieAt(cu.DieOffset)
}

// TypeUnit is a DWARF 5 type unit.
//
// see DWARFv5 3.1.4 type unit entries
type TypeUnit struct {
	CompileUnit
	Signature  uint64
	TypeOffset dwarf.Offset // absolute offset of the type DIE
}

// TypeDie returns the DIE describing the unit's type.
func (tu *TypeUnit) TypeDie() (Die, error) {
	return tu.dw.DieAt(tu.TypeOffset)
}

func (d *Dwarf) compileUnit(u *unitHeader) CompileUnit {
	return CompileUnit{
		Offset:      u.offset,
		DieOffset:   u.dieOffset,
		Version:     int(u.version),
		AddressSize: int(u.addrSize),
		Type:        u.unitType,
		dw:          d,
	}
}

// CompileUnits returns every unit in .debug_info that is not a type unit,
// in section order.
func (d *Dwarf) CompileUnits() []*CompileUnit {
	var cus []*CompileUnit
	for i := range d.units {
		u := &d.units[i]
		if u.unitType.isType() {
			continue
		}
		cu := d.compileUnit(u)
		cus = append(cus, &cu)
	}
	return cus
}

// TypeUnits returns the type units stored in .debug_info.
func (d *Dwarf) TypeUnits() []*TypeUnit {
	var tus []*TypeUnit
	for i := range d.units {
		u := &d.units[i]
		if !u.unitType.isType() {
			continue
		}
		tus = append(tus, &TypeUnit{
			CompileUnit: d.compileUnit(u),
			Signature:   u.signature,
			TypeOffset:  u.offset + dwarf.Offset(u.typeOffset),
		})
	}
	return tus
}
