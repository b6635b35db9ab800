package symbol

import (
	"debug/dwarf"

	"github.com/rs/zerolog/log"

	"github.com/hitzhangjie/godw/pkg/dw"
)

// Function function
//
// see DWARFv4 3.3 subroutine and entry point entries
type Function struct {
	name      string
	lowpc     uint64
	highpc    uint64
	ranges    []dw.Range
	frameBase []byte
	declFile  string
	declLine  int
	external  bool

	die       dw.Die
	variables []dw.Die
	cu        *CompileUnit
}

func (f *Function) Name() string {
	return f.name
}

// LowPC returns the lowest address of the function.
func (f *Function) LowPC() uint64 {
	return f.lowpc
}

// HighPC returns the first address past the function.
func (f *Function) HighPC() uint64 {
	return f.highpc
}

// Ranges returns the pc ranges of the function.
func (f *Function) Ranges() []dw.Range {
	return f.ranges
}

// FrameBase returns the DW_AT_frame_base expression.
func (f *Function) FrameBase() []byte {
	return f.frameBase
}

func (f *Function) DeclFile() string {
	return f.declFile
}

func (f *Function) DeclLine() int {
	return f.declLine
}

func (f *Function) External() bool {
	return f.external
}

func (f *Function) Die() dw.Die {
	return f.die
}

// Variables returns the formal parameters and local variables declared
// directly in the function.
func (f *Function) Variables() []dw.Die {
	return f.variables
}

func (f *Function) CompileUnit() *CompileUnit {
	return f.cu
}

// Contains reports whether pc lies in one of the function's ranges.
func (f *Function) Contains(pc uint64) bool {
	for _, r := range f.ranges {
		if r.Start <= pc && pc < r.End {
			return true
		}
	}
	return false
}

func (f *Function) parseFrom(die dw.Die) error {
	err := die.ForEachAttr(func(a dw.Attribute) (bool, error) {
		switch a.Name() {
		case dwarf.AttrExternal:
			f.external, _ = a.Bool()
		case dwarf.AttrFrameBase:
			f.frameBase, _ = a.Bytes()
		case dwarf.AttrName,
			dwarf.AttrLinkageName,
			dwarf.AttrLowpc,
			dwarf.AttrHighpc,
			dwarf.AttrRanges,
			dwarf.AttrDeclFile,
			dwarf.AttrDeclLine:
			// resolved below, through abstract origins where needed
		default:
			log.Trace().Str("attr", a.Name().String()).Msg("symbol: subprogram attr skipped")
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	f.name, _ = die.Name()
	f.declLine, _ = die.DeclLine()
	// DeclFile needs the unit's line program, which may be absent
	f.declFile, _ = die.DeclFile()

	// abstract instances of inlined functions have no code
	rngs, err := die.Ranges()
	if err != nil {
		return err
	}
	f.ranges = rngs
	for i, r := range rngs {
		if i == 0 || r.Start < f.lowpc {
			f.lowpc = r.Start
		}
		if r.End > f.highpc {
			f.highpc = r.End
		}
	}

	it := die.Children()
	for it.Next() {
		child := it.Die()
		switch child.Entry().Tag {
		case dwarf.TagVariable, dwarf.TagFormalParameter:
			f.variables = append(f.variables, child)
		}
	}
	if err := it.Err(); err != nil {
		return err
	}

	f.die = die
	return nil
}
