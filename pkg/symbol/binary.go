package symbol

import (
	"debug/dwarf"
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hitzhangjie/godw/pkg/dw"
	"github.com/hitzhangjie/godw/pkg/dwarf/frame"
	"github.com/hitzhangjie/godw/pkg/dwarf/godwarf"
)

var (
	// ErrNotFound is returned when no function or line matches a query.
	ErrNotFound = errors.New("not found")
	// ErrBadLoc is returned for a location not of the form file:line.
	ErrBadLoc = errors.New("wrong loc should be like filename:lineno")
)

// BinaryInfo binary info
type BinaryInfo struct {
	Sources      map[string]map[int][]*dwarf.LineEntry // key=filename, val=map[lineno]lineEntries
	Functions    []*Function                           // sorted by low pc
	CompileUnits []*CompileUnit
	FdeEntries   frame.FrameDescriptionEntries

	dw    *dw.Dwarf
	owned bool
	rows  []*dwarf.LineEntry // every row of every line program, sorted by address
}

// Analyze opens the ELF file `path` and returns its binary info. The
// result must be closed.
func Analyze(path string) (*BinaryInfo, error) {
	d, err := dw.Open(path)
	if err != nil {
		return nil, err
	}
	bi, err := New(d)
	if err != nil {
		d.Close()
		return nil, err
	}
	bi.owned = true
	return bi, nil
}

// New builds the binary info of an open session. Closing the result does
// not close d.
func New(d *dw.Dwarf) (*BinaryInfo, error) {
	bi := &BinaryInfo{
		Sources: make(map[string]map[int][]*dwarf.LineEntry),
		dw:      d,
	}

	// parse .(z)debug_line and .(z)debug_info
	if err := bi.ParseLineAndInfo(d); err != nil {
		return nil, err
	}

	// parse .(z)debug_frame
	if f := d.ELF(); f != nil {
		if err := bi.ParseFrame(f); err != nil {
			return nil, err
		}
	}

	log.Debug().
		Int("units", len(bi.CompileUnits)).
		Int("functions", len(bi.Functions)).
		Int("files", len(bi.Sources)).
		Int("fdes", len(bi.FdeEntries)).
		Msg("symbol: analyzed")
	return bi, nil
}

// Close closes the session opened by Analyze.
func (bi *BinaryInfo) Close() error {
	if !bi.owned {
		return nil
	}
	return bi.dw.Close()
}

// Dwarf returns the DWARF session the info was built from.
func (bi *BinaryInfo) Dwarf() *dw.Dwarf {
	return bi.dw
}

// ParseLineAndInfo walks every compile unit: its line program feeds
// Sources, its subprograms become Functions.
//
// unit entries: see DWARF v4 chapter 3.3.1 normal and partial compilation unit entries
func (bi *BinaryInfo) ParseLineAndInfo(d *dw.Dwarf) error {
	for _, unit := range d.CompileUnits() {
		die, err := unit.Die()
		if err != nil {
			return err
		}
		cu := &CompileUnit{die: die, bi: bi}
		cu.parseFrom(die)
		bi.CompileUnits = append(bi.CompileUnits, cu)

		rows, err := die.Lines()
		switch {
		case errors.Is(err, dw.ErrNoAttr):
			// no DW_AT_stmt_list, e.g. assembly without line info
		case err != nil:
			return err
		default:
			bi.rows = append(bi.rows, cu.parseLineSection(rows)...)
		}

		err = die.ForEachFunc(func(fd dw.Die) (bool, error) {
			fn := &Function{cu: cu}
			if err := fn.parseFrom(fd); err != nil {
				return false, err
			}
			cu.functions = append(cu.functions, fn)
			bi.Functions = append(bi.Functions, fn)
			return true, nil
		})
		if err != nil {
			return err
		}
	}

	sort.SliceStable(bi.Functions, func(i, j int) bool {
		return bi.Functions[i].lowpc < bi.Functions[j].lowpc
	})
	// a sequence may end where the next one starts, the end marker sorts first
	sort.SliceStable(bi.rows, func(i, j int) bool {
		a, b := bi.rows[i], bi.rows[j]
		if a.Address != b.Address {
			return a.Address < b.Address
		}
		return a.EndSequence && !b.EndSequence
	})
	return nil
}

// ParseFrame parse .(z)debug_frame section to build the Call Frame Information.
// A file without .debug_frame is not an error; FdeEntries stays empty.
//
// see DWARFv4 6.4 Call Frame Information.
func (bi *BinaryInfo) ParseFrame(elffile *elf.File) error {
	frameData, err := godwarf.GetDebugSection(elffile, "frame")
	if err != nil {
		var notFound *godwarf.ErrSectionNotFound
		if errors.As(err, &notFound) {
			log.Debug().Msg("symbol: no .debug_frame")
			return nil
		}
		return err
	}

	ptrSize := 8
	if elffile.Class == elf.ELFCLASS32 {
		ptrSize = 4
	}
	frameEntries, err := frame.Parse(frameData, elffile.ByteOrder, 0, ptrSize)
	if err != nil {
		return err
	}
	bi.FdeEntries = frameEntries
	return nil
}

// PCToFunction returns the function whose range covers PC
//
// note: not considered inline function
func (bi *BinaryInfo) PCToFunction(pc uint64) (*Function, error) {
	// functions are sorted by low pc, look at those starting at or before pc
	i := sort.Search(len(bi.Functions), func(i int) bool {
		return bi.Functions[i].lowpc > pc
	})
	for i--; i >= 0; i-- {
		if f := bi.Functions[i]; f.Contains(pc) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("function at %#x: %w", pc, ErrNotFound)
}

// FunctionByName returns the first function called name.
func (bi *BinaryInfo) FunctionByName(name string) (*Function, error) {
	for _, f := range bi.Functions {
		if f.name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("function %s: %w", name, ErrNotFound)
}

// PCToFDE returns the frame whose range covers PC
func (bi *BinaryInfo) PCToFDE(pc uint64) (*frame.FrameDescriptionEntry, error) {
	return bi.FdeEntries.FDEForPC(pc)
}

// parseLoc parse location `loc` to file:lineno
func parseLoc(loc string) (string, int, error) {
	i := strings.LastIndex(loc, ":")
	if i <= 0 {
		return "", 0, ErrBadLoc
	}
	filename, linenostr := loc[:i], loc[i+1:]
	lineno, err := strconv.Atoi(linenostr)
	if err != nil || lineno <= 0 {
		return "", 0, ErrBadLoc
	}
	return filename, lineno, nil
}

// LocToPC convert location `loc` to PC
func (bi *BinaryInfo) LocToPC(loc string) (uint64, error) {
	filename, lineno, err := parseLoc(loc)
	if err != nil {
		return 0, err
	}
	return bi.FileLineToPC(filename, lineno)
}

// LocToLine resolves location `loc` to its source path, line and address.
// The line is the one asked for even when another line shares the address.
func (bi *BinaryInfo) LocToLine(loc string, stmt bool) (file string, lineno int, pc uint64, err error) {
	filename, lineno, err := parseLoc(loc)
	if err != nil {
		return "", 0, 0, err
	}
	if file, err = bi.resolveFile(filename); err != nil {
		return "", 0, 0, err
	}
	if stmt {
		pc, err = bi.FileLineToStmtPC(file, lineno)
	} else {
		pc, err = bi.FileLineToPC(file, lineno)
	}
	if err != nil {
		return "", 0, 0, err
	}
	return file, lineno, pc, nil
}

// resolveFile maps filename to a key of Sources. A name that is not a key
// matches the single source path ending in /filename.
func (bi *BinaryInfo) resolveFile(filename string) (string, error) {
	if _, ok := bi.Sources[filename]; ok {
		return filename, nil
	}
	var match []string
	for name := range bi.Sources {
		if strings.HasSuffix(name, "/"+filename) {
			match = append(match, name)
		}
	}
	switch len(match) {
	case 0:
		return "", fmt.Errorf("file %s: %w", filename, ErrNotFound)
	case 1:
		return match[0], nil
	}
	sort.Strings(match)
	return "", fmt.Errorf("file %s is ambiguous: %s", filename, strings.Join(match, ", "))
}

// FileLineToPC convert location `filename:lineno` to PC
func (bi *BinaryInfo) FileLineToPC(filename string, lineno int) (uint64, error) {
	entries, err := bi.lineEntries(filename, lineno)
	if err != nil {
		return 0, err
	}
	addr := entries[0].Address
	for _, v := range entries[1:] {
		if v.Address < addr {
			addr = v.Address
		}
	}
	return addr, nil
}

// FileLineToStmtPC converts `filename:lineno` to the first address past the
// prologue, or the lowest address of the line when no row marks one.
func (bi *BinaryInfo) FileLineToStmtPC(filename string, lineno int) (uint64, error) {
	lineEntries, err := bi.lineEntries(filename, lineno)
	if err != nil {
		return 0, err
	}
	// skip prologue
	for _, v := range lineEntries {
		if v.PrologueEnd {
			return v.Address, nil
		}
	}
	addr := lineEntries[0].Address
	for _, v := range lineEntries[1:] {
		if v.Address < addr {
			addr = v.Address
		}
	}
	return addr, nil
}

func (bi *BinaryInfo) lineEntries(filename string, lineno int) ([]*dwarf.LineEntry, error) {
	file, err := bi.resolveFile(filename)
	if err != nil {
		return nil, err
	}
	entries := bi.Sources[file][lineno]
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s:%d: %w", file, lineno, ErrNotFound)
	}
	return entries, nil
}

// PCToFileLine returns the source position of the line table row covering pc.
func (bi *BinaryInfo) PCToFileLine(pc uint64) (string, int, error) {
	i := sort.Search(len(bi.rows), func(i int) bool {
		return bi.rows[i].Address > pc
	})
	if i == 0 {
		return "", 0, fmt.Errorf("line at %#x: %w", pc, ErrNotFound)
	}
	row := bi.rows[i-1]
	if row.EndSequence {
		// pc sits in a gap between two sequences
		return "", 0, fmt.Errorf("line at %#x: %w", pc, ErrNotFound)
	}
	return row.File.Name, row.Line, nil
}

// Dump writes the source table, the compile units, the frames and the
// functions to w.
func (bi *BinaryInfo) Dump(w io.Writer) {
	files := make([]string, 0, len(bi.Sources))
	for file := range bi.Sources {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		mp := bi.Sources[file]
		lines := make([]int, 0, len(mp))
		for line := range mp {
			lines = append(lines, line)
		}
		sort.Ints(lines)
		for _, line := range lines {
			for _, lineEntry := range mp[line] {
				fmt.Fprintf(w, "source %s:%d %#x\n", file, line, lineEntry.Address)
			}
		}
	}

	for _, cu := range bi.CompileUnits {
		fmt.Fprintf(w, "compile unit: %s\n", cu.Name())
	}

	for i, v := range bi.FdeEntries {
		fmt.Fprintf(w, "frame %d: fde [%#x, %#x) cie %#x\n", i, v.Begin(), v.End(), v.CIE.Offset)
	}

	for _, fn := range bi.Functions {
		fmt.Fprintf(w, "function %s [%#x, %#x) vars %d\n", fn.name, fn.lowpc, fn.highpc, len(fn.variables))
	}
}
