package symbol

import (
	"debug/dwarf"

	"github.com/hitzhangjie/godw/pkg/dw"
)

// CompileUnit compilation unit
//
// see DWARFv4 3.1.1 normal and partial compilation unit entries
type CompileUnit struct {
	name      string
	producer  string
	language  dw.Language
	functions []*Function
	die       dw.Die
	bi        *BinaryInfo
}

func (c *CompileUnit) parseFrom(die dw.Die) {
	c.name, _ = die.Name()
	if a, err := die.Attr(dwarf.AttrProducer); err == nil {
		c.producer, _ = a.Str()
	}
	c.language, _ = die.SourceLanguage()
}

// parseLineSection adds the rows of the unit's line program to Sources and
// returns them.
//
// note: one compile unit may contains more than one source files.
func (c *CompileUnit) parseLineSection(rows []dwarf.LineEntry) []*dwarf.LineEntry {
	out := make([]*dwarf.LineEntry, 0, len(rows))
	for i := range rows {
		entry := &rows[i]
		if entry.File == nil {
			continue
		}
		out = append(out, entry)
		if entry.EndSequence {
			continue
		}

		// append line entries
		file := entry.File.Name
		entries, ok := c.bi.Sources[file]
		if !ok {
			entries = make(map[int][]*dwarf.LineEntry)
			c.bi.Sources[file] = entries
		}
		entries[entry.Line] = append(entries[entry.Line], entry)
	}
	return out
}

// Name returns DW_AT_name of the unit.
func (c *CompileUnit) Name() string {
	return c.name
}

// Producer returns DW_AT_producer, empty when absent.
func (c *CompileUnit) Producer() string {
	return c.producer
}

// Language returns DW_AT_language.
func (c *CompileUnit) Language() dw.Language {
	return c.language
}

// Functions returns the functions defined in the unit.
func (c *CompileUnit) Functions() []*Function {
	return c.functions
}

// Die returns the unit DIE.
func (c *CompileUnit) Die() dw.Die {
	return c.die
}
