// Package godwarf locates DWARF sections inside an ELF file, taking care of
// the legacy .zdebug_* compression scheme.
package godwarf

import (
	"bytes"
	"compress/zlib"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
)

const maxDeflateRatio = 1032

// ErrSectionNotFound is returned when neither .debug_<name> nor
// .zdebug_<name> exists.
type ErrSectionNotFound struct {
	Name string
}

func (err *ErrSectionNotFound) Error() string {
	return fmt.Sprintf("could not find .debug_%s section", err.Name)
}

// GetDebugSection returns the data contents of the specified debug
// section, decompressing it if it is compressed.
// For example GetDebugSection("line") will return the contents of
// .debug_line, if .debug_line doesn't exist it will try to return the
// decompressed contents of .zdebug_line.
func GetDebugSection(f *elf.File, name string) ([]byte, error) {
	sec := f.Section(".debug_" + name)
	if sec != nil {
		// SHF_COMPRESSED sections are inflated by debug/elf itself.
		return sec.Data()
	}
	sec = f.Section(".zdebug_" + name)
	if sec == nil {
		return nil, &ErrSectionNotFound{Name: name}
	}
	b, err := sec.Data()
	if err != nil {
		return nil, err
	}
	return decompressMaybe(b)
}

// HasDebugSection reports whether either spelling of the section exists.
func HasDebugSection(f *elf.File, name string) bool {
	return f.Section(".debug_"+name) != nil || f.Section(".zdebug_"+name) != nil
}

func decompressMaybe(b []byte) ([]byte, error) {
	if len(b) < 12 || string(b[:4]) != "ZLIB" {
		// not compressed
		return b, nil
	}

	// deflate cannot expand input more than maxDeflateRatio times
	dlen := binary.BigEndian.Uint64(b[4:12])
	if dlen > uint64(len(b)-12)*maxDeflateRatio {
		return nil, fmt.Errorf("zlib section claims %d bytes from %d compressed bytes", dlen, len(b)-12)
	}
	dbuf := make([]byte, dlen)
	r, err := zlib.NewReader(bytes.NewBuffer(b[12:]))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if _, err := io.ReadFull(r, dbuf); err != nil {
		return nil, err
	}
	return dbuf, nil
}
