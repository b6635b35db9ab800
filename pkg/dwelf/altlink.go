// Package dwelf reads the GNU extension sections that tie an ELF file to
// its separate debug files.
package dwelf

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	sectionAltLink = ".gnu_debugaltlink"
	sectionBuildID = ".note.gnu.build-id"

	ntGNUBuildID = 3
)

// ErrMalformed is returned for a section that exists but cannot be decoded.
var ErrMalformed = errors.New("malformed section")

// GNUDebugAltLink returns the file name and build-id stored in
// .gnu_debugaltlink. ok is false when the file has no such section.
func GNUDebugAltLink(f *elf.File) (name string, buildID []byte, ok bool, err error) {
	sec := f.Section(sectionAltLink)
	if sec == nil {
		return "", nil, false, nil
	}
	data, err := sec.Data()
	if err != nil {
		return "", nil, false, fmt.Errorf("read %s: %w", sectionAltLink, err)
	}
	name, buildID, err = parseAltLink(data)
	if err != nil {
		return "", nil, false, err
	}
	return name, buildID, true, nil
}

// parseAltLink splits the section into its NUL-terminated file name and
// the build-id that fills the rest of it.
func parseAltLink(data []byte) (string, []byte, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return "", nil, fmt.Errorf("%w: %s: unterminated file name", ErrMalformed, sectionAltLink)
	}
	id := data[i+1:]
	if len(id) == 0 {
		return "", nil, fmt.Errorf("%w: %s: empty build-id", ErrMalformed, sectionAltLink)
	}
	return string(data[:i]), id, nil
}

// BuildID returns the descriptor of the NT_GNU_BUILD_ID note. ok is false
// when the file has no build-id note.
func BuildID(f *elf.File) (id []byte, ok bool, err error) {
	sec := f.Section(sectionBuildID)
	if sec == nil {
		return nil, false, nil
	}
	data, err := sec.Data()
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", sectionBuildID, err)
	}
	id, err = parseBuildIDNote(data, f.ByteOrder)
	if err != nil {
		return nil, false, err
	}
	return id, id != nil, nil
}

// parseBuildIDNote scans the notes of a section for the GNU build-id.
//
// see System V ABI, Note Section
func parseBuildIDNote(data []byte, order binary.ByteOrder) ([]byte, error) {
	align4 := func(n uint32) uint64 { return (uint64(n) + 3) &^ 3 }

	for len(data) > 0 {
		if len(data) < 12 {
			return nil, fmt.Errorf("%w: %s: truncated note header", ErrMalformed, sectionBuildID)
		}
		namesz := order.Uint32(data[0:])
		descsz := order.Uint32(data[4:])
		typ := order.Uint32(data[8:])
		data = data[12:]

		nameEnd := align4(namesz)
		descEnd := nameEnd + align4(descsz)
		if descEnd > uint64(len(data)) {
			return nil, fmt.Errorf("%w: %s: note exceeds section", ErrMalformed, sectionBuildID)
		}
		name := string(bytes.TrimRight(data[:namesz], "\x00"))
		if typ == ntGNUBuildID && name == "GNU" {
			return data[nameEnd : nameEnd+uint64(descsz)], nil
		}
		data = data[descEnd:]
	}
	return nil, nil
}
