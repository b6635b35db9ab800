package frame

import (
	"encoding/binary"
	"sort"
)

// CommonInformationEntry represents a Common Information Entry in
// the Dwarf .debug_frame section.
//
// see DWARFv4 6.4.1 Structure of Call Frame Information
type CommonInformationEntry struct {
	Length                uint64
	Offset                uint64 // section offset of the entry
	Version               uint8
	Augmentation          string
	AddressSize           uint8 // v4 only, 0 otherwise
	SegmentSize           uint8 // v4 only
	CodeAlignmentFactor   uint64
	DataAlignmentFactor   int64
	ReturnAddressRegister uint64
	InitialInstructions   []byte

	staticBase uint64
}

// FrameDescriptionEntry represents a Frame Descriptor Entry in the
// Dwarf .debug_frame section.
type FrameDescriptionEntry struct {
	Length       uint64
	Offset       uint64
	CIE          *CommonInformationEntry
	Instructions []byte

	begin, size uint64
	order       binary.ByteOrder
}

// Cover returns whether or not the given address is within the
// bounds of this frame.
func (fde *FrameDescriptionEntry) Cover(addr uint64) bool {
	return (addr - fde.begin) < fde.size
}

// Begin returns address of first location for this frame.
func (fde *FrameDescriptionEntry) Begin() uint64 {
	return fde.begin
}

// End returns address of last location for this frame.
func (fde *FrameDescriptionEntry) End() uint64 {
	return fde.begin + fde.size
}

// ByteOrder returns the byte order the entry was decoded with.
func (fde *FrameDescriptionEntry) ByteOrder() binary.ByteOrder {
	return fde.order
}

// FrameDescriptionEntries a list of frame description entries, sorted by
// their begin address.
type FrameDescriptionEntries []*FrameDescriptionEntry

func newFrameDescriptionEntries() FrameDescriptionEntries {
	return make(FrameDescriptionEntries, 0, 1000)
}

// FDEForPC returns the Frame Description Entry for the given PC.
func (fdes FrameDescriptionEntries) FDEForPC(pc uint64) (*FrameDescriptionEntry, error) {
	idx := sort.Search(len(fdes), func(i int) bool {
		return fdes[i].begin > pc
	}) - 1
	if idx >= 0 && fdes[idx].Cover(pc) {
		return fdes[idx], nil
	}
	return nil, &ErrNoFDEForPC{pc}
}

// CIEs returns the distinct CIEs referenced by the entries, in section order.
func (fdes FrameDescriptionEntries) CIEs() []*CommonInformationEntry {
	seen := make(map[*CommonInformationEntry]bool)
	var cies []*CommonInformationEntry
	for _, fde := range fdes {
		if fde.CIE == nil || seen[fde.CIE] {
			continue
		}
		seen[fde.CIE] = true
		cies = append(cies, fde.CIE)
	}
	sort.Slice(cies, func(i, j int) bool { return cies[i].Offset < cies[j].Offset })
	return cies
}
