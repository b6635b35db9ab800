package dw

import (
	"debug/dwarf"
	"fmt"
)

// Language is a DW_LANG source language code.
type Language uint64

// see DWARFv5 7.12 Source Languages
const (
	LangC89          Language = 0x0001
	LangC            Language = 0x0002
	LangAda83        Language = 0x0003
	LangCPlusPlus    Language = 0x0004
	LangCobol74      Language = 0x0005
	LangCobol85      Language = 0x0006
	LangFortran77    Language = 0x0007
	LangFortran90    Language = 0x0008
	LangPascal83     Language = 0x0009
	LangModula2      Language = 0x000a
	LangJava         Language = 0x000b
	LangC99          Language = 0x000c
	LangAda95        Language = 0x000d
	LangFortran95    Language = 0x000e
	LangObjC         Language = 0x0010
	LangObjCPlusPlus Language = 0x0011
	LangD            Language = 0x0013
	LangGo           Language = 0x0016
	LangCPlusPlus11  Language = 0x001a
	LangRust         Language = 0x001c
	LangC11          Language = 0x001d
	LangCPlusPlus14  Language = 0x0021
	LangFortran03    Language = 0x0022
	LangFortran08    Language = 0x0023
	LangMipsAsm      Language = 0x8001
)

var langNames = map[Language]string{
	LangC89:          "C89",
	LangC:            "C",
	LangAda83:        "Ada83",
	LangCPlusPlus:    "C++",
	LangCobol74:      "Cobol74",
	LangCobol85:      "Cobol85",
	LangFortran77:    "Fortran77",
	LangFortran90:    "Fortran90",
	LangPascal83:     "Pascal83",
	LangModula2:      "Modula2",
	LangJava:         "Java",
	LangC99:          "C99",
	LangAda95:        "Ada95",
	LangFortran95:    "Fortran95",
	LangObjC:         "ObjC",
	LangObjCPlusPlus: "ObjC++",
	LangD:            "D",
	LangGo:           "Go",
	LangCPlusPlus11:  "C++11",
	LangRust:         "Rust",
	LangC11:          "C11",
	LangCPlusPlus14:  "C++14",
	LangFortran03:    "Fortran03",
	LangFortran08:    "Fortran08",
	LangMipsAsm:      "Mips_Assembler",
}

func (l Language) String() string {
	if s, ok := langNames[l]; ok {
		return s
	}
	return fmt.Sprintf("lang(%#x)", uint64(l))
}

// DW_AT_ordering values.
const (
	OrderRowMajor = 0
	OrderColMajor = 1
)

// AttrMIPSLinkageName is the pre-DWARF4 vendor spelling of
// DW_AT_linkage_name, still emitted by older GCC releases.
const AttrMIPSLinkageName dwarf.Attr = 0x2007
