package implementors

// Default returns the binding index. Each call builds a fresh Index, so
// callers may modify the result.
func Default() Index {
	return Index{
		LayerDw: {
			{Layer: LayerDw, Kind: KindStruct, Name: "Die", Generics: []string{"'dw"}, GoType: "dw.Die"},
			{Layer: LayerDw, Kind: KindStruct, Name: "Attribute", Generics: []string{"'dw"}, GoType: "dw.Attribute"},
		},
		LayerDwSys: {
			{Layer: LayerDwSys, Kind: KindEnum, Name: "Dwarf_Cmd"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Abbrev"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Lines_s"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Line_s", GoType: "dwarf.LineEntry"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Files_s", GoType: "dwarf.LineFile"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Arange_s"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Aranges_s"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_CU", GoType: "dw.CompileUnit"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Macro_s"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Attribute", GoType: "dw.Attribute"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Block"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Die", GoType: "dw.Die"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Global"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Op"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_CIE", GoType: "frame.CommonInformationEntry"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_FDE", GoType: "frame.FrameDescriptionEntry"},
			{Layer: LayerDwSys, Kind: KindUnion, Name: "Dwarf_CFI_Entry"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_Frame_s"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf_CFI_s"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwarf", GoType: "dw.Dwarf"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwfl"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwfl_Module"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwfl_Line"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwfl_Thread"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwfl_Frame"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwfl_Callbacks"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "argp"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwfl_Thread_Callbacks"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwelf_Strtab"},
			{Layer: LayerDwSys, Kind: KindStruct, Name: "Dwelf_Strent"},
		},
		LayerElfSys: {
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Ehdr", GoType: "elf.Header32"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Ehdr", GoType: "elf.Header64"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Shdr", GoType: "elf.Section32"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Shdr", GoType: "elf.Section64"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Chdr", GoType: "elf.Chdr32"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Chdr", GoType: "elf.Chdr64"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Sym", GoType: "elf.Sym32"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Sym", GoType: "elf.Sym64"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Syminfo"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Syminfo"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Rel", GoType: "elf.Rel32"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Rel", GoType: "elf.Rel64"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Rela", GoType: "elf.Rela32"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Rela", GoType: "elf.Rela64"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Phdr", GoType: "elf.Prog32"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Phdr", GoType: "elf.Prog64"},
			{Layer: LayerElfSys, Kind: KindUnion, Name: "Elf32_Dyn__bindgen_ty_1"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Dyn", GoType: "elf.Dyn32"},
			{Layer: LayerElfSys, Kind: KindUnion, Name: "Elf64_Dyn__bindgen_ty_1"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Dyn", GoType: "elf.Dyn64"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Verdef"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Verdef"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Verdaux"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Verdaux"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Verneed"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Verneed"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Vernaux"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Vernaux"},
			{Layer: LayerElfSys, Kind: KindUnion, Name: "Elf32_auxv_t__bindgen_ty_1"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_auxv_t"},
			{Layer: LayerElfSys, Kind: KindUnion, Name: "Elf64_auxv_t__bindgen_ty_1"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_auxv_t"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Nhdr"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Nhdr"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Move"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Move"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_gptab__bindgen_ty_1"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_gptab__bindgen_ty_2"},
			{Layer: LayerElfSys, Kind: KindUnion, Name: "Elf32_gptab"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_RegInfo"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf_Options"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf_Options_Hw"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf32_Lib"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf64_Lib"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf_MIPS_ABIFlags_v0"},
			{Layer: LayerElfSys, Kind: KindEnum, Name: "Elf_Type", GoType: "elf.Type"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf_Data"},
			{Layer: LayerElfSys, Kind: KindEnum, Name: "Elf_Cmd"},
			{Layer: LayerElfSys, Kind: KindEnum, Name: "_bindgen_ty_2"},
			{Layer: LayerElfSys, Kind: KindEnum, Name: "_bindgen_ty_3"},
			{Layer: LayerElfSys, Kind: KindEnum, Name: "Elf_Kind"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf_Arhdr"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf_Arsym"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf", GoType: "elf.File"},
			{Layer: LayerElfSys, Kind: KindStruct, Name: "Elf_Scn", GoType: "elf.Section"},
		},
	}
}
