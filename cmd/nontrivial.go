/*
Copyright © 2020 hit.zhangjie@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"debug/dwarf"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/pkg/dw"
)

type nontrivialParam struct {
	File     string `json:"file" yaml:"file"`
	Function string `json:"function" yaml:"function"`
	Param    string `json:"param" yaml:"param"`
	Line     int    `json:"line" yaml:"line"`
}

// nontrivialCmd represents the nontrivial command
var nontrivialCmd = &cobra.Command{
	Use:   "nontrivial FILE...",
	Short: "report function parameters passed by non-trivial type",
	Long: `report function parameters passed by non-trivial type.

A parameter is non-trivial when its type is a class or structure, looking
through const, volatile and typedef. Functions declared in system headers
(under /usr/ but not /usr/src/debug/) are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var params []nontrivialParam
		err := forEachFile(args, func(path string, d *dw.Dwarf) error {
			found, err := scanNontrivial(d)
			params = append(params, found...)
			return err
		})
		if err != nil {
			return err
		}
		return printer(cmd).Print(params, func(w io.Writer) error {
			var last string
			for _, p := range params {
				if key := p.File + "\x00" + p.Function; key != last {
					fmt.Fprintf(w, "%q: In function %q:\n", p.File, p.Function)
					last = key
				}
				fmt.Fprintf(w, "%q:%d: note: parameter %q type is not trivial\n", p.File, p.Line, p.Param)
			}
			return nil
		})
	},
}

func scanNontrivial(d *dw.Dwarf) ([]nontrivialParam, error) {
	var params []nontrivialParam
	for _, cu := range d.CompileUnits() {
		die, err := cu.Die()
		if err != nil {
			return params, err
		}
		if tag, _ := die.Tag(); tag != dwarf.TagCompileUnit {
			continue
		}
		err = die.ForEachFunc(func(fn dw.Die) (bool, error) {
			found, err := nontrivialParams(fn)
			params = append(params, found...)
			return true, err
		})
		if err != nil {
			return params, err
		}
	}
	return params, nil
}

func nontrivialParams(fn dw.Die) ([]nontrivialParam, error) {
	file, err := fn.DeclFile()
	if err != nil || inSystemHeader(file) {
		return nil, nil
	}

	var params []nontrivialParam
	it := fn.Children()
	for it.Next() {
		child := it.Die()
		if tag, _ := child.Tag(); tag != dwarf.TagFormalParameter || !hasNontrivialType(child) {
			continue
		}
		line, err := child.DeclLine()
		if err != nil {
			line = -1
		}
		name, _ := child.Name()
		params = append(params, nontrivialParam{
			File:     file,
			Function: functionName(fn),
			Param:    name,
			Line:     line,
		})
	}
	return params, it.Err()
}

func inSystemHeader(file string) bool {
	return strings.HasPrefix(file, "/usr/") && !strings.HasPrefix(file, "/usr/src/debug/")
}

func hasNontrivialType(d dw.Die) bool {
	a, err := d.Attr(dwarf.AttrType)
	if err != nil {
		return false
	}
	ty, err := a.Ref()
	if err != nil {
		return false
	}
	tag, err := ty.Tag()
	if err != nil {
		return false
	}
	switch tag {
	case dwarf.TagClassType, dwarf.TagStructType:
		return true
	case dwarf.TagConstType, dwarf.TagVolatileType, dwarf.TagTypedef:
		return hasNontrivialType(ty)
	}
	return false
}

// functionName prefers the linkage name over DW_AT_name.
func functionName(fn dw.Die) string {
	for _, attr := range []dwarf.Attr{dwarf.AttrLinkageName, dw.AttrMIPSLinkageName} {
		if a, err := fn.AttrIntegrate(attr); err == nil {
			if s, err := a.Str(); err == nil {
				return s
			}
		}
	}
	if name, err := fn.Name(); err == nil {
		return name
	}
	return "(null)"
}

func init() {
	rootCmd.AddCommand(nontrivialCmd)
}
