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
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/internal/output"
	"github.com/hitzhangjie/godw/pkg/dw"
)

type funcRow struct {
	File   string     `json:"file" yaml:"file"`
	Line   int        `json:"line" yaml:"line"`
	Name   string     `json:"name" yaml:"name"`
	Offset output.Hex `json:"offset" yaml:"offset"`
}

func (r funcRow) String() string {
	file, line, name := r.File, "?", r.Name
	if file == "" {
		file = "?"
	}
	if r.Line > 0 {
		line = strconv.Itoa(r.Line)
	}
	if name == "" {
		name = "?"
	}
	return fmt.Sprintf("%s:%s:%s %s", file, line, name, r.Offset)
}

// funcsCmd represents the funcs command
var funcsCmd = &cobra.Command{
	Use:   "funcs FILE...",
	Short: "list the functions defined in every compile unit",
	Long: `list the functions defined in every compile unit.

Each line reads file:line:name offset, where offset is the offset of the
function's DIE in .debug_info. Unknown parts are printed as ?.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows []funcRow
		err := forEachFile(args, func(path string, d *dw.Dwarf) error {
			fns, err := listFuncs(d)
			rows = append(rows, fns...)
			return err
		})
		if err != nil {
			return err
		}
		return printer(cmd).Print(rows, func(w io.Writer) error {
			for _, r := range rows {
				fmt.Fprintln(w, r)
			}
			return nil
		})
	},
}

func listFuncs(d *dw.Dwarf) ([]funcRow, error) {
	var rows []funcRow
	for _, cu := range d.CompileUnits() {
		die, err := cu.Die()
		if err != nil {
			return rows, err
		}
		err = die.ForEachFunc(func(fn dw.Die) (bool, error) {
			r := funcRow{Offset: output.Hex(fn.Offset())}
			r.File, _ = fn.DeclFile()
			r.Line, _ = fn.DeclLine()
			r.Name, _ = fn.Name()
			rows = append(rows, r)
			return true, nil
		})
		if err != nil {
			return rows, err
		}
	}
	return rows, nil
}

func init() {
	rootCmd.AddCommand(funcsCmd)
}
