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
	"strings"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/internal/output"
	"github.com/hitzhangjie/godw/pkg/symbol"
)

type lineInfo struct {
	PC       output.Hex `json:"pc" yaml:"pc"`
	File     string     `json:"file" yaml:"file"`
	Line     int        `json:"line" yaml:"line"`
	Function string     `json:"function,omitempty" yaml:"function,omitempty"`
}

// linesCmd represents the lines command
var linesCmd = &cobra.Command{
	Use:   "lines FILE [LOC|PC]",
	Short: "map source locations to addresses and back",
	Long: `map source locations to addresses and back.

A file:line location prints the lowest address of that line, or with --stmt
the first address past the function prologue. A pc prints the source line
covering it. --all dumps the whole line table, the compile units, the
frames and the functions.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bi, err := symbol.Analyze(args[0])
		if err != nil {
			return err
		}
		defer bi.Close()

		if all, _ := cmd.Flags().GetBool("all"); all {
			bi.Dump(cmd.OutOrStdout())
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("lines needs a location or a pc, or --all")
		}
		stmt, _ := cmd.Flags().GetBool("stmt")
		info, err := lookupLine(bi, args[1], stmt)
		if err != nil {
			return err
		}
		return printer(cmd).Print(info, func(w io.Writer) error {
			if info.Function != "" {
				fmt.Fprintf(w, "%s:%d %s %s\n", info.File, info.Line, info.PC, info.Function)
			} else {
				fmt.Fprintf(w, "%s:%d %s\n", info.File, info.Line, info.PC)
			}
			return nil
		})
	},
}

func lookupLine(bi *symbol.BinaryInfo, arg string, stmt bool) (lineInfo, error) {
	var info lineInfo
	if strings.Contains(arg, ":") {
		file, line, pc, err := bi.LocToLine(arg, stmt)
		if err != nil {
			return info, err
		}
		info.File, info.Line, info.PC = file, line, output.Hex(pc)
	} else {
		pc, err := parseAddr(arg)
		if err != nil {
			return info, err
		}
		file, line, err := bi.PCToFileLine(pc)
		if err != nil {
			return info, err
		}
		info.File, info.Line, info.PC = file, line, output.Hex(pc)
	}
	if fn, err := bi.PCToFunction(uint64(info.PC)); err == nil {
		info.Function = fn.Name()
	}
	return info, nil
}

func init() {
	rootCmd.AddCommand(linesCmd)

	linesCmd.Flags().Bool("all", false, "dump the whole line table")
	linesCmd.Flags().Bool("stmt", false, "resolve a location past the function prologue")
}
