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

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/internal/output"
	"github.com/hitzhangjie/godw/pkg/dw"
)

type rangeRow struct {
	Start output.Hex `json:"start" yaml:"start"`
	End   output.Hex `json:"end" yaml:"end"`
}

type unitRanges struct {
	File   string     `json:"file" yaml:"file"`
	Unit   string     `json:"unit" yaml:"unit"`
	Err    string     `json:"error,omitempty" yaml:"error,omitempty"`
	Ranges []rangeRow `json:"ranges" yaml:"ranges"`
}

// rangesCmd represents the ranges command
var rangesCmd = &cobra.Command{
	Use:   "ranges FILE...",
	Short: "print the pc ranges of every compile unit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var units []unitRanges
		err := forEachFile(args, func(path string, d *dw.Dwarf) error {
			for _, cu := range d.CompileUnits() {
				die, err := cu.Die()
				if err != nil {
					return err
				}
				u := unitRanges{File: path, Ranges: []rangeRow{}}
				if u.Unit, err = die.Name(); err != nil {
					u.Err = err.Error()
				}
				rngs, err := die.Ranges()
				if err != nil {
					return err
				}
				for _, r := range rngs {
					u.Ranges = append(u.Ranges, rangeRow{Start: output.Hex(r.Start), End: output.Hex(r.End)})
				}
				units = append(units, u)
			}
			return nil
		})
		if err != nil {
			return err
		}
		return printer(cmd).Print(units, func(w io.Writer) error {
			for _, u := range units {
				if u.Err != "" {
					fmt.Fprintf(w, "CU: Err(%s)\n", u.Err)
				} else {
					fmt.Fprintf(w, "CU: %q\n", u.Unit)
				}
				for _, r := range u.Ranges {
					fmt.Fprintf(w, "\t%x..%x\n", uint64(r.Start), uint64(r.End))
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rangesCmd)
}
