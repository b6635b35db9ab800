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
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/pkg/dw"
)

type producerRow struct {
	File     string `json:"file" yaml:"file"`
	Unit     string `json:"unit" yaml:"unit"`
	Producer string `json:"producer" yaml:"producer"`
}

// producersCmd represents the producers command
var producersCmd = &cobra.Command{
	Use:   "producers FILE...",
	Short: "print the DW_AT_producer of every compile unit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows []producerRow
		err := forEachFile(args, func(path string, d *dw.Dwarf) error {
			for _, cu := range d.CompileUnits() {
				die, err := cu.Die()
				if err != nil {
					return err
				}
				attr, err := die.Attr(dwarf.AttrProducer)
				if errors.Is(err, dw.ErrNoAttr) {
					continue
				}
				if err != nil {
					return err
				}
				s, err := attr.Str()
				if err != nil {
					continue
				}
				name, _ := die.Name()
				rows = append(rows, producerRow{File: path, Unit: name, Producer: s})
			}
			return nil
		})
		if err != nil {
			return err
		}
		return printer(cmd).Print(rows, func(w io.Writer) error {
			for _, r := range rows {
				fmt.Fprintf(w, "%q\n", r.Producer)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(producersCmd)
}
