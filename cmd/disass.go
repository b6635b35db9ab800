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
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hitzhangjie/godw/internal/output"
	"github.com/hitzhangjie/godw/pkg/symbol"
)

type disassRow struct {
	Addr  output.Hex `json:"addr" yaml:"addr"`
	Bytes string     `json:"bytes" yaml:"bytes"`
	Asm   string     `json:"asm" yaml:"asm"`
}

// disassCmd represents the disass command
var disassCmd = &cobra.Command{
	Use:     "disass FILE FUNC|PC",
	Short:   "disassemble a function (amd64)",
	Aliases: []string{"dis", "disassemble"},
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			max    = viper.GetInt("disass.max")
			syntax = viper.GetString("disass.syntax")
		)
		bi, err := symbol.Analyze(args[0])
		if err != nil {
			return err
		}
		defer bi.Close()

		var fn *symbol.Function
		if pc, err := parseAddr(args[1]); err == nil {
			fn, err = bi.PCToFunction(pc)
			if err != nil {
				return err
			}
		} else if fn, err = bi.FunctionByName(args[1]); err != nil {
			return err
		}

		code, err := bi.FunctionText(fn)
		if err != nil {
			return err
		}
		insts, err := symbol.Disassemble(code, fn.LowPC(), max, syntax)
		if err != nil {
			return err
		}

		rows := make([]disassRow, 0, len(insts))
		for _, inst := range insts {
			rows = append(rows, disassRow{
				Addr:  output.Hex(inst.Addr),
				Bytes: hex.EncodeToString(inst.Bytes),
				Asm:   inst.Asm,
			})
		}
		return printer(cmd).Print(rows, func(w io.Writer) error {
			fmt.Fprintf(w, "TEXT %s(SB) %s\n", fn.Name(), fn.DeclFile())
			tw := output.Table(w)
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Addr, r.Bytes, r.Asm)
			}
			return tw.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(disassCmd)

	disassCmd.Flags().IntP("max", "n", 0, "number of instructions to decode, 0 for the whole function")
	disassCmd.Flags().StringP("syntax", "s", "gnu", "assembly syntax: go, gnu, intel")
	viper.BindPFlag("disass.max", disassCmd.Flags().Lookup("max"))
	viper.BindPFlag("disass.syntax", disassCmd.Flags().Lookup("syntax"))
}
