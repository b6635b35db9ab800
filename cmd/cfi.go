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
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/internal/output"
	"github.com/hitzhangjie/godw/pkg/symbol"
)

type cieInfo struct {
	Offset                output.Hex `json:"offset" yaml:"offset"`
	Version               uint8      `json:"version" yaml:"version"`
	Augmentation          string     `json:"augmentation" yaml:"augmentation"`
	CodeAlignmentFactor   uint64     `json:"code_alignment_factor" yaml:"code_alignment_factor"`
	DataAlignmentFactor   int64      `json:"data_alignment_factor" yaml:"data_alignment_factor"`
	ReturnAddressRegister uint64     `json:"return_address_register" yaml:"return_address_register"`
	InitialInstructions   string     `json:"initial_instructions" yaml:"initial_instructions"`
}

type fdeInfo struct {
	PC           output.Hex `json:"pc" yaml:"pc"`
	Function     string     `json:"function,omitempty" yaml:"function,omitempty"`
	Offset       output.Hex `json:"offset" yaml:"offset"`
	Begin        output.Hex `json:"begin" yaml:"begin"`
	End          output.Hex `json:"end" yaml:"end"`
	Instructions string     `json:"instructions" yaml:"instructions"`
	CIE          cieInfo    `json:"cie" yaml:"cie"`
}

// cfiCmd represents the cfi command
var cfiCmd = &cobra.Command{
	Use:   "cfi FILE PC",
	Short: "print the frame description entry covering PC",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := parseAddr(args[1])
		if err != nil {
			return err
		}
		bi, err := symbol.Analyze(args[0])
		if err != nil {
			return err
		}
		defer bi.Close()

		fde, err := bi.PCToFDE(pc)
		if err != nil {
			return err
		}
		info := fdeInfo{
			PC:           output.Hex(pc),
			Offset:       output.Hex(fde.Offset),
			Begin:        output.Hex(fde.Begin()),
			End:          output.Hex(fde.End()),
			Instructions: hex.EncodeToString(fde.Instructions),
		}
		if fn, err := bi.PCToFunction(pc); err == nil {
			info.Function = fn.Name()
		}
		if cie := fde.CIE; cie != nil {
			info.CIE = cieInfo{
				Offset:                output.Hex(cie.Offset),
				Version:               cie.Version,
				Augmentation:          cie.Augmentation,
				CodeAlignmentFactor:   cie.CodeAlignmentFactor,
				DataAlignmentFactor:   cie.DataAlignmentFactor,
				ReturnAddressRegister: cie.ReturnAddressRegister,
				InitialInstructions:   hex.EncodeToString(cie.InitialInstructions),
			}
		}
		return printer(cmd).Print(info, func(w io.Writer) error {
			tw := output.Table(w)
			fmt.Fprintf(tw, "pc\t%s\t%s\n", info.PC, info.Function)
			fmt.Fprintf(tw, "fde\t%s\t[%s, %s)\n", info.Offset, info.Begin, info.End)
			fmt.Fprintf(tw, "  instructions\t%s\n", info.Instructions)
			fmt.Fprintf(tw, "cie\t%s\tversion %d augmentation %q\n", info.CIE.Offset, info.CIE.Version, info.CIE.Augmentation)
			fmt.Fprintf(tw, "  code align\t%d\n", info.CIE.CodeAlignmentFactor)
			fmt.Fprintf(tw, "  data align\t%d\n", info.CIE.DataAlignmentFactor)
			fmt.Fprintf(tw, "  return address\tr%d\n", info.CIE.ReturnAddressRegister)
			fmt.Fprintf(tw, "  initial instructions\t%s\n", info.CIE.InitialInstructions)
			return tw.Flush()
		})
	},
}

// parseAddr parses a pc given in decimal, 0x hex or 0 octal.
func parseAddr(s string) (uint64, error) {
	pc, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, errors.New("invalid address " + strconv.Quote(s))
	}
	return pc, nil
}

func init() {
	rootCmd.AddCommand(cfiCmd)
}
