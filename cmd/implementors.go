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
	"github.com/hitzhangjie/godw/pkg/implementors"
)

// implementorsCmd represents the implementors command
var implementorsCmd = &cobra.Command{
	Use:   "implementors [NAME]",
	Short: "print the index of types implementing " + implementors.Trait,
	Long: `print the index of types implementing ` + implementors.Trait + `.

The index is published to a host before any registrar is installed, so it
waits in the host's pending slot until the printer registers and drains it.
NAME looks up one entry, as Name or layer::Name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := printer(cmd)
		if len(args) == 1 {
			impl, ok := implementors.Default().Lookup(args[0])
			if !ok {
				return fmt.Errorf("%s does not implement %s", args[0], implementors.Trait)
			}
			return p.Print(impl, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s\t%s\n", impl.Render(), impl.GoType)
				return err
			})
		}

		host := implementors.NewHost()
		implementors.Publish(host, implementors.Default())

		var err error
		host.SetRegistrar(func(ix implementors.Index) {
			err = printIndex(p, ix)
		})
		return err
	},
}

func printIndex(p *output.Printer, ix implementors.Index) error {
	if err := ix.Validate(); err != nil {
		return err
	}
	return p.Print(ix, func(w io.Writer) error {
		tw := output.Table(w)
		for _, layer := range ix.Keys() {
			fmt.Fprintf(tw, "%s:\n", layer)
			for _, impl := range ix[layer] {
				fmt.Fprintf(tw, "\t%s\t%s\n", impl.Render(), impl.GoType)
			}
		}
		return tw.Flush()
	})
}

func init() {
	rootCmd.AddCommand(implementorsCmd)
}
