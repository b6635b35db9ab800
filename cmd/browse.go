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
	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/cmd/browse"
	"github.com/hitzhangjie/godw/pkg/dw"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse FILE",
	Short: "browse the DIE tree of FILE interactively",
	Long: `browse the DIE tree of FILE interactively.

ls lists the units or the children of the current DIE, cd moves by index
or offset, attrs and info inspect the current DIE, list shows its source.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dw.Open(args[0])
		if err != nil {
			return err
		}
		browse.NewSession(d).AtExit(func() { d.Close() }).Start()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
