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
	"debug/elf"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/pkg/dwelf"
)

type altLink struct {
	File       string `json:"file" yaml:"file"`
	BuildID    string `json:"build_id,omitempty" yaml:"build_id,omitempty"`
	AltName    string `json:"alt_name,omitempty" yaml:"alt_name,omitempty"`
	AltBuildID string `json:"alt_build_id,omitempty" yaml:"alt_build_id,omitempty"`
}

// altlinkCmd represents the altlink command
var altlinkCmd = &cobra.Command{
	Use:   "altlink FILE...",
	Short: "print the build-id and the .gnu_debugaltlink of ELF files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var links []altLink
		for _, path := range args {
			link, err := readAltLink(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			links = append(links, link)
		}
		return printer(cmd).Print(links, func(w io.Writer) error {
			for _, l := range links {
				fmt.Fprintf(w, "%s:\n", l.File)
				if l.BuildID != "" {
					fmt.Fprintf(w, "\tbuild-id: %s\n", l.BuildID)
				}
				if l.AltName != "" {
					fmt.Fprintf(w, "\taltlink: %s %s\n", l.AltName, l.AltBuildID)
				} else {
					fmt.Fprintf(w, "\taltlink: none\n")
				}
			}
			return nil
		})
	},
}

func readAltLink(path string) (altLink, error) {
	link := altLink{File: path}
	f, err := elf.Open(path)
	if err != nil {
		return link, err
	}
	defer f.Close()

	id, ok, err := dwelf.BuildID(f)
	if err != nil {
		return link, err
	}
	if ok {
		link.BuildID = hex.EncodeToString(id)
	}
	name, altID, ok, err := dwelf.GNUDebugAltLink(f)
	if err != nil {
		return link, err
	}
	if ok {
		link.AltName, link.AltBuildID = name, hex.EncodeToString(altID)
	}
	return link, nil
}

func init() {
	rootCmd.AddCommand(altlinkCmd)
}
