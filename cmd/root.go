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
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hitzhangjie/godw/internal/logging"
	"github.com/hitzhangjie/godw/internal/output"
	"github.com/hitzhangjie/godw/pkg/dw"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "godw",
	Short: "godw inspects the DWARF debugging information of ELF files",
	Long: `godw reads ELF object files and the DWARF data they carry: compile
units, functions, pc ranges, line tables, call frame information, and the
raw DIE tree, which can also be browsed interactively.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.SetLevel(viper.GetString("log-level")); err != nil {
			return err
		}
		_, err := output.ParseFormat(viper.GetString("output"))
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.godw.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error, off")
	rootCmd.PersistentFlags().StringP("output", "o", string(output.Text), "output format: text, json, yaml")

	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.SetDefault("output", string(output.Text))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".godw" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".godw")
	}

	viper.SetEnvPrefix("godw")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

// printer returns the printer for the --output format.
func printer(cmd *cobra.Command) *output.Printer {
	format, err := output.ParseFormat(viper.GetString("output"))
	if err != nil {
		format = output.Text
	}
	return output.New(cmd.OutOrStdout(), format)
}

// forEachFile opens every file named in args and calls fn with its DWARF
// session. The session is closed when fn returns.
func forEachFile(args []string, fn func(path string, d *dw.Dwarf) error) error {
	for _, path := range args {
		d, err := dw.Open(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Debug().Str("file", path).Int("units", len(d.CompileUnits())).Msg("opened")
		err = fn(path, d)
		d.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
