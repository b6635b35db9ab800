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
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/atomic"

	"github.com/hitzhangjie/godw/pkg/dw"
)

const (
	walkIter   = "iter"
	walkNested = "nested"
)

type walkStats struct {
	File    string `json:"file" yaml:"file"`
	Mode    string `json:"mode" yaml:"mode"`
	Units   int    `json:"units" yaml:"units"`
	Dies    int64  `json:"dies" yaml:"dies"`
	Attrs   int64  `json:"attrs" yaml:"attrs"`
	Elapsed string `json:"elapsed" yaml:"elapsed"`
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats FILE",
	Short: "walk every DIE and count DIEs and attributes",
	Long: `walk every DIE and count DIEs and attributes.

--mode iter walks with the Children iterator and reads attributes in bulk,
--mode nested walks with ForEachChild and ForEachAttr callbacks. Compile
units are walked in parallel by --workers goroutines.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := viper.GetString("stats.mode")
		workers := viper.GetInt("stats.workers")
		var stats walkStats
		err := forEachFile(args, func(path string, d *dw.Dwarf) error {
			start := time.Now()
			s, err := walkUnits(d, mode, workers)
			if err != nil {
				return err
			}
			s.File = path
			s.Elapsed = time.Since(start).String()
			stats = s
			return nil
		})
		if err != nil {
			return err
		}
		return printer(cmd).Print(stats, func(w io.Writer) error {
			fmt.Fprintf(w, "%s: %d units, %d DIEs, %d attributes (%s, %s)\n",
				stats.File, stats.Units, stats.Dies, stats.Attrs, stats.Mode, stats.Elapsed)
			return nil
		})
	},
}

// walkUnits walks the DIE tree of every compile unit with the given number
// of workers, 0 meaning one per CPU.
func walkUnits(d *dw.Dwarf, mode string, workers int) (walkStats, error) {
	var walk func(dw.Die, *atomic.Int64, *atomic.Int64) error
	switch mode {
	case walkIter, "":
		mode, walk = walkIter, walkIterative
	case walkNested:
		walk = walkNestedCallbacks
	default:
		return walkStats{}, fmt.Errorf("unknown walk mode %q, want %s or %s", mode, walkIter, walkNested)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	units := d.CompileUnits()
	dies, attrs := atomic.NewInt64(0), atomic.NewInt64(0)
	err := eachUnit(units, workers, func(cu *dw.CompileUnit) error {
		die, err := cu.Die()
		if err != nil {
			return err
		}
		return walk(die, dies, attrs)
	})
	if err != nil {
		return walkStats{}, err
	}
	return walkStats{
		Mode:  mode,
		Units: len(units),
		Dies:  dies.Load(),
		Attrs: attrs.Load(),
	}, nil
}

func walkIterative(die dw.Die, dies, attrs *atomic.Int64) error {
	dies.Inc()
	attrs.Add(int64(len(die.Attrs())))
	it := die.Children()
	for it.Next() {
		if err := walkIterative(it.Die(), dies, attrs); err != nil {
			return err
		}
	}
	return it.Err()
}

func walkNestedCallbacks(die dw.Die, dies, attrs *atomic.Int64) error {
	dies.Inc()
	err := die.ForEachAttr(func(dw.Attribute) (bool, error) {
		attrs.Inc()
		return true, nil
	})
	if err != nil {
		return err
	}
	return die.ForEachChild(func(child dw.Die) (bool, error) {
		return true, walkNestedCallbacks(child, dies, attrs)
	})
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().String("mode", walkIter, "walk mode: iter or nested")
	statsCmd.Flags().Int("workers", 0, "number of units walked in parallel, 0 for one per CPU")
	viper.BindPFlag("stats.mode", statsCmd.Flags().Lookup("mode"))
	viper.BindPFlag("stats.workers", statsCmd.Flags().Lookup("workers"))
}

// eachUnit calls fn for every unit from workers goroutines and returns the
// first error reported.
func eachUnit(units []*dw.CompileUnit, workers int, fn func(*dw.CompileUnit) error) error {
	var (
		firstErr = atomic.NewError(nil)
		errOnce  sync.Once
		jobs     = make(chan *dw.CompileUnit)
		wg       sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cu := range jobs {
				if err := fn(cu); err != nil {
					log.Debug().Err(err).Uint32("unit", uint32(cu.Offset)).Msg("walk failed")
					errOnce.Do(func() { firstErr.Store(err) })
				}
			}
		}()
	}
	for _, cu := range units {
		jobs <- cu
	}
	close(jobs)
	wg.Wait()
	return firstErr.Load()
}
