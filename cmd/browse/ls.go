package browse

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/internal/output"
	"github.com/hitzhangjie/godw/pkg/dw"
)

var lsCmd = &cobra.Command{
	Use:     "ls",
	Short:   "list the children of the current DIE, or the units at top level",
	Aliases: []string{"children"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupNavigate,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s := CurrentSession
		dies, err := s.children()
		if err != nil {
			return err
		}
		return listDies(cmd.OutOrStdout(), dies)
	},
}

func init() {
	browseRootCmd.AddCommand(lsCmd)
}

// children returns the children of the current DIE, or the unit DIEs at the
// top level.
func (s *Session) children() ([]dw.Die, error) {
	die, ok := s.Current()
	if !ok {
		var units []dw.Die
		for _, cu := range s.dw.CompileUnits() {
			unit, err := cu.Die()
			if err != nil {
				return units, err
			}
			units = append(units, unit)
		}
		return units, nil
	}

	var dies []dw.Die
	it := die.Children()
	for it.Next() {
		dies = append(dies, it.Die())
	}
	return dies, it.Err()
}

func listDies(w io.Writer, dies []dw.Die) error {
	tw := output.Table(w)
	for i, die := range dies {
		tag, _ := die.Tag()
		name, _ := die.Name()
		mark := ""
		if die.HasChildren() {
			mark = "/"
		}
		fmt.Fprintf(tw, "[%d]\t%#x\t%s\t%s%s\n", i, uint64(die.Offset()), tag, name, mark)
	}
	return tw.Flush()
}

// dieLabel names a DIE in prompts and paths.
func dieLabel(die dw.Die) string {
	if name, err := die.Name(); err == nil && name != "" {
		return name
	}
	tag, _ := die.Tag()
	return fmt.Sprintf("%s@%#x", tag, uint64(die.Offset()))
}
