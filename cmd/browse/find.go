package browse

import (
	"debug/dwarf"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/internal/output"
	"github.com/hitzhangjie/godw/pkg/dw"
)

var findCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "list the DIEs called name below the current DIE, or in every unit",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupNavigate,
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		found, err := CurrentSession.find(args[0])
		if err != nil {
			return err
		}
		tw := output.Table(cmd.OutOrStdout())
		for _, die := range found {
			tag, _ := die.Tag()
			fmt.Fprintf(tw, "%#x\t%s\t%s\n", uint64(die.Offset()), tag, args[0])
		}
		return tw.Flush()
	},
}

func init() {
	browseRootCmd.AddCommand(findCmd)
}

func (s *Session) find(name string) ([]dw.Die, error) {
	var roots []dw.Die
	if die, ok := s.Current(); ok {
		roots = []dw.Die{die}
	} else {
		units, err := s.children()
		if err != nil {
			return nil, err
		}
		roots = units
	}

	var found []dw.Die
	for _, root := range roots {
		if err := findByName(root, name, &found); err != nil {
			return found, err
		}
	}
	return found, nil
}

func findByName(die dw.Die, name string, found *[]dw.Die) error {
	return die.ForEachChild(func(child dw.Die) (bool, error) {
		// own DW_AT_name only, Name would also match concrete instances
		if a, err := child.Attr(dwarf.AttrName); err == nil {
			if s, err := a.Str(); err == nil && s == name {
				*found = append(*found, child)
			}
		}
		return true, findByName(child, name, found)
	})
}
