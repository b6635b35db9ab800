package browse

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/internal/output"
	"github.com/hitzhangjie/godw/pkg/dw"
)

var errTopLevel = errors.New("no current DIE, cd into a unit first")

var attrsCmd = &cobra.Command{
	Use:     "attrs",
	Short:   "print the attributes of the current DIE",
	Aliases: []string{"a"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInspect,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		die, ok := CurrentSession.Current()
		if !ok {
			return errTopLevel
		}
		tw := output.Table(cmd.OutOrStdout())
		err := die.ForEachAttr(func(a dw.Attribute) (bool, error) {
			v, err := a.Value()
			if err != nil {
				fmt.Fprintf(tw, "%s\t%s\t<%v>\n", a.Name(), a.Class(), err)
				return true, nil
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Name(), a.Class(), v)
			return true, nil
		})
		if err != nil {
			return err
		}
		return tw.Flush()
	},
}

func init() {
	browseRootCmd.AddCommand(attrsCmd)
}
