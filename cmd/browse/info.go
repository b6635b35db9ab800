package browse

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/internal/output"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "summarize the current DIE",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInspect,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		die, ok := CurrentSession.Current()
		if !ok {
			return errTopLevel
		}
		tw := output.Table(cmd.OutOrStdout())

		tag, _ := die.Tag()
		fmt.Fprintf(tw, "offset\t%#x\n", uint64(die.Offset()))
		fmt.Fprintf(tw, "unit\t%#x\n", uint64(die.UnitOffset()))
		fmt.Fprintf(tw, "tag\t%s\n", tag)
		if name, err := die.Name(); err == nil {
			fmt.Fprintf(tw, "name\t%s\n", name)
		}
		if file, err := die.DeclFile(); err == nil {
			line, _ := die.DeclLine()
			fmt.Fprintf(tw, "decl\t%s:%d\n", file, line)
		}
		if size, err := die.ByteSize(); err == nil {
			fmt.Fprintf(tw, "byte size\t%d\n", size)
		}
		if rngs, err := die.Ranges(); err == nil && len(rngs) != 0 {
			var ss []string
			for _, r := range rngs {
				ss = append(ss, fmt.Sprintf("[%#x, %#x)", r.Start, r.End))
			}
			fmt.Fprintf(tw, "ranges\t%s\n", strings.Join(ss, " "))
		}
		if lang, err := die.SourceLanguage(); err == nil {
			fmt.Fprintf(tw, "language\t%s\n", lang)
		}
		fmt.Fprintf(tw, "attributes\t%d\n", die.AttrCount())
		fmt.Fprintf(tw, "declaration\t%t\n", die.IsDeclaration())
		return tw.Flush()
	},
}

func init() {
	browseRootCmd.AddCommand(infoCmd)
}
