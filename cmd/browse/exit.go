package browse

import (
	"github.com/spf13/cobra"
)

var exitCmd = &cobra.Command{
	Use:     "exit",
	Short:   "end the browse session",
	Aliases: []string{"quit", "q"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupOthers,
	},
	Run: func(cmd *cobra.Command, args []string) {
		CurrentSession.Stop()
	},
}

func init() {
	browseRootCmd.AddCommand(exitCmd)
}
