package browse

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list [file:lineno]",
	Short:   "show the source around the declaration of the current DIE",
	Aliases: []string{"l"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupSource,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			file   string
			lineno int
			err    error
		)

		// parse location
		if len(args) != 0 {
			file, lineno, err = parseFileLineno(args[0])
			if err != nil {
				return err
			}
		} else {
			die, ok := CurrentSession.Current()
			if !ok {
				return errTopLevel
			}
			if file, err = die.DeclFile(); err != nil {
				return fmt.Errorf("no declaration file: %v", err)
			}
			if lineno, err = die.DeclLine(); err != nil {
				return fmt.Errorf("no declaration line: %v", err)
			}
		}

		// print lines
		return listFileLines(cmd.OutOrStdout(), file, lineno, 5)
	},
}

func init() {
	browseRootCmd.AddCommand(listCmd)
}

// list file lines, lineno is one-based
func listFileLines(w io.Writer, file string, lineno, rng int) error {

	lines, offset, err := listFile(file, lineno, rng)
	if err != nil {
		return fmt.Errorf("list file err: %v", err)
	}

	// use 1-based counter
	idx := offset + 1
	for _, ln := range lines {
		if idx != lineno {
			fmt.Fprintf(w, "%-4s\t%d\t%s\n", "", idx, ln)
		} else {
			fmt.Fprintf(w, "%-4s\t%d\t%s\n", "=>", idx, ln)
		}
		idx++
	}

	return nil
}

// must be form file:lineno, like main.c:100
func parseFileLineno(s string) (file string, lineno int, err error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 {
		err = fmt.Errorf("invalid location: %s, must be file:lineno", s)
		return
	}

	file = s[:i]
	v, err := strconv.Atoi(s[i+1:])
	if err != nil || v <= 0 {
		err = fmt.Errorf("invalid location: %s, must be file:lineno", s)
		return
	}
	lineno = v
	return
}

// return value `offset` is zero-based counter
func listFile(file string, lineno, rng int) (lines []string, offset int, err error) {
	dat, err := os.ReadFile(file)
	if err != nil {
		err = fmt.Errorf("read file err: %v", err)
		return
	}

	raw := strings.Split(string(dat), "\n")
	count := len(raw)

	begin := lineno - 1 - rng
	if begin < 0 {
		begin = 0
	}
	if begin > count {
		return
	}

	end := lineno + rng
	if end > count {
		end = count
	}

	return raw[begin:end], begin, nil
}
