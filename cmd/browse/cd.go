package browse

import (
	"debug/dwarf"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/pkg/dw"
)

var cdCmd = &cobra.Command{
	Use:   "cd <index|0xoffset|..|/>",
	Short: "move to a child by index as listed by ls, or to a DIE by offset",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupNavigate,
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return CurrentSession.cd(args[0])
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "move to the parent DIE",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupNavigate,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return CurrentSession.cd("..")
	},
}

var pwdCmd = &cobra.Command{
	Use:   "pwd",
	Short: "print the path from the unit to the current DIE",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupNavigate,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), CurrentSession.pwd())
		return err
	},
}

func init() {
	browseRootCmd.AddCommand(cdCmd)
	browseRootCmd.AddCommand(upCmd)
	browseRootCmd.AddCommand(pwdCmd)
}

func (s *Session) cd(target string) error {
	switch {
	case target == "/":
		s.path = nil
	case target == "..":
		if len(s.path) == 0 {
			return fmt.Errorf("already at top level")
		}
		s.path = s.path[:len(s.path)-1]
	case strings.HasPrefix(target, "0x"):
		off, err := parseOffset(target)
		if err != nil {
			return err
		}
		path, err := s.pathTo(off)
		if err != nil {
			return err
		}
		s.path = path
	default:
		idx, err := strconv.Atoi(target)
		if err != nil {
			return fmt.Errorf("invalid index %s", target)
		}
		dies, err := s.children()
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(dies) {
			return fmt.Errorf("index %d out of range [0, %d)", idx, len(dies))
		}
		s.path = append(s.path, dies[idx])
	}
	return nil
}

// parseOffset parses a 0x-prefixed .debug_info offset. DWARF64 sections
// may be larger than 4 GiB.
func parseOffset(s string) (dwarf.Offset, error) {
	off, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %s", s)
	}
	return dwarf.Offset(off), nil
}

// pathTo descends from the unit containing off to the DIE at off, keeping
// at each level the last child that starts at or before off.
func (s *Session) pathTo(off dwarf.Offset) ([]dw.Die, error) {
	target, err := s.dw.DieAt(off)
	if err != nil {
		return nil, err
	}
	unit, err := target.Unit()
	if err != nil {
		return nil, err
	}

	path := []dw.Die{unit}
	for cur := unit; cur.Offset() != off; {
		var (
			next  dw.Die
			found bool
		)
		it := cur.Children()
		for it.Next() {
			child := it.Die()
			if child.Offset() > off {
				break
			}
			next, found = child, true
		}
		if err := it.Err(); err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("no DIE at %#x below %#x", uint64(off), uint64(cur.Offset()))
		}
		path = append(path, next)
		cur = next
	}
	return path, nil
}

func (s *Session) pwd() string {
	if len(s.path) == 0 {
		return "/"
	}
	labels := make([]string, 0, len(s.path))
	for _, die := range s.path {
		labels = append(labels, dieLabel(die))
	}
	return "/" + strings.Join(labels, "/")
}
