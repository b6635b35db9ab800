package browse

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/hitzhangjie/godw/pkg/dw"
)

const (
	cmdGroupAnnotation = "cmd_group_annotation"

	cmdGroupNavigate = "1-navigate"
	cmdGroupInspect  = "2-inspect"
	cmdGroupSource   = "3-source"
	cmdGroupOthers   = "4-other"
	cmdGroupCobra    = "other"

	cmdGroupDelimiter = "-"

	prefix    = "godw"
	descShort = "godw interactive DIE browser"
)

var browseRootCmd = &cobra.Command{
	Use:           "help [command]",
	Short:         descShort,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var (
	CurrentSession *Session
)

// Session is an interactive walk over the DIE tree of one file.
type Session struct {
	done   chan bool
	prefix string
	root   *cobra.Command
	liner  *liner.State
	last   string

	dw   *dw.Dwarf
	path []dw.Die // unit DIE down to the current DIE, empty at the top level

	defers []func()
}

// NewSession creates the browse session of d and makes it current.
func NewSession(d *dw.Dwarf) *Session {

	fn := func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, cmd.Short)
		fmt.Fprintln(out)

		fmt.Fprintln(out, cmd.Use)
		fmt.Fprintln(out, cmd.Flags().FlagUsages())

		usage := helpMessageByGroups(cmd)
		fmt.Fprintln(out, usage)
	}
	browseRootCmd.SetHelpFunc(fn)

	s := &Session{
		done:   make(chan bool),
		prefix: prefix,
		root:   browseRootCmd,
		dw:     d,
	}
	CurrentSession = s
	return s
}

// SetOutput redirects command output, stdout by default.
func (s *Session) SetOutput(w io.Writer) {
	s.root.SetOut(w)
	s.root.SetErr(w)
}

// Exec runs one command line.
func (s *Session) Exec(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	s.root.SetArgs(args)
	return s.root.Execute()
}

// Start reads and runs commands until exit or end of input.
func (s *Session) Start() {
	s.liner = liner.NewLiner()
	s.liner.SetCompleter(completer)
	s.liner.SetTabCompletionStyle(liner.TabPrints)

	defer func() {
		for idx := len(s.defers) - 1; idx >= 0; idx-- {
			s.defers[idx]()
		}
	}()
	defer s.liner.Close()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		txt, err := s.liner.Prompt(s.prompt())
		if err != nil {
			// io.EOF or liner.ErrPromptAborted
			return
		}

		txt = strings.TrimSpace(txt)
		if len(txt) != 0 {
			s.last = txt
			s.liner.AppendHistory(txt)
		} else {
			txt = s.last
		}

		if err := s.Exec(txt); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func (s *Session) AtExit(fn func()) *Session {
	s.defers = append(s.defers, fn)
	return s
}

func (s *Session) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// Current returns the DIE the session points at. ok is false at the top
// level, where the units are listed.
func (s *Session) Current() (die dw.Die, ok bool) {
	if len(s.path) == 0 {
		return dw.Die{}, false
	}
	return s.path[len(s.path)-1], true
}

func (s *Session) prompt() string {
	die, ok := s.Current()
	if !ok {
		return s.prefix + "> "
	}
	return fmt.Sprintf("%s %s> ", s.prefix, dieLabel(die))
}

func completer(line string) []string {
	cmds := []string{}
	for _, c := range browseRootCmd.Commands() {
		// complete cmd
		if strings.HasPrefix(c.Use, line) {
			cmds = append(cmds, strings.Split(c.Use, " ")[0])
		}
		// complete cmd's aliases
		for _, alias := range c.Aliases {
			if strings.HasPrefix(alias, line) {
				cmds = append(cmds, alias)
			}
		}
	}
	return cmds
}

// helpMessageByGroups lists the commands by group, sorted by name inside
// each group.
func helpMessageByGroups(cmd *cobra.Command) string {

	// key:group, val:sorted commands in same group
	groups := map[string][]string{}
	for _, c := range cmd.Commands() {
		groupName, ok := c.Annotations[cmdGroupAnnotation]
		if !ok {
			groupName = cmdGroupCobra
		}

		groupCmds := append(groups[groupName], fmt.Sprintf("  %-16s:%s", c.Name(), c.Short))
		sort.Strings(groupCmds)
		groups[groupName] = groupCmds
	}

	if len(groups[cmdGroupCobra]) != 0 {
		groups[cmdGroupOthers] = append(groups[cmdGroupOthers], groups[cmdGroupCobra]...)
	}
	delete(groups, cmdGroupCobra)

	groupNames := []string{}
	for k := range groups {
		groupNames = append(groupNames, k)
	}
	sort.Strings(groupNames)

	buf := bytes.Buffer{}
	for _, groupName := range groupNames {
		group := strings.Split(groupName, cmdGroupDelimiter)[1]
		buf.WriteString(fmt.Sprintf("- [%s]\n", group))

		for _, cmd := range groups[groupName] {
			buf.WriteString(fmt.Sprintf("%s\n", cmd))
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
