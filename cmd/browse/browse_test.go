package browse

import (
	"bytes"
	"debug/dwarf"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitzhangjie/godw/internal/logging"
	"github.com/hitzhangjie/godw/pkg/dw"
)

const target = "github.com/hitzhangjie/godw/cmd/browse.browseTarget"

//go:noinline
func browseTarget(n int) int {
	return n + 1
}

var sink int

func TestMain(m *testing.M) {
	logging.ConfigureTests()
	sink = browseTarget(1)
	os.Exit(m.Run())
}

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	exe, err := os.Executable()
	require.NoError(t, err)
	d, err := dw.Open(exe)
	if errors.Is(err, dw.ErrNoDwarf) {
		t.Skip("test binary carries no DWARF")
	}
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	s := NewSession(d)
	var buf bytes.Buffer
	s.SetOutput(&buf)
	return s, &buf
}

func exec(t *testing.T, s *Session, buf *bytes.Buffer, line string) string {
	t.Helper()
	buf.Reset()
	require.NoError(t, s.Exec(line), line)
	return buf.String()
}

func TestNavigate(t *testing.T) {
	s, buf := newTestSession(t)

	assert.Equal(t, "/\n", exec(t, s, buf, "pwd"))
	assert.Equal(t, "godw> ", s.prompt())

	out := exec(t, s, buf, "ls")
	assert.True(t, strings.HasPrefix(out, "[0]"), out)
	assert.Contains(t, out, "CompileUnit")

	exec(t, s, buf, "cd 0")
	unit, ok := s.Current()
	require.True(t, ok)
	assert.True(t, unit.IsUnit())
	assert.Equal(t, "/"+dieLabel(unit)+"\n", exec(t, s, buf, "pwd"))

	exec(t, s, buf, "up")
	_, ok = s.Current()
	assert.False(t, ok)

	assert.Error(t, s.Exec("up"))
	assert.Error(t, s.Exec("cd 100000"))
	assert.Error(t, s.Exec("cd x"))
	assert.Error(t, s.Exec("cd 0xzz"))
	assert.Error(t, s.Exec("attrs"))
	assert.Error(t, s.Exec("nosuchcmd"))
}

func TestFindAndInspect(t *testing.T) {
	s, buf := newTestSession(t)

	found, err := s.find(target)
	require.NoError(t, err)
	require.Len(t, found, 1)
	fn := found[0]

	out := exec(t, s, buf, "find "+target)
	assert.Contains(t, out, fmt.Sprintf("%#x", uint64(fn.Offset())))

	exec(t, s, buf, fmt.Sprintf("cd %#x", uint64(fn.Offset())))
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, fn.Offset(), cur.Offset())
	require.GreaterOrEqual(t, len(s.path), 2)
	assert.True(t, s.path[0].IsUnit())
	assert.Equal(t, "godw "+target+"> ", s.prompt())
	assert.True(t, strings.HasSuffix(exec(t, s, buf, "pwd"), "/"+target+"\n"))

	out = exec(t, s, buf, "info")
	assert.Contains(t, out, "Subprogram")
	assert.Contains(t, out, target)
	assert.Contains(t, out, "ranges")

	out = exec(t, s, buf, "attrs")
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, target)

	// the parameter n
	out = exec(t, s, buf, "ls")
	assert.Contains(t, out, "FormalParameter")
	exec(t, s, buf, "cd 0")
	exec(t, s, buf, "up")
	cur, _ = s.Current()
	assert.Equal(t, fn.Offset(), cur.Offset())

	exec(t, s, buf, "cd /")
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestParseOffset(t *testing.T) {
	off, err := parseOffset("0x2d")
	require.NoError(t, err)
	assert.Equal(t, dwarf.Offset(0x2d), off)

	off, err = parseOffset("0x100000010")
	require.NoError(t, err)
	assert.Equal(t, dwarf.Offset(0x100000010), off)

	_, err = parseOffset("0xzz")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	s, buf := newTestSession(t)

	file := filepath.Join(t.TempDir(), "main.c")
	var src strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&src, "line %d\n", i)
	}
	require.NoError(t, os.WriteFile(file, []byte(src.String()), 0644))

	out := exec(t, s, buf, "list "+file+":10")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "    \t5\tline 5", lines[0])
	assert.Equal(t, "=>  \t10\tline 10", lines[5])
	assert.Equal(t, "    \t15\tline 15", lines[10])

	out = exec(t, s, buf, "l "+file+":1")
	assert.True(t, strings.HasPrefix(out, "=>  \t1\tline 1\n"), out)

	assert.Error(t, s.Exec("list main.c"))
	assert.Error(t, s.Exec("list main.c:0"))
	assert.Error(t, s.Exec("list /nonexistent/main.c:3"))
	assert.Error(t, s.Exec("list"))
}

func TestParseFileLineno(t *testing.T) {
	file, line, err := parseFileLineno("/src/a:b.c:12")
	require.NoError(t, err)
	assert.Equal(t, "/src/a:b.c", file)
	assert.Equal(t, 12, line)

	for _, s := range []string{"", "main.c", ":3", "main.c:x", "main.c:-1"} {
		_, _, err := parseFileLineno(s)
		assert.Error(t, err, s)
	}
}

func TestHelpAndCompleter(t *testing.T) {
	s, buf := newTestSession(t)

	out := exec(t, s, buf, "help")
	for _, group := range []string{"- [navigate]", "- [inspect]", "- [source]", "- [other]"} {
		assert.Contains(t, out, group)
	}
	assert.Contains(t, out, "attrs")

	assert.ElementsMatch(t, []string{"cd"}, completer("cd"))
	assert.Contains(t, completer("l"), "list")
	assert.Contains(t, completer("l"), "ls")
	assert.Contains(t, completer("q"), "quit")
}

func TestExit(t *testing.T) {
	s, buf := newTestSession(t)

	exec(t, s, buf, "exit")
	select {
	case <-s.done:
	default:
		t.Fatal("session not stopped")
	}
	// a second stop must not panic
	s.Stop()
}
