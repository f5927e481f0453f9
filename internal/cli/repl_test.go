package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Status(context.Context) error                  { return f.record("status", nil) }
func (f *fakeExec) Enroll(context.Context) error                  { return f.record("enroll", nil) }
func (f *fakeExec) Reset(context.Context) error                   { return f.record("reset", nil) }
func (f *fakeExec) List(_ context.Context, args []string) error   { return f.record("list", args) }
func (f *fakeExec) Next(context.Context) error                    { return f.record("next", nil) }
func (f *fakeExec) Refresh(context.Context) error                 { return f.record("refresh", nil) }
func (f *fakeExec) Search(_ context.Context, args []string) error { return f.record("search", args) }
func (f *fakeExec) ClearFilters(context.Context) error            { return f.record("clear", nil) }
func (f *fakeExec) Show(_ context.Context, args []string) error   { return f.record("show", args) }
func (f *fakeExec) Reveal(_ context.Context, args []string) error { return f.record("reveal", args) }
func (f *fakeExec) Back(context.Context) error                    { return f.record("back", nil) }

// captureOutput swaps printlnFn for a recorder and returns the buffer.
func captureOutput(t *testing.T) *strings.Builder {
	t.Helper()
	var buf strings.Builder
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &buf
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"login",
		"list 2",
		"n",
		"search coffee --category restaurant",
		"SHOW #1",
		"reveal",
		"back",
		"clear",
		"refresh",
		"status",
		"enroll",
		"reset",
		"logout",
		"exit",
		"list",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	assert.Equal(t, []string{
		"login", "list", "next", "search", "show", "reveal", "back",
		"clear", "refresh", "status", "enroll", "reset", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"2"}, exec.args[1])
	assert.Equal(t, []string{"coffee", "--category", "restaurant"}, exec.args[3])
	assert.Equal(t, []string{"#1"}, exec.args[4])
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("help\nlogin\nhelp\nquit\n")))

	text := out.String()
	assert.Contains(t, text, helpLoggedOut)
	assert.Contains(t, text, helpLoggedIn)
	assert.Contains(t, text, "Bye!")
}

func TestRunREPL_UnknownAndBlankLines(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("\n   \nfoobar\n")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, out.String(), "Unknown command: foobar")
	assert.Equal(t, 4, strings.Count(out.String(), "tx s> "), "one prompt per line plus the final EOF prompt")
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("login\n")))

	assert.Empty(t, exec.calls)
}
