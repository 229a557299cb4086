package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	failOn   string

	calls []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	if name == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeExec) isLoggedIn() bool                     { return f.loggedIn }
func (f *fakeExec) Users(ctx context.Context) error      { return f.record("users") }
func (f *fakeExec) Register(ctx context.Context) error   { return f.record("register") }
func (f *fakeExec) DeleteUser(ctx context.Context) error { return f.record("deluser") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) List(ctx context.Context) error      { return f.record("list") }
func (f *fakeExec) Add(ctx context.Context) error       { return f.record("add") }
func (f *fakeExec) Delete(ctx context.Context) error    { return f.record("delete") }
func (f *fakeExec) Update(ctx context.Context) error    { return f.record("update") }
func (f *fakeExec) Stats(ctx context.Context) error     { return f.record("stats") }
func (f *fakeExec) Random(ctx context.Context) error    { return f.record("random") }
func (f *fakeExec) Search(ctx context.Context) error    { return f.record("search") }
func (f *fakeExec) Sorted(ctx context.Context) error    { return f.record("sorted") }
func (f *fakeExec) Histogram(ctx context.Context) error { return f.record("histogram") }
func (f *fakeExec) Filter(ctx context.Context) error    { return f.record("filter") }
func (f *fakeExec) Website(ctx context.Context) error   { return f.record("website") }
func (f *fakeExec) Publish(ctx context.Context) error   { return f.record("publish") }

func captureREPL(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func rdr(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestRunREPL_AccountThenLibrary(t *testing.T) {
	out := captureREPL(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr(
		"help",
		"list", // not available before login
		"users",
		"login",
		"list",
		"add",
		"stats",
		"logout",
		"exit",
		"users", // never reached
	))

	assert.Equal(t, []string{"users", "login", "list", "add", "stats", "logout"}, exec.calls)
	assert.Contains(t, *out, "Unknown command: list")
	assert.Contains(t, *out, accountHelp)
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_NumericAliases(t *testing.T) {
	captureREPL(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr(
		"1", "3", "5", "2",
		"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "0",
		"4",
	))

	assert.Equal(t, []string{
		"users", "register", "deluser", "login",
		"list", "add", "delete", "update", "stats", "random", "search", "sorted",
		"histogram", "filter", "website", "publish", "logout",
	}, exec.calls)
}

func TestRunREPL_ErrorsDoNotStopLoop(t *testing.T) {
	out := captureREPL(t)

	exec := &fakeExec{loggedIn: true, failOn: "stats"}
	runREPL(context.Background(), exec, func() string { return "(bob)" }, rdr("STATS", "random", "quit"))

	assert.Equal(t, []string{"stats", "random"}, exec.calls)
	assert.Contains(t, *out, "Error: boom")
	assert.Contains(t, *out, "movielib (bob)> ")
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	captureREPL(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("\n\nsorted")))

	assert.Equal(t, []string{"sorted"}, exec.calls)
}
