package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(name string, args ...string) {
	if len(args) > 0 {
		name += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, name)
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Signup(ctx context.Context) error {
	f.record("signup")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.record("login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Me(ctx context.Context) error { f.record("me"); return nil }
func (f *fakeExec) List(ctx context.Context, args []string) error {
	f.record("list", args...)
	return nil
}
func (f *fakeExec) Add(ctx context.Context) error { f.record("add"); return nil }
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	f.record("delete", args...)
	return nil
}
func (f *fakeExec) Receipt(ctx context.Context, args []string) error {
	f.record("receipt", args...)
	return nil
}
func (f *fakeExec) ReceiptURL(ctx context.Context, args []string) error {
	f.record("receipt-url", args...)
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.record("logout")
	f.loggedIn = false
	return nil
}

func capturePrintln(t *testing.T) *[]string {
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

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrintln(t)

	input := bufio.NewReader(strings.NewReader(strings.Join([]string{
		"help",
		"me",
		"login",
		"help",
		"me",
		"list 5",
		"l",
		"add",
		"delete abc",
		"receipt abc /tmp/r.png",
		"receipt-url abc",
		"foobar",
		"logout",
		"list",
		"exit",
		"me",
	}, "\n")))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, input)

	require.Equal(t, []string{
		"login",
		"me",
		"list 5",
		"list",
		"add",
		"delete abc",
		"receipt abc /tmp/r.png",
		"receipt-url abc",
		"logout",
	}, exec.calls)

	require.Contains(t, *out, "Available commands: signup, login, exit")
	require.Contains(t, *out, "Unknown command: foobar")
	require.Contains(t, *out, "Please log in first")
	require.Equal(t, "Bye!", (*out)[len(*out)-1])
	require.Equal(t, "budget> status > ", (*out)[0])
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("\n  \nme")))

	require.Equal(t, []string{"me"}, exec.calls)
}

func TestRunREPL_SignupOpensSession(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("signup\nadd\nquit\n")))

	require.Equal(t, []string{"signup", "add"}, exec.calls)
}
