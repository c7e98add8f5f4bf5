package dispatch

import (
	"bytes"
	"strings"
	"testing"
)

type recorder struct {
	calls int
}

func (r *recorder) Invoke() {
	r.calls++
}

type exitRecorder struct {
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.codes = append(e.codes, code)
}

func newTestRuntime(t *testing.T, commands []Command, def Action, opts ...Option) (*Runtime, *bytes.Buffer, *exitRecorder) {
	t.Helper()
	out := &bytes.Buffer{}
	exit := &exitRecorder{}
	opts = append([]Option{WithOutput(out), WithExit(exit.exit)}, opts...)
	return New(commands, def, opts...), out, exit
}

func sampleCommands() ([]Command, []*recorder) {
	recs := []*recorder{{}, {}, {}}
	return []Command{
		{ShortFlag: 's', LongFlag: "serve", Action: recs[0], Description: "Starts the server."},
		{ShortFlag: 'b', LongFlag: "build", Action: recs[1], Description: "Builds the project."},
		{ShortFlag: 'c', LongFlag: "clean", Action: recs[2], Description: "Removes build output."},
	}, recs
}

const builtinHelp = "Help:\n" +
	"\t -h, --help: Explains available commands.\n" +
	"\t -v, --version: Outputs tool version.\n"

func TestRunLongFlag(t *testing.T) {
	commands, recs := sampleCommands()
	r, _, _ := newTestRuntime(t, commands, nil)

	for i, c := range commands {
		r.Run("--" + c.LongFlag)
		for j, rec := range recs {
			want := 0
			if j <= i {
				want = 1
			}
			if rec.calls != want {
				t.Fatalf("after --%s: command %d called %d times, want %d", c.LongFlag, j, rec.calls, want)
			}
		}
	}
}

func TestRunShortFlag(t *testing.T) {
	commands, recs := sampleCommands()
	r, _, _ := newTestRuntime(t, commands, nil)

	for i, c := range commands {
		r.Run("-" + string(c.ShortFlag))
		for j, rec := range recs {
			want := 0
			if j <= i {
				want = 1
			}
			if rec.calls != want {
				t.Fatalf("after -%c: command %d called %d times, want %d", c.ShortFlag, j, rec.calls, want)
			}
		}
	}
}

func TestRunNoMatch(t *testing.T) {
	cases := []string{
		"",
		"serve",
		"-",
		"--",
		"-x",
		"--x",
		"-serve",
		"--s",
		"---serve",
		"-sb",
		"--SERVE",
	}

	for _, arg := range cases {
		t.Run(arg, func(t *testing.T) {
			commands, recs := sampleCommands()
			r, out, exit := newTestRuntime(t, commands, nil)

			r.Run(arg)
			for i, rec := range recs {
				if rec.calls != 0 {
					t.Errorf("command %d invoked for %q", i, arg)
				}
			}
			if out.Len() != 0 {
				t.Errorf("unexpected output %q", out.String())
			}
			if len(exit.codes) != 0 {
				t.Errorf("unexpected exit %v", exit.codes)
			}
		})
	}
}

func TestRunFirstMatchWins(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	r, _, _ := newTestRuntime(t, []Command{
		{ShortFlag: 'x', LongFlag: "alpha", Action: a, Description: "A"},
		{ShortFlag: 'x', LongFlag: "alpha", Action: b, Description: "B"},
	}, nil)

	r.Run("-x")
	r.Run("--alpha")
	if a.calls != 2 {
		t.Fatalf("expected first command to run twice, got %d", a.calls)
	}
	if b.calls != 0 {
		t.Fatalf("expected second command not to run, got %d", b.calls)
	}
}

func TestRunNilAction(t *testing.T) {
	r, _, _ := newTestRuntime(t, []Command{{ShortFlag: 'n', LongFlag: "noop"}}, nil)
	r.Run("--noop")
	r.Run("-n")
}

func TestLookup(t *testing.T) {
	commands, _ := sampleCommands()
	r, _, _ := newTestRuntime(t, commands, nil)

	c, ok := r.Lookup("--clean")
	if !ok || c.ShortFlag != 'c' {
		t.Fatalf("expected clean, got %+v ok=%v", c, ok)
	}
	c, ok = r.Lookup("-s")
	if !ok || c.LongFlag != "serve" {
		t.Fatalf("expected serve, got %+v ok=%v", c, ok)
	}
	if _, ok := r.Lookup("--b"); ok {
		t.Fatalf("long token must not fall back to short flags")
	}
}

func TestGenHelp(t *testing.T) {
	commands, _ := sampleCommands()
	r, _, _ := newTestRuntime(t, commands, nil)

	want := "Help:\n" +
		"\t -s, --serve: Starts the server.\n" +
		"\t -b, --build: Builds the project.\n" +
		"\t -c, --clean: Removes build output.\n"

	got := r.GenHelp()
	if got != want {
		t.Fatalf("unexpected help:\n%q\nwant:\n%q", got, want)
	}
	if again := r.GenHelp(); again != got {
		t.Fatalf("help changed between calls")
	}
	if lines := strings.Count(got, "\n"); lines != 1+len(commands) {
		t.Fatalf("expected %d lines, got %d", 1+len(commands), lines)
	}
}

func TestGenHelpEmpty(t *testing.T) {
	r, _, _ := newTestRuntime(t, nil, nil)
	if got := r.GenHelp(); got != "Help:\n" {
		t.Fatalf("unexpected help %q", got)
	}
}

func TestGenHelpMultibyteShortFlag(t *testing.T) {
	r, _, _ := newTestRuntime(t, []Command{{ShortFlag: 'é', LongFlag: "accent", Description: "Accented."}}, nil)
	if got, want := r.GenHelp(), "Help:\n\t -é, --accent: Accented.\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBuiltinsPrecedeTable(t *testing.T) {
	commands, _ := sampleCommands()
	r, _, _ := newTestRuntime(t, commands, nil, WithBuiltins(Info{Name: "tool", Version: "1.0.0", Author: "Jane"}))

	got := r.Commands()
	if len(got) != len(commands)+2 {
		t.Fatalf("expected %d commands, got %d", len(commands)+2, len(got))
	}
	if got[0].LongFlag != "help" || got[1].LongFlag != "version" || got[2].LongFlag != "serve" {
		t.Fatalf("unexpected order: %s, %s, %s", got[0].LongFlag, got[1].LongFlag, got[2].LongFlag)
	}
}

func TestCommandsIsCopy(t *testing.T) {
	commands, _ := sampleCommands()
	r, _, _ := newTestRuntime(t, commands, nil)

	got := r.Commands()
	got[0].LongFlag = "mutated"
	commands[1].LongFlag = "mutated"

	if _, ok := r.Lookup("--serve"); !ok {
		t.Fatalf("runtime table changed through Commands()")
	}
	if _, ok := r.Lookup("--build"); !ok {
		t.Fatalf("runtime table changed through the constructor slice")
	}
}

func TestMainNoArgumentsShowsHelp(t *testing.T) {
	r, out, exit := newTestRuntime(t, nil, nil, WithBuiltins(Info{Name: "tool", Version: "1.0.0", Author: "Jane"}))

	r.Main([]string{"prog"})

	if got := out.String(); got != builtinHelp+"\n" {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, builtinHelp+"\n")
	}
	if len(exit.codes) != 1 || exit.codes[0] != 0 {
		t.Fatalf("expected exit(0), got %v", exit.codes)
	}
}

func TestMainNoArgumentsRunsDefault(t *testing.T) {
	def := &recorder{}
	r, out, exit := newTestRuntime(t, nil, def, WithBuiltins(Info{}))

	r.Main([]string{"prog"})
	r.Main(nil)

	if def.calls != 2 {
		t.Fatalf("expected default to run twice, got %d", def.calls)
	}
	if out.Len() != 0 || len(exit.codes) != 0 {
		t.Fatalf("unexpected help output %q exits %v", out.String(), exit.codes)
	}
}

func TestMainTooManyArguments(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	r, out, exit := newTestRuntime(t, []Command{
		{ShortFlag: 'a', LongFlag: "alpha", Action: a, Description: "A"},
		{ShortFlag: 'b', LongFlag: "beta", Action: b, Description: "B"},
	}, nil)

	r.Main([]string{"prog", "-a", "-b"})

	if a.calls != 0 || b.calls != 0 {
		t.Fatalf("expected no command to run, got a=%d b=%d", a.calls, b.calls)
	}
	want := "Too many arguments!\n" + r.GenHelp() + "\n"
	if got := out.String(); got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
	if len(exit.codes) != 1 || exit.codes[0] != 0 {
		t.Fatalf("expected exit(0), got %v", exit.codes)
	}
}

func TestMainSingleArgument(t *testing.T) {
	commands, recs := sampleCommands()
	def := &recorder{}
	r, out, _ := newTestRuntime(t, commands, def)

	r.Main([]string{"prog", "--clean"})
	r.Main([]string{"prog", "unknown"})

	if recs[2].calls != 1 {
		t.Fatalf("expected clean to run once, got %d", recs[2].calls)
	}
	if def.calls != 0 {
		t.Fatalf("default must not run when an argument is given")
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestVersionAction(t *testing.T) {
	r, out, exit := newTestRuntime(t, nil, nil, WithBuiltins(Info{Name: "tool", Version: "1.2.3", Author: "Jane Doe"}))

	r.Main([]string{"prog", "-v"})

	if got, want := out.String(), "tool version 1.2.3 by Jane Doe\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if len(exit.codes) != 1 || exit.codes[0] != 0 {
		t.Fatalf("expected exit(0), got %v", exit.codes)
	}
}

func TestHelpFlag(t *testing.T) {
	r, out, exit := newTestRuntime(t, nil, nil, WithBuiltins(Info{}))

	r.Main([]string{"prog", "--help"})

	if got := out.String(); got != builtinHelp+"\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if len(exit.codes) != 1 || exit.codes[0] != 0 {
		t.Fatalf("expected exit(0), got %v", exit.codes)
	}
}

func TestActionFunc(t *testing.T) {
	hit := false
	var a Action = ActionFunc(func() { hit = true })
	a.Invoke()
	if !hit {
		t.Fatalf("action was not invoked")
	}
}

func TestReadInfo(t *testing.T) {
	info := ReadInfo("Jane")
	if info.Author != "Jane" {
		t.Fatalf("unexpected author %q", info.Author)
	}
	if info.Name == "" || info.Version == "" {
		t.Fatalf("expected name and version, got %+v", info)
	}
}
