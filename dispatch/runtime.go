package dispatch

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	helpHeader      = "Help:\n"
	tooManyArgsText = "Too many arguments!"
)

// Runtime holds an ordered command table and an optional default action.
// It is not modified after New returns.
type Runtime struct {
	commands       []Command
	defaultCommand Action

	info *Info
	out  io.Writer
	exit func(int)
}

// Option configures a Runtime during New.
type Option func(*Runtime)

// WithBuiltins prepends the built-in help and version commands to the table.
func WithBuiltins(info Info) Option {
	return func(r *Runtime) {
		r.info = &info
	}
}

// WithOutput sets the writer used for help, version and usage notices.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.out = w
	}
}

// WithExit replaces os.Exit for the help and version actions.
func WithExit(exit func(int)) Option {
	return func(r *Runtime) {
		r.exit = exit
	}
}

// New creates a Runtime from commands in declaration order. A nil def falls
// back to the help action when Main receives no argument.
// Flags are not checked for uniqueness; see Validate.
func New(commands []Command, def Action, opts ...Option) *Runtime {
	r := &Runtime{
		defaultCommand: def,
		out:            os.Stdout,
		exit:           os.Exit,
	}
	for _, opt := range opts {
		opt(r)
	}

	table := make([]Command, 0, len(commands)+2)
	if r.info != nil {
		table = append(table,
			Command{
				ShortFlag:   'h',
				LongFlag:    "help",
				Action:      r.HelpAction(),
				Description: "Explains available commands.",
			},
			Command{
				ShortFlag:   'v',
				LongFlag:    "version",
				Action:      r.VersionAction(),
				Description: "Outputs tool version.",
			},
		)
	}
	r.commands = append(table, commands...)

	return r
}

// Commands returns a copy of the command table in declaration order.
func (r *Runtime) Commands() []Command {
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Default returns the default action, or nil when none was configured.
func (r *Runtime) Default() Action {
	return r.defaultCommand
}

// Lookup returns the first command matching a "--long" or "-s" token.
// A "--" token is only ever compared against long flags.
func (r *Runtime) Lookup(arg string) (Command, bool) {
	if long, ok := strings.CutPrefix(arg, "--"); ok {
		for _, command := range r.commands {
			if command.LongFlag == long {
				return command, true
			}
		}
		return Command{}, false
	}

	if short, ok := strings.CutPrefix(arg, "-"); ok {
		for _, command := range r.commands {
			if command.short() == short {
				return command, true
			}
		}
	}

	return Command{}, false
}

// Run invokes the action of the first command matching arg.
// Tokens that match nothing are ignored.
func (r *Runtime) Run(arg string) {
	command, ok := r.Lookup(arg)
	if !ok || command.Action == nil {
		return
	}
	command.Action.Invoke()
}

// GenHelp renders the help listing for every command in declaration order.
func (r *Runtime) GenHelp() string {
	var message strings.Builder
	message.WriteString(helpHeader)
	for _, command := range r.commands {
		fmt.Fprintf(&message, "\t -%c, --%s: %s\n", command.ShortFlag, command.LongFlag, command.Description)
	}
	return message.String()
}

// HelpAction prints the help listing and exits with status 0.
func (r *Runtime) HelpAction() Action {
	return ActionFunc(func() {
		fmt.Fprintln(r.out, r.GenHelp())
		r.exit(0)
	})
}

// VersionAction prints the version line and exits with status 0.
func (r *Runtime) VersionAction() Action {
	return ActionFunc(func() {
		info := Info{}
		if r.info != nil {
			info = *r.info
		}
		fmt.Fprintln(r.out, info.String())
		r.exit(0)
	})
}

// Main dispatches a full argument list, including the program name.
func (r *Runtime) Main(args []string) {
	// First arg is the program name
	if len(args) > 0 {
		args = args[1:]
	}

	switch {
	case len(args) == 0:
		if r.defaultCommand != nil {
			r.defaultCommand.Invoke()
		} else {
			r.HelpAction().Invoke()
		}
	case len(args) > 1:
		fmt.Fprintln(r.out, tooManyArgsText)
		r.HelpAction().Invoke()
	default:
		r.Run(args[0])
	}
}
