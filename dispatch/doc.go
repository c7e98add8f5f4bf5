// Package dispatch implements a table-driven command-line runtime.
//
// A Runtime is built once from a static, ordered list of Command descriptors
// and an optional default Action. A single argument token selects at most one
// command: "--name" matches a descriptor's LongFlag and "-x" its ShortFlag.
// Declaration order decides both the help listing and which descriptor wins
// when flags are duplicated.
//
// The cligen tool generates the wiring for a Runtime from a declarative
// []dispatch.Command table via go generate.
package dispatch
