package dispatch

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// DuplicateFlagError reports a flag declared by more than one command.
// First and Second are indexes into the command table.
type DuplicateFlagError struct {
	Flag   string
	First  int
	Second int
}

func (e *DuplicateFlagError) Error() string {
	return fmt.Sprintf("flag %s of command %d already declared by command %d", e.Flag, e.Second, e.First)
}

// Validate reports every duplicated short or long flag in the table.
// Run resolves duplicates by declaration order, so a nil result means every
// token reaches exactly one command.
func (r *Runtime) Validate() error {
	return ValidateCommands(r.commands)
}

// ValidateCommands is Validate for a bare command table.
func ValidateCommands(commands []Command) error {
	var result *multierror.Error

	shorts := make(map[rune]int)
	longs := make(map[string]int)
	for i, command := range commands {
		if first, exists := shorts[command.ShortFlag]; exists {
			result = multierror.Append(result, &DuplicateFlagError{
				Flag:   "-" + command.short(),
				First:  first,
				Second: i,
			})
		} else {
			shorts[command.ShortFlag] = i
		}

		if first, exists := longs[command.LongFlag]; exists {
			result = multierror.Append(result, &DuplicateFlagError{
				Flag:   "--" + command.LongFlag,
				First:  first,
				Second: i,
			})
		} else {
			longs[command.LongFlag] = i
		}
	}

	return result.ErrorOrNil()
}
