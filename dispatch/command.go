package dispatch

// Action is a zero-argument command body.
type Action interface {
	Invoke()
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func()

// Invoke calls f.
func (f ActionFunc) Invoke() {
	f()
}

// Command describes one invocable action of a Runtime
type Command struct {
	ShortFlag   rune
	LongFlag    string
	Action      Action
	Description string
}

// short returns the one-character text form of the short flag
func (c Command) short() string {
	return string(c.ShortFlag)
}
