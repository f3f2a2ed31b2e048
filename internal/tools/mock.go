package tools

import (
	"context"
	"io"
)

// MockExecutor implements [Executor] for testing.
//
// Every call is recorded in Calls. Handler decides the outcome; when it is
// nil every command succeeds with no output.
//
//	mock := &MockExecutor{
//	    Handler: func(cmd Command, out io.Writer) (int, error) {
//	        if cmd.Tool == "fastp" {
//	            return 1, nil
//	        }
//	        return 0, nil
//	    },
//	}
type MockExecutor struct {
	// Calls records all executed commands in order.
	Calls []Command

	// Handler produces the exit code and error for a command and may write
	// to out to simulate tool output.
	Handler func(cmd Command, out io.Writer) (int, error)
}

// Execute records the call and delegates to Handler.
func (m *MockExecutor) Execute(ctx context.Context, cmd Command, out io.Writer) (int, error) {
	m.Calls = append(m.Calls, cmd)
	if m.Handler == nil {
		return 0, nil
	}
	return m.Handler(cmd, out)
}

// CallsFor returns the recorded calls for the given tool.
func (m *MockExecutor) CallsFor(tool string) []Command {
	var calls []Command
	for _, c := range m.Calls {
		if c.Tool == tool {
			calls = append(calls, c)
		}
	}
	return calls
}

var _ Executor = (*MockExecutor)(nil)
