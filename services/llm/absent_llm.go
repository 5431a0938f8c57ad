package llm

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// AbsentCompleter stands in for a backend that is not configured. Every
// call fails with ErrCompleterUnavailable.
type AbsentCompleter struct {
	Reason string
}

// NewAbsentCompleter creates an AbsentCompleter that reports reason.
func NewAbsentCompleter(reason string) *AbsentCompleter {
	return &AbsentCompleter{Reason: reason}
}

// Complete always fails.
func (a *AbsentCompleter) Complete(ctx context.Context, prompt string, params CompletionParams) (string, error) {
	if a.Reason == "" {
		return "", ErrCompleterUnavailable
	}
	return "", fmt.Errorf("%w: %s", ErrCompleterUnavailable, a.Reason)
}

// Name returns "absent".
func (a *AbsentCompleter) Name() string { return "absent" }

// MockCompleter returns a canned response, an error, or blocks for Delay.
// It records the last prompt and parameters it saw.
type MockCompleter struct {
	Response string
	Err      error
	Delay    time.Duration

	calls      atomic.Int64
	lastPrompt atomic.Value
	lastParams atomic.Value
}

// Complete returns Response or Err after Delay, honoring ctx.
func (m *MockCompleter) Complete(ctx context.Context, prompt string, params CompletionParams) (string, error) {
	m.calls.Add(1)
	m.lastPrompt.Store(prompt)
	m.lastParams.Store(params)

	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Name returns "mock".
func (m *MockCompleter) Name() string { return "mock" }

// Calls returns the number of Complete invocations.
func (m *MockCompleter) Calls() int64 { return m.calls.Load() }

// LastPrompt returns the most recent prompt, or "".
func (m *MockCompleter) LastPrompt() string {
	if v, ok := m.lastPrompt.Load().(string); ok {
		return v
	}
	return ""
}

// LastParams returns the most recent parameters.
func (m *MockCompleter) LastParams() CompletionParams {
	if v, ok := m.lastParams.Load().(CompletionParams); ok {
		return v
	}
	return CompletionParams{}
}

var (
	_ Completer = (*AbsentCompleter)(nil)
	_ Completer = (*MockCompleter)(nil)
)
