package plugins

import (
	"bytes"
	"context"
	"strings"

	"github.com/brads3290/cchooks"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// MockRunner captures the handlers a plugin registers instead of reading events from stdin
type MockRunner struct {
	PreToolUse  func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface
	PostToolUse func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface
	RunCalled   bool
}

// Run marks the runner as called
func (m *MockRunner) Run() {
	m.RunCalled = true
}

// RecordingRunnerFactory returns a factory that stores each runner it builds in *last
func RecordingRunnerFactory(last **MockRunner) RunnerFactory {
	return func(preHook func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface,
		postHook func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface,
	) Runner {
		r := &MockRunner{PreToolUse: preHook, PostToolUse: postHook}
		*last = r
		return r
	}
}

// TestEnv creates an Env suitable for testing: disabled loggers, empty stdin
// and stdout/stderr captured in buffers.
func TestEnv() (*Env, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	var last *MockRunner
	return &Env{
		Loggers:       ldlog.NewDisabledLoggers(),
		RunnerFactory: RecordingRunnerFactory(&last),
		Stdin:         strings.NewReader(""),
		Stdout:        &stdout,
		Stderr:        &stderr,
	}, &stdout, &stderr
}
