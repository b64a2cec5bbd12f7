package plugins

import (
	"context"
	"io"
	"os"

	"github.com/brads3290/cchooks"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// Runner interface allows for mocking in tests
type Runner interface {
	Run()
}

// RunnerFactory creates a Runner with the provided handlers
type RunnerFactory func(preHook func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface,
	postHook func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface) Runner

// DefaultRunnerFactory creates a standard cchooks.Runner reading events from stdin
func DefaultRunnerFactory(preHook func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface,
	postHook func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface,
) Runner {
	runner := &cchooks.Runner{}
	if preHook != nil {
		runner.PreToolUse = preHook
	}
	if postHook != nil {
		runner.PostToolUse = postHook
	}
	return runner
}

// Env carries the dependencies handed to plugins when they are created.
type Env struct {
	Loggers       ldlog.Loggers
	RunnerFactory RunnerFactory
	Stdin         io.Reader
	Stdout        io.Writer
	Stderr        io.Writer
}

// DefaultEnv returns an Env wired to the process streams.
func DefaultEnv() *Env {
	return &Env{
		Loggers:       ldlog.NewDefaultLoggers(),
		RunnerFactory: DefaultRunnerFactory,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
	}
}

// BasePlugin provides the metadata accessors shared by bundled plugins.
type BasePlugin struct {
	key         string
	name        string
	description string
	env         *Env
}

// NewBasePlugin creates a new BasePlugin with the given metadata
func NewBasePlugin(key, name, description string, env *Env) *BasePlugin {
	if env == nil {
		env = DefaultEnv()
	}
	return &BasePlugin{key: key, name: name, description: description, env: env}
}

// Key returns the registration key
func (p *BasePlugin) Key() string { return p.key }

// Name returns the human-readable name
func (p *BasePlugin) Name() string { return p.name }

// Description returns what the plugin does
func (p *BasePlugin) Description() string { return p.description }

// Env returns the plugin environment
func (p *BasePlugin) Env() *Env { return p.env }

// StandardRun hands the handlers to a hook runner.
// Concrete hook plugins should call this in their Run() method.
func (p *BasePlugin) StandardRun(
	preHandler func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface,
	postHandler func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface,
) error {
	runner := p.env.RunnerFactory(preHandler, postHandler)
	runner.Run()
	return nil
}
