package builtin

import (
	"context"

	"github.com/brads3290/cchooks"
	"github.com/klauern/hookgate/internal/plugins"
)

// DebugPlugin logs every tool use through the application loggers
type DebugPlugin struct {
	*plugins.BasePlugin
}

// NewDebugPlugin creates a new debug plugin instance
func NewDebugPlugin(env *plugins.Env) plugins.Plugin {
	base := plugins.NewBasePlugin("debug", "Debug Plugin", "Logs all tool usage for debugging purposes", env)
	return &DebugPlugin{BasePlugin: base}
}

// Run executes the debug plugin.
func (p *DebugPlugin) Run(_ context.Context) error {
	return p.StandardRun(p.preToolUseHandler, p.postToolUseHandler)
}

func (p *DebugPlugin) preToolUseHandler(_ context.Context, event *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface {
	p.Env().Loggers.Infof("PRE-TOOL: %s", event.ToolName)
	return cchooks.Approve()
}

func (p *DebugPlugin) postToolUseHandler(_ context.Context, event *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface {
	p.Env().Loggers.Infof("POST-TOOL: %s", event.ToolName)
	return cchooks.Allow()
}
