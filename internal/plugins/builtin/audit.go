// Package builtin provides the plugins bundled with hookgate.
package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brads3290/cchooks"
	"github.com/klauern/hookgate/internal/plugins"
)

// Tool names reported by Claude Code
const (
	toolBash  = "Bash"
	toolEdit  = "Edit"
	toolWrite = "Write"
	toolRead  = "Read"
)

// AuditPlugin writes one JSON line per tool use to stdout
type AuditPlugin struct {
	*plugins.BasePlugin
	now func() time.Time
}

// AuditEntry represents an audit log entry
type AuditEntry struct {
	Timestamp string                 `json:"timestamp"`
	Event     string                 `json:"event"`
	ToolName  string                 `json:"tool_name"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// NewAuditPlugin creates a new audit plugin instance
func NewAuditPlugin(env *plugins.Env) plugins.Plugin {
	base := plugins.NewBasePlugin("audit", "Audit Plugin", "Audit logging of tool usage with JSON output", env)
	return &AuditPlugin{BasePlugin: base, now: time.Now}
}

// Run executes the audit plugin.
func (p *AuditPlugin) Run(_ context.Context) error {
	return p.StandardRun(p.preToolUseHandler, p.postToolUseHandler)
}

func (p *AuditPlugin) addToolSpecificDetails(entry *AuditEntry, event *cchooks.PreToolUseEvent) {
	switch event.ToolName {
	case toolBash:
		if bash, err := event.AsBash(); err == nil {
			entry.Details["command"] = bash.Command
		}
	case toolEdit:
		if edit, err := event.AsEdit(); err == nil {
			entry.Details["file_path"] = edit.FilePath
		}
	case toolWrite:
		if write, err := event.AsWrite(); err == nil {
			entry.Details["file_path"] = write.FilePath
			entry.Details["content_length"] = len(write.Content)
		}
	case toolRead:
		if read, err := event.AsRead(); err == nil {
			entry.Details["file_path"] = read.FilePath
		}
	}
}

func (p *AuditPlugin) preToolUseHandler(_ context.Context, event *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface {
	entry := AuditEntry{
		Event:    "pre_tool_use",
		ToolName: event.ToolName,
		Details:  make(map[string]interface{}),
	}
	p.addToolSpecificDetails(&entry, event)
	p.write(entry)
	return cchooks.Approve()
}

func (p *AuditPlugin) postToolUseHandler(_ context.Context, event *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface {
	p.write(AuditEntry{Event: "post_tool_use", ToolName: event.ToolName})
	return cchooks.Allow()
}

func (p *AuditPlugin) write(entry AuditEntry) {
	entry.Timestamp = p.now().Format(time.RFC3339)

	jsonData, err := json.Marshal(entry)
	if err != nil {
		p.Env().Loggers.Errorf("Failed to marshal audit entry: %v", err)
		return
	}
	fmt.Fprintln(p.Env().Stdout, string(jsonData))
}
