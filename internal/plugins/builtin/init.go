package builtin

import "github.com/klauern/hookgate/internal/plugins"

// init registers all bundled plugins
func init() {
	plugins.RegisterBuiltins(map[string]plugins.Factory{
		"audit": NewAuditPlugin,
		"debug": NewDebugPlugin,
	})
}
