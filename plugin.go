package waymark

// Plugin is the user-facing factory surface for extending a Context
// (§1, §4.7): {name, version?, description?, meta?, init?(context)}.
type Plugin struct {
	Name        string
	Version     string
	Description string
	Meta        map[string]any

	// Init receives the Context before resolve begins. It may mutate
	// options via Context.SetOptions, register hooks, or replace
	// ParseFn/ResolveFn.
	Init func(ctx *Context) error
}

// NewPlugin is the plugin factory (§1): a thin constructor so plugin
// authors write `waymark.NewPlugin(waymark.Plugin{...})`.
func NewPlugin(p Plugin) *Plugin {
	return &p
}

// PluginInfo is the read-only view of a Plugin returned (as a copy) by
// Context.PluginInfo; IsReady turns true once its init has run (§3, §4.7).
type PluginInfo struct {
	Name        string
	Version     string
	Description string
	Meta        map[string]any
	IsReady     bool
}
