package waymark

// CommandModule is a unit of executable behavior: description, option
// schema, and handler (§3).
type CommandModule struct {
	Description        string
	Options            *OptionsConfig
	RequiresSubcommand bool
	// IsMiddleware defaults to true: the module's handler always runs,
	// even when the resolver found a continuation for it. When false and
	// a continuation exists, the resolver substitutes the pass-through
	// handler for this module (§4.3 step 6).
	IsMiddleware *bool
	Handler      Handler

	CompletionHandler func(params map[string]any) []string
}

func (m *CommandModule) isMiddleware() bool {
	if m == nil || m.IsMiddleware == nil {
		return true
	}
	return *m.IsMiddleware
}

// Handler is a function receiving a single HandlerPayload (§3).
type Handler func(p *HandlerPayload) error

// HandlerPayload is what a Handler receives on each invocation (§3).
type HandlerPayload struct {
	Context *Context
	State   *State
	Client  Client
	Options OptionsGetter
	Params  map[string]any
	Command *ResolvedCommand
	Data    any

	calledNext bool
	calledEnd  bool
	nextData   any
	endData    any
}

// Next advances the queue to the following command, optionally replacing
// data. It may be called at most once per handler invocation; a second
// call is a no-op (§4.6).
func (p *HandlerPayload) Next(data ...any) {
	if p.calledNext || p.calledEnd {
		return
	}
	p.calledNext = true
	if len(data) > 0 {
		p.nextData = data[0]
	} else {
		p.nextData = p.Data
	}
}

// End halts the queue, optionally replacing data. The engine fires
// beforeEnd once the handler that called End returns.
func (p *HandlerPayload) End(data ...any) {
	if p.calledNext || p.calledEnd {
		return
	}
	p.calledEnd = true
	if len(data) > 0 {
		p.endData = data[0]
	} else {
		p.endData = p.Data
	}
}

// passThroughModule is the singleton module the resolver substitutes for
// a directory that was only traversed, or for a non-middleware command
// that has a continuation (§4.3, §9).
var passThroughModule = &CommandModule{
	Handler: func(p *HandlerPayload) error {
		p.Next(p.Data)
		return nil
	},
}

func isPassThrough(m *CommandModule) bool {
	return m == passThroughModule
}
