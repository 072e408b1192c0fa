package waymark

import (
	"fmt"
	"os"
)

// ResolveFn performs one resolution step; Context reads it through an
// indirection on every call so a plugin can replace it at init or during
// beforeResolve (§9).
type ResolveFn func(remaining, commandsDir string, knownSchema *OptionsConfig, loader ModuleLoader) (*ResolvedCommand, error)

// ParseFn parses a command string against a schema; likewise replaceable.
type ParseFn func(commandString string, schema *OptionsConfig, validate bool) (ParseResult, error)

// osExit is indirected so Exit is testable.
var osExit = os.Exit

// Context is the process-scoped orchestrator for one invocation (§3,
// §4.5).
type Context struct {
	commandString  string
	commandsDir    string
	defaultCommand string

	client Client
	hooks  *HookRegistry
	loader ModuleLoader

	plugins    []*Plugin
	pluginInfo map[string]*PluginInfo

	options      *OptionsConfig
	optionValues OptionValues
	queue        []*ResolvedCommand
	result       any

	isResolved bool
	isParsed   bool
	isReady    bool

	resolveFn ResolveFn
	parseFn   ParseFn
}

// ContextOption configures a Context at construction.
type ContextOption func(*Context)

func WithClient(c Client) ContextOption {
	return func(ctx *Context) { ctx.client = c }
}

func WithPlugins(plugins ...*Plugin) ContextOption {
	return func(ctx *Context) { ctx.plugins = append(ctx.plugins, plugins...) }
}

func WithDefaultCommand(cmd string) ContextOption {
	return func(ctx *Context) { ctx.defaultCommand = cmd }
}

func WithResolveFn(fn ResolveFn) ContextOption {
	return func(ctx *Context) { ctx.resolveFn = fn }
}

func WithParseFn(fn ParseFn) ContextOption {
	return func(ctx *Context) { ctx.parseFn = fn }
}

// NewContext constructs a Context for one invocation (§3). Plugin names
// must be unique; a duplicate is reported as a PluginError immediately.
func NewContext(commandString, commandsDir string, loader ModuleLoader, opts ...ContextOption) (*Context, error) {
	ctx := &Context{
		commandString: commandString,
		commandsDir:   commandsDir,
		loader:        loader,
		hooks:         NewHookRegistry(),
		pluginInfo:    map[string]*PluginInfo{},
		options:       NewOptionsConfig(),
		optionValues:  OptionValues{},
		resolveFn:     Resolve,
		parseFn:       Parse,
		client:        NewDefaultClient(),
	}

	for _, opt := range opts {
		opt(ctx)
	}

	for _, p := range ctx.plugins {
		if _, dup := ctx.pluginInfo[p.Name]; dup {
			return nil, NewPluginError(p.Name, fmt.Errorf("duplicate plugin name"))
		}
		ctx.pluginInfo[p.Name] = &PluginInfo{
			Name:        p.Name,
			Version:     p.Version,
			Description: p.Description,
			Meta:        p.Meta,
		}
	}

	return ctx, nil
}

func (c *Context) Client() Client             { return c.client }
func (c *Context) Hooks() *HookRegistry       { return c.hooks }
func (c *Context) Options() *OptionsConfig    { return c.options }
func (c *Context) OptionValues() OptionValues { return c.optionValues }
func (c *Context) Queue() []*ResolvedCommand  { return c.queue }
func (c *Context) Result() any                { return c.result }
func (c *Context) CommandString() string      { return c.commandString }
func (c *Context) CommandsDir() string        { return c.commandsDir }
func (c *Context) IsReady() bool              { return c.isReady }

// PluginInfo returns a copy of the named plugin's info, so callers
// cannot mutate the Context's own entry.
func (c *Context) PluginInfo(name string) (*PluginInfo, bool) {
	p, ok := c.pluginInfo[name]
	if !ok {
		return nil, false
	}
	info := *p
	return &info, true
}

// SetOptions merges decl into the Context's schema; plugins call this
// from Init to contribute options that merge before any command's own
// (§4.2, §4.7).
func (c *Context) SetOptions(decls ...OptionDecl) error {
	for _, d := range decls {
		if err := c.options.Add(d); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a fresh, unprepared Context for the same invocation and
// collaborators, letting a caller re-run from scratch without reusing
// resolved/parsed state (§12).
func (c *Context) Clone() *Context {
	clone := &Context{
		commandString:  c.commandString,
		commandsDir:    c.commandsDir,
		defaultCommand: c.defaultCommand,
		client:         c.client,
		hooks:          NewHookRegistry(),
		loader:         c.loader,
		plugins:        c.plugins,
		pluginInfo:     map[string]*PluginInfo{},
		options:        NewOptionsConfig(),
		optionValues:   OptionValues{},
		resolveFn:      c.resolveFn,
		parseFn:        c.parseFn,
	}
	for name, info := range c.pluginInfo {
		infoCopy := *info
		infoCopy.IsReady = false
		clone.pluginInfo[name] = &infoCopy
	}
	return clone
}

// Prepare runs the full prepare lifecycle: init plugins, resolve, parse
// (§4.5). It is idempotent: calling it again after isReady is a no-op
// that returns the cached configuration (§2, §5, §12).
func (c *Context) Prepare() error {
	if c.isReady {
		return nil
	}

	if err := c.initPlugins(); err != nil {
		return err
	}
	if err := c.resolveAll(); err != nil {
		return err
	}
	if err := c.parseAll(); err != nil {
		return err
	}

	c.isReady = true
	return nil
}

func (c *Context) initPlugins() error {
	for _, p := range c.plugins {
		info := c.pluginInfo[p.Name]
		if info.IsReady {
			continue
		}
		if p.Init != nil {
			if err := p.Init(c); err != nil {
				return NewPluginError(p.Name, err)
			}
		}
		info.IsReady = true
	}
	return nil
}

func (c *Context) resolveAll() error {
	remaining := c.commandString
	dir := c.commandsDir

	for {
		before := &BeforeResolvePayload{Context: c, RemainingCommandString: remaining, NextCommandsDir: dir}
		if err := c.hooks.Call(HookBeforeResolve, before); err != nil {
			return c.rethrow(err)
		}

		if !before.skipped {
			rc, err := c.resolveFn(remaining, dir, c.options, c.loader)
			if err != nil {
				return c.rethrow(err)
			}
			c.queue = append(c.queue, rc)
			if rc.Command.Options != nil {
				if err := c.options.Merge(rc.Command.Options); err != nil {
					return c.rethrow(err)
				}
			}
			remaining = rc.RemainingCommandString
			dir = rc.SubcommandsDir
		} else if len(before.seeded) > 0 {
			for _, rc := range before.seeded {
				c.queue = append(c.queue, rc)
				if rc.Command.Options != nil {
					if err := c.options.Merge(rc.Command.Options); err != nil {
						return c.rethrow(err)
					}
				}
				remaining = rc.RemainingCommandString
				dir = rc.SubcommandsDir
			}
		}

		after := &AfterResolvePayload{
			Context:                c,
			RemainingCommandString: remaining,
			NextCommandsDir:        dir,
			Skipped:                before.skipped,
		}
		if err := c.hooks.Call(HookAfterResolve, after); err != nil {
			return c.rethrow(err)
		}

		if before.stopResolving || remaining == "" {
			break
		}
	}

	c.isResolved = true

	if len(c.queue) > 0 {
		last := c.queue[len(c.queue)-1]
		if last.Command.RequiresSubcommand {
			return c.rethrow(NewSubcommandRequiredError(last.CommandPath))
		}
	}

	return nil
}

func (c *Context) parseAll() error {
	before := &BeforeParsePayload{Context: c}
	if err := c.hooks.Call(HookBeforeParse, before); err != nil {
		return c.rethrow(err)
	}

	if !before.skipped {
		result, err := c.parseFn(c.commandString, c.options, true)
		if err != nil {
			return c.rethrow(err)
		}
		for k, v := range result.Options {
			c.optionValues[k] = v
		}
	} else if before.result != nil {
		for k, v := range before.result.Options {
			c.optionValues[k] = v
		}
	}

	after := &AfterParsePayload{Context: c, Skipped: before.skipped}
	if err := c.hooks.Call(HookAfterParse, after); err != nil {
		return c.rethrow(err)
	}

	c.isParsed = true
	return nil
}

// Execute spawns a State over initialData and drives it to completion
// (§4.5).
func (c *Context) Execute(initialData any) (any, error) {
	state := NewState(c, initialData)

	before := &BeforeExecutePayload{State: state}
	if err := c.hooks.Call(HookBeforeExecute, before); err != nil {
		return nil, c.rethrow(err)
	}

	if !before.skipped && !c.isReady {
		return nil, c.rethrow(fmt.Errorf("context is not ready: Prepare must run before Execute"))
	}

	var result any
	if !before.skipped {
		if err := state.Start(initialData); err != nil {
			if rerr := c.rethrow(err); rerr != nil {
				return nil, rerr
			}
		}
		result = state.data
	} else if before.hasResult {
		result = before.result
	} else {
		result = initialData
	}

	after := &AfterExecutePayload{State: state, Skipped: before.skipped}
	if err := c.hooks.Call(HookAfterExecute, after); err != nil {
		return nil, c.rethrow(err)
	}
	if after.hasResult {
		result = after.result
	}

	c.result = result
	return result, nil
}

// rethrow funnels an error through Throw, returning nil if a hook
// suppressed it (Ignore), matching §4.5's throw() semantics for the
// handful of call sites inside Prepare/Execute that need its return
// value inline.
func (c *Context) rethrow(err error) error {
	return c.Throw(err)
}

// Throw calls beforeError and returns the (possibly replaced) error,
// or nil if a hook called Ignore (§4.5, §7). When a hook replaces the
// error via SetError, the replacement is run through wrapFrame: without
// it, the call site of the original error would otherwise be lost once
// it crosses the hook boundary.
func (c *Context) Throw(err error) error {
	payload := &BeforeErrorPayload{Context: c, Error: err}
	if herr := c.hooks.Call(HookBeforeError, payload); herr != nil {
		return herr
	}
	if payload.ignored {
		return nil
	}
	if payload.Error != err {
		return wrapFrame(payload.Error)
	}
	return payload.Error
}

// Exit calls beforeExit, logs via the Client, and terminates the
// process unless a hook cancels it (§4.5).
func (c *Context) Exit(code int, message ...string) {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}

	payload := &BeforeExitPayload{Context: c, Code: code, Message: msg}
	_ = c.hooks.Call(HookBeforeExit, payload)
	if payload.cancelled {
		return
	}

	if payload.Code == 0 {
		c.client.Info("exit", payload.Message)
	} else {
		c.client.Error("exit", payload.Message)
	}
	osExit(payload.Code)
}
