package waymark

// Each payload below is handed to hook handlers for its named event
// (§4.4, §4.5, §4.6). Handlers mutate intent through the methods on the
// payload. The exported fields hold the values as of when the hook
// fired; a mutator such as SetError, SetCode, SetMessage or SetChanges
// updates the matching field, which the engine reads after the hook.

// BeforeResolvePayload backs HookBeforeResolve, fired once per
// resolution step (§4.5 step 2, §9 open question (a)).
type BeforeResolvePayload struct {
	Context               *Context
	RemainingCommandString string
	NextCommandsDir        string

	skipped       bool
	stopResolving bool
	seeded        []*ResolvedCommand
}

// Skip bypasses the default resolver for this step.
func (p *BeforeResolvePayload) Skip() { p.skipped = true }

// StopResolving ends the resolution loop after this step, even if a
// remainingCommandString remains.
func (p *BeforeResolvePayload) StopResolving() { p.stopResolving = true }

// AddResolvedCommands pre-seeds the queue for this step, implying Skip.
func (p *BeforeResolvePayload) AddResolvedCommands(cmds ...*ResolvedCommand) {
	p.seeded = append(p.seeded, cmds...)
	p.skipped = true
}

// AfterResolvePayload backs HookAfterResolve.
type AfterResolvePayload struct {
	Context                *Context
	RemainingCommandString string
	NextCommandsDir        string
	Skipped                bool
}

// BeforeParsePayload backs HookBeforeParse.
type BeforeParsePayload struct {
	Context *Context

	skipped bool
	result  *ParseResult
}

func (p *BeforeParsePayload) Skip() { p.skipped = true }

// SetParsedOptionsAndSkip supplies parsed options directly, bypassing
// the default parser for this invocation.
func (p *BeforeParsePayload) SetParsedOptionsAndSkip(result ParseResult) {
	p.result = &result
	p.skipped = true
}

// AfterParsePayload backs HookAfterParse.
type AfterParsePayload struct {
	Context *Context
	Skipped bool
}

// BeforeExecutePayload backs HookBeforeExecute.
type BeforeExecutePayload struct {
	State *State

	skipped bool
	result  any
	hasResult bool
}

func (p *BeforeExecutePayload) Skip() { p.skipped = true }

// SetResultAndSkip supplies the Context result directly and skips the
// default execute loop (testable property #6).
func (p *BeforeExecutePayload) SetResultAndSkip(result any) {
	p.result = result
	p.hasResult = true
	p.skipped = true
}

// AfterExecutePayload backs HookAfterExecute.
type AfterExecutePayload struct {
	State   *State
	Skipped bool

	result    any
	hasResult bool
}

// SetResult replaces the Context's published result. The help plugin
// uses this to publish a captured UsageError as the result once help
// text has been rendered for it (§4.9).
func (p *AfterExecutePayload) SetResult(result any) {
	p.result = result
	p.hasResult = true
}

// BeforeCommandPayload backs HookBeforeCommand.
type BeforeCommandPayload struct {
	State *State

	skipped bool
}

func (p *BeforeCommandPayload) Skip() { p.skipped = true }

// AfterCommandPayload backs HookAfterCommand.
type AfterCommandPayload struct {
	State   *State
	Skipped bool
}

// BeforeEndPayload backs HookBeforeEnd, fired after a handler that
// called End returns, before the State is marked ended.
type BeforeEndPayload struct {
	State *State
	Data  any
}

// BeforeErrorPayload backs HookBeforeError.
type BeforeErrorPayload struct {
	Context *Context
	Error   error

	ignored bool
}

// SetError replaces the error that will propagate.
func (p *BeforeErrorPayload) SetError(err error) { p.Error = err }

// Ignore suppresses the error; execution remains in its current state.
func (p *BeforeErrorPayload) Ignore() { p.ignored = true }

// BeforeExitPayload backs HookBeforeExit.
type BeforeExitPayload struct {
	Context *Context
	Code    int
	Message string

	cancelled bool
}

func (p *BeforeExitPayload) SetCode(code int)       { p.Code = code }
func (p *BeforeExitPayload) SetMessage(msg string)  { p.Message = msg }
func (p *BeforeExitPayload) Cancel()                { p.cancelled = true }

// BeforeStateChangePayload backs HookBeforeStateChange (§4.6).
type BeforeStateChangePayload struct {
	State   *State
	Changes StateChanges

	skipped bool
}

func (p *BeforeStateChangePayload) Skip() { p.skipped = true }

// SetChanges replaces the pending mutation before it is applied.
func (p *BeforeStateChangePayload) SetChanges(c StateChanges) { p.Changes = c }

// AfterStateChangePayload backs HookAfterStateChange.
type AfterStateChangePayload struct {
	State   *State
	Changes StateChanges
	Skipped bool
}
