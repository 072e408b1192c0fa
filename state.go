package waymark

import (
	"errors"
	"fmt"
)

// StateStatus is the State's current execution phase (§3).
type StateStatus int

const (
	StatusPending StateStatus = iota
	StatusRunning
	StatusEnded
	StatusErrored
)

// StateChanges describes a pending mutation to a State; every mutation
// of Data/Index/Command/Params/Status routes through applyChanges so
// that beforeStateChange/afterStateChange can observe it (§4.6).
type StateChanges struct {
	Data    *any
	Index   *int
	Command **ResolvedCommand
	Params  *map[string]any
	Status  *StateStatus
}

// State is the per-execution cursor through the command queue (§3).
type State struct {
	Context *Context

	index   int
	data    any
	command *ResolvedCommand
	params  map[string]any
	status  StateStatus
}

// NewState spawns a State bound to ctx with initialData (§4.5 execute
// step 1).
func NewState(ctx *Context, initialData any) *State {
	return &State{Context: ctx, data: initialData, status: StatusPending}
}

func (s *State) Data() any               { return s.data }
func (s *State) Index() int              { return s.index }
func (s *State) Command() *ResolvedCommand { return s.command }
func (s *State) Params() map[string]any  { return s.params }
func (s *State) Status() StateStatus     { return s.status }

// applyChanges fires beforeStateChange, mutates (unless skipped), then
// fires afterStateChange (§4.6).
func (s *State) applyChanges(changes StateChanges) error {
	payload := &BeforeStateChangePayload{State: s, Changes: changes}
	if err := s.Context.hooks.Call(HookBeforeStateChange, payload); err != nil {
		return err
	}
	changes = payload.Changes

	if !payload.skipped {
		if changes.Data != nil {
			s.data = *changes.Data
		}
		if changes.Index != nil {
			s.index = *changes.Index
		}
		if changes.Command != nil {
			s.command = *changes.Command
		}
		if changes.Params != nil {
			s.params = *changes.Params
		}
		if changes.Status != nil {
			s.status = *changes.Status
		}
	}

	after := &AfterStateChangePayload{State: s, Changes: changes, Skipped: payload.skipped}
	return s.Context.hooks.Call(HookAfterStateChange, after)
}

func ptr[T any](v T) *T { return &v }

// Start drives the command queue (§4.6). It is invoked once by
// Context.Execute.
func (s *State) Start(initialData any) error {
	if err := s.applyChanges(StateChanges{Data: ptr(initialData), Index: ptr(0), Status: ptr(StatusRunning)}); err != nil {
		return err
	}

	for {
		if s.index >= len(s.Context.queue) || s.status == StatusEnded {
			break
		}

		rc := s.Context.queue[s.index]
		if err := s.applyChanges(StateChanges{Command: ptr(rc), Params: ptr(rc.Params)}); err != nil {
			return err
		}

		before := &BeforeCommandPayload{State: s}
		if err := s.Context.hooks.Call(HookBeforeCommand, before); err != nil {
			return err
		}
		if before.skipped {
			if err := s.applyChanges(StateChanges{Index: ptr(s.index + 1)}); err != nil {
				return err
			}
			if err := s.Context.hooks.Call(HookAfterCommand, &AfterCommandPayload{State: s, Skipped: true}); err != nil {
				return err
			}
			continue
		}

		getter := buildOptionsGetter(s.Context, s.Context.client)
		payload := &HandlerPayload{
			Context: s.Context,
			State:   s,
			Client:  s.Context.client,
			Options: getter,
			Params:  rc.Params,
			Command: rc,
			Data:    s.data,
		}

		handler := rc.Command.Handler
		if handler == nil {
			handler = passThroughModule.Handler
		}

		err := handler(payload)
		if err != nil {
			return err
		}

		switch {
		case payload.calledEnd:
			if err := s.Context.hooks.Call(HookBeforeEnd, &BeforeEndPayload{State: s, Data: payload.endData}); err != nil {
				return err
			}
			if err := s.applyChanges(StateChanges{Data: ptr(payload.endData), Status: ptr(StatusEnded)}); err != nil {
				return err
			}
		case payload.calledNext:
			if err := s.applyChanges(StateChanges{Data: ptr(payload.nextData), Index: ptr(s.index + 1)}); err != nil {
				return err
			}
		default:
			// Neither next nor end was called: auto-advance with data
			// unchanged, so fire-and-forget handlers behave sensibly (§4.6).
			if err := s.applyChanges(StateChanges{Index: ptr(s.index + 1)}); err != nil {
				return err
			}
		}

		if err := s.Context.hooks.Call(HookAfterCommand, &AfterCommandPayload{State: s, Skipped: false}); err != nil {
			return err
		}
	}

	return nil
}

// --- OptionsGetter --------------------------------------------------------

// ErrOptionAbsent is returned by an OptionAccessor when no value, default,
// or prompt produced an answer (§3).
var ErrOptionAbsent = errors.New("option not set")

// OptGetOpts customizes a single OptionsGetter read (§3).
type OptGetOpts struct {
	Prompt   string
	Validate func(v any) (bool, string)
	Initial  any
}

// OptionAccessor reads (and may interactively fill) one option.
type OptionAccessor func(opts ...OptGetOpts) (any, error)

// OptionsGetter exposes one OptionAccessor per canonical key and alias
// (§3).
type OptionsGetter map[string]OptionAccessor

func promptTypeFor(t OptionType) PromptType {
	switch t {
	case TypeBool:
		return PromptConfirm
	case TypeNumber:
		return PromptNumber
	case TypeArrayString, TypeArrayNumber:
		return PromptList
	default:
		return PromptText
	}
}

// buildOptionsGetter wires one accessor per key/alias in ctx.options,
// reading from and caching into ctx.optionValues (§9).
func buildOptionsGetter(ctx *Context, client Client) OptionsGetter {
	getter := OptionsGetter{}
	for _, key := range ctx.options.Keys() {
		decl := ctx.options.decls[key]
		accessor := makeOptionAccessor(ctx, client, decl)
		getter[decl.Key] = accessor
		for _, alias := range decl.Alias {
			getter[alias] = accessor
		}
	}
	return getter
}

func makeOptionAccessor(ctx *Context, client Client, decl *OptionDecl) OptionAccessor {
	return func(opts ...OptGetOpts) (any, error) {
		var o OptGetOpts
		if len(opts) > 0 {
			o = opts[0]
		}

		if v, ok := ctx.optionValues[decl.Key]; ok {
			return v, nil
		}

		if decl.Default != "" {
			val := newValue(decl.Type)
			if err := val.Set(decl.Default); err != nil {
				return nil, err
			}
			return extractValue(decl.Type, val), nil
		}

		promptMsg := o.Prompt
		if promptMsg == "" && decl.Required {
			promptMsg = fmt.Sprintf("Enter a value for %s", decl.Key)
		}
		if promptMsg == "" {
			return nil, ErrOptionAbsent
		}
		if client == nil {
			return nil, fmt.Errorf("%s is required but no client is available to prompt", decl.Key)
		}

		spec := PromptSpec{
			Type:    promptTypeFor(decl.Type),
			Message: promptMsg,
			Initial: o.Initial,
			Choices: decl.Choices,
		}
		switch {
		case o.Validate != nil:
			spec.Validate = func(v any) error {
				if ok, msg := o.Validate(v); !ok {
					return errors.New(msg)
				}
				return nil
			}
		case decl.Required && decl.Type == TypeString:
			// No custom validator supplied for a required string: fall
			// back to rejecting an empty answer outright.
			spec.Validate = func(v any) error {
				s, _ := v.(string)
				return ValidateNotEmpty(s)
			}
		}

		v, err := client.Prompt(spec)
		if err != nil {
			return nil, err
		}
		ctx.optionValues[decl.Key] = v
		return v, nil
	}
}
