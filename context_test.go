package waymark_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waymark-cli/waymark"
)

func TestContext_PrepareResolvesQueueAndIsReady(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/hello", &waymark.CommandModule{
		Handler: func(p *waymark.HandlerPayload) error { p.End("hi"); return nil },
	})

	ctx := newTestContext(t, "hello", loader)
	require.False(t, ctx.IsReady())
	require.NoError(t, ctx.Prepare())
	require.True(t, ctx.IsReady())
	require.Len(t, ctx.Queue(), 1)
}

func TestContext_PrepareIsIdempotent(t *testing.T) {
	t.Parallel()

	calls := 0
	loader := waymark.NewMapLoader()
	loader.Add("commands/hello", &waymark.CommandModule{
		Handler: func(p *waymark.HandlerPayload) error { p.End("hi"); return nil },
	})

	ctx := newTestContext(t, "hello", loader)
	ctx.Hooks().On(waymark.HookBeforeResolve, func(payload any) error { calls++; return nil })

	require.NoError(t, ctx.Prepare())
	require.NoError(t, ctx.Prepare())
	require.Equal(t, 1, calls)
}

func TestContext_BeforeResolveSkipWithSeededCommands(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	seeded := &waymark.ResolvedCommand{
		Command:     &waymark.CommandModule{Handler: func(p *waymark.HandlerPayload) error { p.End("seeded"); return nil }},
		CommandName: "synthetic",
	}

	ctx := newTestContext(t, "whatever", loader)
	ctx.Hooks().On(waymark.HookBeforeResolve, func(payload any) error {
		payload.(*waymark.BeforeResolvePayload).AddResolvedCommands(seeded)
		return nil
	})

	require.NoError(t, ctx.Prepare())
	require.Len(t, ctx.Queue(), 1)
	require.Equal(t, "synthetic", ctx.Queue()[0].CommandName)
}

func TestContext_RequiresSubcommandErrorsOnTerminalModule(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/greet", &waymark.CommandModule{RequiresSubcommand: true})

	ctx := newTestContext(t, "greet", loader)
	err := ctx.Prepare()
	require.Error(t, err)
	var sre *waymark.SubcommandRequiredError
	require.ErrorAs(t, err, &sre)
}

func TestContext_BeforeParseSetParsedOptionsAndSkip(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/greet", &waymark.CommandModule{
		Options: waymark.NewOptionsConfig(waymark.OptionDecl{Key: "name", Type: waymark.TypeString}),
		Handler: func(p *waymark.HandlerPayload) error {
			v, _ := p.Options["name"]()
			p.End(v)
			return nil
		},
	})

	ctx := newTestContext(t, "greet", loader)
	ctx.Hooks().On(waymark.HookBeforeParse, func(payload any) error {
		payload.(*waymark.BeforeParsePayload).SetParsedOptionsAndSkip(waymark.ParseResult{
			Options: waymark.OptionValues{"name": "injected"},
		})
		return nil
	})

	require.NoError(t, ctx.Prepare())
	require.Equal(t, "injected", ctx.OptionValues()["name"])

	result, err := ctx.Execute(nil)
	require.NoError(t, err)
	require.Equal(t, "injected", result)
}

func TestContext_ExecuteFailsWhenNotPrepared(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/hello", &waymark.CommandModule{
		Handler: func(p *waymark.HandlerPayload) error { p.End("hi"); return nil },
	})

	ctx := newTestContext(t, "hello", loader)
	_, err := ctx.Execute(nil)
	require.Error(t, err)
}

func TestContext_BeforeExecuteSetResultAndSkip(t *testing.T) {
	t.Parallel()

	ran := false
	loader := waymark.NewMapLoader()
	loader.Add("commands/hello", &waymark.CommandModule{
		Handler: func(p *waymark.HandlerPayload) error { ran = true; p.End("hi"); return nil },
	})

	ctx := newTestContext(t, "hello", loader)
	ctx.Hooks().On(waymark.HookBeforeExecute, func(payload any) error {
		payload.(*waymark.BeforeExecutePayload).SetResultAndSkip("shortcut")
		return nil
	})
	require.NoError(t, ctx.Prepare())

	result, err := ctx.Execute(nil)
	require.NoError(t, err)
	require.Equal(t, "shortcut", result)
	require.False(t, ran)
}

func TestContext_ThrowIgnoreSuppressesError(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	ctx := newTestContext(t, "whatever", loader)
	ctx.Hooks().On(waymark.HookBeforeError, func(payload any) error {
		payload.(*waymark.BeforeErrorPayload).Ignore()
		return nil
	})

	require.NoError(t, ctx.Throw(errors.New("boom")))
}

func TestContext_ThrowSetErrorReplacesError(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	ctx := newTestContext(t, "whatever", loader)
	replacement := errors.New("replacement")
	ctx.Hooks().On(waymark.HookBeforeError, func(payload any) error {
		payload.(*waymark.BeforeErrorPayload).SetError(replacement)
		return nil
	})

	err := ctx.Throw(errors.New("original"))
	require.ErrorIs(t, err, replacement)
}

func TestContext_ExitCancelPreventsOsExit(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	ctx := newTestContext(t, "whatever", loader)
	ctx.Hooks().On(waymark.HookBeforeExit, func(payload any) error {
		payload.(*waymark.BeforeExitPayload).Cancel()
		return nil
	})

	ctx.Exit(1, "should not terminate the test process")
}

func TestContext_Clone_ResetsReadyState(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/hello", &waymark.CommandModule{
		Handler: func(p *waymark.HandlerPayload) error { p.End("hi"); return nil },
	})

	ctx := newTestContext(t, "hello", loader)
	require.NoError(t, ctx.Prepare())

	clone := ctx.Clone()
	require.False(t, clone.IsReady())
	require.Empty(t, clone.Queue())
}
