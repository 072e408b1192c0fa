package waymark_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waymark-cli/waymark"
)

func TestPlugin_InfoFrozenAfterInit(t *testing.T) {
	t.Parallel()

	plugin := waymark.NewPlugin(waymark.Plugin{
		Name:        "greeter",
		Version:     "1.0.0",
		Description: "adds a greeting option",
		Meta:        map[string]any{"author": "test"},
		Init: func(ctx *waymark.Context) error {
			return ctx.SetOptions(waymark.OptionDecl{Key: "greeting", Type: waymark.TypeString})
		},
	})

	loader := waymark.NewMapLoader()
	loader.Add("commands/a", &waymark.CommandModule{
		Handler: func(p *waymark.HandlerPayload) error { p.End(p.Data); return nil },
	})

	ctx, err := waymark.NewContext("a", "commands", loader, waymark.WithPlugins(plugin))
	require.NoError(t, err)

	info, ok := ctx.PluginInfo("greeter")
	require.True(t, ok)
	require.False(t, info.IsReady)

	require.NoError(t, ctx.Prepare())

	info, ok = ctx.PluginInfo("greeter")
	require.True(t, ok)
	require.True(t, info.IsReady)

	_, hasGreeting := ctx.Options().Get("greeting")
	require.True(t, hasGreeting)
}

func TestNewContext_DuplicatePluginNameErrors(t *testing.T) {
	t.Parallel()

	a := waymark.NewPlugin(waymark.Plugin{Name: "dup"})
	b := waymark.NewPlugin(waymark.Plugin{Name: "dup"})

	loader := waymark.NewMapLoader()
	_, err := waymark.NewContext("a", "commands", loader, waymark.WithPlugins(a, b))
	require.Error(t, err)
	var perr *waymark.PluginError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "dup", perr.Plugin)
}

func TestContext_InitPluginFailurePropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	plugin := waymark.NewPlugin(waymark.Plugin{
		Name: "broken",
		Init: func(ctx *waymark.Context) error { return boom },
	})

	loader := waymark.NewMapLoader()
	loader.Add("commands/a", &waymark.CommandModule{})
	ctx, err := waymark.NewContext("a", "commands", loader, waymark.WithPlugins(plugin))
	require.NoError(t, err)

	err = ctx.Prepare()
	require.Error(t, err)
	var perr *waymark.PluginError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "broken", perr.Plugin)
}
