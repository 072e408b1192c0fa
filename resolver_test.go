package waymark_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waymark-cli/waymark"
)

func echoHandler(p *waymark.HandlerPayload) error {
	p.End(p.Data)
	return nil
}

func TestResolve_DirectMatch(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/hello", &waymark.CommandModule{Handler: echoHandler})

	rc, err := waymark.Resolve("hello", "commands", nil, loader)
	require.NoError(t, err)
	require.Equal(t, "hello", rc.CommandName)
	require.Same(t, loader.Modules["commands/hello"], rc.Command)

	_, ok, err := rc.ResolveNext()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolve_PassThroughDirectory(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/greet/hello", &waymark.CommandModule{Handler: echoHandler})

	rc, err := waymark.Resolve("greet hello", "commands", nil, loader)
	require.NoError(t, err)
	require.Equal(t, "greet", rc.CommandName)
	require.Equal(t, "commands/greet", rc.SubcommandsDir)

	next, ok, err := rc.ResolveNext()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello", next.CommandName)
}

func TestResolve_SingleParamSegment(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/greet", &waymark.CommandModule{RequiresSubcommand: true})
	loader.Add("commands/greet/[name]", &waymark.CommandModule{Handler: echoHandler})

	rc, err := waymark.Resolve("greet world", "commands", nil, loader)
	require.NoError(t, err)

	next, ok, err := rc.ResolveNext()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "world", next.Params["name"])
}

func TestResolve_RestParamSegment(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.AddDir("commands/echo")
	loader.Add("commands/echo/[...text]", &waymark.CommandModule{Handler: echoHandler})

	rc, err := waymark.Resolve("echo hello world --upper", "commands", nil, loader)
	require.NoError(t, err)

	next, ok, err := rc.ResolveNext()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"hello", "world", "--upper"}, next.Params["text"])
}

func TestResolve_NotFound(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	_, err := waymark.Resolve("missing", "commands", nil, loader)
	require.Error(t, err)
	var nfe *waymark.NotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestResolve_MissingDefaultExport(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/broken", nil)

	_, err := waymark.Resolve("broken", "commands", nil, loader)
	require.Error(t, err)
	var mde *waymark.MissingDefaultExportError
	require.ErrorAs(t, err, &mde)
}

func TestResolve_NonMiddlewareSubstitutesPassThroughWhenContinuing(t *testing.T) {
	t.Parallel()

	notMiddleware := false
	loader := waymark.NewMapLoader()
	loader.Add("commands/greet", &waymark.CommandModule{IsMiddleware: &notMiddleware, Handler: echoHandler})
	loader.Add("commands/greet/hello", &waymark.CommandModule{Handler: echoHandler})

	rc, err := waymark.Resolve("greet hello", "commands", nil, loader)
	require.NoError(t, err)
	require.NotSame(t, loader.Modules["commands/greet"], rc.Command)
}

func TestResolve_CommandRequiredOnEmptyString(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	_, err := waymark.Resolve("", "commands", nil, loader)
	require.Error(t, err)
	var cre *waymark.CommandRequiredError
	require.ErrorAs(t, err, &cre)
}

func TestDefaultCommandsDir_FindsCallerDirCommands(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.AddDir("/srv/app/commands")
	dir, err := waymark.DefaultCommandsDir(loader, "/srv/app")
	require.NoError(t, err)
	require.Equal(t, "/srv/app/commands", dir)
}

func TestDefaultCommandsDir_FailsWithAttemptedList(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	_, err := waymark.DefaultCommandsDir(loader, "/nonexistent/caller/dir")
	require.Error(t, err)
}
