package waymark_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waymark-cli/waymark"
)

func TestRun_ExecutesResolvedCommand(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/greet", &waymark.CommandModule{
		Handler: func(p *waymark.HandlerPayload) error { p.End("hello"); return nil },
	})

	result, err := waymark.Run(waymark.RunParams{
		Command:     "greet",
		CommandsDir: "commands",
		Loader:      loader,
	})
	require.NoError(t, err)
	require.Equal(t, "hello", result)
}

func TestRun_EmptyCommandFallsBackToDefaultCommand(t *testing.T) {
	// An empty Command is derived from os.Args, which in a test binary
	// carries -test.* flags; simulate a bare invocation instead. This
	// mutates a process global, so the test does not run in parallel.
	args := os.Args
	os.Args = args[:1]
	defer func() { os.Args = args }()

	loader := waymark.NewMapLoader()
	loader.Add("commands/greet", &waymark.CommandModule{
		Handler: func(p *waymark.HandlerPayload) error { p.End("hi"); return nil },
	})

	result, err := waymark.Run(waymark.RunParams{
		Command:        "",
		DefaultCommand: "greet",
		CommandsDir:    "commands",
		Loader:         loader,
	})
	require.NoError(t, err)
	require.Equal(t, "hi", result)
}

func TestRun_LeadingFlagFallsBackToDefaultCommand(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/greet", &waymark.CommandModule{
		Options: waymark.NewOptionsConfig(waymark.OptionDecl{Key: "loud", Type: waymark.TypeBool, Flag: "loud"}),
		Handler: func(p *waymark.HandlerPayload) error {
			v, _ := p.Options["loud"]()
			p.End(v)
			return nil
		},
	})

	result, err := waymark.Run(waymark.RunParams{
		Command:        "--loud",
		DefaultCommand: "greet",
		CommandsDir:    "commands",
		Loader:         loader,
	})
	require.NoError(t, err)
	require.Equal(t, true, result)
}

func TestRun_NotFoundSurfacesAsCliError(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()

	_, err := waymark.Run(waymark.RunParams{
		Command:     "missing",
		CommandsDir: "commands",
		Loader:      loader,
	})
	require.Error(t, err)
	var cliErr *waymark.CliError
	require.ErrorAs(t, err, &cliErr)
}

func TestRun_ClientErrorReturnsAsResultNotError(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	clientErr := waymark.NewClientError(errors.New("boom"))
	loader.Add("commands/greet", &waymark.CommandModule{
		Handler: func(p *waymark.HandlerPayload) error { return clientErr },
	})

	result, err := waymark.Run(waymark.RunParams{
		Command:     "greet",
		CommandsDir: "commands",
		Loader:      loader,
	})
	require.NoError(t, err)
	require.Same(t, clientErr, result)
}
