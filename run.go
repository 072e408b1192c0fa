package waymark

import (
	"errors"
	"fmt"
	"os"
)

// RunParams configures the Run facade (§4.8). Command, when empty, is
// derived from process argv minus the program name (`os.Args[1:]`).
type RunParams struct {
	Command        string
	CommandsDir    string
	DefaultCommand string
	InitialData    any
	Loader         ModuleLoader
	Client         Client
	Plugins        []*Plugin
	CallerDir      string
}

// Run is the top-level entry point a `main` package calls (§4.8). It
// derives the command string, resolves commandsDir, constructs a
// Context, prepares and executes it, and translates the resulting error
// per the taxonomy in §7.
func Run(params RunParams) (any, error) {
	command := params.Command
	if command == "" {
		command = JoinTokens(os.Args[1:])
	}

	if (command == "" || len(command) > 0 && command[0] == '-') && params.DefaultCommand != "" {
		command = JoinTokens(params.DefaultCommand, SplitTokens(command))
	}

	loader := params.Loader
	if loader == nil {
		loader = NewMapLoader()
	}

	commandsDir := params.CommandsDir
	if commandsDir == "" {
		dir, err := DefaultCommandsDir(loader, params.CallerDir)
		if err != nil {
			return nil, wrapRunError(err)
		}
		commandsDir = dir
	}

	opts := []ContextOption{WithDefaultCommand(params.DefaultCommand)}
	if params.Client != nil {
		opts = append(opts, WithClient(params.Client))
	}
	if len(params.Plugins) > 0 {
		opts = append(opts, WithPlugins(params.Plugins...))
	}

	ctx, err := NewContext(command, commandsDir, loader, opts...)
	if err != nil {
		return nil, wrapRunError(err)
	}

	if err := ctx.Prepare(); err != nil {
		return translateRunError(err)
	}

	result, err := ctx.Execute(params.InitialData)
	if err != nil {
		return translateRunError(err)
	}

	return result, nil
}

// translateRunError implements §4.8 step 6: a ClientError (already
// printed) is returned as the result rather than an error; a CliError
// propagates as-is; anything else is wrapped.
func translateRunError(err error) (any, error) {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr, nil
	}

	var cliErr *CliError
	if errors.As(err, &cliErr) {
		return nil, err
	}

	return nil, wrapRunError(err)
}

func wrapRunError(err error) error {
	if err == nil {
		return nil
	}
	var cliErr *CliError
	if errors.As(err, &cliErr) {
		return err
	}
	return newCliError(err, "%s", fmt.Sprintf("%v", err))
}
