// https://github.com/coder/coder/blob/main/LICENSE
// Extracted and modified from github.com/coder/coder
package waymark

import (
	"fmt"

	"golang.org/x/xerrors"
)

// CliError is the base of the error taxonomy the orchestrator throws.
// Every error the engine produces can be unwrapped down to a CliError,
// or further, to whatever Cause wraps.
type CliError struct {
	Message string
	Cause   error
}

func (e *CliError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CliError) Unwrap() error { return e.Cause }

// As lets errors.As match a *CliError target against any taxonomy type
// that embeds *CliError, since the method is promoted to each of them.
func (e *CliError) As(target any) bool {
	if t, ok := target.(**CliError); ok {
		*t = e
		return true
	}
	return false
}

func newCliError(cause error, format string, args ...any) *CliError {
	return &CliError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// UsageError is recoverable by the user: bad flags, missing choice,
// conflicting options. The help plugin captures these via beforeError's
// ignore() to render help instead of a raw stack.
type UsageError struct {
	*CliError
	Key string
}

func NewUsageError(key string, cause error, format string, args ...any) *UsageError {
	return &UsageError{CliError: newCliError(cause, format, args...), Key: key}
}

// CommandRequiredError is raised for an empty invocation with no
// defaultCommand configured.
type CommandRequiredError struct {
	*CliError
}

func NewCommandRequiredError() *CommandRequiredError {
	return &CommandRequiredError{CliError: newCliError(nil, "a command is required")}
}

// NotFoundError means the resolver could not match a token against any
// module, pass-through directory, or route param in commandsDir.
type NotFoundError struct {
	*CliError
	CommandName string
	CommandsDir string
}

func NewNotFoundError(commandName, commandsDir string) *NotFoundError {
	return &NotFoundError{
		CliError:    newCliError(nil, "command not found: %q in %q", commandName, commandsDir),
		CommandName: commandName,
		CommandsDir: commandsDir,
	}
}

// MissingDefaultExportError means the ModuleLoader resolved a path but
// returned a nil module.
type MissingDefaultExportError struct {
	*CliError
	Path string
}

func NewMissingDefaultExportError(path string) *MissingDefaultExportError {
	return &MissingDefaultExportError{
		CliError: newCliError(nil, "module at %q has no default export", path),
		Path:     path,
	}
}

// SubcommandRequiredError is raised by Context after resolution when the
// terminal queued command declares RequiresSubcommand.
type SubcommandRequiredError struct {
	*CliError
	CommandPath string
}

func NewSubcommandRequiredError(commandPath string) *SubcommandRequiredError {
	return &SubcommandRequiredError{
		CliError:    newCliError(nil, "%s requires a subcommand", commandPath),
		CommandPath: commandPath,
	}
}

// ClientError wraps an error that the Client has already printed. The Run
// facade returns this rather than rethrowing it, since printing it again
// would duplicate the message on screen.
type ClientError struct {
	*CliError
}

func NewClientError(cause error) *ClientError {
	return &ClientError{CliError: newCliError(cause, "%v", cause)}
}

// PluginError is raised when a plugin's init fails, or when two plugins
// register under the same name on one Context.
type PluginError struct {
	*CliError
	Plugin string
}

func NewPluginError(plugin string, cause error) *PluginError {
	return &PluginError{
		CliError: newCliError(cause, "plugin %q: %v", plugin, cause),
		Plugin:   plugin,
	}
}

// ModuleError is a distinguishable error a ModuleLoader may return; the
// resolver surfaces it intact rather than wrapping it in NotFoundError.
type ModuleError struct {
	*CliError
	Path string
}

func NewModuleError(path string, cause error) *ModuleError {
	return &ModuleError{
		CliError: newCliError(cause, "loading module %q: %v", path, cause),
		Path:     path,
	}
}

// wrapFrame attaches a file:line frame to err using xerrors, used at
// plugin and hook boundaries where a bare fmt.Errorf would lose the
// call site once the error crosses a replaced-error hook.
func wrapFrame(err error) error {
	if err == nil {
		return nil
	}
	return xerrors.Errorf("%w", err)
}
