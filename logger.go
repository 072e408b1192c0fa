package waymark

import (
	"context"
	"os"
	"sync"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
)

// Process-global logger switches. Last writer wins; concurrent use from
// more than one Context in the same process is the caller's concern
// (§5's shared-mutable-state note).
var (
	loggerMu      sync.Mutex
	loggerEnabled = true
)

// SetLoggerEnabled toggles the Logger plugin's hook handlers process-wide.
func SetLoggerEnabled(enabled bool) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	loggerEnabled = enabled
}

// ToggleLogger flips the current enable state and returns the new value.
func ToggleLogger() bool {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	loggerEnabled = !loggerEnabled
	return loggerEnabled
}

func loggerIsEnabled() bool {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return loggerEnabled
}

// LoggerOptions configures NewLoggerPlugin.
type LoggerOptions struct {
	// FileSink, when non-empty, appends each record as a line to this
	// path in addition to the stderr console handler.
	FileSink string
}

// NewLoggerPlugin registers observational handlers on the core hooks
// that emit structured slog records (§4.9). It never mutates control
// flow: it only reads payload fields and never calls Skip/Cancel.
func NewLoggerPlugin(opts LoggerOptions) *Plugin {
	return NewPlugin(Plugin{
		Name:        "logger",
		Version:     "1.0.0",
		Description: "emits structured log records for core lifecycle events",
		Init: func(ctx *Context) error {
			logger := newPluginLogger(opts)
			bg := context.Background()

			observe := func(event string) HookFunc {
				return func(payload any) error {
					if !loggerIsEnabled() {
						return nil
					}
					logger.Info(bg, event)
					return nil
				}
			}

			ctx.Hooks().On(HookBeforeResolve, observe("beforeResolve"))
			ctx.Hooks().On(HookAfterResolve, observe("afterResolve"))
			ctx.Hooks().On(HookBeforeParse, observe("beforeParse"))
			ctx.Hooks().On(HookAfterParse, observe("afterParse"))
			ctx.Hooks().On(HookBeforeExecute, observe("beforeExecute"))
			ctx.Hooks().On(HookBeforeCommand, func(payload any) error {
				if !loggerIsEnabled() {
					return nil
				}
				p := payload.(*BeforeCommandPayload)
				name := ""
				if p.State.Command() != nil {
					name = p.State.Command().CommandName
				}
				logger.Info(bg, "beforeCommand", slog.F("command", name))
				return nil
			})
			ctx.Hooks().On(HookAfterCommand, observe("afterCommand"))
			ctx.Hooks().On(HookAfterExecute, observe("afterExecute"))
			ctx.Hooks().On(HookBeforeError, func(payload any) error {
				if !loggerIsEnabled() {
					return nil
				}
				p := payload.(*BeforeErrorPayload)
				logger.Error(bg, "beforeError", slog.Error(p.Error))
				return nil
			})

			return nil
		},
	})
}

// newPluginLogger builds a slog.Logger over a human-readable console
// sink, plus an optional file sink, grounded on the teacher's go.mod
// dependency on cdr.dev/slog (present but unexercised by the retrieved
// files) — the Logger plugin is exactly the component that gives it a
// home.
func newPluginLogger(opts LoggerOptions) slog.Logger {
	sinks := []slog.Sink{sloghuman.Sink(os.Stderr)}

	if opts.FileSink != "" {
		f, err := os.OpenFile(opts.FileSink, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			sinks = append(sinks, sloghuman.Sink(f))
		}
	}

	return slog.Make(sinks...)
}
