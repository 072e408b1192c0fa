package waymark

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/coder/pretty"
	"github.com/mitchellh/go-wordwrap"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// --- styling helpers, grounded on the teacher's help.go --------------------

func ttyWidth() int {
	width, _, err := term.GetSize(0)
	if err != nil {
		return 80
	}
	return width
}

func wrapTTY(s string) string {
	return wordwrap.WrapString(s, uint(ttyWidth()))
}

var (
	helpColorProfile termenv.Profile
	helpColorOnce    sync.Once
)

func helpColor(s string) termenv.Color {
	helpColorOnce.Do(func() {
		helpColorProfile = termenv.NewOutput(os.Stdout).ColorProfile()
		if flag.Lookup("test.v") != nil {
			helpColorProfile = termenv.Ascii
		}
	})
	return helpColorProfile.Color(s)
}

func prettyHeader(s string) string {
	headerFg := pretty.FgColor(helpColor("#337CA0"))
	s = strings.ToUpper(s)
	txt := pretty.String(s, ":")
	headerFg.Format(txt)
	return txt.String()
}

func keyword(s string) string {
	optionFg := pretty.FgColor(helpColor("#04A777"))
	txt := pretty.String(s)
	optionFg.Format(txt)
	return txt.String()
}

// --- help rendering ---------------------------------------------------------

// renderHelp builds the usage text for the resolved queue on a Context,
// walking ResolvedCommand instead of the teacher's static Command tree,
// since this model resolves one module at a time rather than holding a
// tree of children up front (§4.9).
func renderHelp(ctx *Context) string {
	var b strings.Builder

	path := commandPathString(ctx)
	fmt.Fprintf(&b, "%s\n", prettyHeader("usage"))
	fmt.Fprintf(&b, "  %s [options]\n\n", keyword(path))

	if len(ctx.Queue()) > 0 {
		last := ctx.Queue()[len(ctx.Queue())-1]
		if last.Command.Description != "" {
			fmt.Fprintf(&b, "%s\n", wrapTTY(last.Command.Description))
			b.WriteString("\n")
		}
	}

	keys := ctx.Options().Keys()
	if len(keys) > 0 {
		sort.Strings(keys)
		writeGroupedOptions(&b, ctx, keys)
	}

	return b.String()
}

// writeGroupedOptions renders each option under its Group's full name
// (§3's Group hierarchy), falling back to a plain "options" header for
// ungrouped decls, so plugin-contributed options (config, help) are
// visually set apart from a command's own.
func writeGroupedOptions(b *strings.Builder, ctx *Context, keys []string) {
	var ungrouped []string
	grouped := map[string][]string{}
	var groupOrder []string

	for _, k := range keys {
		decl, ok := ctx.Options().Get(k)
		if !ok || decl.Hidden {
			continue
		}
		if decl.Group == nil {
			ungrouped = append(ungrouped, k)
			continue
		}
		name := decl.Group.FullName()
		if _, seen := grouped[name]; !seen {
			groupOrder = append(groupOrder, name)
		}
		grouped[name] = append(grouped[name], k)
	}

	if len(ungrouped) > 0 {
		fmt.Fprintf(b, "%s\n", prettyHeader("options"))
		for _, k := range ungrouped {
			decl, _ := ctx.Options().Get(k)
			writeOptionLine(b, decl)
		}
	}

	for _, name := range groupOrder {
		fmt.Fprintf(b, "%s\n", prettyHeader(name+" options"))
		for _, k := range grouped[name] {
			decl, _ := ctx.Options().Get(k)
			writeOptionLine(b, decl)
		}
	}
}

func commandPathString(ctx *Context) string {
	var parts []string
	for _, rc := range ctx.Queue() {
		parts = append(parts, rc.CommandName)
	}
	if len(parts) == 0 {
		return ctx.CommandString()
	}
	return strings.Join(parts, " ")
}

func writeOptionLine(b *strings.Builder, decl *OptionDecl) {
	flagName := decl.flag()
	head := "--" + flagName
	if decl.FlagShorthand != "" {
		head = "-" + decl.FlagShorthand + ", " + head
	}
	if len(decl.Choices) > 0 {
		head += " " + strings.Join(decl.Choices, "|")
	} else if decl.Type != TypeBool {
		head += " " + decl.Type.String()
	}
	fmt.Fprintf(b, "  %s\n", keyword(head))
	if decl.Description != "" {
		fmt.Fprintf(b, "      %s\n", wrapTTY(decl.Description))
	}
	if decl.Required {
		b.WriteString("      (required)\n")
	}
	if decl.Default != "" {
		fmt.Fprintf(b, "      %s\n", KeyValuePair("default", decl.Default))
	}
	if url, ok := decl.Annotations.Get("docs"); ok {
		fmt.Fprintf(b, "      %s\n", Hyperlink(url))
	}
}

// helpOptionKeys are the canonical key/shorthand the Help plugin adds to
// every Context's schema.
const (
	helpOptionKey       = "help"
	helpOptionShorthand = "h"
)

// NewHelpPlugin is the built-in help plugin (§4.9): adds a boolean
// `--help`/`-h` option, short-circuits resolution once only help flags
// remain, skips execution when help was requested (or a UsageError was
// captured), and renders help text on afterExecute.
func NewHelpPlugin() *Plugin {
	var usageErr *UsageError

	return NewPlugin(Plugin{
		Name:        "help",
		Version:     "1.0.0",
		Description: "renders usage text for the resolved command",
		Init: func(ctx *Context) error {
			if err := ctx.SetOptions(OptionDecl{
				Key:           helpOptionKey,
				Type:          TypeBool,
				Alias:         []string{helpOptionShorthand},
				Flag:          helpOptionKey,
				FlagShorthand: helpOptionShorthand,
				Description:   "show usage text for this command",
				Default:       "false",
				Group:         &Group{Name: "Global"},
				Annotations:   Annotations{}.Mark("plugin", "help").Mark("docs", "https://github.com/waymark-cli/waymark#help"),
			}); err != nil {
				return err
			}

			ctx.Hooks().On(HookBeforeResolve, func(payload any) error {
				p := payload.(*BeforeResolvePayload)
				if onlyHelpFlags(p.RemainingCommandString) {
					// Nothing left to resolve but help flags: skip this
					// step's resolveFn (there's no command name token left
					// for it to find) and stop the loop here.
					p.Skip()
					p.StopResolving()
				}
				return nil
			})

			ctx.Hooks().On(HookBeforeError, func(payload any) error {
				p := payload.(*BeforeErrorPayload)
				var ue *UsageError
				if asUsageError(p.Error, &ue) {
					usageErr = ue
					p.Ignore()
				}
				return nil
			})

			ctx.Hooks().On(HookBeforeExecute, func(payload any) error {
				p := payload.(*BeforeExecutePayload)
				if helpRequested(ctx) || usageErr != nil {
					p.SetResultAndSkip(nil)
				}
				return nil
			})

			ctx.Hooks().On(HookAfterExecute, func(payload any) error {
				p := payload.(*AfterExecutePayload)
				text := renderHelp(ctx)
				if helpRequested(ctx) {
					ctx.Client().Info("", text)
					return nil
				}
				if usageErr != nil {
					ctx.Client().Error(usageErr.Message)
					ctx.Client().Info("", text)
					p.SetResult(usageErr)
				}
				return nil
			})

			return nil
		},
	})
}

func helpRequested(ctx *Context) bool {
	v, ok := ctx.OptionValues()[helpOptionKey]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func onlyHelpFlags(remaining string) bool {
	tokens := SplitTokens(remaining)
	for _, t := range tokens {
		switch t {
		case "--help", "-h", "--no-help":
			continue
		default:
			return false
		}
	}
	return true
}

func asUsageError(err error, target **UsageError) bool {
	return errors.As(err, target)
}
