package main

import (
	"fmt"
	"os"

	"github.com/waymark-cli/waymark"
)

// greetModule is a pass-through parent ("commands/greet/"): its
// RequiresSubcommand forces a SubcommandRequiredError when invoked
// bare, demonstrating §4.3's terminal-queue-entry check.
var greetModule = &waymark.CommandModule{
	Description:        "Greet someone.",
	RequiresSubcommand: true,
}

// helloModule is a single-param leaf: `greet <name>`.
var helloModule = &waymark.CommandModule{
	Description: "Say hello to name.",
	Handler: func(p *waymark.HandlerPayload) error {
		name, _ := p.Params["name"].(string)
		if get, ok := p.Options["name"]; ok && name == "" {
			v, _ := get(waymark.OptGetOpts{Prompt: "Who should I greet?"})
			name, _ = v.(string)
		}
		p.Client.Info("greet", fmt.Sprintf("Hello, %v!", name))
		p.End(name)
		return nil
	},
}

func main() {
	loader := waymark.NewMapLoader().
		Add("commands/greet", greetModule).
		Add("commands/greet/[name]", helloModule)

	result, err := waymark.Run(waymark.RunParams{
		CommandsDir: "commands",
		Loader:      loader,
		Plugins: []*waymark.Plugin{
			waymark.NewConfigPlugin(""),
			waymark.NewLoggerPlugin(waymark.LoggerOptions{}),
			waymark.NewHelpPlugin(),
		},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	_ = result
}
