package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/waymark-cli/waymark"
)

// echoModule is the catch-all leaf for `echo <text...>`, registered at
// commands/echo/[...text] so every trailing token becomes params["text"]
// per the directory convention in §6.
var echoModule = &waymark.CommandModule{
	Description: waymark.Long(
		"Prints the given text to the console.",
		waymark.Example{Description: "Shout it", Command: "echo hello there --upper"},
	),
	Options: waymark.NewOptionsConfig(waymark.OptionDecl{
		Key:         "upper",
		Type:        waymark.TypeBool,
		Flag:        "upper",
		Description: "Prints the text in upper case.",
		Default:     "false",
	}),
	Handler: func(p *waymark.HandlerPayload) error {
		tokens, _ := p.Params["text"].([]string)

		var words []string
		for _, t := range tokens {
			if strings.HasPrefix(t, "-") {
				continue
			}
			words = append(words, t)
		}
		if len(words) == 0 {
			p.Client.Error("echo", "missing text")
			return fmt.Errorf("missing text")
		}

		text := strings.Join(words, " ")
		if upper, _ := p.Options["upper"](); upper == true {
			text = strings.ToUpper(text)
		}

		p.Client.Info("echo", text)
		p.End(text)
		return nil
	},
}

func main() {
	loader := waymark.NewMapLoader().Add("commands/echo/[...text]", echoModule)

	result, err := waymark.Run(waymark.RunParams{
		CommandsDir: "commands",
		Loader:      loader,
		Plugins:     []*waymark.Plugin{waymark.NewHelpPlugin()},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	_ = result
}
