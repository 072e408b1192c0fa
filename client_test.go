package waymark_test

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waymark-cli/waymark"
)

func newBufferedDefaultClient(input string) (*waymark.DefaultClient, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	client := &waymark.DefaultClient{
		Out: &out,
		Err: &errOut,
		In:  bufio.NewReader(strings.NewReader(input)),
	}
	return client, &out, &errOut
}

func TestDefaultClient_PromptRetriesOnValidateFailure(t *testing.T) {
	t.Parallel()

	client, _, errOut := newBufferedDefaultClient("\nAda\n")
	v, err := client.Prompt(waymark.PromptSpec{
		Type:    waymark.PromptText,
		Message: "name",
		Validate: func(v any) error {
			s, _ := v.(string)
			return waymark.ValidateNotEmpty(s)
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Ada", v)
	require.Contains(t, errOut.String(), "must be provided")
}

func TestOptionsGetter_RequiredStringDefaultsToNotEmptyValidator(t *testing.T) {
	t.Parallel()

	loader := waymark.NewMapLoader()
	loader.Add("commands/a", &waymark.CommandModule{
		Options: waymark.NewOptionsConfig(waymark.OptionDecl{Key: "name", Type: waymark.TypeString, Required: true}),
		Handler: func(p *waymark.HandlerPayload) error {
			v, err := p.Options["name"]()
			if err != nil {
				return err
			}
			p.End(v)
			return nil
		},
	})

	client, _, _ := newBufferedDefaultClient("\nAda\n")
	ctx, err := waymark.NewContext("a", "commands", loader, waymark.WithClient(client))
	require.NoError(t, err)
	require.NoError(t, ctx.Prepare())

	result, err := ctx.Execute(nil)
	require.NoError(t, err)
	require.Equal(t, "Ada", result)
}
