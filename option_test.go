package waymark_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waymark-cli/waymark"
)

func TestOptionsConfig_AddAndGet(t *testing.T) {
	t.Parallel()

	oc := waymark.NewOptionsConfig()
	require.NoError(t, oc.Add(waymark.OptionDecl{Key: "verbose", Type: waymark.TypeBool, Alias: []string{"v"}}))

	decl, ok := oc.Get("verbose")
	require.True(t, ok)
	require.Equal(t, waymark.TypeBool, decl.Type)

	decl, ok = oc.Get("v")
	require.True(t, ok)
	require.Equal(t, "verbose", decl.Key)

	require.Equal(t, []string{"verbose"}, oc.Keys())
}

func TestOptionsConfig_AddOverwriteKeepsPosition(t *testing.T) {
	t.Parallel()

	oc := waymark.NewOptionsConfig()
	require.NoError(t, oc.Add(waymark.OptionDecl{Key: "a", Type: waymark.TypeString}))
	require.NoError(t, oc.Add(waymark.OptionDecl{Key: "b", Type: waymark.TypeString}))
	require.NoError(t, oc.Add(waymark.OptionDecl{Key: "a", Type: waymark.TypeString, Default: "x"}))

	require.Equal(t, []string{"a", "b"}, oc.Keys())
	decl, _ := oc.Get("a")
	require.Equal(t, "x", decl.Default)
}

func TestOptionsConfig_AddRejectsContradictingConflicts(t *testing.T) {
	t.Parallel()

	oc := waymark.NewOptionsConfig()
	require.NoError(t, oc.Add(waymark.OptionDecl{Key: "a", Type: waymark.TypeString, Conflicts: []string{"a"}}))
	err := oc.Add(waymark.OptionDecl{Key: "a", Type: waymark.TypeString})
	require.Error(t, err)
}

func TestOptionsConfig_Merge(t *testing.T) {
	t.Parallel()

	base := waymark.NewOptionsConfig(waymark.OptionDecl{Key: "help", Type: waymark.TypeBool})
	other := waymark.NewOptionsConfig(waymark.OptionDecl{Key: "config", Type: waymark.TypeString})

	require.NoError(t, base.Merge(other))
	require.Equal(t, []string{"help", "config"}, base.Keys())
}

func TestOptionType_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "string", waymark.TypeString.String())
	require.Equal(t, "boolean", waymark.TypeBool.String())
	require.Equal(t, "array<number>", waymark.TypeArrayNumber.String())
}
