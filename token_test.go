package waymark_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waymark-cli/waymark"
)

func TestSplitTokens(t *testing.T) {
	t.Parallel()

	t.Run("Simple", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, []string{"foo", "bar", "--baz"}, waymark.SplitTokens("foo bar --baz"))
	})

	t.Run("QuotedWithSpaces", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, []string{"greet", "hello world"}, waymark.SplitTokens(`greet "hello world"`))
	})

	t.Run("EscapedQuote", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, []string{`say "hi"`}, waymark.SplitTokens(`"say \"hi\""`))
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, waymark.SplitTokens("   "))
	})
}

func TestJoinTokens(t *testing.T) {
	t.Parallel()

	t.Run("Strings", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "foo bar", waymark.JoinTokens("foo", "bar"))
	})

	t.Run("Slice", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "a b c", waymark.JoinTokens([]string{"a", "b", "c"}))
	})

	t.Run("QuotesSpacedTokens", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, `greet "hello world"`, waymark.JoinTokens("greet", "hello world"))
	})

	t.Run("RoundTrip", func(t *testing.T) {
		t.Parallel()
		original := `greet "hello world" --upper`
		tokens := waymark.SplitTokens(original)
		require.Equal(t, []string{"greet", "hello world", "--upper"}, tokens)
		require.Equal(t, original, waymark.JoinTokens(tokens))
	})
}
