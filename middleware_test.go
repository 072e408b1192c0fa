package waymark_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waymark-cli/waymark"
)

func runHandler(t *testing.T, h waymark.Handler, params map[string]any) (*waymark.HandlerPayload, error) {
	t.Helper()
	p := &waymark.HandlerPayload{Params: params, Data: "in"}
	err := h(p)
	return p, err
}

func TestRequireNArgs_ExactMatchAdvances(t *testing.T) {
	t.Parallel()

	h := waymark.RequireNArgs(2)
	_, err := runHandler(t, h, map[string]any{"args": []string{"a", "b"}})
	require.NoError(t, err)
}

func TestRequireNArgs_MismatchErrors(t *testing.T) {
	t.Parallel()

	h := waymark.RequireNArgs(2)
	_, err := runHandler(t, h, map[string]any{"args": []string{"a"}})
	require.Error(t, err)
	var uerr *waymark.UsageError
	require.ErrorAs(t, err, &uerr)
}

func TestRequireRangeArgs_WithinRange(t *testing.T) {
	t.Parallel()

	h := waymark.RequireRangeArgs(1, 3)
	_, err := runHandler(t, h, map[string]any{"args": []string{"a", "b"}})
	require.NoError(t, err)
}

func TestRequireRangeArgs_NoUpperBound(t *testing.T) {
	t.Parallel()

	h := waymark.RequireRangeArgs(1, -1)
	_, err := runHandler(t, h, map[string]any{"args": []string{"a", "b", "c", "d"}})
	require.NoError(t, err)
}

func TestRequireRangeArgs_BelowMinimumErrors(t *testing.T) {
	t.Parallel()

	h := waymark.RequireRangeArgs(2, 4)
	_, err := runHandler(t, h, map[string]any{"args": []string{}})
	require.Error(t, err)
}

func TestRequireRangeArgs_AcceptsAnySliceShape(t *testing.T) {
	t.Parallel()

	h := waymark.RequireNArgs(2)
	_, err := runHandler(t, h, map[string]any{"args": []any{"a", "b"}})
	require.NoError(t, err)
}
