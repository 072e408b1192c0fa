package waymark

import "fmt"

// RequireNArgs returns a Handler that enforces Params["args"] (a
// []string left over after route-param extraction, conventionally
// populated by a `[...name]` rest segment) has exactly n entries before
// calling Next, grounded on the teacher's RequireNArgs/RequireRangeArgs
// middleware over cobra's positional Args.
func RequireNArgs(n int) Handler {
	return RequireRangeArgs(n, n)
}

// RequireRangeArgs enforces min <= len(args) <= max; max < 0 means no
// upper bound.
func RequireRangeArgs(min, max int) Handler {
	return func(p *HandlerPayload) error {
		args := argsOf(p)
		if len(args) < min || (max >= 0 && len(args) > max) {
			return NewUsageError("args", nil, "%s", argCountMessage(min, max, len(args)))
		}
		p.Next(p.Data)
		return nil
	}
}

func argsOf(p *HandlerPayload) []string {
	v, ok := p.Params["args"]
	if !ok {
		return nil
	}
	switch args := v.(type) {
	case []string:
		return args
	case []any:
		out := make([]string, 0, len(args))
		for _, a := range args {
			out = append(out, fmt.Sprintf("%v", a))
		}
		return out
	default:
		return nil
	}
}

func argCountMessage(min, max, got int) string {
	switch {
	case max < 0:
		return fmt.Sprintf("requires at least %d arg(s), received %d", min, got)
	case min == max:
		return fmt.Sprintf("requires exactly %d arg(s), received %d", min, got)
	default:
		return fmt.Sprintf("requires between %d and %d arg(s), received %d", min, max, got)
	}
}
