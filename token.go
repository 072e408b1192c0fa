package waymark

import "strings"

// SplitTokens partitions s on delim, except that a token opened with an
// unescaped '"' swallows every following sub-token until a closing '"'.
// Inner quotes are stripped from the result; an escaped \" inside a
// quoted span becomes a literal ".
func SplitTokens(s string, delim ...rune) []string {
	d := ' '
	if len(delim) > 0 {
		d = delim[0]
	}

	if s == "" {
		return nil
	}

	var (
		tokens []string
		cur    strings.Builder
		inQuote bool
		haveCur bool
	)

	flush := func() {
		if haveCur {
			tokens = append(tokens, cur.String())
			cur.Reset()
			haveCur = false
		}
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes) && runes[i+1] == '"':
			cur.WriteRune('"')
			haveCur = true
			i++
		case r == '"':
			inQuote = !inQuote
			haveCur = true
		case r == d && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
			haveCur = true
		}
	}
	flush()

	return tokens
}

// JoinTokensOpts controls JoinTokens formatting.
type JoinTokensOpts struct {
	Delimiter    rune
	WrapInQuotes bool
}

func defaultJoinTokensOpts() JoinTokensOpts {
	return JoinTokensOpts{Delimiter: ' ', WrapInQuotes: true}
}

// flattenTokens recursively flattens arbitrarily nested []string/[]any
// arguments, dropping empty strings.
func flattenTokens(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		var out []string
		for _, s := range t {
			out = append(out, flattenTokens(s)...)
		}
		return out
	case []any:
		var out []string
		for _, s := range t {
			out = append(out, flattenTokens(s)...)
		}
		return out
	default:
		return nil
	}
}

// JoinTokens flattens arbitrarily nested token lists, drops empty
// strings, and wraps any token containing the delimiter in quotes
// (escaping inner quotes) when there's more than one token and
// WrapInQuotes is set. An JoinTokensOpts value may be passed as the
// final argument; otherwise defaults apply.
func JoinTokens(args ...any) string {
	opts := defaultJoinTokensOpts()
	if len(args) > 0 {
		if o, ok := args[len(args)-1].(JoinTokensOpts); ok {
			opts = o
			args = args[:len(args)-1]
		}
	}

	var tokens []string
	for _, a := range args {
		tokens = append(tokens, flattenTokens(a)...)
	}

	delim := string(opts.Delimiter)
	quoted := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if opts.WrapInQuotes && len(tokens) > 1 && strings.ContainsRune(t, opts.Delimiter) {
			escaped := strings.ReplaceAll(t, `"`, `\"`)
			t = `"` + escaped + `"`
		}
		quoted = append(quoted, t)
	}
	return strings.Join(quoted, delim)
}
