package waymark

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
)

// ParseResult is returned by Parse (§4.2).
type ParseResult struct {
	Tokens  []string
	Options OptionValues
}

// flagSetFor builds a pflag.FlagSet bound to fresh storage for every
// decl in schema, returning the FlagSet plus a map back to each decl's
// storage so values can be extracted afterward.
func flagSetFor(schema *OptionsConfig, allowUnknown bool) (*pflag.FlagSet, map[string]pflag.Value) {
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	fs.Usage = func() {}
	fs.ParseErrorsWhitelist.UnknownFlags = allowUnknown

	values := make(map[string]pflag.Value, len(schema.order))
	for _, key := range schema.order {
		decl := schema.decls[key]
		val := newValue(decl.Type)
		values[key] = val
		fs.VarP(val, decl.flag(), decl.FlagShorthand, decl.Description)
		for _, alias := range decl.Alias {
			fs.Var(val, alias, decl.Description)
		}
		if decl.Type == TypeBool {
			fs.Lookup(decl.flag()).NoOptDefVal = "true"
			// --no-key sets boolean to false.
			noVal := &negatedBoolValue{target: val.(*boolValue)}
			fs.Var(noVal, "no-"+decl.flag(), "")
			fs.Lookup("no-" + decl.flag()).NoOptDefVal = "true"
			fs.Lookup("no-" + decl.flag()).Hidden = true
		}
	}
	return fs, values
}

// negatedBoolValue implements `--no-key` by writing the inverse into the
// same boolValue storage as `--key`.
type negatedBoolValue struct {
	target *boolValue
}

func (n *negatedBoolValue) String() string {
	if n.target == nil {
		return "false"
	}
	return fmt.Sprintf("%v", !*n.target.v)
}
func (n *negatedBoolValue) Set(v string) error {
	parsed := v == "true" || v == "1"
	*n.target.v = !parsed
	return nil
}
func (n *negatedBoolValue) Type() string          { return "bool" }
func (n *negatedBoolValue) IsBoolFlag() bool      { return true }
func (n *negatedBoolValue) NoOptDefValue() string { return "true" }

// Parse consumes the full command string against schema. When validate is
// false (used by the resolver to peel leading flags, §4.3 step 4) choice/
// conflict/requires checks are skipped and unknown flags are tolerated.
func Parse(commandString string, schema *OptionsConfig, validate bool) (ParseResult, error) {
	tokens := SplitTokens(commandString)
	return ParseTokens(tokens, schema, validate)
}

// ParseTokens is the token-slice form of Parse.
func ParseTokens(tokens []string, schema *OptionsConfig, validate bool) (ParseResult, error) {
	if schema == nil {
		schema = NewOptionsConfig()
	}

	fs, values := flagSetFor(schema, !validate)

	err := fs.Parse(tokens)
	if err != nil {
		return ParseResult{}, NewUsageError("", err, "parsing flags: %v", err)
	}

	out := OptionValues{}
	for _, key := range schema.order {
		decl := schema.decls[key]
		val := values[key]
		if fl := fs.Lookup(decl.flag()); fl != nil && fl.Changed {
			out[key] = extractValue(decl.Type, val)
			continue
		}
		if noFl := fs.Lookup("no-" + decl.flag()); noFl != nil && noFl.Changed {
			out[key] = extractValue(decl.Type, val)
			continue
		}
	}

	result := ParseResult{Tokens: fs.Args(), Options: out}

	if !validate {
		return result, nil
	}

	if verr := ValidateOptionValues(schema, out); verr != nil {
		return result, verr
	}

	return result, nil
}

// ValidateOptionValues checks choices/conflicts/requires for every
// present value (§4.2). A Required option that is simply absent is not
// an error here — it only fails if read without a prompt (§3, §9).
func ValidateOptionValues(schema *OptionsConfig, values OptionValues) error {
	var merr *multierror.Error

	for _, key := range schema.order {
		decl := schema.decls[key]
		v, present := values[key]
		if !present {
			continue
		}

		if len(decl.Choices) > 0 {
			if !valueInChoices(v, decl.Choices) {
				merr = multierror.Append(merr, NewUsageError(key, nil,
					"%s: must be one of %s", key, strings.Join(decl.Choices, ", ")))
			}
		}

		for _, conflict := range decl.Conflicts {
			if _, ok := values[conflict]; ok {
				merr = multierror.Append(merr, NewUsageError(key, nil,
					"%s conflicts with %s", key, conflict))
			}
		}

		for _, req := range decl.Requires {
			if _, ok := values[req]; !ok {
				merr = multierror.Append(merr, NewUsageError(key, nil,
					"%s requires %s", key, req))
			}
		}

		if decl.Validate != nil {
			if ok, msg := decl.Validate(v); !ok {
				merr = multierror.Append(merr, NewUsageError(key, nil, "%s: %s", key, msg))
			}
		}
	}

	return merr.ErrorOrNil()
}

func valueInChoices(v any, choices []string) bool {
	s := fmt.Sprintf("%v", v)
	for _, c := range choices {
		if c == s {
			return true
		}
	}
	return false
}
