// https://github.com/coder/coder/blob/main/LICENSE
// Extracted and modified from github.com/coder/coder
package waymark

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"golang.org/x/exp/constraints"
)

// parseNumeric is shared by numberValue and arrayNumberValue so both
// number and array<number> OptionDecls go through one constrained
// parse path, grounded on the teacher's use of golang.org/x/exp/
// constraints for ascendingSortFn.
func parseNumeric[T constraints.Float](s string) (T, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return T(f), nil
}

// OptionType enumerates the value kinds an OptionDecl may declare.
type OptionType int

const (
	TypeString OptionType = iota
	TypeNumber
	TypeBool
	TypeArrayString
	TypeArrayNumber
)

func (t OptionType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeArrayString:
		return "array<string>"
	case TypeArrayNumber:
		return "array<number>"
	default:
		return "unknown"
	}
}

// ValidateFunc returns true when v is acceptable, or a diagnostic message
// explaining why it is not.
type ValidateFunc func(v any) (bool, string)

// OptionDecl is a single option declaration (§3).
type OptionDecl struct {
	Key         string
	Type        OptionType
	Alias       []string
	Description string
	Default     string
	Required    bool
	Choices     []string
	Conflicts   []string
	Requires    []string
	Validate    ValidateFunc
	Group       *Group
	Annotations Annotations
	Hidden      bool

	// Flag/FlagShorthand customize the long/short flag tokens; if unset
	// they default to Key and the empty shorthand.
	Flag          string
	FlagShorthand string
}

func (o *OptionDecl) flag() string {
	if o.Flag != "" {
		return o.Flag
	}
	return o.Key
}

// OptionsConfig is an insertion-ordered mapping of canonical key to
// OptionDecl (§3). The zero value is ready to use.
type OptionsConfig struct {
	order      []string
	decls      map[string]*OptionDecl
	aliasToKey map[string]string
}

func NewOptionsConfig(decls ...OptionDecl) *OptionsConfig {
	oc := &OptionsConfig{}
	for _, d := range decls {
		oc.Add(d)
	}
	return oc
}

func (oc *OptionsConfig) init() {
	if oc.decls == nil {
		oc.decls = make(map[string]*OptionDecl)
		oc.aliasToKey = make(map[string]string)
	}
}

// Add inserts decl, or overwrites the existing decl of the same key
// keeping its original position (later wins silently, per §3's
// invariant, provided it does not contradict an earlier Conflicts set).
func (oc *OptionsConfig) Add(decl OptionDecl) error {
	oc.init()
	d := decl
	if existing, ok := oc.decls[d.Key]; ok {
		if conflictsWith(existing.Conflicts, d.Key) {
			return fmt.Errorf("option %q contradicts an earlier conflicts declaration", d.Key)
		}
		oc.decls[d.Key] = &d
		oc.reindexAliases(d)
		return nil
	}
	oc.order = append(oc.order, d.Key)
	oc.decls[d.Key] = &d
	oc.reindexAliases(d)
	return nil
}

func (oc *OptionsConfig) reindexAliases(d OptionDecl) {
	oc.aliasToKey[d.Key] = d.Key
	for _, a := range d.Alias {
		oc.aliasToKey[a] = d.Key
	}
}

func conflictsWith(conflicts []string, key string) bool {
	for _, c := range conflicts {
		if c == key {
			return true
		}
	}
	return false
}

// Merge shallow-merges other into oc, in other's insertion order.
// Plugin-contributed schemas merge first, then commands, in resolution
// order (§4.2); callers control that ordering by calling Merge in the
// right sequence.
func (oc *OptionsConfig) Merge(other *OptionsConfig) error {
	if other == nil {
		return nil
	}
	var merr *multierror.Error
	for _, k := range other.order {
		if err := oc.Add(*other.decls[k]); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}

// Keys returns the canonical keys in insertion order.
func (oc *OptionsConfig) Keys() []string {
	out := make([]string, len(oc.order))
	copy(out, oc.order)
	return out
}

// Get returns the decl for key or an alias of key.
func (oc *OptionsConfig) Get(key string) (*OptionDecl, bool) {
	if oc.decls == nil {
		return nil, false
	}
	canon, ok := oc.aliasToKey[key]
	if !ok {
		return nil, false
	}
	d, ok := oc.decls[canon]
	return d, ok
}

// Canonical resolves an alias (or the key itself) to its canonical key.
func (oc *OptionsConfig) Canonical(key string) (string, bool) {
	if oc.aliasToKey == nil {
		return "", false
	}
	canon, ok := oc.aliasToKey[key]
	return canon, ok
}

// OptionValues is a mapping from canonical key to a parsed value.
type OptionValues map[string]any

func (ov OptionValues) clone() OptionValues {
	out := make(OptionValues, len(ov))
	for k, v := range ov {
		out[k] = v
	}
	return out
}

// --- pflag.Value backing types -------------------------------------------------

type stringValue struct{ v *string }

func newStringValue() *stringValue    { var s string; return &stringValue{&s} }
func (s *stringValue) String() string { return *s.v }
func (s *stringValue) Set(v string) error {
	*s.v = v
	return nil
}
func (s *stringValue) Type() string { return "string" }

type boolValue struct{ v *bool }

func newBoolValue() *boolValue      { var b bool; return &boolValue{&b} }
func (b *boolValue) String() string { return strconv.FormatBool(*b.v) }
func (b *boolValue) Set(v string) error {
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	*b.v = parsed
	return nil
}
func (b *boolValue) Type() string          { return "bool" }
func (b *boolValue) IsBoolFlag() bool      { return true }
func (b *boolValue) NoOptDefValue() string { return "true" }

type numberValue struct{ v *float64 }

func newNumberValue() *numberValue { var f float64; return &numberValue{&f} }
func (n *numberValue) String() string {
	return strconv.FormatFloat(*n.v, 'g', -1, 64)
}
func (n *numberValue) Set(v string) error {
	f, err := parseNumeric[float64](v)
	if err != nil {
		return err
	}
	*n.v = f
	return nil
}
func (n *numberValue) Type() string { return "number" }

type arrayStringValue struct{ v *[]string }

func newArrayStringValue() *arrayStringValue { return &arrayStringValue{&[]string{}} }
func (a *arrayStringValue) String() string   { return strings.Join(*a.v, ",") }
func (a *arrayStringValue) Set(v string) error {
	*a.v = append(*a.v, strings.Split(v, ",")...)
	return nil
}
func (a *arrayStringValue) Type() string { return "stringArray" }

type arrayNumberValue struct{ v *[]float64 }

func newArrayNumberValue() *arrayNumberValue { return &arrayNumberValue{&[]float64{}} }
func (a *arrayNumberValue) String() string {
	parts := make([]string, len(*a.v))
	for i, f := range *a.v {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
func (a *arrayNumberValue) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		f, err := parseNumeric[float64](part)
		if err != nil {
			return err
		}
		*a.v = append(*a.v, f)
	}
	return nil
}
func (a *arrayNumberValue) Type() string { return "numberArray" }

// newValue allocates the pflag.Value backing a decl's type.
func newValue(t OptionType) pflag.Value {
	switch t {
	case TypeString:
		return newStringValue()
	case TypeBool:
		return newBoolValue()
	case TypeNumber:
		return newNumberValue()
	case TypeArrayString:
		return newArrayStringValue()
	case TypeArrayNumber:
		return newArrayNumberValue()
	default:
		return newStringValue()
	}
}

// extractValue converts a pflag.Value back into its Go-native shape for
// OptionValues/OptionsGetter consumption.
func extractValue(t OptionType, val pflag.Value) any {
	switch t {
	case TypeString:
		return val.(*stringValue).String()
	case TypeBool:
		return *val.(*boolValue).v
	case TypeNumber:
		return *val.(*numberValue).v
	case TypeArrayString:
		return append([]string{}, *val.(*arrayStringValue).v...)
	case TypeArrayNumber:
		return append([]float64{}, *val.(*arrayNumberValue).v...)
	default:
		return val.String()
	}
}
