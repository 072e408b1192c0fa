package waymark

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// configOptionKey is the flag a config-file plugin adds so a path can
// also be supplied on the command line, overriding whatever default the
// plugin was constructed with.
const configOptionKey = "config"

// LoadYAMLConfig reads a YAML document at path (expanding a leading "~")
// and converts it into OptionValues against schema, coercing each value
// to the OptionDecl's declared type the same way Parse does for flags,
// generalized from the teacher's single-command OptionSet.UnmarshalYAML
// to a schema built from merged OptionsConfig.
func LoadYAMLConfig(path string, schema *OptionsConfig) (OptionValues, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path %q: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", expanded, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, NewUsageError(configOptionKey, err, "parsing config %q: %v", expanded, err)
	}

	out := OptionValues{}
	for rawKey, rawVal := range raw {
		key, ok := schema.Canonical(rawKey)
		if !ok {
			continue
		}
		decl, _ := schema.Get(key)
		v, err := coerceConfigValue(decl, rawVal)
		if err != nil {
			return nil, NewUsageError(key, err, "config %q: %s: %v", expanded, key, err)
		}
		out[key] = v
	}

	return out, nil
}

func coerceConfigValue(decl *OptionDecl, raw any) (any, error) {
	val := newValue(decl.Type)
	switch decl.Type {
	case TypeArrayString:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a list")
		}
		for _, item := range items {
			if err := val.Set(fmt.Sprintf("%v", item)); err != nil {
				return nil, err
			}
		}
	case TypeArrayNumber:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a list")
		}
		for _, item := range items {
			if err := val.Set(fmt.Sprintf("%v", item)); err != nil {
				return nil, err
			}
		}
	default:
		if err := val.Set(fmt.Sprintf("%v", raw)); err != nil {
			return nil, err
		}
	}
	return extractValue(decl.Type, val), nil
}

// NewConfigPlugin loads defaultPath (or whatever --config points to) as
// a YAML config file and seeds its values into the Context's option
// values before parse runs, so CLI flags still take precedence (§4.2,
// §10's config-file-support ambient concern). A missing file at
// defaultPath is not an error; an explicit --config that fails to load
// is.
func NewConfigPlugin(defaultPath string) *Plugin {
	return NewPlugin(Plugin{
		Name:        "config",
		Version:     "1.0.0",
		Description: "merges a YAML config file's values as option defaults",
		Init: func(ctx *Context) error {
			if err := ctx.SetOptions(OptionDecl{
				Key:         configOptionKey,
				Type:        TypeString,
				Flag:        configOptionKey,
				Description: "path to a YAML config file",
				Default:     defaultPath,
				Group:       &Group{Name: "Config"},
				Annotations: Annotations{}.Mark("plugin", "config"),
			}); err != nil {
				return err
			}

			ctx.Hooks().On(HookBeforeParse, func(payload any) error {
				// beforeParse fires before the full parse pass runs, so an
				// explicit --config on the command line isn't in
				// ctx.OptionValues() yet; scan for it directly.
				path := defaultPath
				scoped := NewOptionsConfig(OptionDecl{Key: configOptionKey, Type: TypeString, Flag: configOptionKey})
				if pr, err := Parse(ctx.CommandString(), scoped, false); err == nil {
					if v, ok := pr.Options[configOptionKey]; ok {
						if s, ok := v.(string); ok && s != "" {
							path = s
						}
					}
				}
				if path == "" {
					return nil
				}

				values, err := LoadYAMLConfig(path, ctx.Options())
				if err != nil {
					if errors.Is(err, os.ErrNotExist) && path == defaultPath {
						return nil
					}
					return err
				}
				for k, v := range values {
					ctx.optionValues[k] = v
				}
				return nil
			})

			return nil
		},
	})
}

// SaveYAMLConfig writes values to path as YAML, replacing its contents
// atomically so a crash or concurrent read never observes a partially
// written config file. A command that persists option values back to
// disk (e.g. a "config set") is the natural write-side counterpart to
// LoadYAMLConfig/NewConfigPlugin.
func SaveYAMLConfig(path string, values OptionValues) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expanding config path %q: %w", path, err)
	}

	data, err := yaml.Marshal(map[string]any(values))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return atomic.WriteFile(expanded, bytes.NewReader(data))
}
