package waymark

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ResolvedCommand is one step of the routed queue (§3).
type ResolvedCommand struct {
	Command                *CommandModule
	CommandName             string
	CommandPath             string
	CommandTokens           []string
	RemainingCommandString  string
	SubcommandsDir          string
	Params                  map[string]any

	resolveNext func() (*ResolvedCommand, bool, error)
}

// ResolveNext returns the next ResolvedCommand in the chain, or
// ok=false if there is none (§3).
func (rc *ResolvedCommand) ResolveNext() (next *ResolvedCommand, ok bool, err error) {
	if rc.resolveNext == nil {
		return nil, false, nil
	}
	return rc.resolveNext()
}

// ModuleLoader is the abstract, external collaborator that looks up
// command modules by path (§6). The core makes no assumption about how
// paths map to storage beyond: Load returns (module, found, err);
// IsDir reports whether path names a directory (a resolution step
// consults it only after Load found no module at path, to pick the
// pass-through module, and DefaultCommandsDir uses it to find the root);
// Entries lists the direct children of a directory, used to search
// for route-param segments (§4.3 step 3).
type ModuleLoader interface {
	Load(path string) (mod *CommandModule, found bool, err error)
	IsDir(path string) bool
	Entries(dir string) ([]string, error)
}

var commandNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// validCommandName enforces §4.3 step 2.
func validCommandName(name string) bool {
	if name == "" || strings.HasPrefix(name, "-") {
		return false
	}
	if strings.ContainsAny(name, "/\\") {
		return false
	}
	return commandNameRe.MatchString(name)
}

// joinPath is a loader-agnostic path join: simple, predictable, and
// identical regardless of OS, since paths here are opaque tokens handed
// to a ModuleLoader rather than real filesystem paths.
func joinPath(dir, name string) string {
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// flagArity reports whether a flag token (long or short, without its
// leading dashes) is known in schema and, if so, whether it consumes a
// following token as its value.
func flagArity(token string, schema *OptionsConfig) (known bool, takesValue bool) {
	name := strings.TrimLeft(token, "-")
	if strings.Contains(name, "=") {
		return true, false // value is inline, nothing more to consume
	}
	name = strings.TrimPrefix(name, "no-")
	if schema == nil {
		return false, true
	}
	decl, ok := schema.Get(name)
	if !ok {
		return false, true
	}
	return true, decl.Type != TypeBool
}

// findCommandNameToken scans tokens, skipping flags known to schema
// (and their values), and returns the index of the first remaining
// non-flag token, or -1 if none exists. A bare "--" stops flag parsing;
// everything after it is positional.
func findCommandNameToken(tokens []string, schema *OptionsConfig) int {
	rawMode := false
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if !rawMode && t == "--" {
			rawMode = true
			continue
		}
		if !rawMode && strings.HasPrefix(t, "-") && t != "-" {
			_, takesValue := flagArity(t, schema)
			if takesValue && !strings.Contains(t, "=") && i+1 < len(tokens) {
				i++
			}
			continue
		}
		return i
	}
	return -1
}

// paramSegmentRe matches a loader entry naming a route param segment,
// with an optional file extension stripped by the loader's own
// convention (§6): "[name]" / "[...name]", optionally ".ext"-suffixed.
var paramSegmentRe = regexp.MustCompile(`^\[(\.\.\.)?([A-Za-z0-9_]+)\](\.[A-Za-z0-9]+)?$`)

type paramSegment struct {
	entry  string
	name   string
	spread bool
}

func matchParamSegments(entries []string) []paramSegment {
	var out []paramSegment
	for _, e := range entries {
		m := paramSegmentRe.FindStringSubmatch(e)
		if m == nil {
			continue
		}
		out = append(out, paramSegment{entry: e, name: m[2], spread: m[1] == "..."})
	}
	return out
}

// resolveStep performs one iteration of §4.3's algorithm.
func resolveStep(remaining, commandsDir, parentPath string, knownSchema *OptionsConfig, loader ModuleLoader) (*ResolvedCommand, error) {
	tokens := SplitTokens(remaining)
	if len(tokens) == 0 {
		return nil, NewCommandRequiredError()
	}

	nameIdx := findCommandNameToken(tokens, knownSchema)
	if nameIdx < 0 {
		return nil, NewCommandRequiredError()
	}
	commandName := tokens[nameIdx]

	if !validCommandName(commandName) {
		return nil, NewNotFoundError(commandName, commandsDir)
	}

	rest := tokens[nameIdx+1:]

	var (
		mod            *CommandModule
		subPath        string
		params         = map[string]any{}
		commandTokens  = []string{commandName}
	)

	directPath := joinPath(commandsDir, commandName)
	loaded, found, err := loader.Load(directPath)
	if err != nil {
		return nil, err
	}

	switch {
	case found:
		if loaded == nil {
			return nil, NewMissingDefaultExportError(directPath)
		}
		mod = loaded
		subPath = directPath
	case loader.IsDir(directPath):
		mod = passThroughModule
		subPath = directPath
	default:
		entries, eerr := loader.Entries(commandsDir)
		if eerr != nil {
			return nil, NewNotFoundError(commandName, commandsDir)
		}
		segments := matchParamSegments(entries)
		var matched *paramSegment
		for i := range segments {
			matched = &segments[i]
			break
		}
		if matched == nil {
			return nil, NewNotFoundError(commandName, commandsDir)
		}
		entryPath := joinPath(commandsDir, matched.entry)
		paramMod, pok, perr := loader.Load(entryPath)
		if perr != nil {
			return nil, perr
		}
		if !pok || paramMod == nil {
			return nil, NewMissingDefaultExportError(entryPath)
		}
		mod = paramMod
		subPath = entryPath
		if matched.spread {
			all := append([]string{commandName}, rest...)
			params[matched.name] = all
			commandTokens = append(commandTokens, rest...)
			rest = nil
		} else {
			params[matched.name] = commandName
		}
	}

	mergedSchema := NewOptionsConfig()
	_ = mergedSchema.Merge(knownSchema)
	if mod.Options != nil {
		_ = mergedSchema.Merge(mod.Options)
	}

	remainingStr := ""
	if len(rest) > 0 {
		nextIdx := findCommandNameToken(rest, mergedSchema)
		if nextIdx >= 0 {
			remainingStr = JoinTokens(rest[nextIdx:])
		}
	}

	rc := &ResolvedCommand{
		Command:                mod,
		CommandName:            commandName,
		CommandPath:            strings.TrimSpace(parentPath + " " + commandName),
		CommandTokens:          commandTokens,
		RemainingCommandString: remainingStr,
		SubcommandsDir:         subPath,
		Params:                 params,
	}

	if remainingStr != "" {
		nextPath := rc.CommandPath
		rc.resolveNext = func() (*ResolvedCommand, bool, error) {
			next, err := resolveStep(remainingStr, subPath, nextPath, mergedSchema, loader)
			if err != nil {
				return nil, false, err
			}
			return next, true, nil
		}
	}

	if !mod.isMiddleware() && rc.resolveNext != nil {
		clone := *mod
		clone.Handler = passThroughModule.Handler
		rc.Command = &clone
	}

	return rc, nil
}

// Resolve resolves the first step of commandString against commandsDir
// (§4.3). knownSchema is whatever options are already merged into the
// Context (e.g. from plugins) before resolution begins.
func Resolve(commandString, commandsDir string, knownSchema *OptionsConfig, loader ModuleLoader) (*ResolvedCommand, error) {
	if knownSchema == nil {
		knownSchema = NewOptionsConfig()
	}
	return resolveStep(commandString, commandsDir, "", knownSchema, loader)
}

// DefaultCommandsDir implements the default root directory lookup
// (§4.3): try <cwd>/commands, then <callerDir>/commands, else fail with
// the list of attempted paths.
func DefaultCommandsDir(loader ModuleLoader, callerDir string) (string, error) {
	var attempted []string

	if cwd, err := os.Getwd(); err == nil {
		candidate := joinPath(cwd, "commands")
		attempted = append(attempted, candidate)
		if loader.IsDir(candidate) {
			return candidate, nil
		}
	}

	if callerDir != "" {
		candidate := joinPath(callerDir, "commands")
		attempted = append(attempted, candidate)
		if loader.IsDir(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no commands directory found, attempted: %s", strings.Join(attempted, ", "))
}

// MapLoader is a static ModuleLoader backed by a map, used by tests and
// small embedded tools that don't need a real filesystem (§11).
type MapLoader struct {
	Modules map[string]*CommandModule
	Dirs    map[string]bool
	Dir     map[string][]string
}

func NewMapLoader() *MapLoader {
	return &MapLoader{
		Modules: map[string]*CommandModule{},
		Dirs:    map[string]bool{},
		Dir:     map[string][]string{},
	}
}

// Add registers a module at path, updating directory listings for all
// of path's ancestors so Entries/IsDir stay consistent.
func (m *MapLoader) Add(path string, mod *CommandModule) *MapLoader {
	m.Modules[path] = mod
	m.registerAncestors(path)
	return m
}

// AddDir marks path as an existing directory with no module of its own.
func (m *MapLoader) AddDir(path string) *MapLoader {
	m.Dirs[path] = true
	m.registerAncestors(path)
	return m
}

func (m *MapLoader) registerAncestors(path string) {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		dir := strings.Join(parts[:i], "/")
		name := parts[i]
		found := false
		for _, e := range m.Dir[dir] {
			if e == name {
				found = true
				break
			}
		}
		if !found {
			m.Dir[dir] = append(m.Dir[dir], name)
		}
		m.Dirs[dir] = true
	}
}

func (m *MapLoader) Load(path string) (*CommandModule, bool, error) {
	mod, ok := m.Modules[path]
	return mod, ok, nil
}

func (m *MapLoader) IsDir(path string) bool {
	return m.Dirs[path]
}

func (m *MapLoader) Entries(dir string) ([]string, error) {
	return append([]string(nil), m.Dir[dir]...), nil
}
