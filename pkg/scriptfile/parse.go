// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

const (
	// CatchAllName is the reserved argument name declaring the catch-all sink.
	CatchAllName = "..."

	directiveMarker    = "#@"
	descriptionKeyword = "description:"
	argKeyword         = "arg:"
	flagKeyword        = "flag:"
	// boolKeyword is a deprecated alias: `#@bool:x - d` equals `#@flag:x - d [bool]`.
	boolKeyword = "bool:"
)

// ErrInvalidDirective is returned when a metadata directive cannot be parsed.
var ErrInvalidDirective = errors.New("invalid metadata directive")

// nameRegex restricts argument and flag names to letters, digits,
// hyphens and underscores.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type (
	// DirectiveError reports a malformed or conflicting metadata directive,
	// identifying the offending file and line. It wraps ErrInvalidDirective
	// for errors.Is() compatibility.
	DirectiveError struct {
		Path   string
		Line   int
		Reason string
	}

	// declaration records where an arg/flag name was declared, keyed by the
	// environment variable it maps onto.
	declaration struct {
		name string
		line int
	}

	// parser holds the state of one metadata parse.
	parser struct {
		path    string
		cmd     *Command
		names   map[string]declaration // env-normalized name -> declaration
		descSet bool
	}
)

// Error implements the error interface for DirectiveError.
func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DirectiveError) Unwrap() error {
	return ErrInvalidDirective
}

// Parse reads a script file and parses its leading metadata comment block
// into a Command schema. The returned Command has Path set; the registry
// fills in the namespace-qualified Name.
func Parse(path string) (*Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() // Read-only handle; close error non-critical

	return ParseMetadata(path, f)
}

// ParseMetadata parses the leading metadata comment block from r.
//
// The block consists of the consecutive comment lines at the top of the
// file (a shebang on the first line is skipped). Plain `#` comments inside
// the block are ignored; `#@` lines are directives and must be well formed.
// The block ends at the first line that is not a comment.
func ParseMetadata(path string, r io.Reader) (*Command, error) {
	p := &parser{
		path:  path,
		cmd:   &Command{Path: path},
		names: make(map[string]declaration),
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if lineNo == 1 && strings.HasPrefix(line, "#!") {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			break // end of the leading comment block
		}
		if !strings.HasPrefix(line, directiveMarker) {
			continue // plain comment inside the block
		}

		if err := p.parseDirective(lineNo, strings.TrimPrefix(line, directiveMarker)); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}

	return p.cmd, nil
}

// parseDirective dispatches one `#@` line to its handler.
func (p *parser) parseDirective(line int, body string) error {
	body = strings.TrimSpace(body)

	switch {
	case strings.HasPrefix(body, descriptionKeyword):
		return p.parseDescription(line, strings.TrimPrefix(body, descriptionKeyword))
	case strings.HasPrefix(body, argKeyword):
		return p.parseArg(line, strings.TrimPrefix(body, argKeyword))
	case strings.HasPrefix(body, flagKeyword):
		return p.parseFlag(line, strings.TrimPrefix(body, flagKeyword), false)
	case strings.HasPrefix(body, boolKeyword):
		return p.parseFlag(line, strings.TrimPrefix(body, boolKeyword), true)
	default:
		return p.errf(line, "unknown directive %q", directiveMarker+body)
	}
}

// parseDescription handles `#@description: <text>`. Duplicates are rejected.
func (p *parser) parseDescription(line int, text string) error {
	if p.descSet {
		return p.errf(line, "duplicate #@description directive")
	}
	p.descSet = true
	p.cmd.Description = strings.TrimSpace(text)
	return nil
}

// parseArg handles `#@arg:<name> - <text> [attrs]` and the catch-all form
// `#@arg:... - <text>`.
func (p *parser) parseArg(line int, body string) error {
	name, desc, ok := splitNameDesc(body)
	if !ok {
		return p.errf(line, "#@arg directive must have the form '#@arg:<name> - <description>'")
	}

	if name == CatchAllName {
		if p.cmd.CatchAll != nil {
			return p.errf(line, "duplicate catch-all declaration (#@arg:...)")
		}
		if _, _, hasAttrs := splitDirectiveBody(desc); hasAttrs {
			return p.errf(line, "the catch-all (#@arg:...) does not accept bracket options")
		}
		p.cmd.CatchAll = &CatchAll{Description: desc}
		return nil
	}

	if p.cmd.CatchAll != nil {
		return p.errf(line, "argument %q declared after the catch-all; the catch-all must be last", name)
	}
	if err := p.declareName(line, name); err != nil {
		return err
	}

	arg := Argument{Name: name}
	text, attrText, hasAttrs := splitDirectiveBody(desc)
	arg.Description = text

	if hasAttrs {
		attrs, err := parseAttrList(attrText)
		if err != nil {
			return p.errf(line, "argument %q: %v", name, err)
		}
		for _, a := range attrs {
			switch {
			case a.key == "default" && a.hasValue:
				arg.DefaultValue = a.value
				arg.HasDefault = true
			default:
				return p.errf(line, "argument %q: unknown bracket option %q", name, a.key)
			}
		}
	}

	p.cmd.Args = append(p.cmd.Args, arg)
	return nil
}

// parseFlag handles `#@flag:<name> - <text> [attrs]`. legacyBool marks the
// deprecated `#@bool:` spelling, which implies the bool kind.
func (p *parser) parseFlag(line int, body string, legacyBool bool) error {
	name, desc, ok := splitNameDesc(body)
	if !ok {
		return p.errf(line, "#@flag directive must have the form '#@flag:<name> - <description>'")
	}
	if err := p.declareName(line, name); err != nil {
		return err
	}

	flag := Flag{Name: name}
	if legacyBool {
		flag.Kind = KindBool
	}

	text, attrText, hasAttrs := splitDirectiveBody(desc)
	flag.Description = text

	if hasAttrs {
		attrs, err := parseAttrList(attrText)
		if err != nil {
			return p.errf(line, "flag %q: %v", name, err)
		}
		for _, a := range attrs {
			if err := p.applyFlagAttr(line, &flag, a); err != nil {
				return err
			}
		}
	}

	return p.finishFlag(line, flag)
}

// applyFlagAttr applies one bracket option to a flag draft.
func (p *parser) applyFlagAttr(line int, flag *Flag, a attr) error {
	switch a.key {
	case "default":
		if !a.hasValue {
			return p.errf(line, "flag %q: 'default' requires a value (default:<value>)", flag.Name)
		}
		flag.DefaultValue = a.value
		flag.HasDefault = true
	case "required":
		if a.hasValue {
			return p.errf(line, "flag %q: 'required' does not take a value", flag.Name)
		}
		flag.Required = true
	case "bool", "file", "dir", "path":
		if a.hasValue {
			return p.errf(line, "flag %q: %q does not take a value", flag.Name, a.key)
		}
		if flag.Kind != "" && flag.Kind != FlagKind(a.key) {
			return p.errf(line, "flag %q: conflicting kinds %q and %q", flag.Name, flag.Kind, a.key)
		}
		flag.Kind = FlagKind(a.key)
	case "options":
		if !a.hasValue {
			return p.errf(line, "flag %q: 'options' requires a value (options:a|b|c)", flag.Name)
		}
		members, err := parseOptionSet(a.value)
		if err != nil {
			return p.errf(line, "flag %q: %v", flag.Name, err)
		}
		flag.Options = members
	default:
		return p.errf(line, "flag %q: unknown bracket option %q", flag.Name, a.key)
	}
	return nil
}

// finishFlag enforces the cross-option invariants and records the flag.
func (p *parser) finishFlag(line int, flag Flag) error {
	if flag.Required && flag.HasDefault {
		return p.errf(line, "flag %q cannot be both required and have a default", flag.Name)
	}
	if flag.IsBool() && len(flag.Options) > 0 {
		return p.errf(line, "flag %q: 'options' cannot be combined with the bool kind", flag.Name)
	}
	if flag.IsBool() && flag.HasDefault && flag.DefaultValue != "true" && flag.DefaultValue != "false" {
		return p.errf(line, "flag %q: bool default must be 'true' or 'false', got %q", flag.Name, flag.DefaultValue)
	}

	p.cmd.Flags = append(p.cmd.Flags, flag)
	return nil
}

// declareName validates a name and records it in the shared arg/flag
// namespace. The namespace is keyed by the environment variable a name maps
// onto (hyphens become underscores), so `dry-run` and `dry_run` collide just
// like two spellings of the same name would.
func (p *parser) declareName(line int, name string) error {
	if !nameRegex.MatchString(name) {
		return p.errf(line, "invalid name %q (allowed characters: letters, digits, '-', '_')", name)
	}

	key := strings.ReplaceAll(name, "-", "_")
	if prev, dup := p.names[key]; dup {
		if prev.name == name {
			return p.errf(line, "duplicate declaration of %q (first declared on line %d)", name, prev.line)
		}
		return p.errf(line, "declaration of %q collides with %q on line %d (both map onto the same environment variable)", name, prev.name, prev.line)
	}

	p.names[key] = declaration{name: name, line: line}
	return nil
}

// errf builds a DirectiveError for the current file.
func (p *parser) errf(line int, format string, args ...any) error {
	return &DirectiveError{
		Path:   p.path,
		Line:   line,
		Reason: fmt.Sprintf(format, args...),
	}
}

// splitNameDesc splits `<name> - <description>` at the first " - ".
func splitNameDesc(body string) (name, desc string, ok bool) {
	name, desc, found := strings.Cut(body, " - ")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(desc), true
}
