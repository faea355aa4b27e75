// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shutl/pkg/scriptfile"
)

const (
	// NamespaceDescriptionFile is the file inside a subdirectory that holds
	// the description shown for that namespace.
	NamespaceDescriptionFile = ".shutl"
)

var (
	// ErrCommandCollision is the sentinel wrapped by CommandCollisionError.
	ErrCommandCollision = errors.New("command name collision")
	// ErrNotFound is the sentinel wrapped by NotFoundError.
	ErrNotFound = errors.New("command not found")
)

// interpreterExtensions maps the script extensions that are trimmed from
// command names to the interpreter used for non-executable files.
var interpreterExtensions = map[string]string{
	".sh": "bash",
	".py": "python3",
	".rb": "ruby",
	".js": "node",
}

type (
	// CommandCollisionError is returned when two scripts resolve to the same
	// command name, or a script name matches a namespace directory. Collisions
	// abort the scan: silently shadowing one of the scripts would make the
	// tree nondeterministic.
	CommandCollisionError struct {
		Name       string
		FirstPath  string
		SecondPath string
	}

	// NotFoundError is returned when a command path does not resolve.
	NotFoundError struct {
		Name string
	}

	// CommandInfo describes one discovered command.
	CommandInfo struct {
		// Name is the full command name with namespace segments joined by
		// spaces (e.g., "deploy staging").
		Name string
		// Segments is Name split into path segments.
		Segments []string
		// Path is the absolute path to the script file.
		Path string
		// Description is the script's #@description text.
		Description string
		// Command is the parsed argument schema. Nil when Err is set.
		Command *scriptfile.Command
		// Executable reports whether the file carries an executable bit.
		// Non-executable scripts run through the interpreter for their
		// extension.
		Executable bool
		// Interpreter is the interpreter program for the file extension
		// ("" for files with no recognized extension).
		Interpreter string
		// Err holds the metadata parse failure, if any. A command with a
		// parse failure stays resolvable so invoking it can report the error
		// instead of "not found".
		Err error
	}

	// Namespace describes a subdirectory of the scripts dir.
	Namespace struct {
		// Name is the full namespace name with segments joined by spaces.
		Name string
		// Segments is Name split into path segments.
		Segments []string
		// Path is the absolute path to the directory.
		Path string
		// Description is the content of the directory's .shutl file, if any.
		Description string
	}

	// CommandSet is the complete discovered command tree.
	CommandSet struct {
		// Commands is sorted by Name.
		Commands []*CommandInfo
		// Namespaces is sorted by Name.
		Namespaces []*Namespace

		byName map[string]*CommandInfo
	}

	// Discovery scans a scripts directory into a CommandSet.
	Discovery struct {
		root string
	}
)

// Error implements the error interface for CommandCollisionError.
func (e *CommandCollisionError) Error() string {
	return fmt.Sprintf(
		"command name collision: %q is provided by both:\n  - %s\n  - %s\n\nRename one of the files to disambiguate",
		e.Name, e.FirstPath, e.SecondPath)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *CommandCollisionError) Unwrap() error {
	return ErrCommandCollision
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command %q not found", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// New creates a Discovery rooted at the given scripts directory.
func New(root string) *Discovery {
	return &Discovery{root: root}
}

// Root returns the scripts directory this Discovery scans.
func (d *Discovery) Root() string {
	return d.root
}

// Scan walks the scripts directory and builds the command tree.
//
// A regular file becomes a command when it is executable or has a recognized
// interpreter extension; anything else is skipped with a diagnostic. Metadata
// is parsed eagerly; parse failures are recorded on the CommandInfo and
// reported as diagnostics, but the command stays in the tree so invoking it
// surfaces the parse error. Name collisions abort the scan.
func (d *Discovery) Scan() (*ScanResult, error) {
	root, err := filepath.Abs(d.root)
	if err != nil {
		return nil, fmt.Errorf("resolve scripts dir: %w", err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("scripts dir %s: %w", root, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("scripts dir %s is not a directory", root)
	}

	set := &CommandSet{byName: make(map[string]*CommandInfo)}
	result := &ScanResult{Set: set}
	namespacePaths := make(map[string]*Namespace) // dir path -> namespace

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     "walk_failed",
				Message:  fmt.Sprintf("cannot read %s", path),
				Path:     path,
				Cause:    err,
			})
			return nil
		}
		if path == root {
			return nil
		}

		name := entry.Name()

		if entry.IsDir() {
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			ns := &Namespace{
				Path:     path,
				Segments: relSegments(root, path),
			}
			ns.Name = strings.Join(ns.Segments, " ")
			namespacePaths[path] = ns
			set.Namespaces = append(set.Namespaces, ns)
			return nil
		}

		if name == NamespaceDescriptionFile {
			d.applyNamespaceDescription(result, namespacePaths, path)
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		return d.registerFile(result, root, path, entry)
	})
	if walkErr != nil {
		return nil, walkErr
	}

	// A command name that equals a namespace name would make the tree
	// ambiguous ("deploy" the script vs "deploy" the directory).
	for _, ns := range set.Namespaces {
		if cmd, exists := set.byName[ns.Name]; exists {
			return nil, &CommandCollisionError{Name: ns.Name, FirstPath: ns.Path, SecondPath: cmd.Path}
		}
	}

	sort.Slice(set.Commands, func(i, j int) bool { return set.Commands[i].Name < set.Commands[j].Name })
	sort.Slice(set.Namespaces, func(i, j int) bool { return set.Namespaces[i].Name < set.Namespaces[j].Name })

	return result, nil
}

// registerFile turns one regular file into a CommandInfo, or records a
// diagnostic for files that cannot run.
func (d *Discovery) registerFile(result *ScanResult, root, path string, entry fs.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     "stat_failed",
			Message:  fmt.Sprintf("cannot stat %s", path),
			Path:     path,
			Cause:    err,
		})
		return nil
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	executable := info.Mode().Perm()&0o111 != 0
	interpreter := interpreterExtensions[filepath.Ext(path)]
	if !executable && interpreter == "" {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     "script_skipped",
			Message:  fmt.Sprintf("%s is not executable and has no recognized interpreter extension", path),
			Path:     path,
		})
		return nil
	}

	cmd := &CommandInfo{
		Path:        path,
		Segments:    relSegments(root, trimExtension(path)),
		Executable:  executable,
		Interpreter: interpreter,
	}
	cmd.Name = strings.Join(cmd.Segments, " ")

	if prev, exists := result.Set.byName[cmd.Name]; exists {
		return &CommandCollisionError{Name: cmd.Name, FirstPath: prev.Path, SecondPath: path}
	}

	schema, parseErr := scriptfile.Parse(path)
	if parseErr != nil {
		cmd.Err = parseErr
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Severity: SeverityError,
			Code:     "metadata_parse_failed",
			Message:  parseErr.Error(),
			Path:     path,
			Cause:    parseErr,
		})
	} else {
		schema.Name = cmd.Name
		cmd.Command = schema
		cmd.Description = schema.Description
	}

	result.Set.byName[cmd.Name] = cmd
	result.Set.Commands = append(result.Set.Commands, cmd)
	return nil
}

// applyNamespaceDescription reads a .shutl file and attaches its content to
// the enclosing namespace. A .shutl file directly in the root is ignored.
func (d *Discovery) applyNamespaceDescription(result *ScanResult, namespaces map[string]*Namespace, path string) {
	ns, ok := namespaces[filepath.Dir(path)]
	if !ok {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     "namespace_description_unreadable",
			Message:  fmt.Sprintf("cannot read %s", path),
			Path:     path,
			Cause:    err,
		})
		return
	}

	ns.Description = strings.TrimSpace(string(data))
}

// Resolve finds a command by its exact path segments. No fuzzy matching.
func (s *CommandSet) Resolve(segments []string) (*CommandInfo, error) {
	name := strings.Join(segments, " ")
	if cmd, ok := s.byName[name]; ok {
		return cmd, nil
	}
	return nil, &NotFoundError{Name: name}
}

// Namespace finds a namespace by its exact path segments.
func (s *CommandSet) Namespace(segments []string) (*Namespace, bool) {
	name := strings.Join(segments, " ")
	for _, ns := range s.Namespaces {
		if ns.Name == name {
			return ns, true
		}
	}
	return nil, false
}

// trimExtension drops a recognized interpreter extension from a script path.
func trimExtension(path string) string {
	ext := filepath.Ext(path)
	if _, known := interpreterExtensions[ext]; known {
		return strings.TrimSuffix(path, ext)
	}
	return path
}

// relSegments splits path relative to root into its path segments.
func relSegments(root, path string) []string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return []string{filepath.Base(path)}
	}
	return strings.Split(rel, string(filepath.Separator))
}
