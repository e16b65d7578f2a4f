// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/tokenregistry/metacheck/pkg/rules"
)

const (
	// TokensDir holds token metadata documents.
	TokensDir = "tokens"
	// ContractsDir holds contract metadata documents.
	ContractsDir = "contracts"
	// IgnoreFileName is the registry-specific ignore file read next to .gitignore.
	IgnoreFileName = ".metacheckignore"

	schemaInfix = ".schema."
)

var (
	// ErrUnknownDocumentType is returned when a file's type cannot be inferred
	// from its location and none was given explicitly.
	ErrUnknownDocumentType = errors.New("unknown document type")
	// ErrFileNotFound is returned when an explicit path does not exist.
	ErrFileNotFound = errors.New("metadata file not found")
)

type (
	// Entry is one document on the worklist.
	Entry struct {
		// Path is the file path as it should be opened and reported.
		Path string
		// Type selects the rule set family.
		Type rules.RuleSetType
	}

	// Options configures a Discovery.
	Options struct {
		// Root is the registry directory containing tokens/ and contracts/.
		Root string
		// Extension is the document extension considered by All and Changed (e.g. ".json").
		Extension string
		// Ignore are doublestar patterns, relative to Root, excluded from All and Changed.
		Ignore []string
		Logger *log.Logger
	}

	// Discovery resolves worklists against one registry root.
	Discovery struct {
		root    string
		ext     string
		ignore  []string
		matcher ignoreMatcher
		logger  *log.Logger
		diags   []Diagnostic
	}

	// UnknownDocumentTypeError is returned when a path is outside tokens/ and contracts/.
	// It wraps ErrUnknownDocumentType for errors.Is() compatibility.
	UnknownDocumentTypeError struct {
		Path string
	}

	// FileNotFoundError is returned by Resolve for paths that do not exist.
	// It wraps ErrFileNotFound for errors.Is() compatibility.
	FileNotFoundError struct {
		Path string
	}
)

// Error implements the error interface.
func (e *UnknownDocumentTypeError) Error() string {
	return fmt.Sprintf("%s: cannot infer document type (expected a path under %s/ or %s/, or pass --type)", e.Path, TokensDir, ContractsDir)
}

// Unwrap returns ErrUnknownDocumentType so callers can use errors.Is for programmatic detection.
func (e *UnknownDocumentTypeError) Unwrap() error { return ErrUnknownDocumentType }

// Error implements the error interface.
func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("%s: metadata file not found", e.Path)
}

// Unwrap returns ErrFileNotFound so callers can use errors.Is for programmatic detection.
func (e *FileNotFoundError) Unwrap() error { return ErrFileNotFound }

// New creates a Discovery for opts.Root. Ignore files at the root are read
// once here; read failures become diagnostics.
func New(opts Options) (*Discovery, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	for _, pat := range opts.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("discovery: invalid ignore pattern %q", pat)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	d := &Discovery{
		root:   root,
		ext:    opts.Extension,
		ignore: slices.Clone(opts.Ignore),
		logger: logger,
	}
	d.matcher, d.diags = loadIgnoreFiles(root)
	return d, nil
}

// Root returns the registry root.
func (d *Discovery) Root() string { return d.root }

// Diagnostics returns the non-fatal problems collected so far.
func (d *Discovery) Diagnostics() []Diagnostic { return slices.Clone(d.diags) }

// TypeOf infers the document type from the nearest tokens/ or contracts/
// directory in path.
func TypeOf(path string) (rules.RuleSetType, bool) {
	dir := filepath.Dir(filepath.Clean(path))
	for {
		switch filepath.Base(dir) {
		case TokensDir:
			return rules.TypeToken, true
		case ContractsDir:
			return rules.TypeContract, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Resolve turns command-line arguments into entries. An argument that does not
// exist as given is retried inside the type's directory under the root, so
// "abc.json" with typ token resolves to <root>/tokens/abc.json. typ may be
// empty, in which case it is inferred per file.
func (d *Discovery) Resolve(args []string, typ rules.RuleSetType) ([]Entry, error) {
	entries := make([]Entry, 0, len(args))
	for _, arg := range args {
		path, err := d.locate(arg, typ)
		if err != nil {
			return nil, err
		}

		t := typ
		if t == "" {
			var ok bool
			if t, ok = TypeOf(path); !ok {
				return nil, &UnknownDocumentTypeError{Path: arg}
			}
		}
		d.logger.Debug("resolved metadata file", "arg", arg, "path", path, "type", t)
		entries = append(entries, Entry{Path: path, Type: t})
	}
	return entries, nil
}

func (d *Discovery) locate(arg string, typ rules.RuleSetType) (string, error) {
	if fileExists(arg) {
		return arg, nil
	}

	var candidates []string
	switch typ {
	case rules.TypeToken:
		candidates = []string{filepath.Join(d.root, TokensDir, arg)}
	case rules.TypeContract:
		candidates = []string{filepath.Join(d.root, ContractsDir, arg)}
	case "":
		candidates = []string{
			filepath.Join(d.root, TokensDir, arg),
			filepath.Join(d.root, ContractsDir, arg),
		}
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c, nil
		}
	}
	return "", &FileNotFoundError{Path: arg}
}

// All lists every document under tokens/ and contracts/ with the configured
// extension, sorted by path. typ restricts the listing to one directory when
// non-empty.
func (d *Discovery) All(typ rules.RuleSetType) ([]Entry, error) {
	var entries []Entry
	for _, dir := range typeDirs(typ) {
		pattern := dir + "/**/*" + d.ext
		matches, err := doublestar.Glob(os.DirFS(d.root), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("discovery: glob %q: %w", pattern, err)
		}
		for _, rel := range matches {
			if d.excluded(rel) {
				d.logger.Debug("skipping excluded file", "path", rel)
				continue
			}
			entries = append(entries, Entry{
				Path: filepath.Join(d.root, filepath.FromSlash(rel)),
				Type: dirType(dir),
			})
		}
	}

	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Path, b.Path) })
	d.logger.Debug("discovered metadata files", "root", d.root, "count", len(entries))
	return entries, nil
}

// excluded reports whether rel (slash-separated, relative to the root) is a
// generated schema file, matches an ignore glob, or is excluded by an ignore file.
func (d *Discovery) excluded(rel string) bool {
	if strings.Contains(filepath.Base(rel), schemaInfix) {
		return true
	}
	for _, pat := range d.ignore {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return d.matcher != nil && d.matcher.MatchesPath(rel)
}

func typeDirs(typ rules.RuleSetType) []string {
	switch typ {
	case rules.TypeToken:
		return []string{TokensDir}
	case rules.TypeContract:
		return []string{ContractsDir}
	case "":
		return []string{ContractsDir, TokensDir}
	default:
		// No registry directory holds other document types.
		return nil
	}
}

func dirType(dir string) rules.RuleSetType {
	if dir == ContractsDir {
		return rules.TypeContract
	}
	return rules.TypeToken
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// isNotExist reports whether err means the file is absent.
func isNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }
