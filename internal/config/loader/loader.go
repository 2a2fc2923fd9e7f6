// Package loader reads graphnudge settings sources.
//
// Settings files (TOML or YAML, chosen by extension) and GRAPHNUDGE_*
// environment variables are each read into a generic map. The config
// package layers the maps with Merge and decodes the result.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads one settings source. A source that does not exist yields
// nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// Format is the syntax of a settings file.
type Format int

const (
	FormatUnknown Format = iota
	FormatTOML
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// FileLoader loads one settings file.
type FileLoader struct {
	path   string
	format Format
}

// ForPath returns a loader for path, or nil when the extension names no
// supported format.
func ForPath(path string) *FileLoader {
	f := FormatOf(path)
	if f == FormatUnknown {
		return nil
	}
	return &FileLoader{path: path, format: f}
}

// Path returns the file path.
func (l *FileLoader) Path() string { return l.path }

// Format returns the file format.
func (l *FileLoader) Format() Format { return l.format }

// Load reads and parses the file. A missing file is not an error.
func (l *FileLoader) Load() (map[string]any, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", l.path, err)
	}
	return Parse(l.format, l.path, data)
}

// Parse decodes data of the given format. source names the data in
// errors.
func Parse(format Format, source string, data []byte) (map[string]any, error) {
	switch format {
	case FormatTOML:
		return parseTOML(source, data)
	case FormatYAML:
		return parseYAML(source, data)
	default:
		return nil, fmt.Errorf("%s: unsupported settings format", source)
	}
}

// ParseError reports malformed settings data. Line and Column are zero
// when the parser gives no position.
type ParseError struct {
	Source string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %v", e.Source, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	_ Loader = (*FileLoader)(nil)
	_ Loader = (*EnvLoader)(nil)
)
