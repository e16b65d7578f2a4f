// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// FormatJSON stores documents as JSON.
	FormatJSON DocumentFormat = "json"
	// FormatYAML stores documents as YAML.
	FormatYAML DocumentFormat = "yaml"
	// FormatTOML stores documents as TOML.
	FormatTOML DocumentFormat = "toml"
	// FormatCUE stores documents as CUE.
	FormatCUE DocumentFormat = "cue"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// OutputText renders results for terminals.
	OutputText OutputFormat = "text"
	// OutputJSON renders results as JSON.
	OutputJSON OutputFormat = "json"
	// OutputMarkdown renders results as a Markdown summary.
	OutputMarkdown OutputFormat = "markdown"

	// MinJobs and MaxJobs bound the worker count.
	MinJobs = 1
	MaxJobs = 64
)

var (
	// ErrInvalidDocumentFormat is returned when a DocumentFormat value is not recognized.
	ErrInvalidDocumentFormat = errors.New("invalid document format")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidJobs is returned when the worker count is out of range.
	ErrInvalidJobs = errors.New("invalid jobs")
	// ErrInvalidIgnorePattern is returned when an ignore pattern is malformed.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// DocumentFormat is the encoding of registry documents.
	DocumentFormat string

	// InvalidDocumentFormatError is returned when a DocumentFormat value is not recognized.
	// It wraps ErrInvalidDocumentFormat for errors.Is() compatibility.
	InvalidDocumentFormatError struct {
		Value DocumentFormat
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// OutputFormat selects the report renderer.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	// It wraps ErrInvalidOutputFormat for errors.Is() compatibility.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// InvalidJobsError is returned when Jobs is outside [MinJobs, MaxJobs].
	InvalidJobsError struct {
		Value int
	}

	// InvalidIgnorePatternError is returned when an ignore pattern is not a valid doublestar glob.
	InvalidIgnorePatternError struct {
		Pattern string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// MetadataDir is the registry root holding tokens/ and contracts/.
		MetadataDir string `json:"metadata_dir" mapstructure:"metadata_dir"`
		// DocumentFormat is the encoding, and file extension, of registry documents.
		DocumentFormat DocumentFormat `json:"document_format" mapstructure:"document_format"`
		// Jobs is the number of documents checked in parallel.
		Jobs int `json:"jobs" mapstructure:"jobs"`
		// Ignore lists doublestar patterns excluded from --all discovery.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
		// Git configures --changed discovery.
		Git GitConfig `json:"git" mapstructure:"git"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// GitConfig configures --changed discovery.
	GitConfig struct {
		// BaseRef is the ref the working tree is compared against.
		BaseRef string `json:"base_ref" mapstructure:"base_ref"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme ("auto", "dark", "light").
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Format selects the report renderer.
		Format OutputFormat `json:"format" mapstructure:"format"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MetadataDir:    "metadata",
		DocumentFormat: FormatJSON,
		Jobs:           4,
		Ignore:         []string{},
		Git: GitConfig{
			BaseRef: "origin/main",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Format:      OutputText,
		},
	}
}

// Error implements the error interface for InvalidDocumentFormatError.
func (e *InvalidDocumentFormatError) Error() string {
	return fmt.Sprintf("invalid document format %q (valid: json, yaml, toml, cue)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidDocumentFormatError) Unwrap() error { return ErrInvalidDocumentFormat }

// String returns the string representation of the DocumentFormat.
func (f DocumentFormat) String() string { return string(f) }

// IsValid returns whether the DocumentFormat is one of the defined formats,
// and a list of validation errors if it is not.
func (f DocumentFormat) IsValid() (bool, []error) {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML, FormatCUE:
		return true, nil
	default:
		return false, []error{&InvalidDocumentFormatError{Value: f}}
	}
}

// Extension returns the file extension, with leading dot, of the format.
func (f DocumentFormat) Extension() string { return "." + string(f) }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes,
// and a list of validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface for InvalidOutputFormatError.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, markdown)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the defined formats,
// and a list of validation errors if it is not.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case OutputText, OutputJSON, OutputMarkdown:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidJobsError.
func (e *InvalidJobsError) Error() string {
	return fmt.Sprintf("invalid jobs %d (must be in range %d-%d)", e.Value, MinJobs, MaxJobs)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidJobsError) Unwrap() error { return ErrInvalidJobs }

// Error implements the error interface for InvalidIgnorePatternError.
func (e *InvalidIgnorePatternError) Error() string {
	return fmt.Sprintf("invalid ignore pattern %q", e.Pattern)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidIgnorePatternError) Unwrap() error { return ErrInvalidIgnorePattern }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the config-level and the field-level sentinels.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks every field and returns an *InvalidConfigError collecting
// all problems, or nil.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.MetadataDir) == "" {
		errs = append(errs, errors.New("metadata_dir must not be empty"))
	}
	if ok, fieldErrs := c.DocumentFormat.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if c.Jobs < MinJobs || c.Jobs > MaxJobs {
		errs = append(errs, &InvalidJobsError{Value: c.Jobs})
	}
	for _, p := range c.Ignore {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, &InvalidIgnorePatternError{Pattern: p})
		}
	}
	if strings.TrimSpace(c.Git.BaseRef) == "" {
		errs = append(errs, errors.New("git.base_ref must not be empty"))
	}
	if ok, fieldErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.UI.Format.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}
