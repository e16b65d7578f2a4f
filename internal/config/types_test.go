// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}

	tests := []struct {
		name     string
		mutate   func(*Config)
		sentinel error
	}{
		{"bad format", func(c *Config) { c.DocumentFormat = "xml" }, ErrInvalidDocumentFormat},
		{"zero jobs", func(c *Config) { c.Jobs = 0 }, ErrInvalidJobs},
		{"too many jobs", func(c *Config) { c.Jobs = MaxJobs + 1 }, ErrInvalidJobs},
		{"bad ignore pattern", func(c *Config) { c.Ignore = []string{"tokens/["} }, ErrInvalidIgnorePattern},
		{"bad color scheme", func(c *Config) { c.UI.ColorScheme = "neon" }, ErrInvalidColorScheme},
		{"bad output format", func(c *Config) { c.UI.Format = "html" }, ErrInvalidOutputFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Validate() = %v, want it to wrap %v", err, tt.sentinel)
			}
		})
	}
}

func TestConfig_ValidateCollectsAll(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MetadataDir = " "
	cfg.Jobs = 0
	cfg.Git.BaseRef = ""

	var cfgErr *InvalidConfigError
	if err := cfg.Validate(); !errors.As(err, &cfgErr) || len(cfgErr.FieldErrors) != 3 {
		t.Errorf("Validate() = %v, want 3 field errors", err)
	}
}

func TestDocumentFormat_Extension(t *testing.T) {
	t.Parallel()

	for f, want := range map[DocumentFormat]string{FormatJSON: ".json", FormatYAML: ".yaml", FormatTOML: ".toml", FormatCUE: ".cue"} {
		if got := f.Extension(); got != want {
			t.Errorf("%s.Extension() = %q, want %q", f, got, want)
		}
	}
}
