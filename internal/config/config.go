// Package config loads the optional kanso.yaml project file that tunes
// how strictly the unused-value analyzer reports and fixes findings.
package config

import (
	"context"
	"fmt"
	"os"

	"kanso/internal/unused"

	"gopkg.in/yaml.v3"
)

// DiagnosticConfig is the user-facing YAML shape for one diagnostic
// kind: how loud to report it, and what remedy to offer alongside the
// report. Both fields are strings in the file so kanso.yaml reads like
// prose ("severity: warning", "fix: preferUnusedLocal") rather than
// needing the reader to know the engine's internal enum values.
type DiagnosticConfig struct {
	Severity string `yaml:"severity,omitempty"`
	Fix      string `yaml:"fix,omitempty"`
}

// UnusedConfig is the kanso.yaml `unused:` block. Enabled is a pointer
// so a missing key is distinguishable from an explicit `enabled: false`
// — both DefaultConfig and an absent file leave it nil, which
// StaticOptionsProvider treats as enabled.
type UnusedConfig struct {
	Enabled         *bool            `yaml:"enabled,omitempty"`
	ValueAssigned   DiagnosticConfig `yaml:"valueAssigned,omitempty"`
	ExpressionValue DiagnosticConfig `yaml:"expressionValue,omitempty"`
	Parameter       DiagnosticConfig `yaml:"parameter,omitempty"`
}

// Config is the root kanso.yaml document. It only has one section
// today; other compiler settings a future kanso.yaml might carry
// (target version, import paths) belong alongside Unused here, not in
// a separate file.
type Config struct {
	Unused UnusedConfig `yaml:"unused,omitempty"`
}

// DefaultConfig is what a project with no kanso.yaml gets: value and
// expression diagnostics at warning severity, parameter diagnostics at
// suggestion severity, all fixed by discarding the offending write, which is the terser rewrite and the one every project with a
// discard symbol can apply without further configuration.
func DefaultConfig() Config {
	warn := DiagnosticConfig{Severity: "warning", Fix: "preferDiscard"}
	return Config{
		Unused: UnusedConfig{
			ValueAssigned:   warn,
			ExpressionValue: warn,
			Parameter:       DiagnosticConfig{Severity: "suggestion", Fix: "preferDiscard"},
		},
	}
}

// Load reads and parses path. A missing file is not an error — kanso.yaml
// is optional project configuration, and a project without one should
// behave exactly as DefaultConfig describes rather than fail to build.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// StaticOptionsProvider answers unused.OptionsProvider.Preference from
// a Config loaded once at startup. It ignores the method argument:
// kanso.yaml has no per-function overrides today, only project-wide
// settings, but the method parameter stays in the interface for a
// future per-file or per-attribute override rule.
type StaticOptionsProvider struct {
	Config Config
}

// NewStaticOptionsProvider wraps cfg for use as an unused.OptionsProvider.
func NewStaticOptionsProvider(cfg Config) *StaticOptionsProvider {
	return &StaticOptionsProvider{Config: cfg}
}

func (p *StaticOptionsProvider) Preference(_ context.Context, diagnosticID string, _ unused.MethodContext) (unused.Preference, error) {
	if p.Config.Unused.Enabled != nil && !*p.Config.Unused.Enabled {
		return unused.Preference{Severity: unused.SeverityHidden}, nil
	}

	var dc DiagnosticConfig
	switch diagnosticID {
	case unused.DiagnosticValueUnused:
		dc = p.Config.Unused.ValueAssigned
	case unused.DiagnosticExpressionUnused:
		dc = p.Config.Unused.ExpressionValue
	case unused.DiagnosticParameterUnused:
		dc = p.Config.Unused.Parameter
	default:
		return unused.Preference{Severity: unused.SeverityHidden}, nil
	}

	return unused.Preference{Severity: parseSeverity(dc.Severity), Kind: parseFixKind(dc.Fix)}, nil
}

// parseSeverity defaults to SeverityWarning on an empty or unrecognized
// string: failing open means a typo in kanso.yaml still reports
// findings instead of silently going quiet.
func parseSeverity(s string) unused.Severity {
	switch s {
	case "hidden":
		return unused.SeverityHidden
	case "suggestion":
		return unused.SeveritySuggestion
	case "error":
		return unused.SeverityError
	case "warning":
		return unused.SeverityWarning
	default:
		return unused.SeverityWarning
	}
}

// parseFixKind defaults to PreferDiscard on an empty or unrecognized
// string, matching DefaultConfig's choice of the terser fix.
func parseFixKind(s string) unused.PreferenceKind {
	switch s {
	case "disabled":
		return unused.Disabled
	case "preferUnusedLocal":
		return unused.PreferUnusedLocal
	case "preferDiscard":
		return unused.PreferDiscard
	default:
		return unused.PreferDiscard
	}
}
