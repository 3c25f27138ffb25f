package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"kanso/internal/unused"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("MissingFileReturnsDefaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "kanso.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("ParsesExplicitSettings", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kanso.yaml")
		contents := `
unused:
  enabled: true
  valueAssigned:
    severity: error
    fix: preferUnusedLocal
  parameter:
    severity: hidden
`
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.Unused.Enabled)
		assert.True(t, *cfg.Unused.Enabled)
		assert.Equal(t, "error", cfg.Unused.ValueAssigned.Severity)
		assert.Equal(t, "preferUnusedLocal", cfg.Unused.ValueAssigned.Fix)
		assert.Equal(t, "hidden", cfg.Unused.Parameter.Severity)
	})

	t.Run("MalformedYAMLIsAnError", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kanso.yaml")
		require.NoError(t, os.WriteFile(path, []byte("unused: [this is not a map"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestStaticOptionsProvider(t *testing.T) {
	ctx := context.Background()
	method := unused.MethodContext{Name: "transfer"}

	t.Run("DefaultsToWarningAndDiscard", func(t *testing.T) {
		p := NewStaticOptionsProvider(DefaultConfig())
		pref, err := p.Preference(ctx, unused.DiagnosticValueUnused, method)
		require.NoError(t, err)
		assert.Equal(t, unused.SeverityWarning, pref.Severity)
		assert.Equal(t, unused.PreferDiscard, pref.Kind)
	})

	t.Run("DisabledAtTheTopLevelHidesEverything", func(t *testing.T) {
		cfg := DefaultConfig()
		off := false
		cfg.Unused.Enabled = &off
		p := NewStaticOptionsProvider(cfg)

		pref, err := p.Preference(ctx, unused.DiagnosticExpressionUnused, method)
		require.NoError(t, err)
		assert.Equal(t, unused.SeverityHidden, pref.Severity)
	})

	t.Run("UnrecognizedDiagnosticIDIsHidden", func(t *testing.T) {
		p := NewStaticOptionsProvider(DefaultConfig())
		pref, err := p.Preference(ctx, "someFutureDiagnostic", method)
		require.NoError(t, err)
		assert.Equal(t, unused.SeverityHidden, pref.Severity)
	})

	t.Run("ParameterSectionHonorsPreferUnusedLocal", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Unused.Parameter = DiagnosticConfig{Severity: "suggestion", Fix: "preferUnusedLocal"}
		p := NewStaticOptionsProvider(cfg)

		pref, err := p.Preference(ctx, unused.DiagnosticParameterUnused, method)
		require.NoError(t, err)
		assert.Equal(t, unused.SeveritySuggestion, pref.Severity)
		assert.Equal(t, unused.PreferUnusedLocal, pref.Kind)
	})

	t.Run("UnknownStringsFailOpen", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Unused.ValueAssigned = DiagnosticConfig{Severity: "catastrophic", Fix: "rewriteEverything"}
		p := NewStaticOptionsProvider(cfg)

		pref, err := p.Preference(ctx, unused.DiagnosticValueUnused, method)
		require.NoError(t, err)
		assert.Equal(t, unused.SeverityWarning, pref.Severity)
		assert.Equal(t, unused.PreferDiscard, pref.Kind)
	})
}
