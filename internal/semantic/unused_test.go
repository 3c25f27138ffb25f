package semantic

import (
	"context"
	"testing"

	"kanso/internal/parser"
	"kanso/internal/unused"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alwaysPreference answers every Preference query the same way,
// letting a test pin severity/kind without building a kanso.yaml file.
type alwaysPreference struct {
	pref unused.Preference
}

func (p alwaysPreference) Preference(context.Context, string, unused.MethodContext) (unused.Preference, error) {
	return p.pref, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestAnalyzeUnusedValues(t *testing.T) {
	t.Run("FlagsDeadLocal", func(t *testing.T) {
		source := `contract Test {
			ext fn test() {
				let dead = 42;
			}
		}`
		contract, parseErrors, _ := parser.ParseSource("test.ka", source)
		require.Empty(t, parseErrors)

		options := alwaysPreference{pref: unused.Preference{Severity: unused.SeverityWarning, Kind: unused.PreferDiscard}}
		diags, err := AnalyzeUnusedValues(context.Background(), contract, options, testLogger())
		require.NoError(t, err)

		var found bool
		for _, d := range diags {
			if d.ID == unused.DiagnosticValueUnused {
				found = true
			}
		}
		assert.True(t, found, "expected a VALUE_UNUSED diagnostic for 'dead'")
	})

	t.Run("SilentWhenEverythingIsRead", func(t *testing.T) {
		source := `contract Test {
			ext fn test() -> U256 {
				let used = 42;
				return used;
			}
		}`
		contract, parseErrors, _ := parser.ParseSource("test.ka", source)
		require.Empty(t, parseErrors)

		options := alwaysPreference{pref: unused.Preference{Severity: unused.SeverityWarning, Kind: unused.PreferDiscard}}
		diags, err := AnalyzeUnusedValues(context.Background(), contract, options, testLogger())
		require.NoError(t, err)
		assert.Empty(t, diags)
	})

	t.Run("HiddenSeveritySuppressesEveryDiagnostic", func(t *testing.T) {
		source := `contract Test {
			ext fn test() {
				let dead = 42;
			}
		}`
		contract, parseErrors, _ := parser.ParseSource("test.ka", source)
		require.Empty(t, parseErrors)

		options := alwaysPreference{pref: unused.Preference{Severity: unused.SeverityHidden}}
		diags, err := AnalyzeUnusedValues(context.Background(), contract, options, testLogger())
		require.NoError(t, err)
		assert.Empty(t, diags)
	})

	t.Run("PublishedEntryPointParameterIsASuggestionNotAWarning", func(t *testing.T) {
		source := `contract Test {
			ext fn test(amount: U256) -> U256 {
				return 1;
			}
		}`
		contract, parseErrors, _ := parser.ParseSource("test.ka", source)
		require.Empty(t, parseErrors)

		options := alwaysPreference{pref: unused.Preference{Severity: unused.SeverityWarning, Kind: unused.PreferDiscard}}
		diags, err := AnalyzeUnusedValues(context.Background(), contract, options, testLogger())
		require.NoError(t, err)

		var paramDiag *unused.Diagnostic
		for i := range diags {
			if diags[i].ID == unused.DiagnosticParameterUnused {
				paramDiag = &diags[i]
			}
		}
		require.NotNil(t, paramDiag, "expected a PARAM_UNUSED diagnostic for 'amount'")
		assert.Equal(t, unused.SeveritySuggestion, paramDiag.Severity)
	})

	t.Run("NilContractIsANoop", func(t *testing.T) {
		options := alwaysPreference{pref: unused.Preference{Severity: unused.SeverityWarning}}
		diags, err := AnalyzeUnusedValues(context.Background(), nil, options, testLogger())
		require.NoError(t, err)
		assert.Empty(t, diags)
	})
}
