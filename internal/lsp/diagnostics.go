package lsp

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"kanso/internal/parser"
	"kanso/internal/unused"
)

// ConvertParseErrors transforms parser errors into LSP diagnostics for IDE display.
// These provide immediate feedback about syntax issues like missing brackets,
// semicolons, commas in struct declarations, and other parsing problems.
func ConvertParseErrors(parseErrors []parser.ParseError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, parseErr := range parseErrors {
		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(parseErr.Position.Line - 1),   // Convert to 0-based indexing
					Character: uint32(parseErr.Position.Column - 1), // Convert to 0-based indexing
				},
				End: protocol.Position{
					Line:      uint32(parseErr.Position.Line - 1),
					Character: uint32(parseErr.Position.Column + 5), // Rough span for visibility
				},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("kanso-parser"),
			Message:  parseErr.Message,
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

// ConvertScanErrors transforms scanner errors into LSP diagnostics for IDE display.
// These handle tokenization issues like invalid characters, unterminated strings, etc.
func ConvertScanErrors(scanErrors []parser.ScanError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, scanErr := range scanErrors {
		// Use the Length field if available, otherwise default span
		endChar := uint32(scanErr.Position.Column - 1 + scanErr.Length)
		if scanErr.Length == 0 {
			endChar = uint32(scanErr.Position.Column + 3) // Default small span
		}

		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(scanErr.Position.Line - 1),   // Convert to 0-based indexing
					Character: uint32(scanErr.Position.Column - 1), // Convert to 0-based indexing
				},
				End: protocol.Position{
					Line:      uint32(scanErr.Position.Line - 1),
					Character: endChar,
				},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("kanso-scanner"),
			Message:  scanErr.Message,
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

// Legacy function kept for compatibility; it always returns an empty list
func ConvertParseError(err error) []protocol.Diagnostic {
	// The diagnostics are produced by ConvertParseErrors and ConvertScanErrors
	return []protocol.Diagnostic{}
}

// ConvertUnusedDiagnostics transforms unused-value findings into LSP
// diagnostics. Severity is downgraded to Hint for suggestions (a
// published-API parameter the engine can't safely remove on its own)
// so editors don't draw the same squiggle as a hard warning.
func ConvertUnusedDiagnostics(diags []unused.Diagnostic) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, d := range diags {
		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(d.Position.Line - 1),
					Character: uint32(d.Position.Column - 1),
				},
				End: protocol.Position{
					Line:      uint32(d.Position.Line - 1),
					Character: uint32(d.Position.Column + 3),
				},
			},
			Severity: ptrSeverity(unusedSeverityToProtocol(d.Severity)),
			Source:   ptrString("kanso-unused"),
			Message:  fmt.Sprintf("[%s] %s", d.ID, d.Message),
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

func unusedSeverityToProtocol(s unused.Severity) protocol.DiagnosticSeverity {
	switch s {
	case unused.SeverityError:
		return protocol.DiagnosticSeverityError
	case unused.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case unused.SeveritySuggestion:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityHint
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
