package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"kanso/internal/ast"
	"kanso/internal/config"
	"kanso/internal/parser"
	"kanso/internal/semantic"
	"kanso/internal/unused"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Define the set of supported semantic token types (as required by the LSP spec)
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"typeParameter",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"operator",
	"modifier",
}

// Define the set of supported semantic token modifiers (for extra tagging like declaration, readonly, etc.)
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"static",
	"deprecated",
	"abstract",
}

// KansoHandler implements the LSP server handlers for the Kanso language
type KansoHandler struct {
	mu      sync.RWMutex
	content map[string]string
	asts    map[string]*ast.Contract
	// unusedDiags caches the last unused-value findings per file so a
	// later textDocument/codeAction request can look up the Fix for
	// the diagnostic the editor is asking about without re-running
	// analysis synchronously inside the codeAction handler.
	unusedDiags map[string][]unused.Diagnostic
	options     unused.OptionsProvider
	logger      *logrus.Logger
}

// NewKansoHandler creates and returns a new KansoHandler instance
func NewKansoHandler() *KansoHandler {
	cfg, err := config.Load("kanso.yaml")
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return &KansoHandler{
		content:     make(map[string]string),
		asts:        make(map[string]*ast.Contract),
		unusedDiags: make(map[string][]unused.Diagnostic),
		options:     config.NewStaticOptionsProvider(cfg),
		logger:      logrus.StandardLogger(),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *KansoHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true), // notify on open/close events
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false), // no additional detail resolution yet
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true), // support full-document semantic token requests
			},
			CodeActionProvider: &protocol.CodeActionOptions{
				CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix},
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *KansoHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("Kanso LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *KansoHandler) Shutdown(ctx *glsp.Context) error {
	log.Println("Kanso LSP Shutdown")
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *KansoHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("Opened file: %s\n", params.TextDocument.URI)

	diagnostics, err := h.updateAST(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("Failed to update AST:  %w", err)
	}

	if diagnostics != nil {
		sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	}

	return nil
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *KansoHandler) TextDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("Closed file: %s\n", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.asts, path)

	return nil
}

// TextDocumentDidChange handles file change notifications from the editor
func (h *KansoHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("Changed file: %s\n", params.TextDocument.URI)

	diagnostics, err := h.updateAST(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("Failed to update AST:  %w", err)
	}

	if diagnostics != nil {
		sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	}

	return nil
}

// TextDocumentCompletion handles completion requests (currently returns empty list)
func (h *KansoHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	// You could extend this to provide Kanso-specific completions
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        []protocol.CompletionItem{},
	}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *KansoHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	log.Println("TextDocumentSemanticTokensFull called for:", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	ast, err := h.getOrUpdateAST(ctx, path, rawURI)
	if err != nil {
		return nil, err
	}

	// Walk the AST and collect semantic tokens
	tokens := collectSemanticTokens(ast)

	var data []uint32
	var prevLine, prevStart uint32

	// Encode tokens into LSP wire format (using delta-line, delta-start compression)
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		// Append the encoded semantic token entry
		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

// TextDocumentCodeAction answers a quick-fix request by looking up the
// cached unused-value findings for the document and offering one
// CodeAction per finding whose range overlaps the request, turning its
// FixPlan into a WorkspaceEdit the editor can apply directly.
func (h *KansoHandler) TextDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	rawURI := params.TextDocument.URI
	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	h.mu.RLock()
	diags := h.unusedDiags[path]
	h.mu.RUnlock()

	var actions []protocol.CodeAction
	for _, d := range diags {
		if d.Fix == nil || len(d.Fix.Edits) == 0 {
			continue
		}
		line := uint32(d.Position.Line - 1)
		if line < params.Range.Start.Line || line > params.Range.End.Line {
			continue
		}

		var edits []protocol.TextEdit
		for _, e := range d.Fix.Edits {
			edits = append(edits, unusedEditToTextEdit(e))
		}

		kind := protocol.CodeActionKindQuickFix
		actions = append(actions, protocol.CodeAction{
			Title: fmt.Sprintf("Fix: %s", d.Message),
			Kind:  &kind,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{rawURI: edits},
			},
		})
	}

	return actions, nil
}

// unusedEditToTextEdit renders one Edit as an LSP TextEdit. Edit only
// carries a single Position, not a span, so a replace/delete is
// approximated as a small range starting there — good enough for the
// single-identifier and single-statement edits this engine proposes,
// which is all FixPlan ever generates today.
func unusedEditToTextEdit(e unused.Edit) protocol.TextEdit {
	start := protocol.Position{Line: uint32(e.Position.Line - 1), Character: uint32(e.Position.Column - 1)}
	end := start
	if e.Kind != unused.EditInsert {
		end.Character += 4
	}
	return protocol.TextEdit{Range: protocol.Range{Start: start, End: end}, NewText: e.NewText}
}

func (h *KansoHandler) getOrUpdateAST(ctx *glsp.Context, path string, rawURI protocol.DocumentUri) (*ast.Contract, error) {
	h.mu.RLock()
	ast, ok := h.asts[path]
	h.mu.RUnlock()

	if !ok {
		diagnostic, err := h.updateAST(rawURI)
		if err != nil {
			return nil, err
		}

		h.mu.RLock()
		ast = h.asts[path]
		h.mu.RUnlock()

		if diagnostic != nil {
			sendDiagnosticNotification(ctx, rawURI, diagnostic)
		}
	}

	return ast, nil
}

func (h *KansoHandler) updateAST(rawURI protocol.DocumentUri) ([]protocol.Diagnostic, error) {
	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	contract, parserErr, scannerErr := parser.ParseSource(path, string(content))
	if len(parserErr) > 0 || len(scannerErr) > 0 {
		diagnostics := append(ConvertParseErrors(parserErr), ConvertScanErrors(scannerErr)...)

		h.mu.Lock()
		delete(h.unusedDiags, path)
		h.mu.Unlock()

		return diagnostics, nil
	}

	unusedDiags, err := semantic.AnalyzeUnusedValues(context.Background(), contract, h.options, h.logger)
	if err != nil {
		log.Println("unused-value analysis failed:", err)
		unusedDiags = nil
	}

	h.mu.Lock()
	h.content[path] = string(content)
	h.asts[path] = contract
	h.unusedDiags[path] = unusedDiags
	h.mu.Unlock()

	return ConvertUnusedDiagnostics(unusedDiags), nil
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) â†’ C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	// Normalize to platform-specific separators
	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	diagnosticsJSON, err := json.MarshalIndent(diagnostics, "", "  ")
	if err != nil {
		fmt.Println("Failed to marshal diagnostics:", err)
		return
	}

	log.Println("Sending diagnostics:", string(diagnosticsJSON))

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
