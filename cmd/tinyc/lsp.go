package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/tinyc-lang/tinyc/tinyc"
)

const (
	severityError   = 1
	severityWarning = 2

	completionKindFunction = 3
	completionKindVariable = 6
	completionKindKeyword  = 14

	codeInvalidParams  = -32602
	codeMethodNotFound = -32601
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDocumentParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
	Position lspPosition `json:"position"`
}

type lspPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type lspRange struct {
	Start lspPosition `json:"start"`
	End   lspPosition `json:"end"`
}

type lspDiagnostic struct {
	Range    lspRange `json:"range"`
	Severity int      `json:"severity"`
	Source   string   `json:"source"`
	Message  string   `json:"message"`
}

type lspPublishDiagnostics struct {
	URI         string          `json:"uri"`
	Diagnostics []lspDiagnostic `json:"diagnostics"`
}

type lspCompletionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind"`
	Detail string `json:"detail"`
}

type lspCompletionList struct {
	IsIncomplete bool                `json:"isIncomplete"`
	Items        []lspCompletionItem `json:"items"`
}

type lspMarkup struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type lspHover struct {
	Contents lspMarkup `json:"contents"`
}

// lspServer speaks the language server protocol over a byte stream. It keeps
// the full text of every open document.
type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	engine *tinyc.Engine
	docs   map[string]string
}

type lspHandler func(*lspServer, lspInboundMessage, lspDocumentParams) []lspOutboundMessage

var lspHandlers = map[string]lspHandler{
	"initialize":              (*lspServer).initialize,
	"initialized":             ignoreMessage,
	"exit":                    ignoreMessage,
	"shutdown":                (*lspServer).shutdown,
	"textDocument/didOpen":    (*lspServer).didOpen,
	"textDocument/didChange":  (*lspServer).didChange,
	"textDocument/didClose":   (*lspServer).didClose,
	"textDocument/completion": (*lspServer).completion,
	"textDocument/hover":      (*lspServer).hover,
}

func newLSPServer(r io.Reader, w io.Writer) *lspServer {
	return &lspServer{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
		engine: tinyc.MustNewEngine(tinyc.Config{}),
		docs:   make(map[string]string),
	}
}

func runLSP() error {
	return newLSPServer(os.Stdin, os.Stdout).serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}
		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}
		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	handler, ok := lspHandlers[incoming.Method]
	if !ok {
		return s.fail(incoming, codeMethodNotFound, "method not found")
	}
	var params lspDocumentParams
	if len(incoming.Params) > 0 {
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return s.fail(incoming, codeInvalidParams, "invalid params for "+incoming.Method)
		}
	}
	return handler(s, incoming, params)
}

func ignoreMessage(*lspServer, lspInboundMessage, lspDocumentParams) []lspOutboundMessage {
	return nil
}

func (s *lspServer) initialize(incoming lspInboundMessage, _ lspDocumentParams) []lspOutboundMessage {
	return s.reply(incoming, map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync":   1,
			"hoverProvider":      true,
			"completionProvider": map[string]any{"resolveProvider": false},
		},
		"serverInfo": map[string]any{"name": "tinyc-lsp"},
	})
}

func (s *lspServer) shutdown(incoming lspInboundMessage, _ lspDocumentParams) []lspOutboundMessage {
	return s.reply(incoming, nil)
}

func (s *lspServer) didOpen(_ lspInboundMessage, params lspDocumentParams) []lspOutboundMessage {
	return s.update(params.TextDocument.URI, params.TextDocument.Text)
}

func (s *lspServer) didChange(_ lspInboundMessage, params lspDocumentParams) []lspOutboundMessage {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	return s.update(params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text)
}

func (s *lspServer) didClose(_ lspInboundMessage, params lspDocumentParams) []lspOutboundMessage {
	delete(s.docs, params.TextDocument.URI)
	return []lspOutboundMessage{publish(params.TextDocument.URI, []lspDiagnostic{})}
}

func (s *lspServer) update(uri, text string) []lspOutboundMessage {
	s.docs[uri] = text
	return []lspOutboundMessage{publish(uri, diagnosticsForSource(s.engine, text))}
}

func (s *lspServer) completion(incoming lspInboundMessage, params lspDocumentParams) []lspOutboundMessage {
	return s.reply(incoming, lspCompletionList{
		Items: completionItems(s.engine, s.docs[params.TextDocument.URI]),
	})
}

func (s *lspServer) hover(incoming lspInboundMessage, params lspDocumentParams) []lspOutboundMessage {
	source := s.docs[params.TextDocument.URI]
	word := wordAtPosition(source, params.Position.Line, params.Position.Character)
	if word == "" {
		return s.reply(incoming, nil)
	}
	return s.reply(incoming, lspHover{
		Contents: lspMarkup{Kind: "markdown", Value: hoverText(s.engine, source, word)},
	})
}

// reply answers a request. Notifications, which carry no id, get nothing.
func (s *lspServer) reply(incoming lspInboundMessage, result any) []lspOutboundMessage {
	if incoming.ID == nil {
		return nil
	}
	return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: result}}
}

func (s *lspServer) fail(incoming lspInboundMessage, code int, message string) []lspOutboundMessage {
	if incoming.ID == nil {
		return nil
	}
	return []lspOutboundMessage{{
		JSONRPC: "2.0",
		ID:      incoming.ID,
		Error:   &lspResponseError{Code: code, Message: message},
	}}
}

func publish(uri string, diagnostics []lspDiagnostic) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params:  lspPublishDiagnostics{URI: uri, Diagnostics: diagnostics},
	}
}

// diagnosticsForSource reports the compile error of source, or the analyzer
// warnings when it compiles.
func diagnosticsForSource(engine *tinyc.Engine, source string) []lspDiagnostic {
	script, err := engine.Compile(source)
	if err != nil {
		var ce *tinyc.CompileError
		if errors.As(err, &ce) {
			return []lspDiagnostic{newDiagnostic(ce.Pos, severityError, ce.Message)}
		}
		return []lspDiagnostic{newDiagnostic(tinyc.Position{}, severityError, err.Error())}
	}

	warnings := analyzeProgram(script.Program(), engine.BuiltinNames())
	out := make([]lspDiagnostic, 0, len(warnings))
	for _, warning := range warnings {
		out = append(out, newDiagnostic(warning.Pos, severityWarning, warning.Message))
	}
	return out
}

// newDiagnostic converts a 1-based source position to a one character
// zero-based range.
func newDiagnostic(pos tinyc.Position, severity int, message string) lspDiagnostic {
	start := lspPosition{Line: max(pos.Line-1, 0), Character: max(pos.Column-1, 0)}
	end := lspPosition{Line: start.Line, Character: start.Character + 1}
	return lspDiagnostic{
		Range:    lspRange{Start: start, End: end},
		Severity: severity,
		Source:   "tinyc",
		Message:  message,
	}
}

// completionItems offers keywords, natives and the functions and globals
// declared in source, sorted by label. A name is listed once, under its
// first category.
func completionItems(engine *tinyc.Engine, source string) []lspCompletionItem {
	var items []lspCompletionItem
	seen := make(map[string]bool)
	add := func(label string, kind int, detail string) {
		if seen[label] {
			return
		}
		seen[label] = true
		items = append(items, lspCompletionItem{Label: label, Kind: kind, Detail: detail})
	}

	for _, keyword := range tinyc.Keywords() {
		add(keyword, completionKindKeyword, "keyword")
	}
	for _, name := range engine.BuiltinNames() {
		add(name, completionKindFunction, "builtin")
	}
	if program, err := tinyc.Parse(source); err == nil {
		for _, stmt := range program.Statements {
			switch s := stmt.(type) {
			case *tinyc.FunctionStmt:
				add(s.Name, completionKindFunction, functionSignature(s))
			case *tinyc.VarDecl:
				add(s.Name, completionKindVariable, "int "+s.Name)
			}
		}
	}

	slices.SortFunc(items, func(a, b lspCompletionItem) int {
		return strings.Compare(a.Label, b.Label)
	})
	return items
}

func hoverText(engine *tinyc.Engine, source, word string) string {
	if slices.Contains(tinyc.Keywords(), word) {
		return fmt.Sprintf("`%s`\n\nTinyC keyword", word)
	}
	if program, err := tinyc.Parse(source); err == nil {
		for _, fn := range program.Functions() {
			if fn.Name == word {
				return fmt.Sprintf("```c\n%s\n```\n\nTinyC function declared at line %d", functionSignature(fn), fn.Pos().Line)
			}
		}
	}
	if slices.Contains(engine.BuiltinNames(), word) {
		return fmt.Sprintf("`%s`\n\nTinyC builtin", word)
	}
	return fmt.Sprintf("`%s`\n\nTinyC symbol", word)
}

func functionSignature(fn *tinyc.FunctionStmt) string {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = "int " + param
	}
	return fmt.Sprintf("int %s(%s)", fn.Name, strings.Join(params, ", "))
}

// wordAtPosition returns the identifier under an LSP position, or the one
// ending just before it. character counts UTF-16 code units.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}

	cursor := min(runeIndex(runes, max(character, 0)), len(runes)-1)
	if !isWordRune(runes[cursor]) {
		if cursor == 0 || !isWordRune(runes[cursor-1]) {
			return ""
		}
		cursor--
	}

	start, end := cursor, cursor+1
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func runeIndex(runes []rune, character int) int {
	units := 0
	for i, r := range runes {
		if units >= character {
			return i
		}
		units += utf16.RuneLen(r)
	}
	return len(runes)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// readPayload reads one base protocol frame: headers, a blank line, then
// Content-Length bytes of JSON.
func (s *lspServer) readPayload() ([]byte, error) {
	length := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid Content-Length: %w", err)
		}
		length = n
	}
	if length < 0 {
		return nil, errors.New("missing Content-Length header")
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	// Write errors stick to the bufio.Writer and surface from Flush.
	fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data))
	s.writer.Write(data)
	return s.writer.Flush()
}
