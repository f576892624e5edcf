package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/tinyc-lang/tinyc/tinyc"
)

func TestRunCLIStartsLSPAndExitsOnEOF(t *testing.T) {
	origStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close write pipe: %v", err)
	}
	os.Stdin = r
	defer func() {
		os.Stdin = origStdin
		_ = r.Close()
	}()

	if err := runCLI([]string{"tinyc", "lsp"}); err != nil {
		t.Fatalf("runCLI lsp failed: %v", err)
	}
}

func TestServeAnswersInitializeOverStdio(t *testing.T) {
	var in bytes.Buffer
	writeFrame(t, &in, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	writeFrame(t, &in, `{"jsonrpc":"2.0","method":"exit"}`)

	var out bytes.Buffer
	if err := newLSPServer(&in, &out).serve(); err != nil {
		t.Fatalf("serve: %v", err)
	}
	header, body, ok := strings.Cut(out.String(), "\r\n\r\n")
	if !ok || header != fmt.Sprintf("Content-Length: %d", len(body)) {
		t.Fatalf("unexpected frame %q", out.String())
	}
	var resp struct {
		ID     int `json:"id"`
		Result struct {
			Capabilities map[string]any `json:"capabilities"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != 1 || resp.Result.Capabilities["hoverProvider"] != true {
		t.Fatalf("unexpected initialize response %s", body)
	}
}

func TestReadPayloadRequiresContentLength(t *testing.T) {
	server := newLSPServer(strings.NewReader("X-Other: 1\r\n\r\n{}"), new(bytes.Buffer))
	if _, err := server.readPayload(); err == nil || !strings.Contains(err.Error(), "missing Content-Length") {
		t.Fatalf("expected missing header error, got %v", err)
	}
}

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	engine := tinyc.MustNewEngine(tinyc.Config{})
	diags := diagnosticsForSource(engine, "int run() {\n  return 1;\n}\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestDiagnosticsForSourceWithParseError(t *testing.T) {
	engine := tinyc.MustNewEngine(tinyc.Config{})
	diags := diagnosticsForSource(engine, "int run() {\n  return 1\n}\n")
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	first := diags[0]
	if first.Severity != severityError {
		t.Fatalf("expected error severity, got %d", first.Severity)
	}
	if first.Range.Start != (lspPosition{Line: 2, Character: 0}) || first.Range.End.Character != 1 {
		t.Fatalf("unexpected diagnostic range %+v", first.Range)
	}
	if first.Message != `expected ";", got "}"` {
		t.Fatalf("unexpected message %q", first.Message)
	}
}

func TestDiagnosticsIncludeAnalyzerWarnings(t *testing.T) {
	engine := tinyc.MustNewEngine(tinyc.Config{})
	diags := diagnosticsForSource(engine, "int run() {\n  return 1;\n  nope();\n}\n")
	if len(diags) != 2 {
		t.Fatalf("expected two warnings, got %v", diags)
	}
	for _, diag := range diags {
		if diag.Severity != severityWarning {
			t.Fatalf("expected warning severity, got %+v", diag)
		}
	}
}

func TestCompletionItemsAreSortedAndCategorized(t *testing.T) {
	engine := tinyc.MustNewEngine(tinyc.Config{})
	items := completionItems(engine, "int area(int w, int h) { return w * h; }\nint total = 0;\n")

	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	if !slices.IsSorted(labels) {
		t.Fatalf("expected sorted completion labels, got %v", labels)
	}

	cases := []struct {
		label  string
		kind   int
		detail string
	}{
		{"while", completionKindKeyword, "keyword"},
		{"fopen", completionKindFunction, "builtin"},
		{"area", completionKindFunction, "int area(int w, int h)"},
		{"total", completionKindVariable, "int total"},
	}
	for _, tc := range cases {
		item := findCompletionItem(t, items, tc.label)
		if item.Kind != tc.kind || item.Detail != tc.detail {
			t.Fatalf("unexpected item %+v", item)
		}
	}
}

func TestHandleMessageDidOpenPublishesDiagnostics(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), new(bytes.Buffer))
	payload := mustMarshal(t, map[string]any{
		"textDocument": map[string]any{
			"uri":  "file:///tmp/test.tc",
			"text": "int x = ;\n",
		},
	})

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didOpen",
		Params:  payload,
	})
	if len(messages) != 1 || messages[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("expected one publishDiagnostics notification, got %#v", messages)
	}
	params, ok := messages[0].Params.(lspPublishDiagnostics)
	if !ok {
		t.Fatalf("unexpected params payload %#v", messages[0].Params)
	}
	if params.URI != "file:///tmp/test.tc" || len(params.Diagnostics) != 1 {
		t.Fatalf("unexpected diagnostics %+v", params)
	}
	if server.docs["file:///tmp/test.tc"] != "int x = ;\n" {
		t.Fatalf("document was not stored")
	}

	closeMsgs := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didClose",
		Params:  mustMarshal(t, map[string]any{"textDocument": map[string]any{"uri": "file:///tmp/test.tc"}}),
	})
	if _, open := server.docs["file:///tmp/test.tc"]; open || len(closeMsgs) != 1 {
		t.Fatalf("expected closed document to be dropped and cleared, got %#v", closeMsgs)
	}
}

func TestHandleMessageDidChangeUsesLastContent(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), new(bytes.Buffer))
	payload := mustMarshal(t, map[string]any{
		"textDocument":   map[string]any{"uri": "file:///a.tc"},
		"contentChanges": []map[string]any{{"text": "int x = ;"}, {"text": "int x = 1;"}},
	})
	messages := server.handleMessage(lspInboundMessage{JSONRPC: "2.0", Method: "textDocument/didChange", Params: payload})
	params := messages[0].Params.(lspPublishDiagnostics)
	if len(params.Diagnostics) != 0 || server.docs["file:///a.tc"] != "int x = 1;" {
		t.Fatalf("unexpected state after change: %+v %q", params, server.docs["file:///a.tc"])
	}
}

func TestHandleMessageHover(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), new(bytes.Buffer))
	server.docs["file:///tmp/test.tc"] = "int add(int a, int b) { return a + b; }\nint f = fopen(\"x\", \"r\");\nadd(1, 2);\n"

	cases := []struct {
		line, character int
		want            string
	}{
		{1, 10, "TinyC builtin"},
		{2, 1, "int add(int a, int b)"},
		{0, 26, "TinyC keyword"},
		{1, 4, "TinyC symbol"},
	}
	for _, tc := range cases {
		payload := mustMarshal(t, map[string]any{
			"textDocument": map[string]any{"uri": "file:///tmp/test.tc"},
			"position":     map[string]any{"line": tc.line, "character": tc.character},
		})
		messages := server.handleMessage(lspInboundMessage{
			JSONRPC: "2.0",
			ID:      rawID("1"),
			Method:  "textDocument/hover",
			Params:  payload,
		})
		if len(messages) != 1 {
			t.Fatalf("expected one response, got %d", len(messages))
		}
		hover, ok := messages[0].Result.(lspHover)
		if !ok {
			t.Fatalf("unexpected hover result %#v", messages[0].Result)
		}
		if !strings.Contains(hover.Contents.Value, tc.want) {
			t.Fatalf("hover at %d:%d: expected %q in %q", tc.line, tc.character, tc.want, hover.Contents.Value)
		}
	}
}

func TestHandleMessageErrors(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), new(bytes.Buffer))
	messages := server.handleMessage(lspInboundMessage{JSONRPC: "2.0", ID: rawID("7"), Method: "workspace/symbol"})
	if len(messages) != 1 || messages[0].Error == nil || messages[0].Error.Code != codeMethodNotFound {
		t.Fatalf("expected method not found, got %#v", messages)
	}
	messages = server.handleMessage(lspInboundMessage{JSONRPC: "2.0", ID: rawID("8"), Method: "textDocument/hover", Params: json.RawMessage(`{"position": 3}`)})
	if len(messages) != 1 || messages[0].Error == nil || messages[0].Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid params, got %#v", messages)
	}
	if got := server.handleMessage(lspInboundMessage{JSONRPC: "2.0", Method: "$/cancelRequest"}); got != nil {
		t.Fatalf("expected notifications to be ignored, got %#v", got)
	}
}

func TestWordAtPosition(t *testing.T) {
	source := "int main() {\n  fputs(\"1\", stdout);\n}\n"
	if word := wordAtPosition(source, 1, 4); word != "fputs" {
		t.Fatalf("expected fputs, got %q", word)
	}
	if word := wordAtPosition(source, 1, 7); word != "fputs" {
		t.Fatalf("expected word before the cursor, got %q", word)
	}
	if word := wordAtPosition(source, 5, 0); word != "" {
		t.Fatalf("expected no word past the end, got %q", word)
	}
}

func TestWordAtPositionUsesUTF16CharacterOffsets(t *testing.T) {
	source := "😀😀x y\n"
	if word := wordAtPosition(source, 0, 4); word != "x" {
		t.Fatalf("expected x, got %q", word)
	}
}

func writeFrame(t *testing.T, buf *bytes.Buffer, body string) {
	t.Helper()
	fmt.Fprintf(buf, "Content-Length: %d\r\n\r\n%s", len(body), body)
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func rawID(value string) *json.RawMessage {
	raw := json.RawMessage(value)
	return &raw
}

func findCompletionItem(t *testing.T, items []lspCompletionItem, label string) lspCompletionItem {
	t.Helper()
	for _, item := range items {
		if item.Label == label {
			return item
		}
	}
	t.Fatalf("missing completion item %q", label)
	return lspCompletionItem{}
}
