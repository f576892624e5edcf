package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinyc-lang/tinyc/tinyc"
)

func submit(t *testing.T, m replModel, input string) (replModel, tea.Cmd) {
	t.Helper()
	m.textInput.SetValue(input)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return rm, cmd
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	rm, cmd := submit(t, newREPLModel(), ":quit")

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	rm, cmd := submit(t, newREPLModel(), ":help")

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestUpdateEvaluatesAgainstPersistentGlobals(t *testing.T) {
	m := newREPLModel()
	m, _ = submit(t, m, "int square(int n) { return n * n; }")
	m, _ = submit(t, m, "int side = 6")
	m, _ = submit(t, m, `printf("area %d\n", square(side))`)
	m, _ = submit(t, m, "square(side)")

	if len(m.history) != 4 {
		t.Fatalf("expected 4 history entries, got %d", len(m.history))
	}
	printed := m.history[2]
	if printed.isErr || printed.output != "area 36\n" {
		t.Fatalf("unexpected printf entry %+v", printed)
	}
	last := m.history[3]
	if last.isErr || last.result != "36" || last.output != "" {
		t.Fatalf("unexpected result entry %+v", last)
	}
	if len(m.inputs.items) != 4 {
		t.Fatalf("expected command history to record inputs, got %v", m.inputs.items)
	}
}

func TestEvaluateReportsErrorsWithoutLosingState(t *testing.T) {
	m := newREPLModel()
	m, _ = submit(t, m, "int x = 1;")
	m, _ = submit(t, m, "x / 0")
	m, _ = submit(t, m, "x = x + 1")

	failed := m.history[1]
	if !failed.isErr || failed.result != "DivisionByZero: division by zero" {
		t.Fatalf("unexpected error entry %+v", failed)
	}
	if m.history[2].result != "2" {
		t.Fatalf("expected state to survive the error, got %+v", m.history[2])
	}
}

func TestResetCommandClearsGlobals(t *testing.T) {
	m := newREPLModel()
	m, _ = submit(t, m, "int x = 1;")
	m, _ = submit(t, m, ":reset")
	if got := len(m.session.Globals()); got != 0 {
		t.Fatalf("expected no globals after reset, got %d", got)
	}
	m, _ = submit(t, m, "x")
	if last := m.history[len(m.history)-1]; !last.isErr || !strings.Contains(last.result, "undefined variable x") {
		t.Fatalf("unexpected entry after reset %+v", last)
	}
}

func TestAutocompleteSingleMatch(t *testing.T) {
	m := newREPLModel()
	m, _ = submit(t, m, "int counter = 0;")
	m.textInput.SetValue("counter = coun")
	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "counter = counter" {
		t.Fatalf("unexpected completion %q", got)
	}

	m.textInput.SetValue("fput")
	m = m.handleAutocomplete()
	last := m.history[len(m.history)-1]
	if last.result != "Completions: fputc, fputs" {
		t.Fatalf("unexpected completions entry %+v", last)
	}
}

func TestCompleteStatement(t *testing.T) {
	cases := map[string]string{
		"x = 1":               "x = 1;",
		"x = 1;":              "x = 1;",
		"while (false) { }  ": "while (false) { }",
	}
	for input, want := range cases {
		if got := completeStatement(input); got != want {
			t.Fatalf("completeStatement(%q) = %q, want %q", input, got, want)
		}
	}
}

type scriptedPrompter struct {
	lines   []string
	prompts []string
	history []string
}

func (p *scriptedPrompter) Prompt(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptedPrompter) AppendHistory(item string) {
	p.history = append(p.history, item)
}

func TestPlainREPLLoopCollectsBlocksAcrossLines(t *testing.T) {
	var console, out bytes.Buffer
	session := tinyc.MustNewEngine(tinyc.Config{}).NewSession(tinyc.Host{
		Stdin:  strings.NewReader(""),
		Stdout: &console,
	})
	prompter := &scriptedPrompter{lines: []string{
		"int twice(int n) {",
		"  return n * 2;",
		"}",
		"twice(21)",
		`printf("%s\n", "hi")`,
		"missing()",
		":vars",
		":quit",
		"never read",
	}}

	if err := plainREPLLoop(prompter, session, &out); err != nil {
		t.Fatalf("loop: %v", err)
	}

	if console.String() != "hi\n" {
		t.Fatalf("unexpected program output %q", console.String())
	}
	got := out.String()
	for _, want := range []string{"42\n", "UndefinedName: undefined function missing", "twice = <function twice>\n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output %q", want, got)
		}
	}
	if prompter.prompts[1] != promptContinue || prompter.prompts[2] != promptContinue {
		t.Fatalf("expected continuation prompts, got %q", prompter.prompts)
	}
	if len(prompter.history) != 4 || prompter.history[0] != "int twice(int n) {   return n * 2; }" {
		t.Fatalf("unexpected history %q", prompter.history)
	}
	if len(prompter.lines) != 1 {
		t.Fatalf("expected :quit to stop reading, %d lines left", len(prompter.lines))
	}
}
