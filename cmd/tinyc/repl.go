package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinyc-lang/tinyc/tinyc"
)

// replStepQuota keeps a runaway loop from freezing the terminal.
const replStepQuota = 5_000_000

// historyEntry is one evaluated snippet as shown in the transcript.
type historyEntry struct {
	input  string
	output string
	result string
	isErr  bool
}

// inputHistory walks previously submitted snippets. A cursor equal to
// len(items) means the prompt holds fresh input.
type inputHistory struct {
	items  []string
	cursor int
}

func (h *inputHistory) record(input string) {
	h.items = append(h.items, input)
	h.cursor = len(h.items)
}

func (h *inputHistory) older() (string, bool) {
	if len(h.items) == 0 {
		return "", false
	}
	h.cursor = max(h.cursor-1, 0)
	return h.items[h.cursor], true
}

func (h *inputHistory) newer() (string, bool) {
	if h.cursor >= len(h.items) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.items) {
		return "", true
	}
	return h.items[h.cursor], true
}

type replModel struct {
	textInput textinput.Model
	engine    *tinyc.Engine
	session   *tinyc.Session
	console   *bytes.Buffer
	history   []historyEntry
	inputs    inputHistory
	width     int
	height    int
	showHelp  bool
	showVars  bool
	quitting  bool
	sized     bool
}

type replBindings struct {
	submit, quit, clear, complete key.Binding
	older, newer, vars, help      key.Binding
}

var bindings = replBindings{
	submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	older:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "older input")),
	newer:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "newer input")),
	vars:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "globals")),
	help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
}

// replCommands maps each colon command and its short alias to a handler.
var replCommands = map[string]func(replModel, string) (replModel, tea.Cmd){
	":help":  toggleHelp,
	":h":     toggleHelp,
	":vars":  toggleVars,
	":v":     toggleVars,
	":clear": clearTranscript,
	":c":     clearTranscript,
	":reset": resetGlobals,
	":r":     resetGlobals,
	":quit":  quitREPL,
	":q":     quitREPL,
}

func toggleHelp(m replModel, _ string) (replModel, tea.Cmd) {
	m.showHelp = !m.showHelp
	return m, nil
}

func toggleVars(m replModel, _ string) (replModel, tea.Cmd) {
	m.showVars = !m.showVars
	return m, nil
}

func clearTranscript(m replModel, _ string) (replModel, tea.Cmd) {
	m.history = nil
	return m, nil
}

func resetGlobals(m replModel, input string) (replModel, tea.Cmd) {
	m.session.Reset()
	m.history = append(m.history, historyEntry{input: input, result: "Globals reset"})
	return m, nil
}

func quitREPL(m replModel, _ string) (replModel, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	plain := fs.Bool("plain", false, "use a line editor instead of the full-screen interface")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *plain {
		return runPlainREPL()
	}
	p := tea.NewProgram(newREPLModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// newREPLSession returns a session whose program output is collected in the
// returned buffer. Programs see an empty stdin.
func newREPLSession() (*tinyc.Engine, *tinyc.Session, *bytes.Buffer) {
	engine := tinyc.MustNewEngine(tinyc.Config{StepQuota: replStepQuota})
	console := new(bytes.Buffer)
	session := engine.NewSession(tinyc.Host{
		Stdin:  strings.NewReader(""),
		Stdout: console,
		Stderr: console,
	})
	return engine, session, console
}

func newREPLModel() replModel {
	input := textinput.New()
	input.Prompt = promptMain
	input.PromptStyle = theme.prompt
	input.Placeholder = "statement or declaration"
	input.CharLimit = 4096
	input.Width = 60
	input.Focus()

	engine, session, console := newREPLSession()
	return replModel{textInput: input, engine: engine, session: session, console: console}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textInput.Width = max(msg.Width-len(promptMain)-2, 10)
		m.sized = true
		return m, nil
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleKey(msg tea.KeyMsg) (replModel, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, bindings.quit):
		next, cmd := quitREPL(m, "")
		return next, cmd, true
	case key.Matches(msg, bindings.clear):
		next, cmd := clearTranscript(m, "")
		return next, cmd, true
	case key.Matches(msg, bindings.vars):
		next, cmd := toggleVars(m, "")
		return next, cmd, true
	case key.Matches(msg, bindings.help):
		next, cmd := toggleHelp(m, "")
		return next, cmd, true
	case key.Matches(msg, bindings.older):
		if input, ok := m.inputs.older(); ok {
			m.replaceInput(input)
		}
		return m, nil, true
	case key.Matches(msg, bindings.newer):
		if input, ok := m.inputs.newer(); ok {
			m.replaceInput(input)
		}
		return m, nil, true
	case key.Matches(msg, bindings.complete):
		return m.handleAutocomplete(), nil, true
	case key.Matches(msg, bindings.submit):
		next, cmd := m.submit()
		return next, cmd, true
	}
	return m, nil, false
}

func (m *replModel) replaceInput(value string) {
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
}

func (m replModel) submit() (replModel, tea.Cmd) {
	input := strings.TrimSpace(m.textInput.Value())
	if input == "" {
		return m, nil
	}
	m.textInput.SetValue("")

	if strings.HasPrefix(input, ":") {
		name := strings.Fields(input)[0]
		if handler, ok := replCommands[name]; ok {
			return handler(m, input)
		}
		m.history = append(m.history, historyEntry{input: input, result: "Unknown command: " + name, isErr: true})
		return m, nil
	}

	m.inputs.record(input)
	m.history = append(m.history, m.evaluate(input))
	return m, nil
}

// replCandidates lists the names the REPL can complete, sorted.
func replCandidates(engine *tinyc.Engine, session *tinyc.Session) []string {
	names := append(tinyc.Keywords(), engine.BuiltinNames()...)
	for _, binding := range session.Globals() {
		names = append(names, binding.Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	prefix := trailingIdentifier(input)
	if prefix == "" {
		return m
	}

	var matches []string
	for _, name := range replCandidates(m.engine, m.session) {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 0:
	case 1:
		m.replaceInput(input[:len(input)-len(prefix)] + matches[0])
	default:
		m.history = append(m.history, historyEntry{result: "Completions: " + strings.Join(matches, ", ")})
	}
	return m
}

// trailingIdentifier returns the identifier characters at the end of input.
func trailingIdentifier(input string) string {
	start := len(input)
	for start > 0 && isIdentByte(input[start-1]) {
		start--
	}
	return input[start:]
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}

// completeStatement appends the terminating semicolon a single statement
// typed at the prompt usually lacks.
func completeStatement(input string) string {
	trimmed := strings.TrimSpace(input)
	if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") {
		return trimmed
	}
	return trimmed + ";"
}

// evaluate runs one snippet and records what it printed and produced.
func (m replModel) evaluate(input string) historyEntry {
	m.console.Reset()
	val, err := m.session.Eval(context.Background(), completeStatement(input))
	entry := historyEntry{input: input, output: m.console.String()}
	if err != nil {
		entry.result = replErrorText(err)
		entry.isErr = true
		return entry
	}
	entry.result = val.Inspect()
	return entry
}

// replErrorText keeps only the headline of an error; the prompt line is the
// code frame.
func replErrorText(err error) string {
	var ce *tinyc.CompileError
	if errors.As(err, &ce) {
		return fmt.Sprintf("%s at column %d: %s", ce.Kind, ce.Pos.Column, ce.Message)
	}
	var re *tinyc.RuntimeError
	if errors.As(err, &re) {
		return fmt.Sprintf("%s: %s", re.Kind, re.Message)
	}
	return err.Error()
}
