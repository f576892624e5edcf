package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinyc-lang/tinyc/tinyc"
)

type replTheme struct {
	prompt  lipgloss.Style
	title   lipgloss.Style
	muted   lipgloss.Style
	value   lipgloss.Style
	failure lipgloss.Style
	keyName lipgloss.Style
	panel   lipgloss.Style
	heading lipgloss.Style
}

func newReplTheme(accent, ok, bad, dim, warm lipgloss.Color) replTheme {
	return replTheme{
		prompt:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		title:   lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(0, 1),
		muted:   lipgloss.NewStyle().Foreground(dim),
		value:   lipgloss.NewStyle().Foreground(ok),
		failure: lipgloss.NewStyle().Foreground(bad),
		keyName: lipgloss.NewStyle().Foreground(warm),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		heading: lipgloss.NewStyle().Foreground(accent).Bold(true),
	}
}

var theme = newReplTheme("#0EA5E9", "#22C55E", "#F43F5E", "#71717A", "#EAB308")

// replHelp lists the help panel rows in display order.
var replHelp = [][2]string{
	{"↑ / ↓", "walk earlier inputs"},
	{"tab", "complete the name before the cursor"},
	{"enter", "run the statement"},
	{":help", "show or hide this panel"},
	{":vars", "show or hide globals"},
	{":clear", "clear the transcript"},
	{":reset", "drop every global"},
	{":quit", "leave"},
}

func (m replModel) View() string {
	switch {
	case m.quitting:
		return theme.muted.Render("bye\n")
	case !m.sized:
		return "starting..."
	}

	var sections []string
	sections = append(sections,
		theme.title.Render("tinyc repl"),
		theme.muted.Render(strings.Repeat("─", clampInt(m.width-2, 0, 60))),
		"",
	)

	globals := m.session.Globals()
	sections = append(sections, m.visibleTranscript(len(globals))...)
	if m.showVars {
		sections = append(sections, globalsPanel(globals))
	}
	if m.showHelp {
		sections = append(sections, helpPanel())
	}
	sections = append(sections, m.textInput.View(), "", keyHints())
	return strings.Join(sections, "\n")
}

// visibleTranscript renders the newest entries that fit above the prompt.
func (m replModel) visibleTranscript(globalCount int) []string {
	reserved := 8
	if m.showHelp {
		reserved += len(replHelp) + 2
	}
	if m.showVars {
		reserved += globalCount + 3
	}
	room := max(m.height-reserved, 1)
	entries := m.history[max(len(m.history)-room, 0):]

	var lines []string
	for _, entry := range entries {
		lines = append(lines, renderEntry(entry)...)
		lines = append(lines, "")
	}
	return lines
}

func renderEntry(entry historyEntry) []string {
	var lines []string
	if entry.input != "" {
		lines = append(lines, theme.muted.Render("  › ")+entry.input)
	}
	if entry.output != "" {
		for _, line := range strings.Split(strings.TrimRight(entry.output, "\n"), "\n") {
			lines = append(lines, "    "+line)
		}
	}
	if entry.isErr {
		return append(lines, "  "+theme.failure.Render("✗ "+entry.result))
	}
	return append(lines, "  "+theme.value.Render("= "+entry.result))
}

func globalsPanel(globals []tinyc.Binding) string {
	if len(globals) == 0 {
		return theme.panel.Render(theme.muted.Render("no globals yet"))
	}
	rows := []string{theme.heading.Render("Globals")}
	for _, binding := range globals {
		rows = append(rows, fmt.Sprintf("  %s = %s", theme.keyName.Render(binding.Name), binding.Value.Inspect()))
	}
	return theme.panel.Render(strings.Join(rows, "\n"))
}

func helpPanel() string {
	rows := []string{theme.heading.Render("Keys and commands")}
	for _, row := range replHelp {
		rows = append(rows, fmt.Sprintf("  %s  %s", theme.keyName.Render(fmt.Sprintf("%-7s", row[0])), theme.muted.Render(row[1])))
	}
	return theme.panel.Render(strings.Join(rows, "\n"))
}

func keyHints() string {
	hints := make([]string, 0, 4)
	for _, b := range []struct{ keys, desc string }{
		{bindings.help.Help().Key, bindings.help.Help().Desc},
		{bindings.vars.Help().Key, bindings.vars.Help().Desc},
		{bindings.clear.Help().Key, bindings.clear.Help().Desc},
		{bindings.quit.Help().Key, bindings.quit.Help().Desc},
	} {
		hints = append(hints, theme.keyName.Render(b.keys)+" "+theme.muted.Render(b.desc))
	}
	return strings.Join(hints, "  ")
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
