// Package ui centralizes terminal styling for the command line interface.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Interactive reports whether stdout is a color-capable terminal. Callers
// use it to pick between styled and plain output.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && termenv.ColorProfile() != termenv.Ascii
}

// Title renders a bold heading.
func Title(s string) string { return titleStyle.Render(s) }

// Success renders a positive status.
func Success(s string) string { return successStyle.Render(s) }

// Warn renders a cautionary status.
func Warn(s string) string { return warnStyle.Render(s) }

// Accent renders emphasized detail text.
func Accent(s string) string { return accentStyle.Render(s) }

// Muted renders de-emphasized detail text.
func Muted(s string) string { return mutedStyle.Render(s) }

// Err renders an error message.
func Err(s string) string { return errorStyle.Render(s) }

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.Render()
}
