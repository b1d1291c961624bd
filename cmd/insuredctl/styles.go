package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

func printTitle(w io.Writer, s string) {
	fmt.Fprintln(w, titleStyle.Render(s))
}

func printOK(w io.Writer, label, detail string) {
	fmt.Fprintf(w, "%s %s\n", successStyle.Render(label), subtleStyle.Render(detail))
}

func printFail(w io.Writer, label, detail string) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render(label), subtleStyle.Render(detail))
}

func printField(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %s %s\n", subtleStyle.Render(key+":"), value)
}
