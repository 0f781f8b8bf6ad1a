// Package report renders solver and orbit results for the terminal:
// lipgloss styles, tablewriter tables and asciigraph previews.
package report
