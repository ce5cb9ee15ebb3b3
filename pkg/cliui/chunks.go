package cliui

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/papercomputeco/policyqa/pkg/corpus"
)

var (
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)

	// DimStyle, KeyStyle and ValueStyle format key/value listings.
	DimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	KeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// PreviewLen is the number of characters shown per chunk in search output.
const PreviewLen = 240

// RenderChunks prints ranked chunks with their source and a text preview.
func RenderChunks(w io.Writer, query string, chunks []corpus.Chunk) {
	fmt.Fprintf(w, "\n%s %s\n\n", headerStyle.Render("Results for"), previewStyle.Render(fmt.Sprintf("%q", query)))

	if len(chunks) == 0 {
		fmt.Fprintln(w, DimStyle.Render("  no matching chunks"))
		return
	}

	for i, c := range chunks {
		fmt.Fprintf(w, "  %s %s\n", rankStyle.Render(fmt.Sprintf("[%d]", i+1)), sourceStyle.Render(c.Source))
		fmt.Fprintf(w, "      %s\n\n", previewStyle.Render(Preview(c.Text, PreviewLen)))
	}
}

// RenderSources prints the numbered source previews of an answer.
func RenderSources(w io.Writer, sources []string) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Sources"))
	for i, s := range sources {
		fmt.Fprintf(w, "  %s %s\n", rankStyle.Render(fmt.Sprintf("%d.", i+1)), DimStyle.Render(s))
	}
}

// Preview flattens newlines and truncates text to n characters with an
// ellipsis.
func Preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "…"
}
