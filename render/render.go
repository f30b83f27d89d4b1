// Package render formats processing results and history for the terminal.
package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bitrise-io/ai-verse-processor/common"
	"github.com/bitrise-io/ai-verse-processor/history"
	"github.com/charmbracelet/lipgloss"
)

// maxHeadingLength is the rune count under which a verse without a final period is taken as a heading
const maxHeadingLength = 50

// EmptyMessage is shown when the selected output was not generated
const EmptyMessage = "Resultado no generado en este modo."

var numbered = regexp.MustCompile(`^\d+\.`)

// Tab is the result view a copy refers to
type Tab string

const (
	TabVerses Tab = "verses"
	TabJSON   Tab = "json"
)

// Renderer holds the terminal styles and the wrap width
type Renderer struct {
	width int

	heading  lipgloss.Style
	verse    lipgloss.Style
	json     lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
}

// New creates a renderer wrapping verses at width runes. Zero disables wrapping.
func New(width int) *Renderer {
	return &Renderer{
		width:    width,
		heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		verse:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		json:     lipgloss.NewStyle().Foreground(lipgloss.Color("71")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141")),
	}
}

// IsHeading reports whether a verse looks like a section title: not numbered,
// upper case or short, and not ending in a period.
func IsHeading(verse string) bool {
	if numbered.MatchString(verse) {
		return false
	}
	if strings.HasSuffix(strings.TrimSpace(verse), ".") {
		return false
	}
	return verse == strings.ToUpper(verse) || utf8.RuneCountInString(verse) < maxHeadingLength
}

// Verses renders one verse per paragraph with headings in bold
func (r *Renderer) Verses(verses []string) string {
	if len(verses) == 0 {
		return r.muted.Render(EmptyMessage)
	}

	blocks := make([]string, 0, len(verses))
	for _, verse := range verses {
		text := common.WrapString(verse, r.width)
		if IsHeading(verse) {
			blocks = append(blocks, r.heading.Render(text))
		} else {
			blocks = append(blocks, r.verse.Render(text))
		}
	}
	return strings.Join(blocks, "\n\n")
}

// JSON renders the JSON output
func (r *Renderer) JSON(jsonOutput string) string {
	if jsonOutput == "" {
		return r.muted.Render(EmptyMessage)
	}
	return r.json.Render(jsonOutput)
}

// Result renders the parts of result selected by mode
func (r *Renderer) Result(result common.ProcessingResult, mode common.OutputMode) string {
	switch mode {
	case common.OutputVerses:
		return r.Verses(result.Verses)
	case common.OutputJSON:
		return r.JSON(result.JSONOutput)
	}
	return r.Verses(result.Verses) + "\n\n" + r.muted.Render("── JSON ──") + "\n\n" + r.JSON(result.JSONOutput)
}

// History renders the history list, marking the selected item
func (r *Renderer) History(items []history.Item, selectedID string) string {
	if len(items) == 0 {
		return r.muted.Render("No hay historial reciente.")
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		marker := "  "
		title := r.verse.Render(item.Title())
		if item.ID == selectedID {
			marker = "> "
			title = r.selected.Render(item.Title())
		}
		meta := r.muted.Render(fmt.Sprintf("%s  %s  %s",
			item.Time().Format("2006-01-02 15:04"), item.Config.OutputMode.Label(), item.ID))
		lines = append(lines, marker+title+"\n  "+meta)
	}
	return strings.Join(lines, "\n")
}

// Item renders the details of one history item
func (r *Renderer) Item(item history.Item) string {
	var b strings.Builder
	b.WriteString(r.heading.Render(item.Title()))
	b.WriteString("\n")
	b.WriteString(r.muted.Render(fmt.Sprintf("%s · %s · %s", item.ID, item.Time().Format("2006-01-02 15:04:05"), item.Config.OutputMode.Label())))
	b.WriteString("\n")
	if item.AttachmentName != "" {
		b.WriteString(r.muted.Render("Adjunto: " + item.AttachmentName))
		b.WriteString("\n")
	}
	if item.Config.VerseSeparator != "" {
		b.WriteString(r.muted.Render(fmt.Sprintf("Separador: %q", item.Config.VerseSeparator)))
		b.WriteString("\n")
	}
	if item.Config.HasCustomJSONKey() {
		b.WriteString(r.muted.Render("JSON key: " + item.Config.JSONKey))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(common.WrapString(item.OriginalText, r.width))
	return b.String()
}

// TabFor is the view copied by default for an output mode
func TabFor(mode common.OutputMode) Tab {
	if mode == common.OutputJSON {
		return TabJSON
	}
	return TabVerses
}

// CopyText is the plain text put on the clipboard for tab
func CopyText(result common.ProcessingResult, tab Tab) string {
	if tab == TabJSON {
		return result.JSONOutput
	}
	return strings.Join(result.Verses, "\n\n")
}
