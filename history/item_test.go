package history

import (
	"strings"
	"testing"
	"time"

	"github.com/bitrise-io/ai-verse-processor/common"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		attachmentName string
		want           string
	}{
		{name: "short text", text: "Salmo 23", want: "Salmo 23"},
		{name: "long text is truncated", text: strings.Repeat("x", 45), want: strings.Repeat("x", 30) + "..."},
		{name: "attachment only", text: "", attachmentName: "carta.pdf", want: "[Adjunto] carta.pdf"},
		{name: "blank text with attachment", text: "  \n", attachmentName: "carta.pdf", want: "[Adjunto] carta.pdf"},
		{name: "text wins over attachment", text: "Solo capítulo 2", attachmentName: "carta.pdf", want: "Solo capítulo 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.text, tt.attachmentName); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewItem(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	config := common.DefaultProcessorConfig()

	item := NewItem("id-1", at, "SALMO 23\nEl Señor es mi pastor, nada me faltará", "", config)

	if item.ID != "id-1" {
		t.Errorf("Expected id id-1, got %s", item.ID)
	}
	if item.Timestamp != at.UnixMilli() {
		t.Errorf("Expected timestamp %d, got %d", at.UnixMilli(), item.Timestamp)
	}
	if !item.Time().Equal(at) {
		t.Errorf("Expected time %s, got %s", at, item.Time())
	}
	if item.Preview != "SALMO 23\nEl Señor es mi pastor..." {
		t.Errorf("Unexpected preview %q", item.Preview)
	}
	if item.Config != config {
		t.Errorf("Expected config %+v, got %+v", config, item.Config)
	}
}

func TestItem_Title(t *testing.T) {
	if (Item{}).Title() != UntitledPreview {
		t.Errorf("Expected placeholder title, got %q", (Item{}).Title())
	}
	if (Item{Preview: "Salmo"}).Title() != "Salmo" {
		t.Error("Expected preview as title")
	}
}
