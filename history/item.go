package history

import (
	"strings"
	"time"

	"github.com/bitrise-io/ai-verse-processor/common"
)

const (
	// PreviewLength is the number of runes of the original text kept in a preview
	PreviewLength = 30
	// AttachmentMarker prefixes the preview of attachment-only requests
	AttachmentMarker = "[Adjunto] "
	// UntitledPreview is shown for items without any preview
	UntitledPreview = "Texto sin título"
)

// Item is one past request. Attachment bytes are never stored, only the file name.
type Item struct {
	ID             string                 `json:"id"`
	Timestamp      int64                  `json:"timestamp"` // unix milliseconds
	OriginalText   string                 `json:"originalText"`
	AttachmentName string                 `json:"attachmentName,omitempty"`
	Config         common.ProcessorConfig `json:"config"`
	Preview        string                 `json:"preview"`
}

// NewItem builds a history entry and derives its preview
func NewItem(id string, at time.Time, text, attachmentName string, config common.ProcessorConfig) Item {
	return Item{
		ID:             id,
		Timestamp:      at.UnixMilli(),
		OriginalText:   text,
		AttachmentName: attachmentName,
		Config:         config,
		Preview:        Preview(text, attachmentName),
	}
}

// Preview is the truncated original text, or the attachment marker
// when an attachment was sent without any text.
func Preview(text, attachmentName string) string {
	if strings.TrimSpace(text) == "" && attachmentName != "" {
		return AttachmentMarker + attachmentName
	}
	return common.Truncate(text, PreviewLength)
}

// Time returns the item's timestamp as a time.Time
func (i Item) Time() time.Time {
	return time.UnixMilli(i.Timestamp)
}

// Title is the preview, or a placeholder when there is none
func (i Item) Title() string {
	if i.Preview == "" {
		return UntitledPreview
	}
	return i.Preview
}
