package prompt

import (
	"errors"
	"strings"

	"github.com/bitrise-io/ai-verse-processor/attachment"
	"github.com/bitrise-io/ai-verse-processor/common"
	"github.com/bitrise-io/ai-verse-processor/llm"
)

// Temperature is kept low so structural formatting stays stable across calls
const Temperature float32 = 0.1

const (
	textHeader       = "TEXTO A PROCESAR:\n\n"
	attachmentPrompt = "Extrae y estructura el contenido del documento adjunto siguiendo las reglas indicadas."
	extraHeader      = "INSTRUCCIONES ADICIONALES DEL USUARIO:\n\n"
)

// ErrEmptyInput is returned when there is neither text nor an attachment to send
var ErrEmptyInput = errors.New("no text or attachment to process")

// Build assembles the model invocation for one request.
// With an attachment the document comes first and the free text only supplements it.
func Build(text string, config common.ProcessorConfig, att *attachment.Attachment) (llm.Request, error) {
	hasText := strings.TrimSpace(text) != ""
	if !hasText && att == nil {
		return llm.Request{}, ErrEmptyInput
	}

	var parts []llm.Part
	if att != nil {
		parts = append(parts,
			llm.InlinePart(att.MIMEType, att.Data),
			llm.TextPart(attachmentPrompt),
		)
		if hasText {
			parts = append(parts, llm.TextPart(extraHeader+text))
		}
	} else {
		parts = append(parts, llm.TextPart(textHeader+text))
	}

	return llm.Request{
		SystemInstruction: GetSystemPrompt(config),
		Temperature:       Temperature,
		ResponseFormat:    llm.ResponseFormatJSON,
		Parts:             parts,
	}, nil
}
