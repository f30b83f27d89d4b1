package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/bitrise-io/ai-verse-processor/attachment"
	"github.com/bitrise-io/ai-verse-processor/common"
	"github.com/bitrise-io/ai-verse-processor/llm"
)

var testPDF = &attachment.Attachment{Name: "carta.pdf", MIMEType: attachment.MIMETypePDF, Data: "JVBERi0xLjQK"}

func TestBuild_EmptyInput(t *testing.T) {
	inputs := []string{"", "   ", "\n\t\n"}
	for _, input := range inputs {
		_, err := Build(input, common.DefaultProcessorConfig(), nil)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Expected ErrEmptyInput for %q, got %v", input, err)
		}
	}
}

func TestBuild_TextIsPrimarySubject(t *testing.T) {
	req, err := Build("Salmo 23...", common.DefaultProcessorConfig(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(req.Parts) != 1 {
		t.Fatalf("Expected 1 part, got %d", len(req.Parts))
	}
	if req.Parts[0].IsInline() {
		t.Error("Expected a text part")
	}
	if req.Parts[0].Text != "TEXTO A PROCESAR:\n\nSalmo 23..." {
		t.Errorf("Unexpected text part: %q", req.Parts[0].Text)
	}
	if req.Temperature != Temperature {
		t.Errorf("Expected temperature %v, got %v", Temperature, req.Temperature)
	}
	if req.ResponseFormat != llm.ResponseFormatJSON {
		t.Errorf("Expected JSON response format, got %s", req.ResponseFormat)
	}
}

func TestBuild_DefaultConfigHasNoOverrides(t *testing.T) {
	config := common.ProcessorConfig{OutputMode: common.OutputBoth, VerseSeparator: "", JSONKey: "content", IncludeIndex: true}
	req, err := Build("Salmo 23...", config, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(req.SystemInstruction, "NOTA DEL USUARIO SOBRE VERSÍCULOS") {
		t.Error("Expected no separator override note")
	}
	if strings.Contains(req.SystemInstruction, "NOTA DEL USUARIO SOBRE JSON KEY") {
		t.Error("Expected no json key note for the default key")
	}
	if req.SystemInstruction != editorialPrompt {
		t.Error("Expected the bare editorial prompt")
	}
}

func TestBuild_SeparatorOverride(t *testing.T) {
	config := common.DefaultProcessorConfig()
	config.VerseSeparator = "\n\n"

	req, err := Build("Salmo 23...", config, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(req.SystemInstruction, "NOTA DEL USUARIO SOBRE VERSÍCULOS") {
		t.Error("Expected separator override note")
	}
	if !strings.Contains(req.SystemInstruction, `"\n\n"`) {
		t.Errorf("Expected the exact separator to be quoted in the note, got %q", req.SystemInstruction[len(editorialPrompt):])
	}
}

func TestBuild_JSONKeyOverride(t *testing.T) {
	config := common.DefaultProcessorConfig()
	config.JSONKey = "versiculos"

	req, err := Build("Carta", config, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(req.SystemInstruction, "Usar 'versiculos' en lugar de 'content'") {
		t.Errorf("Expected json key note, got %q", req.SystemInstruction[len(editorialPrompt):])
	}
}

func TestBuild_AttachmentOnly(t *testing.T) {
	req, err := Build("", common.DefaultProcessorConfig(), testPDF)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(req.Parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(req.Parts))
	}
	if !req.Parts[0].IsInline() {
		t.Fatal("Expected the attachment to be the first part")
	}
	if req.Parts[0].InlineData.MIMEType != attachment.MIMETypePDF || req.Parts[0].InlineData.Data != testPDF.Data {
		t.Errorf("Unexpected inline part: %+v", req.Parts[0].InlineData)
	}
	if req.Parts[1].Text != attachmentPrompt {
		t.Errorf("Expected extraction request, got %q", req.Parts[1].Text)
	}
}

func TestBuild_AttachmentWithText(t *testing.T) {
	req, err := Build("Solo el capítulo 2", common.DefaultProcessorConfig(), testPDF)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(req.Parts) != 3 {
		t.Fatalf("Expected 3 parts, got %d", len(req.Parts))
	}
	if !req.Parts[0].IsInline() {
		t.Error("Expected the attachment first")
	}
	if req.Parts[2].Text != "INSTRUCCIONES ADICIONALES DEL USUARIO:\n\nSolo el capítulo 2" {
		t.Errorf("Expected text as supplementary instructions, got %q", req.Parts[2].Text)
	}
	for _, p := range req.Parts {
		if strings.HasPrefix(p.Text, "TEXTO A PROCESAR") {
			t.Error("Expected free text to not be the primary subject when an attachment is present")
		}
	}
}
