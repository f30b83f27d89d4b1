package attachment

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText returns the plain text layer of a PDF attachment.
// Providers without inline PDF support receive this text instead of the bytes.
func ExtractPDFText(att Attachment) (string, error) {
	data, err := att.Bytes()
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %s: %w", att.Name, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", att.Name, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read text from %s: %w", att.Name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
