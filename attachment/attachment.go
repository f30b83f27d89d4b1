// Package attachment turns user supplied files into either prompt text or a
// binary attachment for the model. PDF is the only supported binary format.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bitrise-io/ai-verse-processor/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

const MIMETypePDF = "application/pdf"

// ErrUnsupportedType is returned for files that are neither text nor PDF
var ErrUnsupportedType = errors.New("unsupported file type")

// textExtensions are accepted as text even when detection is inconclusive
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".json": true,
}

// Attachment is a single binary file sent inline with the request.
// It is never persisted.
type Attachment struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

// Bytes decodes the attachment payload
func (a Attachment) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment %s: %w", a.Name, err)
	}
	return data, nil
}

// Validate checks that the attachment is a PDF with a decodable payload
func (a Attachment) Validate() error {
	if a.MIMEType != MIMETypePDF {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, a.MIMEType)
	}
	if a.Data == "" {
		return fmt.Errorf("attachment %s has no data", a.Name)
	}
	_, err := a.Bytes()
	return err
}

// Input is the result of reading a file: text for text-like files, an attachment for PDFs
type Input struct {
	Text       string
	Attachment *Attachment
}

// Load reads path from fs and classifies it
func Load(fs afero.Fs, path string) (Input, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Input{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes classifies raw file content by its detected MIME type
func FromBytes(name string, data []byte) (Input, error) {
	mtype := mimetype.Detect(data)
	logger.Debugw("Detected file type", "file", name, "mime", mtype.String())

	if mtype.Is(MIMETypePDF) {
		return Input{
			Attachment: &Attachment{
				Name:     name,
				MIMEType: MIMETypePDF,
				Data:     base64.StdEncoding.EncodeToString(data),
			},
		}, nil
	}

	if isText(mtype) || (textExtensions[strings.ToLower(filepath.Ext(name))] && utf8.Valid(data)) {
		return Input{Text: strings.TrimPrefix(string(data), "\ufeff")}, nil
	}

	return Input{}, fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, name, mtype.String())
}

func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
