package server

import (
	"github.com/bitrise-io/ai-verse-processor/attachment"
	"github.com/bitrise-io/ai-verse-processor/common"
	"github.com/bitrise-io/ai-verse-processor/history"
)

// ConfigRequest carries the processor options of a request. Missing fields
// keep the server defaults.
type ConfigRequest struct {
	OutputMode     *common.OutputMode `json:"outputMode"`
	VerseSeparator *string            `json:"verseSeparator"`
	JSONKey        *string            `json:"jsonKey"`
	IncludeIndex   *bool              `json:"includeIndex"`
}

// apply merges the set fields of r over defaults
func (r *ConfigRequest) apply(defaults common.ProcessorConfig) common.ProcessorConfig {
	config := defaults
	if r == nil {
		return config
	}
	if r.OutputMode != nil {
		config.OutputMode = *r.OutputMode
	}
	if r.VerseSeparator != nil {
		config.VerseSeparator = *r.VerseSeparator
	}
	if r.JSONKey != nil {
		config.JSONKey = *r.JSONKey
	}
	if r.IncludeIndex != nil {
		config.IncludeIndex = *r.IncludeIndex
	}
	return config
}

type ProcessRequest struct {
	Text       string                 `json:"text"`
	Config     *ConfigRequest         `json:"config"`
	Attachment *attachment.Attachment `json:"attachment"`
}

type ProcessResponse struct {
	Verses     []string               `json:"verses"`
	JSONOutput string                 `json:"jsonOutput"`
	Config     common.ProcessorConfig `json:"config"`
}

type HistoryResponse struct {
	Items      []history.Item `json:"items"`
	SelectedID string         `json:"selectedId"`
	Total      int            `json:"total"`
}

type ReprocessResponse struct {
	Item       history.Item `json:"item"`
	Verses     []string     `json:"verses"`
	JSONOutput string       `json:"jsonOutput"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
