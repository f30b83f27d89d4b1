package common

import (
	"encoding/json"
	"fmt"
)

// OutputMode selects which parts of a result are shown to the user
type OutputMode string

const (
	OutputBoth   OutputMode = "both"
	OutputVerses OutputMode = "verses"
	OutputJSON   OutputMode = "json"
)

// DefaultJSONKey is the content array field name the model uses when no override is set
const DefaultJSONKey = "content"

// Valid reports whether m is one of the known output modes
func (m OutputMode) Valid() bool {
	switch m {
	case OutputBoth, OutputVerses, OutputJSON:
		return true
	}
	return false
}

// Label is the short human readable name shown next to history entries
func (m OutputMode) Label() string {
	switch m {
	case OutputJSON:
		return "JSON"
	case OutputVerses:
		return "Versos"
	}
	return "Completo"
}

// ProcessorConfig is the per-request snapshot of the user's processing options.
// It is passed by value so a request never observes later edits.
type ProcessorConfig struct {
	OutputMode     OutputMode `json:"outputMode" yaml:"output_mode"`
	VerseSeparator string     `json:"verseSeparator" yaml:"verse_separator"`
	JSONKey        string     `json:"jsonKey" yaml:"json_key"`
	IncludeIndex   bool       `json:"includeIndex" yaml:"include_index"`
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		OutputMode:     OutputBoth,
		VerseSeparator: "",
		JSONKey:        DefaultJSONKey,
		IncludeIndex:   true,
	}
}

// Validate checks the fields a caller can get wrong
func (c ProcessorConfig) Validate() error {
	if !c.OutputMode.Valid() {
		return fmt.Errorf("invalid output mode %q, expected one of: both, verses, json", c.OutputMode)
	}
	return nil
}

// HasCustomJSONKey reports whether the user asked for a content key other than the default
func (c ProcessorConfig) HasCustomJSONKey() bool {
	return c.JSONKey != "" && c.JSONKey != DefaultJSONKey
}

// storedProcessorConfig mirrors the persisted shape including legacy field names
type storedProcessorConfig struct {
	OutputMode     OutputMode `json:"outputMode"`
	VerseSeparator string     `json:"verseSeparator"`
	JSONKey        string     `json:"jsonKey"`
	JSONKeyName    string     `json:"jsonKeyName"`
	IncludeIndex   *bool      `json:"includeIndex"`
}

// UnmarshalJSON fills in defaults for configs written by older versions,
// which may lack outputMode or carry the content key as jsonKeyName.
func (c *ProcessorConfig) UnmarshalJSON(data []byte) error {
	var stored storedProcessorConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}

	*c = ProcessorConfig{
		OutputMode:     stored.OutputMode,
		VerseSeparator: stored.VerseSeparator,
		JSONKey:        stored.JSONKey,
	}
	if c.OutputMode == "" {
		c.OutputMode = OutputBoth
	}
	if c.JSONKey == "" {
		c.JSONKey = stored.JSONKeyName
	}
	if c.JSONKey == "" {
		c.JSONKey = DefaultJSONKey
	}
	if stored.IncludeIndex != nil {
		c.IncludeIndex = *stored.IncludeIndex
	}
	return nil
}
