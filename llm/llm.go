package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/bitrise-io/ai-verse-processor/common"
	"github.com/bitrise-io/ai-verse-processor/logger"
)

// OptionType defines the type of option
type OptionType string

// Available option types
const (
	ModelNameOption  OptionType = "model"
	MaxTokensOption  OptionType = "max_tokens"
	APITimeoutOption OptionType = "api_timeout"
	HTTPClientOption OptionType = "http_client"
	BaseURLOption    OptionType = "base_url"
)

// Option represents a generic configuration option for any LLM provider
type Option struct {
	Type  OptionType
	Value any
}

// WithModel creates an option to set the model name
func WithModel(model string) Option {
	return Option{
		Type:  ModelNameOption,
		Value: model,
	}
}

// WithMaxTokens creates an option to set the max tokens
func WithMaxTokens(maxTokens int) Option {
	return Option{
		Type:  MaxTokensOption,
		Value: maxTokens,
	}
}

// WithAPITimeout creates an option to set the API timeout in seconds
func WithAPITimeout(timeout int) Option {
	return Option{
		Type:  APITimeoutOption,
		Value: timeout,
	}
}

// WithHTTPClient creates an option to route provider traffic through the given client
func WithHTTPClient(client *http.Client) Option {
	return Option{
		Type:  HTTPClientOption,
		Value: client,
	}
}

// WithBaseURL creates an option to point the provider at a different endpoint
func WithBaseURL(baseURL string) Option {
	return Option{
		Type:  BaseURLOption,
		Value: baseURL,
	}
}

// options is the resolved set of Option values shared by all providers
type options struct {
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
	httpClient *http.Client
	baseURL    string
}

func applyOptions(defaults options, opts []Option) options {
	resolved := defaults
	for _, opt := range opts {
		switch opt.Type {
		case ModelNameOption:
			if modelName, ok := opt.Value.(string); ok && modelName != "" {
				resolved.modelName = modelName
			}
		case MaxTokensOption:
			if maxTokens, ok := opt.Value.(int); ok && maxTokens > 0 {
				resolved.maxTokens = maxTokens
			}
		case APITimeoutOption:
			if timeout, ok := opt.Value.(int); ok && timeout > 0 {
				resolved.apiTimeout = timeout
			}
		case HTTPClientOption:
			if client, ok := opt.Value.(*http.Client); ok && client != nil {
				resolved.httpClient = client
			}
		case BaseURLOption:
			if baseURL, ok := opt.Value.(string); ok {
				resolved.baseURL = baseURL
			}
		}
	}
	if resolved.httpClient == nil {
		resolved.httpClient = common.NewHTTPClient(common.DefaultRetryConfig())
	}
	return resolved
}

// ResponseFormat constrains what the model is allowed to answer with
type ResponseFormat string

const (
	ResponseFormatText ResponseFormat = "text"
	ResponseFormatJSON ResponseFormat = "json"
)

// InlineData is binary content sent along with the prompt
type InlineData struct {
	MIMEType string
	Data     string // base64 encoded
}

// Part is one ordered element of the user content: either text or inline binary data
type Part struct {
	Text       string
	InlineData *InlineData
}

// TextPart creates a text content part
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart creates a binary content part from base64 data
func InlinePart(mimeType, data string) Part {
	return Part{InlineData: &InlineData{MIMEType: mimeType, Data: data}}
}

// IsInline reports whether the part carries binary data
func (p Part) IsInline() bool {
	return p.InlineData != nil
}

// Request represents the data needed to generate a prompt for the LLM
type Request struct {
	SystemInstruction string
	Temperature       float32
	ResponseFormat    ResponseFormat
	Parts             []Part
}

// Response represents the response from the LLM
type Response struct {
	Content string
	Error   error
}

// LLM defines the interface for language model prompting
type LLM interface {
	// Prompt sends a request to the language model and returns its response
	Prompt(ctx context.Context, req Request) Response
}

var apiKeyEnvs = map[string][]string{
	common.ProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"},
	common.ProviderOpenAI:    {"OPENAI_API_KEY"},
	common.ProviderAnthropic: {"ANTHROPIC_API_KEY"},
}

// getAPIKey prefers LLM_API_KEY and falls back to the provider's conventional variables
func getAPIKey(providerName string) (string, error) {
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		return apiKey, nil
	}
	for _, env := range apiKeyEnvs[providerName] {
		if apiKey := os.Getenv(env); apiKey != "" {
			return apiKey, nil
		}
	}
	return "", fmt.Errorf("LLM_API_KEY environment variable is not set")
}

func NewLLM(providerName, modelName string, opts ...Option) (LLM, error) {
	var llmClient LLM
	var err error

	apiKey, err := getAPIKey(providerName)
	if err != nil {
		return nil, err
	}

	options := []Option{
		WithModel(modelName),
		WithAPITimeout(60),
	}
	options = append(options, opts...)

	switch providerName {
	case common.ProviderGemini:
		llmClient, err = NewGemini(apiKey, options...)
	case common.ProviderOpenAI:
		llmClient, err = NewOpenAI(apiKey, options...)
	case common.ProviderAnthropic:
		llmClient, err = NewAnthropic(apiKey, options...)
	default:
		err = fmt.Errorf("unsupported provider: %s", providerName)
	}

	if err == nil {
		logger.Infow("LLM provider ready", "provider", providerName, "model", modelName)
	}

	return llmClient, err
}

// NewFromSettings creates the configured provider with the retry policy from settings
func NewFromSettings(settings common.Settings) (LLM, error) {
	httpClient := common.NewHTTPClient(common.RetryConfigFromSettings(settings))
	return NewLLM(settings.Provider, settings.Model,
		WithMaxTokens(settings.MaxTokens),
		WithAPITimeout(settings.APITimeout),
		WithHTTPClient(httpClient),
	)
}
