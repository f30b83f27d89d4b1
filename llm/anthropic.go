package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bitrise-io/ai-verse-processor/attachment"
	"github.com/bitrise-io/ai-verse-processor/logger"
)

// jsonPrefill opens the assistant turn so the model continues with a JSON object
const jsonPrefill = "{"

// AnthropicModel implements the LLM interface using Anthropic's API
type AnthropicModel struct {
	client     anthropic.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewAnthropic creates a new Anthropic client
func NewAnthropic(apiKey string, opts ...Option) (*AnthropicModel, error) {
	if apiKey == "" {
		errMsg := "Anthropic API key cannot be empty"
		logger.Error(errMsg)
		return nil, errors.New(errMsg)
	}

	resolved := applyOptions(options{
		modelName:  string(anthropic.ModelClaude3_7SonnetLatest),
		maxTokens:  8192,
		apiTimeout: 60,
	}, opts)

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(resolved.httpClient),
		// Retries are owned by the shared HTTP client
		option.WithMaxRetries(0),
	}
	if resolved.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(resolved.baseURL))
	}

	logger.Debugf("Anthropic client initialized with model: %s, max tokens: %d, timeout: %d seconds",
		resolved.modelName, resolved.maxTokens, resolved.apiTimeout)

	return &AnthropicModel{
		client:     anthropic.NewClient(clientOpts...),
		modelName:  resolved.modelName,
		maxTokens:  resolved.maxTokens,
		apiTimeout: resolved.apiTimeout,
	}, nil
}

// Prompt sends a request to Anthropic and returns the response
func (a *AnthropicModel) Prompt(ctx context.Context, req Request) Response {
	logger.Debugf("Sending prompt to Anthropic model: %s", a.modelName)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.apiTimeout)*time.Second)
	defer cancel()

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Parts))
	for _, p := range req.Parts {
		if !p.IsInline() {
			blocks = append(blocks, anthropic.NewTextBlock(p.Text))
			continue
		}
		if p.InlineData.MIMEType != attachment.MIMETypePDF {
			return Response{Error: fmt.Errorf("unsupported inline data type for Anthropic: %s", p.InlineData.MIMEType)}
		}
		blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{
			Data: p.InlineData.Data,
		}))
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(blocks...),
	}
	if req.ResponseFormat == ResponseFormatJSON {
		messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(jsonPrefill)))
	}

	messageParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.modelName),
		MaxTokens: int64(a.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: req.SystemInstruction},
		},
		Messages:    messages,
		Temperature: anthropic.Float(float64(req.Temperature)),
	}

	logger.Infof("Sending request to Anthropic with model %s, max tokens %d", a.modelName, a.maxTokens)

	message, err := a.client.Messages.New(ctx, messageParams)
	if err != nil {
		logger.Errorf("failed to create message: %v", err)
		return Response{
			Error: fmt.Errorf("failed to create message: %w", err),
		}
	}

	var content string
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			content += b.Text
		}
	}

	if req.ResponseFormat == ResponseFormatJSON && content != "" {
		content = jsonPrefill + content
	}

	return Response{
		Content: content,
	}
}
