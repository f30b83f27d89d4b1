package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bitrise-io/ai-verse-processor/attachment"
	"github.com/bitrise-io/ai-verse-processor/logger"
	"github.com/sashabaranov/go-openai"
)

// OpenAIModel implements the LLM interface using OpenAI's API
type OpenAIModel struct {
	client     *openai.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewOpenAI creates a new OpenAI client
func NewOpenAI(apiKey string, opts ...Option) (*OpenAIModel, error) {
	if apiKey == "" {
		errMsg := "OpenAI API key cannot be empty"
		logger.Error(errMsg)
		return nil, errors.New(errMsg)
	}

	resolved := applyOptions(options{
		modelName:  "gpt-4.1",
		maxTokens:  8192,
		apiTimeout: 60,
	}, opts)

	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = resolved.httpClient
	if resolved.baseURL != "" {
		config.BaseURL = resolved.baseURL
	}

	model := &OpenAIModel{
		client:     openai.NewClientWithConfig(config),
		modelName:  resolved.modelName,
		maxTokens:  resolved.maxTokens,
		apiTimeout: resolved.apiTimeout,
	}

	logger.Debugf("OpenAI client initialized with model: %s, max tokens: %d, timeout: %d seconds",
		model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// userContent flattens the ordered parts into one user message.
// Chat completions take no inline PDF, so PDF parts are replaced by their text layer.
func userContent(parts []Part) (string, error) {
	var sections []string
	for _, p := range parts {
		if !p.IsInline() {
			sections = append(sections, p.Text)
			continue
		}
		if p.InlineData.MIMEType != attachment.MIMETypePDF {
			return "", fmt.Errorf("unsupported inline data type for OpenAI: %s", p.InlineData.MIMEType)
		}
		text, err := attachment.ExtractPDFText(attachment.Attachment{
			Name:     "attachment.pdf",
			MIMEType: p.InlineData.MIMEType,
			Data:     p.InlineData.Data,
		})
		if err != nil {
			return "", err
		}
		logger.Debugf("Replaced inline PDF with %d characters of extracted text", len(text))
		sections = append(sections, "DOCUMENTO ADJUNTO:\n\n"+text)
	}
	return strings.Join(sections, "\n\n"), nil
}

// Prompt sends a request to OpenAI and returns the response
func (o *OpenAIModel) Prompt(ctx context.Context, req Request) Response {
	logger.Debugf("Sending prompt to OpenAI model: %s", o.modelName)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(o.apiTimeout)*time.Second)
	defer cancel()

	content, err := userContent(req.Parts)
	if err != nil {
		return Response{Error: err}
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: content,
		},
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       o.modelName,
		Messages:    messages,
		MaxTokens:   o.maxTokens,
		Temperature: req.Temperature,
	}
	if req.ResponseFormat == ResponseFormatJSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	logger.Infof("Sending request to OpenAI with model %s, max tokens %d", o.modelName, o.maxTokens)

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		errMsg := fmt.Sprintf("failed to create chat completion: %v", err)
		logger.Error(errMsg)
		return Response{
			Error: fmt.Errorf("failed to create chat completion: %w", err),
		}
	}

	if len(resp.Choices) == 0 {
		errMsg := "OpenAI response contained no choices"
		logger.Error(errMsg)
		return Response{
			Error: errors.New(errMsg),
		}
	}

	return Response{
		Content: resp.Choices[0].Message.Content,
	}
}
