package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/bitrise-io/ai-verse-processor/logger"
	"google.golang.org/genai"
)

// GeminiModel implements the LLM interface using Google's Gemini API
type GeminiModel struct {
	client     *genai.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewGemini creates a new Gemini client
func NewGemini(apiKey string, opts ...Option) (*GeminiModel, error) {
	if apiKey == "" {
		errMsg := "Gemini API key cannot be empty"
		logger.Error(errMsg)
		return nil, errors.New(errMsg)
	}

	resolved := applyOptions(options{
		modelName:  "gemini-2.5-flash",
		maxTokens:  8192,
		apiTimeout: 60,
	}, opts)

	config := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: resolved.httpClient,
	}
	if resolved.baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: resolved.baseURL}
	}

	client, err := genai.NewClient(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Debugf("Gemini client initialized with model: %s, max tokens: %d, timeout: %d seconds",
		resolved.modelName, resolved.maxTokens, resolved.apiTimeout)

	return &GeminiModel{
		client:     client,
		modelName:  resolved.modelName,
		maxTokens:  resolved.maxTokens,
		apiTimeout: resolved.apiTimeout,
	}, nil
}

// Prompt sends a request to Gemini and returns the response
func (g *GeminiModel) Prompt(ctx context.Context, req Request) Response {
	logger.Debugf("Sending prompt to Gemini model: %s", g.modelName)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.apiTimeout)*time.Second)
	defer cancel()

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsInline() {
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return Response{Error: fmt.Errorf("failed to decode inline data: %w", err)}
			}
			logger.Debugf("Including inline %s part (%d bytes)", p.InlineData.MIMEType, len(data))
			parts = append(parts, genai.NewPartFromBytes(data, p.InlineData.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
		MaxOutputTokens:   int32(g.maxTokens),
	}
	if req.ResponseFormat == ResponseFormatJSON {
		config.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	logger.Infof("Sending request to Gemini with model %s, max tokens %d", g.modelName, g.maxTokens)

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		errMsg := fmt.Sprintf("failed to generate content: %v", err)
		logger.Error(errMsg)
		return Response{
			Error: fmt.Errorf("failed to generate content: %w", err),
		}
	}

	return Response{
		Content: resp.Text(),
	}
}
