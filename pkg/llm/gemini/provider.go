package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mental-health-agent-be/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"

	providerName = "gemini"
)

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"
)

type GeminiChatParts struct {
	Text string `json:"text"`
}

type GeminiChatContent struct {
	Parts []*GeminiChatParts `json:"parts"`
	Role  string             `json:"role,omitempty"`
}

type GeminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type GeminiChatRequest struct {
	Contents          []*GeminiChatContent    `json:"contents"`
	SystemInstruction *GeminiChatContent      `json:"systemInstruction,omitempty"`
	GenerationConfig  *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiChatCandidate struct {
	Content *GeminiChatContent `json:"content"`
}

type GeminiChatResponse struct {
	Candidates []*GeminiChatCandidate `json:"candidates"`
}

type GeminiProvider struct {
	BaseURL   string
	ModelName string
	APIKey    string
	Client    *http.Client
}

var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(baseURL, modelName, apiKey string, timeout time.Duration) *GeminiProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &GeminiProvider{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		ModelName: modelName,
		APIKey:    apiKey,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(llm.Options{Temperature: 0.7}, opts...)

	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	ctx, span := otel.Tracer("llm").Start(ctx, "gemini.generateContent", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", model))

	text, err := g.generate(ctx, model, buildRequest(history, options))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return text, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: ChatMessageRoleUser, Content: prompt}}, opts...)
}

func buildRequest(history []llm.Message, options *llm.Options) *GeminiChatRequest {
	payload := &GeminiChatRequest{
		Contents: make([]*GeminiChatContent, 0, len(history)),
		GenerationConfig: &GeminiGenerationConfig{
			Temperature:     options.Temperature,
			TopK:            options.TopK,
			TopP:            options.TopP,
			MaxOutputTokens: options.MaxTokens,
		},
	}

	for _, msg := range history {
		if msg.Role == "system" {
			payload.SystemInstruction = &GeminiChatContent{
				Parts: []*GeminiChatParts{{Text: msg.Content}},
			}
			continue
		}
		role := ChatMessageRoleUser
		if msg.Role == "assistant" || msg.Role == ChatMessageRoleModel {
			role = ChatMessageRoleModel
		}
		payload.Contents = append(payload.Contents, &GeminiChatContent{
			Parts: []*GeminiChatParts{{Text: msg.Content}},
			Role:  role,
		})
	}

	return payload
}

func (g *GeminiProvider) generate(ctx context.Context, model string, payload *GeminiChatRequest) (string, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s:generateContent", g.BaseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("x-goog-api-key", g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return "", llm.TransportError(providerName, err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", llm.TransportError(providerName, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", llm.StatusError(providerName, res.StatusCode, resBody)
	}

	var geminiRes GeminiChatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", llm.MalformedError(providerName, err.Error())
	}

	return extractText(&geminiRes)
}

// extractText reads candidates[0].content.parts[0].text.
func extractText(res *GeminiChatResponse) (string, error) {
	if len(res.Candidates) == 0 || res.Candidates[0] == nil {
		return "", llm.MalformedError(providerName, "no candidates")
	}
	content := res.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", llm.MalformedError(providerName, "candidate has no content parts")
	}
	if strings.TrimSpace(content.Parts[0].Text) == "" {
		return "", llm.MalformedError(providerName, "empty text part")
	}
	return content.Parts[0].Text, nil
}
