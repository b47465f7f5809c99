package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/avoronin/intakebot/internal/domain"
)

const (
	defaultModel   = openai.ChatModelGPT4oMini
	requestTimeout = 15 * time.Second
)

// OpenAI is the remote Assistant backed by the OpenAI chat completions API.
// Every failure is returned as an error; callers decide how to degrade.
type OpenAI struct {
	client  openai.Client
	model   openai.ChatModel
	timeout time.Duration
}

// NewOpenAI creates the remote assistant. An empty model selects the default.
func NewOpenAI(apiKey, model string) *OpenAI {
	chatModel := defaultModel
	if model != "" {
		chatModel = openai.ChatModel(model)
	}
	return &OpenAI{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   chatModel,
		timeout: requestTimeout,
	}
}

// Classify asks the model for a JSON {type, urgency} label pair.
func (a *OpenAI) Classify(ctx context.Context, description string) (domain.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(classificationSystemPrompt),
			openai.UserMessage(buildClassificationPrompt(description)),
		},
		Temperature:         openai.Float(0),
		MaxCompletionTokens: openai.Int(128),
	})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classification completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return domain.Classification{}, fmt.Errorf("classification completion returned no choices")
	}

	return parseClassification(completion.Choices[0].Message.Content)
}

// Summarize asks the model for a 2-4 sentence synopsis of the intake data.
func (a *OpenAI) Summarize(ctx context.Context, data domain.IntakeData) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarySystemPrompt),
			openai.UserMessage(buildSummaryPrompt(data)),
		},
		Temperature:         openai.Float(0.2),
		MaxCompletionTokens: openai.Int(180),
	})
	if err != nil {
		return "", fmt.Errorf("summary completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("summary completion returned no choices")
	}

	summary := strings.TrimSpace(completion.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("summary completion returned empty content")
	}
	return summary, nil
}

// parseClassification decodes the expected {"type","urgency"} JSON object,
// defaulting missing keys.
func parseClassification(content string) (domain.Classification, error) {
	var parsed struct {
		Type    string `json:"type"`
		Urgency string `json:"urgency"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		return domain.Classification{}, fmt.Errorf("parse classification response %q: %w", content, err)
	}

	if parsed.Type == "" {
		parsed.Type = domain.DebtTypeOther
	}
	if parsed.Urgency == "" {
		parsed.Urgency = domain.UrgencyNormal
	}
	return domain.Classification{Type: parsed.Type, Urgency: parsed.Urgency}, nil
}
