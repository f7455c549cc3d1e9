package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gradewise/gradewise/internal/llm/prompts"
	"github.com/gradewise/gradewise/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// Validation failures on the oracle's reply. All of them mean the same
// thing to the caller: the reply cannot be trusted and the fallback scorer
// takes over.
var (
	ErrEmptyReply     = errors.New("empty response from model")
	ErrMalformedReply = errors.New("malformed JSON from model")
	ErrMissingFields  = errors.New("missing marks or feedback in parsed response")
)

// Client wraps an OpenAI-compatible API client for grading answers.
type Client struct {
	api       *openai.Client
	model     string
	variant   prompts.Variant
	maxTokens int
}

// New creates a new grading client.
func New(baseURL, apiKey, modelName string, variant prompts.Variant, maxTokens int) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:       openai.NewClientWithConfig(config),
		model:     modelName,
		variant:   variant,
		maxTokens: maxTokens,
	}
}

// Ping checks that the API endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.api.ListModels(ctx)
	return err
}

// Grade asks the model to grade a single answer. The reply must be a single
// JSON object {"marks": number, "feedback": string}; anything else is an
// error. Marks above the question's maximum are clamped, not rejected. A
// failed call is terminal: the client never retries.
func (c *Client) Grade(ctx context.Context, question model.Question, answer string) (model.GradeResult, error) {
	prompt, err := prompts.Build(c.variant, question, answer)
	if err != nil {
		return model.GradeResult{}, fmt.Errorf("build prompt: %w", err)
	}

	resp, err := c.api.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   c.maxTokens,
		Temperature: 0.1,
		Stop:        []string{"\n"},
	})
	if err != nil {
		return model.GradeResult{}, fmt.Errorf("grading API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return model.GradeResult{}, ErrEmptyReply
	}
	raw := strings.TrimSpace(resp.Choices[0].Text)
	if raw == "" {
		return model.GradeResult{}, ErrEmptyReply
	}

	result, err := parseGradeReply(raw)
	if err != nil {
		// Raw text is logged for diagnosis but never surfaced to the caller.
		slog.Debug("invalid grading reply", "question", question.Number, "raw", raw, "error", err)
		return model.GradeResult{}, err
	}

	if result.Marks > question.MaxMarks {
		result.Marks = question.MaxMarks
	}
	return result, nil
}

// parseGradeReply validates the oracle's reply text field by field instead
// of trusting whatever shape came back.
func parseGradeReply(raw string) (model.GradeResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return model.GradeResult{}, ErrMalformedReply
	}

	var marks float64
	if err := json.Unmarshal(fields["marks"], &marks); err != nil {
		return model.GradeResult{}, ErrMissingFields
	}
	var feedback string
	if err := json.Unmarshal(fields["feedback"], &feedback); err != nil || feedback == "" {
		return model.GradeResult{}, ErrMissingFields
	}
	return model.GradeResult{Marks: marks, Feedback: feedback}, nil
}
