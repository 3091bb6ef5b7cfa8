package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/steadyhq/stride/internal/core/config"
	"github.com/steadyhq/stride/pkg/dates"
)

const systemPrompt = `You are a supportive goal coach. Given a JSON check-in
summary, respond with a single JSON object: {"message": "<one or two warm,
specific sentences>", "recommended_due_date": "YYYY-MM-DD or empty"}.
Only recommend a due date when extend_due_date is true, and keep it within
14 days of the current one.`

// Client is an OpenAI-backed Advisor.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

var _ Advisor = (*Client)(nil)

// NewClient builds an Advisor from the advisory config. Returns
// ErrUnavailable when the oracle is disabled or no API key is set, so
// callers can treat "no oracle" and "broken oracle" the same way.
func NewClient(cfg config.Advisory) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrUnavailable
	}

	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrUnavailable, cfg.APIKeyEnv)
	}

	conf := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		conf.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &Client{
		api:     openai.NewClientWithConfig(conf),
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

type oracleReply struct {
	Message            string `json:"message"`
	RecommendedDueDate string `json:"recommended_due_date"`
}

// Refine asks the oracle for a refined message and optional due date.
func (c *Client) Refine(ctx context.Context, req AdjustmentRequest) (Advice, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return Advice{}, fmt.Errorf("marshal adjustment request: %w", err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Advice{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return Advice{}, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	var reply oracleReply
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &reply); err != nil {
		return Advice{}, fmt.Errorf("%w: malformed reply: %v", ErrUnavailable, err)
	}

	advice := Advice{Message: strings.TrimSpace(reply.Message)}
	if reply.RecommendedDueDate != "" {
		if d, err := dates.Parse(reply.RecommendedDueDate); err == nil {
			advice.RecommendedDueDate = &d
		}
	}

	return advice, nil
}
