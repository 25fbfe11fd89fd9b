package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const suggesterSystemPrompt = `You suggest related search queries for a ` +
	`live-streaming platform's search box. Respond with a JSON array of ` +
	`short query strings and nothing else.`

// Suggester proposes related search queries via chat completions.
type Suggester struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// SuggesterConfig holds the suggester settings.
type SuggesterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewSuggester creates a chat-completion-backed query suggester.
func NewSuggester(cfg *SuggesterConfig) *Suggester {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Suggester{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Suggest returns up to n query strings related to queryText.
func (s *Suggester) Suggest(ctx context.Context, queryText string, n int) ([]string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggesterSystemPrompt},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Suggest %d queries related to: %s", n, queryText),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	suggestions, err := parseSuggestions(resp.Choices[0].Message.Content)
	if err != nil {
		s.logger.Warn("unparseable suggestion completion",
			zap.String("content", resp.Choices[0].Message.Content), zap.Error(err))
		return nil, err
	}
	if len(suggestions) > n {
		suggestions = suggestions[:n]
	}
	return suggestions, nil
}

// parseSuggestions reads the completion as a JSON string array, tolerating
// a markdown code fence around it.
func parseSuggestions(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var suggestions []string
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}

	out := suggestions[:0]
	for _, s := range suggestions {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
