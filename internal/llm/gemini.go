package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini is a chat client backed by the Google GenAI API.
type Gemini struct {
	model *genai.GenerativeModel
}

// NewGemini creates a Gemini chat client for the given model name.
func NewGemini(ctx context.Context, model, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{
		model: client.GenerativeModel(model),
	}, nil
}

// Generate sends the conversation turns to Gemini and returns the reply text.
// A fresh chat session is built per call; the client keeps no conversation
// state between requests.
func (g *Gemini) Generate(ctx context.Context, messages []Message) (string, *Usage, error) {
	if len(messages) == 0 {
		return "", nil, fmt.Errorf("no messages to send")
	}

	cs := g.model.StartChat()
	for _, m := range messages[:len(messages)-1] {
		cs.History = append(cs.History, &genai.Content{
			Role:  string(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	last := messages[len(messages)-1]
	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil, ErrBlocked
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	var usage *Usage
	if resp.UsageMetadata != nil {
		usage = &Usage{TotalTokens: int(resp.UsageMetadata.TotalTokenCount)}
	}

	return sb.String(), usage, nil
}

var _ ChatModel = (*Gemini)(nil)
