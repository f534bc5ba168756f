package llm

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAI is a chat client backed by the OpenAI API. It serves as the
// secondary provider, so its responses are bounded by a completion token
// limit to keep fallback cost predictable.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAI creates an OpenAI chat client. maxTokens bounds the completion
// length; zero leaves the provider default in place.
func NewOpenAI(model, apiKey string, maxTokens int) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	client := openai.NewClientWithConfig(config)
	return &OpenAI{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Generate sends the conversation turns to OpenAI and returns the reply text.
// Model-originated turns are translated to the assistant role.
func (o *OpenAI) Generate(ctx context.Context, messages []Message) (string, *Usage, error) {
	if len(messages) == 0 {
		return "", nil, fmt.Errorf("no messages to send")
	}

	oaMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		oaMessages = append(oaMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:     o.model,
		Messages:  oaMessages,
		MaxTokens: o.maxTokens,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil, ErrBlocked
	}

	return resp.Choices[0].Message.Content, &Usage{TotalTokens: resp.Usage.TotalTokens}, nil
}

var _ ChatModel = (*OpenAI)(nil)
