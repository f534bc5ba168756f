// Package llm provides chat model clients for answer generation.
package llm

import (
	"context"
	"errors"

	openai "github.com/meguminnnnnnnnn/go-openai"
	"google.golang.org/api/googleapi"
)

// Role identifies the author of a conversation turn. The vocabulary follows
// the Gemini API; the OpenAI client translates roles to its own names.
type Role string

const (
	// RoleUser marks a turn written by the end user.
	RoleUser Role = "user"
	// RoleModel marks a turn generated by the model.
	RoleModel Role = "model"
)

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Usage carries the token accounting reported by a provider, when available.
type Usage struct {
	TotalTokens int
}

// ChatModel is the interface for a model that generates a reply from an
// ordered list of conversation turns.
type ChatModel interface {
	Generate(ctx context.Context, messages []Message) (string, *Usage, error)
}

// ErrBlocked is returned when a provider accepted the request but produced no
// usable candidate, typically because of a safety block.
var ErrBlocked = errors.New("response blocked by provider")

// IsRecoverable reports whether err is a classified client-side provider
// error (quota, safety block, invalid request) that warrants a fallback
// attempt rather than a server-side defect.
func IsRecoverable(err error) bool {
	if errors.Is(err, ErrBlocked) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code >= 400 && gerr.Code < 500
	}
	var aerr *openai.APIError
	if errors.As(err, &aerr) {
		return aerr.HTTPStatusCode >= 400 && aerr.HTTPStatusCode < 500
	}
	return false
}
