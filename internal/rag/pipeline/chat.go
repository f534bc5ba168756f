package pipeline

import (
	"context"
	"fmt"
	"strings"

	"hrassist/internal/llm"
	"hrassist/internal/metrics"
	"hrassist/internal/rag/schema"
	"hrassist/pkg/logger"
)

// Apology is the only failure text an end user ever sees. Provider errors
// are swallowed at this boundary and never surface as HTTP 5xx.
const Apology = "I'm sorry, I can't answer that. Please contact HR"

// contextHeader introduces the retrieved snippets inside the first prompt
// turn.
const contextHeader = "### Source data from hr_policy_search:"

// Retriever returns ranked document chunks for a query.
type Retriever interface {
	Run(ctx context.Context, query string, topK int) ([]*schema.RetrievedDocument, error)
}

// ChatOptions holds the request-scoped budgets of the orchestrator. They are
// configuration knobs, not fixed constants.
type ChatOptions struct {
	TopK            int // neighbors requested from retrieval
	MaxMessageChars int // incoming message cap, applied before retrieval and generation
	MaxContextChars int // hard cap on the concatenated retrieved context
}

// ChatPipeline answers one chat request: retrieve context, compose the
// prompt, generate with the primary model, fall back to the secondary model
// on failure, and append the citation footer. It holds no per-request state;
// the caller owns conversation history.
type ChatPipeline struct {
	retriever    Retriever
	primary      llm.ChatModel
	secondary    llm.ChatModel // may be nil
	systemPrompt string
	opts         ChatOptions
	counters     *metrics.Counters
	log          *logger.Logger
}

// NewChatPipeline creates a ChatPipeline. secondary may be nil to disable
// the fallback provider.
func NewChatPipeline(
	retriever Retriever,
	primary, secondary llm.ChatModel,
	systemPrompt string,
	opts ChatOptions,
	counters *metrics.Counters,
	log *logger.Logger,
) *ChatPipeline {
	return &ChatPipeline{
		retriever:    retriever,
		primary:      primary,
		secondary:    secondary,
		systemPrompt: systemPrompt,
		opts:         opts,
		counters:     counters,
		log:          log,
	}
}

// Run produces the reply for one chat request. It always returns a usable
// reply string; every failure path ends in the apology text with the
// citation footer attached.
func (p *ChatPipeline) Run(ctx context.Context, message string, history []llm.Message) string {
	p.counters.IncRequests()

	// Bound the message before it reaches embedding, retrieval or
	// generation.
	message = truncateRunes(message, p.opts.MaxMessageChars)

	docs, err := p.retriever.Run(ctx, message, p.opts.TopK)
	if err != nil {
		p.log.WithPayload(map[string]interface{}{
			"error": err.Error(),
		}).Error("Retrieval failed")
		p.counters.IncErrors()
		return Apology + "\n\n" + FormatSources(nil)
	}

	messages := p.composeMessages(message, history, docs)
	answer := p.generate(ctx, messages)

	// Sources come from the originally retrieved documents, not the
	// truncated context, and are attached even to apology answers.
	return answer + "\n\n" + FormatSources(docs)
}

// composeMessages builds the full turn list: system instruction plus
// retrieved context as the first user turn, then the caller's history, then
// the current message.
func (p *ChatPipeline) composeMessages(message string, history []llm.Message, docs []*schema.RetrievedDocument) []llm.Message {
	context := buildContext(docs, p.opts.MaxContextChars)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: p.systemPrompt + "\n\n" + contextHeader + "\n" + context,
	})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})
	return messages
}

// generate runs the primary model and falls back to the secondary model on
// any primary failure. Both failing yields the apology.
func (p *ChatPipeline) generate(ctx context.Context, messages []llm.Message) string {
	text, usage, err := p.primary.Generate(ctx, messages)
	if err == nil {
		p.counters.RecordPrimaryCall(totalTokens(usage))
		return strings.TrimSpace(text)
	}

	p.log.WithPayload(map[string]interface{}{
		"error":       err.Error(),
		"recoverable": llm.IsRecoverable(err),
	}).Warn("Primary chat model failed")

	if p.secondary != nil {
		text, usage, err = p.secondary.Generate(ctx, messages)
		if err == nil {
			p.counters.RecordFallbackCall(totalTokens(usage))
			return strings.TrimSpace(text)
		}
		p.log.WithPayload(map[string]interface{}{
			"error": err.Error(),
		}).Error("Fallback chat model failed")
	}

	p.counters.IncErrors()
	return Apology
}

// FormatSources renders the citation footer: a "Sources:" header and one
// bullet per distinct source file, in first-occurrence order. The ^1 marker
// is fixed regardless of position.
func FormatSources(docs []*schema.RetrievedDocument) string {
	lines := []string{"Sources:"}
	seen := make(map[string]bool)
	for _, d := range docs {
		file := d.File
		if file == "" {
			file = "Document"
		}
		if seen[file] {
			continue
		}
		seen[file] = true

		url := d.URL
		if url == "" {
			url = file
		}
		lines = append(lines, fmt.Sprintf("- ^1 [%s](%s)", file, url))
	}
	return strings.Join(lines, "\n")
}

// buildContext concatenates the retrieved chunk texts as bullets and applies
// the hard character budget. The truncation is purely for cost control and
// is not sentence-aware.
func buildContext(docs []*schema.RetrievedDocument, maxChars int) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, "- "+d.Text)
	}
	return truncateRunes(strings.Join(parts, "\n\n"), maxChars)
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func totalTokens(usage *llm.Usage) int {
	if usage == nil {
		return 0
	}
	return usage.TotalTokens
}
