package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pressfold/blogaug/internal/llm"
)

// ErrEmptyRewrite indicates the model produced no usable body text.
var ErrEmptyRewrite = errors.New("empty rewrite")

// ReferenceText is one extracted reference passed into the prompt, demarcated
// by its title.
type ReferenceText struct {
	Title string
	Text  string
}

// ContextBlob concatenates reference texts into the supplementary-material
// block fed to the model. References with empty text are omitted. Returns ""
// when nothing survived extraction.
func ContextBlob(refs []ReferenceText) string {
	var sb strings.Builder
	for _, r := range refs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n\n--- REFERENCE: %s ---\n%s", r.Title, r.Text))
	}
	return sb.String()
}

// Rewriter calls the chat model to produce a more comprehensive article body
// from the original text and web-derived context. One blocking call per
// article; an empty or failed completion fails that article's attempt.
type Rewriter struct {
	Client llm.Client
	Model  string
	// OriginalCharCap bounds how much of the original text enters the prompt.
	// Zero means the default of 1000.
	OriginalCharCap int
}

const defaultOriginalCharCap = 1000

// Rewrite returns the rewritten Markdown body.
func (r *Rewriter) Rewrite(ctx context.Context, original, contextBlob string) (string, error) {
	if r.Client == nil || strings.TrimSpace(r.Model) == "" {
		return "", errors.New("rewriter not configured")
	}
	req := openai.ChatCompletionRequest{
		Model: r.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: r.buildUserMessage(original, contextBlob)},
		},
		N: 1,
	}
	resp, err := r.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("rewrite call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyRewrite
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyRewrite
	}
	return out, nil
}

const systemMessage = "You are an expert editor."

func (r *Rewriter) buildUserMessage(original, contextBlob string) string {
	limit := r.OriginalCharCap
	if limit <= 0 {
		limit = defaultOriginalCharCap
	}
	if len(original) > limit {
		// Back up to a rune boundary so the cut never splits a multi-byte rune.
		for limit > 0 && !utf8.RuneStart(original[limit]) {
			limit--
		}
		original = original[:limit]
	}
	var sb strings.Builder
	sb.WriteString("Original Article: \"")
	sb.WriteString(original)
	sb.WriteString("...\"\n\nNew Information from Web:\n")
	sb.WriteString(contextBlob)
	sb.WriteString("\n\nTask: Rewrite the original article to be more comprehensive using the new information.")
	sb.WriteString("\nMaintain a professional tone.")
	sb.WriteString("\nIMPORTANT: At the end, list the references used.")
	sb.WriteString("\nReturn ONLY the article body text (Markdown format).")
	return sb.String()
}
