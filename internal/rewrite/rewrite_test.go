package rewrite

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

type capturingClient struct {
	lastReq openai.ChatCompletionRequest
	reply   string
	err     error
}

func (c *capturingClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.lastReq = req
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: c.reply},
		}},
	}, nil
}

func TestRewriter_TruncatesOriginalAndIncludesContext(t *testing.T) {
	cc := &capturingClient{reply: "rewritten body"}
	r := &Rewriter{Client: cc, Model: "test-model", OriginalCharCap: 10}

	out, err := r.Rewrite(context.Background(), strings.Repeat("a", 50), "\n\n--- REFERENCE: R1 ---\nref text")
	if err != nil {
		t.Fatalf("rewrite error: %v", err)
	}
	if out != "rewritten body" {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(cc.lastReq.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(cc.lastReq.Messages))
	}
	user := cc.lastReq.Messages[1].Content
	if strings.Contains(user, strings.Repeat("a", 11)) {
		t.Fatalf("original text was not truncated:\n%s", user)
	}
	for _, want := range []string{"REFERENCE: R1", "professional tone", "list the references", "Markdown format"} {
		if !strings.Contains(user, want) {
			t.Fatalf("expected user message to contain %q; got:\n%s", want, user)
		}
	}
}

func TestRewriter_TruncationKeepsValidUTF8(t *testing.T) {
	cc := &capturingClient{reply: "rewritten body"}
	// 21 bytes of two-byte runes against an 11-byte cap: a byte-boundary cut
	// would land mid-rune.
	r := &Rewriter{Client: cc, Model: "test-model", OriginalCharCap: 11}

	if _, err := r.Rewrite(context.Background(), strings.Repeat("ü", 10)+"!", "ctx"); err != nil {
		t.Fatalf("rewrite error: %v", err)
	}
	user := cc.lastReq.Messages[1].Content
	if !utf8.ValidString(user) {
		t.Fatalf("user message contains invalid UTF-8:\n%q", user)
	}
	if strings.Contains(user, strings.Repeat("ü", 6)) {
		t.Fatalf("original text was not truncated:\n%s", user)
	}
}

func TestRewriter_EmptyCompletionIsError(t *testing.T) {
	cc := &capturingClient{reply: "   "}
	r := &Rewriter{Client: cc, Model: "test-model"}
	if _, err := r.Rewrite(context.Background(), "text", "ctx"); !errors.Is(err, ErrEmptyRewrite) {
		t.Fatalf("expected ErrEmptyRewrite, got %v", err)
	}
}

func TestRewriter_PropagatesCallError(t *testing.T) {
	cc := &capturingClient{err: errors.New("boom")}
	r := &Rewriter{Client: cc, Model: "test-model"}
	if _, err := r.Rewrite(context.Background(), "text", "ctx"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRewriter_RequiresConfiguration(t *testing.T) {
	r := &Rewriter{}
	if _, err := r.Rewrite(context.Background(), "text", "ctx"); err == nil {
		t.Fatalf("expected configuration error")
	}
}

func TestContextBlob_OmitsEmptyTexts(t *testing.T) {
	blob := ContextBlob([]ReferenceText{
		{Title: "R1", Text: "first"},
		{Title: "R2", Text: "  "},
		{Title: "R3", Text: "third"},
	})
	if !strings.Contains(blob, "--- REFERENCE: R1 ---") || !strings.Contains(blob, "--- REFERENCE: R3 ---") {
		t.Fatalf("expected surviving references in blob:\n%s", blob)
	}
	if strings.Contains(blob, "R2") {
		t.Fatalf("empty reference should be omitted:\n%s", blob)
	}
}

func TestContextBlob_AllEmpty(t *testing.T) {
	if blob := ContextBlob([]ReferenceText{{Title: "R1", Text: ""}}); blob != "" {
		t.Fatalf("expected empty blob, got %q", blob)
	}
}
