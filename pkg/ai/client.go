// Package ai talks to the language model behind the farming assistant.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"kisansetu/pkg/i18n"
)

var ErrEmptyReply = errors.New("ai: empty reply")

// Request is one chat turn. Snippets are knowledge-base passages relevant to
// the message; Context names the portal page the farmer asked from.
type Request struct {
	Message  string
	Language string
	Context  string
	Snippets []string
}

type Client interface {
	Reply(ctx context.Context, req Request) (string, error)
	Name() string
}

type Config struct {
	Provider     string // openai|gemini|mock
	Endpoint     string
	APIKey       string
	Model        string
	GeminiAPIKey string
	GeminiModel  string
}

// New picks the provider named in cfg. Unknown providers are an error; the
// caller decides whether to fall back to the mock.
func New(ctx context.Context, cfg Config, tr *i18n.Bundle) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.Endpoint == "" || cfg.APIKey == "" {
			return nil, errors.New("ai: openai provider needs LLM_ENDPOINT and LLM_API_KEY")
		}
		return NewOpenAI(cfg.Endpoint, cfg.APIKey, cfg.Model), nil
	case "gemini":
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "", "mock":
		return NewMock(tr), nil
	}
	return nil, errors.Errorf("ai: unknown provider %q", cfg.Provider)
}

func languageName(code string) string {
	code = i18n.Base(code)
	for _, l := range i18n.Languages {
		if l.Code == code {
			return l.Name
		}
	}
	return "English"
}

// SystemPrompt frames the assistant for the farmer's language.
func SystemPrompt(req Request) string {
	return fmt.Sprintf(
		"You are KisanSetu, an agricultural assistant for Indian farmers. "+
			"Answer in %s using simple words, in at most 6 short sentences or bullet points. "+
			"Give quantities per acre and prices in rupees where useful. "+
			"If you are not sure, say so and suggest contacting the nearest Krishi Vigyan Kendra.",
		languageName(req.Language))
}

// UserPrompt is the message plus page context and reference notes.
func UserPrompt(req Request) string {
	var b strings.Builder
	if req.Context != "" {
		fmt.Fprintf(&b, "PAGE: %s\n\n", req.Context)
	}
	if len(req.Snippets) > 0 {
		b.WriteString("REFERENCE NOTES:\n")
		for _, s := range req.Snippets {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(s))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "QUESTION: %s", strings.TrimSpace(req.Message))
	return b.String()
}
