package ai

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

type gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (Client, error) {
	if apiKey == "" {
		return nil, errors.New("ai: gemini provider needs GEMINI_API_KEY")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, errors.Wrap(err, "ai: gemini client")
	}
	return &gemini{client: client, model: model}, nil
}

func (g *gemini) Name() string { return "gemini:" + g.model }

func (g *gemini) Reply(ctx context.Context, r Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(r), genai.RoleUser),
	}
	contents := []*genai.Content{genai.NewContentFromText(UserPrompt(r), genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", errors.Wrap(err, "ai: gemini generate")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
