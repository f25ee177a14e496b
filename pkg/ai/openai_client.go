package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type openAI struct {
	endpoint string
	key      string
	model    string
	httpc    *http.Client
}

func NewOpenAI(endpoint, key, model string) Client {
	return &openAI{endpoint: endpoint, key: key, model: model, httpc: &http.Client{Timeout: 25 * time.Second}}
}

func (c *openAI) Name() string { return "openai:" + c.model }

func (c *openAI) Reply(ctx context.Context, r Request) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	body := struct {
		Model       string    `json:"model"`
		Messages    []message `json:"messages"`
		Temperature float64   `json:"temperature"`
	}{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: SystemPrompt(r)},
			{Role: "user", Content: UserPrompt(r)},
		},
		Temperature: 0.3,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.endpoint, "/")+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", errors.Wrap(err, "openai: new request")
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "openai: request")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", errors.Errorf("openai: status %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "openai: decode")
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyReply
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyReply
	}
	return content, nil
}
