// Package embedder turns text into vectors for knowledge search, through
// an OpenAI-compatible /v1/embeddings endpoint or the Gemini API.
package embedder

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type OpenAI struct {
	endpoint, key, model string
	httpc                *http.Client
}

func NewOpenAI(endpoint, key, model string) *OpenAI {
	return &OpenAI{endpoint: endpoint, key: key, model: model, httpc: &http.Client{Timeout: 20 * time.Second}}
}

func (c *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	b, err := json.Marshal(map[string]any{"model": c.model, "input": texts})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.endpoint, "/")+"/v1/embeddings", bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "embed request")
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "embed")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("embed: status %d", resp.StatusCode)
	}

	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "embed: decode")
	}
	if len(out.Data) != len(texts) {
		return nil, errors.Errorf("embed: got %d vectors for %d inputs", len(out.Data), len(texts))
	}
	res := make([][]float32, len(out.Data))
	for i, d := range out.Data {
		res[i] = d.Embedding
	}
	return res, nil
}

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, errors.Wrap(err, "gemini: new client")
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}
	res, err := g.client.Models.EmbedContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gemini: embed")
	}
	out := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}

func FloatsToBytes(v []float32) []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, v)
	return buf.Bytes()
}

func BytesToFloats(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	_ = binary.Read(bytes.NewReader(b), binary.LittleEndian, &out)
	return out
}
