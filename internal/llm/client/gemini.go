package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself. Cross-cutting concerns
// (rate limiting, retries, logging) are applied via middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	// An empty key lets genai fall back to GEMINI_API_KEY / GOOGLE_API_KEY.
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateJSON asks for application/json constrained by req.Schema and
// returns the model's text as json.RawMessage. No parsing happens here.
func (g *GeminiClient) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	cfg := generateConfig(g.model, req)
	prompt := req.Prompt
	if cfg.ResponseSchema == nil && req.Schema != nil {
		prompt = withSchemaText(prompt, req.Schema)
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err != nil {
		return nil, classify(err)
	}
	txt := responseText(resp)
	if strings.TrimSpace(txt) == "" {
		return nil, ErrEmptyResponse
	}
	return json.RawMessage(txt), nil
}

func generateConfig(model string, req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if !req.Grounded || structuredWithTools(model) {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}
	if req.Grounded {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return cfg
}

// structuredWithTools reports whether model accepts a JSON response schema
// alongside built-in tools. Gemini 1.x and 2.x reject the combination with a 400.
func structuredWithTools(model string) bool {
	m := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(model), "models/"))
	return !strings.HasPrefix(m, "gemini-1") && !strings.HasPrefix(m, "gemini-2")
}

// withSchemaText appends the response schema to the prompt for requests that
// cannot carry it in the generation config.
func withSchemaText(prompt string, schema *genai.Schema) string {
	raw, err := json.Marshal(schema)
	if err != nil {
		return prompt
	}
	return prompt + "\nResponse schema (JSON Schema subset):\n" + string(raw) + "\n"
}

// responseText joins the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// classify marks client-side API failures (bad key, bad request) as
// permanent so a retry layer does not hammer the provider with them.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests && apiErr.Code != http.StatusRequestTimeout {
			return NewPermanentError(err)
		}
	}
	return err
}
