// Package ollama calls a local Ollama embeddings API over HTTP.
package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/m-mizutani/goerr/v2"
)

type Provider struct {
	client *resty.Client
	model  string
	dim    int
}

// New creates a provider for the given model. baseURL falls back to
// the conventional local daemon address; dim must match the vectors
// the model emits.
func New(baseURL, model string, dim int) *Provider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(2 * time.Minute)
	return &Provider{client: c, model: model, dim: dim}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, goerr.New("empty text")
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(&embedRequest{Model: p.model, Prompt: text}).
		Post("/api/embeddings")
	if err != nil {
		return nil, goerr.Wrap(err, "ollama request", goerr.V("model", p.model))
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, goerr.New("ollama status", goerr.V("status", resp.StatusCode()), goerr.V("body", resp.String()))
	}
	var er embedResponse
	if err := json.Unmarshal(resp.Body(), &er); err != nil {
		return nil, goerr.Wrap(err, "decode ollama response")
	}
	if er.Error != "" {
		return nil, goerr.New("ollama error", goerr.V("error", er.Error))
	}
	vec := make([]float32, len(er.Embedding))
	for i, v := range er.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

func (p *Provider) Dimensions() int { return p.dim }

// HealthPing checks daemon reachability; the root endpoint answers on
// any running Ollama instance.
func (p *Provider) HealthPing(ctx context.Context) error {
	resp, err := p.client.R().SetContext(ctx).Get("/")
	if err != nil {
		return goerr.Wrap(err, "ollama ping")
	}
	if resp.StatusCode() != http.StatusOK {
		return goerr.New("ollama ping status", goerr.V("status", resp.StatusCode()))
	}
	return nil
}
