package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"petchat-ai/internal/platform/httpclient"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"

	requestTimeout = 30 * time.Second
)

// Client habla con la API de Gemini (Google AI Studio) vía REST.
// Implementa completion.Generator.
type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
	model   string
}

// New crea el cliente. Si model viene vacío usa defaultModel.
func New(apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key required")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultModel
	}
	return &Client{
		http:    httpclient.New(requestTimeout),
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   strings.TrimPrefix(model, "models/"),
	}, nil
}

// NewWithHTTP permite inyectar el httpclient y baseURL (tests).
func NewWithHTTP(hc *httpclient.Client, baseURL, apiKey, model string) *Client {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimPrefix(strings.TrimSpace(model), "models/"),
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate manda el prompt completo como un único turno de usuario
// (la persona y el historial ya vienen embebidos en el prompt).
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)

	req := generateRequest{
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: prompt}},
			},
		},
	}

	var resp generateResponse
	err := c.http.DoJSON(ctx, http.MethodPost, url, map[string]string{
		"x-goog-api-key": c.apiKey,
	}, req, &resp)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
