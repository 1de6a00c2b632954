// Package ollama is a minimal HTTP client for the local Ollama runtime,
// covering the three endpoints curator uses: generate (vision), embeddings
// and version.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to one Ollama server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for baseURL (e.g. http://localhost:11434). A nil
// httpClient uses a dedicated client without a global timeout; vision
// generation on CPU can legitimately take minutes, so deadlines come from
// the caller's context.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// unavailableError marks the runtime as unreachable so callers can map it to
// 503 instead of 500.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// IsUnavailable reports whether err means the Ollama runtime could not be
// reached or refused the request at transport level.
func IsUnavailable(err error) bool {
	var ue unavailableError
	return errors.As(err, &ue)
}

// GenerateRequest is the payload for Generate. Images are raw bytes; the
// client base64-encodes them on the wire as the API requires.
type GenerateRequest struct {
	Model  string
	Prompt string
	Images [][]byte
}

// GenerateResponse carries the completed (non-streamed) model output.
type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type wireGenerate struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
}

// Generate runs a single non-streaming completion.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	wire := wireGenerate{Model: req.Model, Prompt: req.Prompt, Stream: false}
	for _, img := range req.Images {
		wire.Images = append(wire.Images, base64.StdEncoding.EncodeToString(img))
	}
	var resp GenerateResponse
	if err := c.post(ctx, "/api/generate", wire, &resp); err != nil {
		return GenerateResponse{}, err
	}
	return resp, nil
}

// Embed returns the embedding vector for text under the given model.
func (c *Client) Embed(ctx context.Context, model, text string) ([]float32, error) {
	body := map[string]string{"model": model, "prompt": text}
	var resp struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := c.post(ctx, "/api/embeddings", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama returned an empty embedding")
	}
	vec := make([]float32, len(resp.Embedding))
	for i, f := range resp.Embedding {
		vec[i] = float32(f)
	}
	return vec, nil
}

// Version pings the runtime and returns its reported version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/version", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", unavailableError{msg: fmt.Sprintf("ollama unreachable at %s: %v", c.baseURL, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama version: status %d", resp.StatusCode)
	}
	var v struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return "", fmt.Errorf("ollama version: %w", err)
	}
	return v.Version, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return unavailableError{msg: fmt.Sprintf("ollama unreachable at %s: %v", c.baseURL, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(path, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// apiError extracts Ollama's {"error": "..."} payload when present.
func apiError(path string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return fmt.Errorf("ollama %s: %s (status %d)", path, e.Error, resp.StatusCode)
	}
	return fmt.Errorf("ollama %s: status %d", path, resp.StatusCode)
}
