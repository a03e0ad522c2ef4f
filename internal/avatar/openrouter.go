package avatar

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
	"time"
)

// maxResponseBytes caps how much of a provider response body is read.
const maxResponseBytes = 64 << 20

// OpenRouterOptions configures the provider client at construction time.
// Credentials and the model name come from application configuration, never
// from ad hoc environment reads.
type OpenRouterOptions struct {
	BaseURL    string
	APIKey     string
	Model      string
	Referer    string
	AppTitle   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// OpenRouterClient calls OpenRouter's chat-completions endpoint with a
// multimodal payload and extracts the generated image reference.
type OpenRouterClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	model      string
	referer    string
	appTitle   string
}

// NewOpenRouterClient builds the client, applying defaults for missing options.
func NewOpenRouterClient(opts OpenRouterOptions) *OpenRouterClient {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://openrouter.ai/api/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "google/gemini-2.5-flash-image"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &OpenRouterClient{
		httpClient: client,
		baseURL:    base,
		token:      strings.TrimSpace(opts.APIKey),
		model:      model,
		referer:    strings.TrimSpace(opts.Referer),
		appTitle:   strings.TrimSpace(opts.AppTitle),
	}
}

type chatContent struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Modalities []string      `json:"modalities"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Images []struct {
				ImageURL chatImageURL `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// Generate submits the source image plus instruction and returns the URL of
// the generated image. The URL may be remote or a base64 data URI depending on
// the model.
func (c *OpenRouterClient) Generate(ctx context.Context, imageBytes []byte, mimeType, prompt string) (string, error) {
	if c == nil {
		return "", errors.New("openrouter client not configured")
	}
	if c.token == "" {
		return "", errors.New("openrouter: API key is missing")
	}
	if len(imageBytes) == 0 {
		return "", errors.New("openrouter: image payload required")
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = "image/jpeg"
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageBytes))
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatContent{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &chatImageURL{URL: dataURI}},
			},
		}},
		// The image modality must be requested explicitly; the model
		// answers with text only otherwise.
		Modalities: []string{"image", "text"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.appTitle != "" {
		req.Header.Set("X-Title", c.appTitle)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("openrouter: read response: %w", err)
	}
	// Decode leniently; error statuses are classified on the status code
	// alone so a non-JSON error body cannot mask them.
	var out chatResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode == http.StatusPaymentRequired {
		return "", fmt.Errorf("openrouter: insufficient provider credits (http 402): %s", errorMessage(out))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("openrouter: http %d: %s", resp.StatusCode, errorMessage(out))
	}
	if decodeErr != nil {
		return "", fmt.Errorf("openrouter: decode response: %w", decodeErr)
	}

	if len(out.Choices) == 0 || len(out.Choices[0].Message.Images) == 0 {
		return "", errors.New("openrouter: no image in response")
	}
	url := strings.TrimSpace(out.Choices[0].Message.Images[0].ImageURL.URL)
	if url == "" {
		return "", errors.New("openrouter: empty image url in response")
	}
	return url, nil
}

func errorMessage(resp chatResponse) string {
	if resp.Error != nil && resp.Error.Message != "" {
		return resp.Error.Message
	}
	if resp.Message != "" {
		return resp.Message
	}
	return "unknown error"
}
