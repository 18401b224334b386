package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultURL     = "http://localhost:11434"
	DefaultModel   = "llama3.2-vision"
	DefaultTimeout = 180 * time.Second
)

// languageNames maps the three-letter OCR language codes accepted by the
// upload API to names a vision model understands.
var languageNames = map[string]string{
	"eng":     "English",
	"fra":     "French",
	"deu":     "German",
	"spa":     "Spanish",
	"ita":     "Italian",
	"por":     "Portuguese",
	"nld":     "Dutch",
	"pol":     "Polish",
	"rus":     "Russian",
	"jpn":     "Japanese",
	"chi_sim": "Simplified Chinese",
	"kor":     "Korean",
}

// Client wraps the Ollama API client
type Client struct {
	client  *api.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a new Ollama client
func New(ollamaURL, model string) (*Client, error) {
	if ollamaURL == "" {
		ollamaURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}

	baseURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid Ollama URL %q: scheme and host are required", ollamaURL)
	}

	return &Client{
		client:  api.NewClient(baseURL, http.DefaultClient),
		model:   model,
		timeout: DefaultTimeout,
		logger:  slog.Default().With("component", "ollama"),
	}, nil
}

// Model returns the model name requests are sent to
func (c *Client) Model() string {
	return c.model
}

// WithTimeout returns a copy of the client using the given request timeout
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	cp := *c
	cp.timeout = timeout
	return &cp
}

// GenerateResponse generates a response from the model. Images, if any,
// are attached to the prompt for vision models.
func (c *Client) GenerateResponse(ctx context.Context, prompt string, images ...[]byte) (string, error) {
	c.logger.Debug("sending generate request", "model", c.model, "timeout", c.timeout, "images", len(images))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: new(bool), // false
	}
	for _, img := range images {
		req.Images = append(req.Images, api.ImageData(img))
	}

	var response strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		response.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		c.logger.Warn("generation failed", "model", c.model, "error", err)
		return "", fmt.Errorf("generation failed: %w", err)
	}

	result := strings.TrimSpace(response.String())
	c.logger.Debug("response received", "chars", len(result))
	return result, nil
}

// ExtractText transcribes the text visible in an image. language is an OCR
// language code such as "eng"; unknown codes are passed through verbatim.
func (c *Client) ExtractText(ctx context.Context, image []byte, language string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("image is empty")
	}

	prompt := fmt.Sprintf(`Transcribe all of the text in this image exactly as written. The text is in %s.

Rules:
- Output ONLY the transcribed text, with no commentary or explanation
- Keep the original line breaks, and separate paragraphs with a blank line
- Do NOT translate, summarize or correct the text
- If the image contains no text, output nothing`, languageName(language))

	response, err := c.GenerateResponse(ctx, prompt, image)
	if err != nil {
		return "", err
	}
	return stripCodeFence(response), nil
}

func languageName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return languageNames["eng"]
	}
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// stripCodeFence removes a surrounding markdown code fence that some models
// wrap transcriptions in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	// Drop an info string such as ```text
	if i := strings.IndexByte(s, '\n'); i >= 0 && isInfoString(s[:i]) {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

func isInfoString(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
