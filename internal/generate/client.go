package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Path of the generation endpoint, relative to the base URL.
const generatePath = "/generate"

// maxErrorBody caps how much of a failed response body ends up in errors.
const maxErrorBody = 512

// Config holds the request client configuration.
type Config struct {
	// BaseURL of the generation service, e.g. "http://localhost:5000".
	BaseURL string

	// Timeout for a single request. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the default client. Mostly useful in tests.
	HTTPClient *http.Client
}

// Client sends prompts to the generation service.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// Result is the audio returned for a single prompt.
type Result struct {
	Prompt      string
	Audio       []byte
	ContentType string
	RequestID   string
	Elapsed     time.Duration
}

// Size returns the payload length in bytes.
func (r *Result) Size() int {
	if r == nil {
		return 0
	}
	return len(r.Audio)
}

// Release drops the payload so it can be collected.
func (r *Result) Release() {
	if r == nil {
		return
	}
	r.Audio = nil
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// NewClient creates a client for the service at cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	endpoint, err := endpointURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		httpClient = &c
	}
	// A followed 301/302/303 would resend the request as a bodyless GET.
	httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		endpoint:   endpoint,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
	}, nil
}

// endpointURL joins the base URL with the generate path.
func endpointURL(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", ErrNoBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid service URL %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid service URL %q: scheme must be http or https", base)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + generatePath
	return u.String(), nil
}

// Endpoint returns the full URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate sends prompt to the service and returns the audio it produced.
// Transport errors and non-success statuses both wrap ErrGenerationFailed.
func (c *Client) Generate(ctx context.Context, prompt string) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	id := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/*, application/octet-stream")
	req.Header.Set("Accept-Encoding", "zstd, gzip")
	req.Header.Set("X-Request-ID", id)

	log.Debug("sending generation request", "id", id, "endpoint", c.endpoint, "promptLength", len(prompt))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("generation request failed", "id", id, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("generation service error", "id", id, "status", resp.StatusCode)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	audio, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrGenerationFailed, err)
	}

	elapsed := time.Since(start)
	log.Debug("generation finished", "id", id, "bytes", len(audio), "elapsed", elapsed)

	return &Result{
		Prompt:      prompt,
		Audio:       audio,
		ContentType: resp.Header.Get("Content-Type"),
		RequestID:   id,
		Elapsed:     elapsed,
	}, nil
}

// readBody reads the whole response, undoing zstd or gzip content encoding.
// Setting Accept-Encoding ourselves turns off the transport's transparent
// gzip handling, so both are decoded here.
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "zstd":
		dec, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		r = dec
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close() //nolint:errcheck
		r = gz
	case "", "identity":
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}

	return io.ReadAll(r)
}

// IsCanceled reports whether err came from a cancelled request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
