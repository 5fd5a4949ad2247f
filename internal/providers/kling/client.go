package kling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"showroom/internal/infra"
)

// ErrMissingCredentials indicates the client was configured without an
// access/secret key pair. It surfaces from the first remote call.
var ErrMissingCredentials = errors.New("kling: access and secret keys are required")

// ErrPollTimeout is returned when a remote task never reaches a terminal
// status within the polling budget of a call site.
var ErrPollTimeout = errors.New("kling: task polling timed out")

// APIError is a failure reported by the provider itself, either as a
// non-zero envelope code or as a failed task status.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("kling: %s (code %d)", e.Message, e.Code)
	}
	return "kling: " + e.Message
}

// Options configures the Kling media API client.
type Options struct {
	AccessKey    string
	SecretKey    string
	BaseURL      string
	HTTPClient   *http.Client
	Logger       *infra.Logger
	PollInterval time.Duration
}

// Client performs signed HTTP calls to the Kling virtual try-on and
// image-to-video APIs. Both follow the same submit-then-poll protocol.
type Client struct {
	accessKey    string
	secretKey    string
	baseURL      string
	httpClient   *http.Client
	logger       *infra.Logger
	pollInterval time.Duration
	now          func() time.Time
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api-singapore.klingai.com"
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		accessKey:    strings.TrimSpace(opts.AccessKey),
		secretKey:    strings.TrimSpace(opts.SecretKey),
		baseURL:      baseURL,
		httpClient:   httpClient,
		logger:       logger,
		pollInterval: interval,
		now:          time.Now,
	}
}

// envelope is the provider's uniform response wrapper. Code zero means
// the request was accepted; anything else carries a provider error.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// taskStatus is the payload of a status poll.
type taskStatus struct {
	TaskID        string          `json:"task_id"`
	TaskStatus    string          `json:"task_status"`
	TaskStatusMsg string          `json:"task_status_msg"`
	TaskResult    json.RawMessage `json:"task_result"`
}

// do issues one signed request and decodes the response envelope. A
// fresh token is minted per call; they are cheap and short-lived, so
// caching would only add a staleness window.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*envelope, error) {
	token, err := c.IssueToken()
	if err != nil {
		return nil, err
	}
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("kling: encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("kling: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kling: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kling: read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("kling: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return nil, fmt.Errorf("kling: decode response: %w", err)
	}
	if env.Code != 0 {
		c.logger.Warn().
			Int("code", env.Code).
			Str("path", path).
			Str("message", env.Message).
			Msg("kling: error envelope")
	}
	return &env, nil
}

// submit posts a generation request and extracts the task id to poll.
// A non-zero envelope code is a provider rejection; a zero code without
// a task id is an integration fault and treated as fatal for the call.
func (c *Client) submit(ctx context.Context, path string, payload any) (string, *APIError, error) {
	env, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return "", nil, err
	}
	if env.Code != 0 {
		return "", &APIError{Code: env.Code, Message: env.Message}, nil
	}
	var data struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.TaskID == "" {
		return "", nil, fmt.Errorf("kling: submit response missing task_id")
	}
	return data.TaskID, nil, nil
}

// pollTask drives a submitted task to a terminal state. Each attempt
// sleeps one interval, then fetches status once. Transport and envelope
// errors consume the attempt and the loop continues; only a terminal
// status or an exhausted budget ends it. The provider offers no webhook,
// so a bounded loop is the only way to not leak the job forever.
func (c *Client) pollTask(ctx context.Context, path string, maxAttempts int) (json.RawMessage, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		env, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Str("path", path).Msg("kling: poll attempt failed")
			continue
		}
		if env.Code != 0 {
			continue
		}
		var status taskStatus
		if err := json.Unmarshal(env.Data, &status); err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("kling: poll payload malformed")
			continue
		}
		c.logger.Debug().
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Str("status", status.TaskStatus).
			Msg("kling: poll")
		switch status.TaskStatus {
		case "succeed":
			return status.TaskResult, nil
		case "failed":
			msg := status.TaskStatusMsg
			if msg == "" {
				msg = "task failed"
			}
			return nil, &APIError{Message: msg}
		}
	}
	return nil, ErrPollTimeout
}

// stripDataURLPrefix reduces a data URL to its raw base64 payload, which
// is what the provider expects for inline images. Plain URLs and bare
// base64 strings pass through untouched.
func stripDataURLPrefix(image string) string {
	if !strings.HasPrefix(image, "data:") {
		return image
	}
	if _, rest, ok := strings.Cut(image, ","); ok {
		return rest
	}
	return image
}
