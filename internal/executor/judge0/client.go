// Package judge0 implements executor.Executor against the Judge0 REST API.
//
// The client performs exactly one synchronous round trip per execution: it
// POSTs the submission with wait=true so Judge0 blocks until the program
// finishes, then normalizes the verdict into the playground's envelope. No
// retries, no polling, no local sandboxing.
package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/oncode-dev/oncode/internal/apperror"
	"github.com/oncode-dev/oncode/internal/executor"
)

// compile-time check that *Client implements executor.Executor
var _ executor.Executor = (*Client)(nil)

// Client talks to one Judge0 deployment.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates a Judge0 client. It fails fast on a missing base URL so a
// misconfigured deployment is caught at startup, before any request arrives.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("judge0: base URL is not configured")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		cfg:    cfg,
		client: client,
		logger: logger,
	}, nil
}

// submissionRequest is the Judge0 wire format for creating a submission.
type submissionRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin,omitempty"`
}

// submissionResponse is the portion of Judge0's submission result we consume.
// Judge0 returns null for absent fields; decoding null into a Go string or
// int leaves the zero value, which is what we want.
type submissionResponse struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Message       string `json:"message"`
	Time          string `json:"time"`
	Memory        int    `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Execute submits the code and waits synchronously for the verdict.
//
// Error contract:
//   - unknown language      → apperror.ErrValidation, no network call made
//   - remote non-2xx        → apperror.ErrUpstream carrying the remote status
//     code and raw body
//   - network failure       → plain wrapped error (handlers map it to 500)
//   - remote 2xx            → (*ExecutionResult, nil), even when the program
//     itself failed, timed out, or did not compile
func (c *Client) Execute(ctx context.Context, req executor.ExecutionRequest) (*executor.ExecutionResult, error) {
	languageID, ok := LanguageID(req.Language)
	if !ok {
		return nil, apperror.ValidationFailed("language",
			fmt.Sprintf("language '%s' is not supported for execution", req.Language))
	}

	payload := submissionRequest{
		SourceCode: req.Code,
		LanguageID: languageID,
		Stdin:      req.Stdin,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("judge0: encoding submission: %w", err)
	}

	// wait=true asks Judge0 to block until the submission finishes, so one
	// round trip returns the final verdict. base64_encoded=false keeps the
	// payload as plain UTF-8 text.
	url := c.cfg.BaseURL + "/submissions?base64_encoded=false&wait=true"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("judge0: building submission request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
	}
	if c.cfg.HostHeader != "" {
		httpReq.Header.Set("X-RapidAPI-Host", c.cfg.HostHeader)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("judge0: submitting to %s: %w", c.cfg.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("judge0 returned an error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return nil, apperror.Upstream(resp.StatusCode, string(raw))
	}

	var sub submissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return nil, fmt.Errorf("judge0: decoding submission response: %w", err)
	}

	c.logger.Debug("judge0 submission finished",
		slog.String("language", req.Language),
		slog.Int("statusID", sub.Status.ID),
		slog.String("status", sub.Status.Description),
	)

	return normalize(&sub), nil
}
