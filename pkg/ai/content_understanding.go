package ai

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

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/pkg/config"
)

// ErrNotConfigured is returned when no endpoint or key is set
var ErrNotConfigured = errors.New("content understanding not configured")

// ErrAnalysisFailed is returned when the service reports a failed analysis
var ErrAnalysisFailed = errors.New("content understanding analysis failed")

var errStillRunning = errors.New("analysis still running")

// Field is one typed value extracted by the analyzer
type Field struct {
	Type         string   `json:"type"`
	ValueString  *string  `json:"valueString,omitempty"`
	ValueInteger *int64   `json:"valueInteger,omitempty"`
	ValueNumber  *float64 `json:"valueNumber,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
}

// AnalyzeResult is the subset of the analyzer result the survey flow reads
type AnalyzeResult struct {
	OperationID string
	Fields      map[string]Field
}

type operationResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Result struct {
		AnalyzerID string `json:"analyzerId"`
		Contents   []struct {
			Fields map[string]Field `json:"fields"`
		} `json:"contents"`
	} `json:"result"`
}

// ContentUnderstandingClient calls an Azure AI Content Understanding analyzer
type ContentUnderstandingClient struct {
	endpoint      string
	apiKey        string
	analyzerID    string
	apiVersion    string
	pollInterval  time.Duration
	pollTimeout   time.Duration
	submitRetries uint64
	client        *http.Client
	logger        *zap.Logger
}

// NewContentUnderstandingClient creates a client from cfg
func NewContentUnderstandingClient(cfg *config.ExtractionConfig, logger *zap.Logger) *ContentUnderstandingClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ContentUnderstandingClient{
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:        cfg.APIKey,
		analyzerID:    cfg.AnalyzerID,
		apiVersion:    cfg.APIVersion,
		pollInterval:  cfg.PollInterval,
		pollTimeout:   cfg.PollTimeout,
		submitRetries: cfg.SubmitRetries,
		client:        &http.Client{Timeout: timeout},
		logger:        logger,
	}
}

// Configured reports whether an endpoint and key are set
func (c *ContentUnderstandingClient) Configured() bool {
	return c.endpoint != "" && c.apiKey != ""
}

// Analyze submits an image and waits for the analyzer's fields
func (c *ContentUnderstandingClient) Analyze(ctx context.Context, image []byte) (*AnalyzeResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	operationURL, err := c.submit(ctx, image)
	if err != nil {
		return nil, err
	}

	op, err := c.poll(ctx, operationURL)
	if err != nil {
		return nil, err
	}

	res := &AnalyzeResult{OperationID: op.ID, Fields: map[string]Field{}}
	if len(op.Result.Contents) > 0 && op.Result.Contents[0].Fields != nil {
		res.Fields = op.Result.Contents[0].Fields
	}

	c.logger.Info("✅ Survey analyzed",
		zap.String("operation_id", op.ID),
		zap.Int("fields", len(res.Fields)),
	)
	return res, nil
}

func (c *ContentUnderstandingClient) analyzeURL() string {
	q := url.Values{}
	q.Set("api-version", c.apiVersion)
	return fmt.Sprintf("%s/contentunderstanding/analyzers/%s:analyze?%s",
		c.endpoint, url.PathEscape(c.analyzerID), q.Encode())
}

// submit posts the image and returns the operation URL to poll.
// Server errors and transport failures are retried; client errors are not.
func (c *ContentUnderstandingClient) submit(ctx context.Context, image []byte) (string, error) {
	var operationURL string

	submitFn := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.analyzeURL(), bytes.NewReader(image))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/octet-stream")
		req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			statusErr := fmt.Errorf("content understanding returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		operationURL = resp.Header.Get("Operation-Location")
		if operationURL == "" {
			return backoff.Permanent(errors.New("operation location not found in response headers"))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(backoff.WithMaxRetries(bo, c.submitRetries), ctx)); err != nil {
		c.logger.Error("❌ Failed to submit survey image", zap.Error(err))
		return "", err
	}
	return operationURL, nil
}

// poll checks the operation until it succeeds, fails or pollTimeout elapses
func (c *ContentUnderstandingClient) poll(ctx context.Context, operationURL string) (*operationResponse, error) {
	var op operationResponse

	pollFn := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			statusErr := fmt.Errorf("content understanding poll returned status %d", resp.StatusCode)
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		op = operationResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode operation: %w", err))
		}

		switch strings.ToLower(op.Status) {
		case "succeeded":
			return nil
		case "failed":
			if op.Error != nil {
				return backoff.Permanent(fmt.Errorf("%w: %s %s", ErrAnalysisFailed, op.Error.Code, op.Error.Message))
			}
			return backoff.Permanent(ErrAnalysisFailed)
		default:
			return errStillRunning
		}
	}

	interval := c.pollInterval
	if interval <= 0 {
		interval = time.Second
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = interval
	bo.MaxInterval = 4 * interval
	timeout := c.pollTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	bo.MaxElapsedTime = timeout

	if err := backoff.Retry(pollFn, backoff.WithContext(bo, ctx)); err != nil {
		if errors.Is(err, errStillRunning) {
			return nil, fmt.Errorf("content understanding timed out after %s", timeout)
		}
		return nil, err
	}
	return &op, nil
}
