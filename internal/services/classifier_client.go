package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"lexflow/backend/internal/config"
	"lexflow/backend/internal/extraction"
	"lexflow/backend/internal/logging"
	"lexflow/backend/pkg/models"
)

const (
	defaultClassifierTimeout = 10 * time.Second
	defaultMaxRetries        = 2
	defaultBaseBackoff       = 200 * time.Millisecond
	// defaultCooldown is how long the keyword table is used alone after the
	// service stopped answering.
	defaultCooldown = 30 * time.Second
)

type classifyRequest struct {
	Placeholder string `json:"placeholder"`
	Context     string `json:"context"`
}

type classifyResponse struct {
	Label          string  `json:"label"`
	Type           string  `json:"type"`
	Suggestion     string  `json:"suggestion"`
	ValidationRule string  `json:"validation_rule"`
	AdvisoryNote   string  `json:"advisory_note"`
	Confidence     float64 `json:"confidence"`
}

type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// HTTPClassifier classifies placeholders with a remote language service.
// When the service is unavailable it falls back to the keyword table, so
// extraction keeps working offline.
type HTTPClassifier struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	fallback   extraction.Classifier
	logger     *logging.Logger
	maxRetries int
	backoff    time.Duration
	cooldown   time.Duration
	now        func() time.Time

	mu        sync.Mutex
	openUntil time.Time
}

// NewHTTPClassifier creates a new HTTPClassifier. rps <= 0 disables rate
// limiting.
func NewHTTPClassifier(url string, timeout time.Duration, rps float64, burst int, logger *logging.Logger) *HTTPClassifier {
	if timeout <= 0 {
		timeout = defaultClassifierTimeout
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &HTTPClassifier{
		url:        strings.TrimRight(url, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		fallback:   extraction.NewKeywordClassifier(),
		logger:     logger,
		maxRetries: defaultMaxRetries,
		backoff:    defaultBaseBackoff,
		cooldown:   defaultCooldown,
		now:        time.Now,
	}
}

// NewClassifier selects the classifier named by cfg.Classifier.Provider.
func NewClassifier(cfg *config.Config, logger *logging.Logger) (extraction.Classifier, error) {
	switch cfg.Classifier.Provider {
	case "", "keyword":
		return extraction.NewKeywordClassifier(), nil
	case "http":
		return NewHTTPClassifier(cfg.Classifier.URL, cfg.Classifier.Timeout, cfg.Classifier.Rate, cfg.Classifier.Burst, logger), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Classifier.Provider)
	}
}

// Classify asks the remote service about token. Cancellation is returned
// as is; every other failure falls back to the keyword table. Once the
// service is found unavailable it is not asked again until the cooldown has
// passed, so one slow service costs a document at most one retry cycle.
func (c *HTTPClassifier) Classify(ctx context.Context, token, text string) (models.Field, error) {
	if c.unavailable() {
		return c.fallback.Classify(ctx, token, text)
	}
	snippet := extraction.ExtractContext(text, token)

	resp, err := c.classify(ctx, classifyRequest{Placeholder: token, Context: snippet})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.Field{}, ctxErr
		}
		var retryable *retryableError
		if errors.As(err, &retryable) {
			c.markUnavailable()
		}
		c.logger.Warn("remote classification failed, using keyword table", "placeholder", token, "error", err)
		return c.fallback.Classify(ctx, token, text)
	}

	field := models.Field{
		Label:          strings.TrimSpace(resp.Label),
		Type:           models.FieldType(strings.ToLower(strings.TrimSpace(resp.Type))),
		Suggestion:     resp.Suggestion,
		ValidationRule: resp.ValidationRule,
		AdvisoryNote:   resp.AdvisoryNote,
		Confidence:     clamp(resp.Confidence),
		Context:        snippet,
	}
	if field.Label == "" {
		field.Label = extraction.FallbackLabel(token)
	}
	if !field.Type.Valid() {
		field.Type = models.FieldTypeText
	}
	if field.ValidationRule == "" {
		field.ValidationRule = "Required field"
	}
	return field, nil
}

func (c *HTTPClassifier) unavailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Before(c.openUntil)
}

func (c *HTTPClassifier) markUnavailable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openUntil = c.now().Add(c.cooldown)
}

func (c *HTTPClassifier) classify(ctx context.Context, req classifyRequest) (*classifyResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := c.doRequest(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var retryable *retryableError
		if !errors.As(err, &retryable) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *HTTPClassifier) doRequest(ctx context.Context, req classifyRequest) (*classifyResponse, error) {
	requestBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/classify", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &retryableError{err: fmt.Errorf("rate limited (429)")}
	case resp.StatusCode >= 500:
		return nil, &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("failed to classify: status code %d", resp.StatusCode)
	}

	var out classifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return &out, nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

var _ extraction.Classifier = (*HTTPClassifier)(nil)
