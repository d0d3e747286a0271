// Package gemini talks to the Gemini API through google.golang.org/genai.
package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"

	"riskradar/apperrors"
	"riskradar/logger"
	"riskradar/metrics"
	"riskradar/models"
)

// Request is one generate-content call.
type Request struct {
	// Operation labels logs and metrics ("resolve", "analyze").
	Operation string
	Model     models.Model
	Prompt    string
	// Credential is the API key. Empty means not configured.
	Credential string
	// SearchGrounding attaches the Google Search tool. It cannot be combined
	// with Schema; when both are set the schema is dropped.
	SearchGrounding bool
	Schema          *genai.Schema
}

// Response is the model text plus the citations the search tool returned.
type Response struct {
	Text    string
	Sources []models.GroundingSource
}

// Client calls the Gemini API. A genai client is built per call because the
// credential can change between calls.
type Client struct {
	timeout time.Duration
	baseURL string
	logger  logger.Logger
}

type Option func(*Client)

// WithBaseURL points the client at another endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func NewClient(timeout time.Duration, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		timeout: timeout,
		logger:  log.With(map[string]interface{}{"component": "gemini"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate performs one call. Errors are always *apperrors.StandardError.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	log := c.logger.With(map[string]interface{}{
		"operation": req.Operation,
		"model":     string(req.Model),
	})

	if strings.TrimSpace(req.Credential) == "" {
		metrics.ModelRequests.WithLabelValues(req.Operation, string(req.Model), metrics.OutcomeCredential).Inc()
		return nil, apperrors.NewCredentialMissingError()
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.generate(ctx, req)
	metrics.ModelRequestDuration.WithLabelValues(req.Operation, string(req.Model)).Observe(time.Since(start).Seconds())
	if err != nil {
		classified := Classify(err)
		outcome := metrics.OutcomeTransient
		if classified.Kind == apperrors.KindCredential {
			outcome = metrics.OutcomeCredential
		}
		metrics.ModelRequests.WithLabelValues(req.Operation, string(req.Model), outcome).Inc()
		log.Error("model call failed", map[string]interface{}{
			"code":     classified.Code,
			"error":    err.Error(),
			"duration": time.Since(start).String(),
		})
		return nil, classified
	}

	metrics.ModelRequests.WithLabelValues(req.Operation, string(req.Model), metrics.OutcomeSuccess).Inc()
	log.Info("model call completed", map[string]interface{}{
		"duration":          time.Since(start).String(),
		"response_len":      len(resp.Text),
		"grounding_sources": len(resp.Sources),
	})
	return resp, nil
}

func (c *Client) generate(ctx context.Context, req Request) (*Response, error) {
	cc := &genai.ClientConfig{
		APIKey:  req.Credential,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}

	result, err := client.Models.GenerateContent(ctx, string(req.Model), genai.Text(req.Prompt), generateConfig(req))
	if err != nil {
		return nil, err
	}

	return &Response{
		Text:    result.Text(),
		Sources: GroundingSources(result),
	}, nil
}

func generateConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	switch {
	case req.SearchGrounding:
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	case req.Schema != nil:
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}
	return cfg
}

// GroundingSources collects the web citations of the first candidate.
// The API does not attribute them to parts of the answer.
func GroundingSources(resp *genai.GenerateContentResponse) []models.GroundingSource {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}

	var sources []models.GroundingSource
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = "Source"
		}
		sources = append(sources, models.GroundingSource{Title: title, URI: chunk.Web.URI})
	}
	return sources
}

// Classify sorts a raw call error into the two user facing kinds.
func Classify(err error) *apperrors.StandardError {
	if se, ok := apperrors.As(err); ok {
		return se
	}
	if strings.Contains(err.Error(), apperrors.CredentialRevokedMessage) {
		return apperrors.NewCredentialInvalidError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewModelTimeoutError(err)
	}
	return apperrors.NewModelCallFailedError(err)
}
