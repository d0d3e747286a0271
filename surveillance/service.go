// Package surveillance turns a lender's query into candidate entities and a
// committed entity into a risk analysis, using a generative model as the
// research engine.
package surveillance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"riskradar/apperrors"
	"riskradar/gemini"
	"riskradar/jsonextract"
	"riskradar/logger"
	"riskradar/metrics"
	"riskradar/models"
)

// Generator is the model call the service depends on.
type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (*gemini.Response, error)
}

// CallOptions carries the per-call model choice and credential.
type CallOptions struct {
	Model  models.Model
	APIKey string
}

const (
	defaultSummary   = "Analysis complete."
	defaultBenchmark = "N/A"
)

type Service struct {
	gen             Generator
	searchGrounding bool
	now             func() time.Time
	logger          logger.Logger
}

type Option func(*Service)

// WithClock replaces time.Now, for signal ids and the prompt's period.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(gen Generator, searchGrounding bool, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		gen:             gen,
		searchGrounding: searchGrounding,
		now:             time.Now,
		logger:          log.With(map[string]interface{}{"component": "surveillance"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve asks the model for up to three entities matching query, in the
// order the model returned them. Every candidate carries the same grounding
// sources because the API does not attribute citations per item.
func (s *Service) Resolve(ctx context.Context, query string, opts CallOptions) ([]models.CandidateEntity, error) {
	resp, err := s.gen.Generate(ctx, gemini.Request{
		Operation:       "resolve",
		Model:           opts.Model,
		Prompt:          resolutionPrompt(query),
		Credential:      opts.APIKey,
		SearchGrounding: s.searchGrounding,
		Schema:          gemini.CandidateListSchema(),
	})
	if err != nil {
		return nil, err
	}

	text := resp.Text
	if strings.TrimSpace(text) == "" {
		text = "[]"
	}

	var raw []rawCandidate
	if err := s.extractor("resolve").DecodeShape(text, jsonextract.CandidateListShape, &raw); err != nil {
		s.logger.Warn("could not recover candidates", map[string]interface{}{
			"error":        err.Error(),
			"response_len": len(resp.Text),
		})
		return nil, apperrors.NewMalformedResponseError(err)
	}

	candidates := make([]models.CandidateEntity, 0, maxCandidates)
	for _, rc := range raw {
		if rc.Name.String() == "" {
			continue
		}
		candidates = append(candidates, models.CandidateEntity{
			Name:             rc.Name.String(),
			Ticker:           rc.Ticker.String(),
			Industry:         rc.Industry.String(),
			Description:      rc.Description.String(),
			GroundingSources: resp.Sources,
		})
		if len(candidates) == maxCandidates {
			break
		}
	}

	s.logger.Info("entities resolved", map[string]interface{}{
		"query":      query,
		"candidates": len(candidates),
		"sources":    len(resp.Sources),
	})
	return candidates, nil
}

// Analyze runs risk surveillance for a committed entity. Category and
// severity values outside the closed vocabularies degrade to Neutral and
// None; a signal is never dropped for them.
func (s *Service) Analyze(ctx context.Context, name, industry string, opts CallOptions) (*models.AnalysisResult, error) {
	now := s.now()
	resp, err := s.gen.Generate(ctx, gemini.Request{
		Operation:       "analyze",
		Model:           opts.Model,
		Prompt:          analysisPrompt(name, industry, now),
		Credential:      opts.APIKey,
		SearchGrounding: s.searchGrounding,
		Schema:          gemini.AnalysisSchema(),
	})
	if err != nil {
		return nil, err
	}

	text := resp.Text
	if strings.TrimSpace(text) == "" {
		text = "{}"
	}

	var raw rawAnalysis
	if err := s.decodeAnalysis(text, &raw); err != nil {
		s.logger.Warn("could not recover analysis", map[string]interface{}{
			"entity":       name,
			"error":        err.Error(),
			"response_len": len(resp.Text),
		})
		return nil, apperrors.NewMalformedResponseError(err)
	}

	result := &models.AnalysisResult{
		SummarySentence: orDefault(raw.SummarySentence.String(), defaultSummary),
		BenchmarkScore:  orDefault(raw.BenchmarkScore.String(), defaultBenchmark),
		Signals:         make([]models.RiskSignal, 0, len(raw.Signals)),
	}
	for i, rs := range raw.Signals {
		result.Signals = append(result.Signals, models.RiskSignal{
			ID:                fmt.Sprintf("sig-%d-%d", i, now.UnixMilli()),
			Title:             rs.Title.String(),
			Source:            rs.Source.String(),
			URL:               rs.URL.String(),
			Date:              rs.Date.String(),
			Category:          models.ParseCategory(rs.Category.String()),
			Severity:          models.ParseSeverity(rs.Severity.String()),
			Summary:           rs.Summary.String(),
			Impact:            rs.Impact.String(),
			CovenantImpact:    rs.CovenantImpact.String(),
			SupplyChainRipple: rs.SupplyChainRipple.String(),
			GroundingSources:  resp.Sources,
		})
	}

	s.logger.Info("risk analysis completed", map[string]interface{}{
		"entity":    name,
		"signals":   len(result.Signals),
		"sources":   len(resp.Sources),
		"benchmark": result.BenchmarkScore,
	})
	return result, nil
}

// decodeAnalysis recovers the analysis object. A bare list carries neither
// summary nor signals and decodes as an empty analysis.
func (s *Service) decodeAnalysis(text string, v *rawAnalysis) error {
	doc, err := s.extractor("analyze").Raw(text)
	if err != nil {
		return err
	}
	if bytes.HasPrefix(bytes.TrimSpace(doc), []byte("[")) {
		s.logger.Warn("analysis arrived as a list, no signals recovered", map[string]interface{}{
			"response_len": len(text),
		})
		doc = json.RawMessage("{}")
	}
	if err := jsonextract.AnalysisShape.Validate(doc); err != nil {
		return err
	}
	if err := json.Unmarshal(doc, v); err != nil {
		return errors.Join(jsonextract.ErrParseFailure, err)
	}
	return nil
}

func (s *Service) extractor(operation string) *jsonextract.Extractor {
	e := jsonextract.New()
	e.OnMatch = func(strategy string) {
		metrics.ExtractionStrategy.WithLabelValues(operation, strategy).Inc()
	}
	return e
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
