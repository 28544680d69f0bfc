// Package advice answers financial questions with market context and a text generation backend.
package advice

import (
	"context"
	"errors"
	"strings"

	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/metrics"
	"github.com/myntr-ai/myntr/internal/models"
)

// Fallback content returned whenever an answer cannot be produced.
const (
	FallbackAnswer         = "Üzgünüm, şu anda yanıt oluşturulamıyor. Lütfen daha sonra tekrar deneyin."
	FallbackRecommendation = "Sistem şu anda bakımda."
)

// FallbackAdvice returns a fresh copy of the degraded response.
func FallbackAdvice() *models.FinancialAdvice {
	return &models.FinancialAdvice{
		Answer:          FallbackAnswer,
		Recommendations: []string{FallbackRecommendation},
	}
}

// Service implements AdviceService
type Service struct {
	contexts  *ContextBuilder
	generator *Generator
	logger    *common.Logger
}

// NewService creates a new advice service
func NewService(contexts *ContextBuilder, generator *Generator, logger *common.Logger) *Service {
	return &Service{
		contexts:  contexts,
		generator: generator,
		logger:    logger,
	}
}

// Analyze builds context, generates and parses an answer. It never fails.
func (s *Service) Analyze(ctx context.Context, query models.FinancialQuery) *models.FinancialAdvice {
	query = query.Normalize()

	if strings.TrimSpace(query.Question) == "" {
		s.logger.Warn().Msg("Blank question, returning fallback advice")
		metrics.AdviceFallbacks.WithLabelValues("blank_question").Inc()
		return FallbackAdvice()
	}

	contextText, err := s.contexts.Build(query.RiskTolerance)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Market context unavailable, continuing without it")
		contextText = ""
	}

	text, err := s.generator.Generate(ctx, query.Question, contextText)
	if err != nil {
		reason := "generation_error"
		if errors.Is(err, ErrEmptyGeneration) {
			reason = "empty_generation"
		}
		s.logger.Error().Err(err).Str("reason", reason).Msg("Generation failed, returning fallback advice")
		metrics.AdviceFallbacks.WithLabelValues(reason).Inc()
		return FallbackAdvice()
	}

	advice := ParseResponse(text)
	s.logger.Info().
		Str("risk_tolerance", query.RiskTolerance).
		Int("recommendations", len(advice.Recommendations)).
		Int("allocations", len(advice.Allocation())).
		Msg("Advice generated")
	return advice
}

// Ensure Service implements AdviceService
var _ interfaces.AdviceService = (*Service)(nil)
