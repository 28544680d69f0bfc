package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/metrics"
)

// AnswerMarker ends the prompt; everything up to its last occurrence is discarded from output.
const AnswerMarker = "Cevap:"

// ErrEmptyGeneration is returned when the backend produced no usable answer text.
var ErrEmptyGeneration = errors.New("empty generation")

// BuildPrompt renders the fixed question/context template.
func BuildPrompt(question, context string) string {
	return "Soru: " + question + "\nBağlam: " + context + "\n" + AnswerMarker
}

// Generator produces answer text for a question and context.
type Generator struct {
	backend        interfaces.TextGenerator
	params         interfaces.GenerationParams
	maxPromptChars int
	timeout        time.Duration
	limiter        *rate.Limiter
	logger         *common.Logger
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithParams sets the sampling parameters
func WithParams(p interfaces.GenerationParams) GeneratorOption {
	return func(g *Generator) {
		g.params = p
	}
}

// WithMaxPromptChars caps the prompt length in characters (0 disables)
func WithMaxPromptChars(n int) GeneratorOption {
	return func(g *Generator) {
		g.maxPromptChars = n
	}
}

// WithTimeout bounds each generation call
func WithTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithRateLimit sets the generation rate limit
func WithRateLimit(perSecond int) GeneratorOption {
	return func(g *Generator) {
		if perSecond > 0 {
			g.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator wraps an inference backend with the fixed prompt and sampling settings.
func NewGenerator(backend interfaces.TextGenerator, opts ...GeneratorOption) *Generator {
	g := &Generator{
		backend: backend,
		params: interfaces.GenerationParams{
			Temperature:     0.7,
			TopP:            0.9,
			MaxOutputTokens: 512,
		},
		maxPromptChars: 2048,
		timeout:        60 * time.Second,
		limiter:        rate.NewLimiter(rate.Limit(5), 5),
		logger:         common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the trimmed answer text following the last answer marker.
func (g *Generator) Generate(ctx context.Context, question, contextText string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	prompt := g.fitPrompt(question, contextText)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := g.backend.Generate(ctx, prompt, g.params)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveGeneration(metrics.OutcomeError, elapsed)
		return "", fmt.Errorf("generate with %s: %w", g.backend.Model(), err)
	}

	answer := stripThroughMarker(raw)
	if answer == "" {
		metrics.ObserveGeneration(metrics.OutcomeEmpty, elapsed)
		return "", ErrEmptyGeneration
	}

	metrics.ObserveGeneration(metrics.OutcomeSuccess, elapsed)
	g.logger.Debug().
		Str("model", g.backend.Model()).
		Int("prompt_chars", len([]rune(prompt))).
		Int("answer_chars", len([]rune(answer))).
		Dur("elapsed", elapsed).
		Msg("Generation complete")

	return answer, nil
}

// stripThroughMarker drops everything up to and including the last AnswerMarker.
func stripThroughMarker(text string) string {
	if i := strings.LastIndex(text, AnswerMarker); i >= 0 {
		text = text[i+len(AnswerMarker):]
	}
	return strings.TrimSpace(text)
}

// fitPrompt renders the prompt within maxPromptChars. The template itself is never cut,
// so the trailing answer marker survives; the context is kept before the question.
func (g *Generator) fitPrompt(question, contextText string) string {
	if g.maxPromptChars <= 0 {
		return BuildPrompt(question, contextText)
	}
	budget := g.maxPromptChars - len([]rune(BuildPrompt("", "")))
	contextText = headRunes(contextText, budget)
	budget -= len([]rune(contextText))
	return BuildPrompt(headRunes(question, budget), contextText)
}

// headRunes keeps at most n leading runes of s.
func headRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
