package essay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/noah-isme/cssprep-api/pkg/ai"
)

// DefaultAITimeout bounds a single model call.
const DefaultAITimeout = 45 * time.Second

// Evaluation outcomes recorded by the pipeline.
const (
	OutcomeAI                  = "ai"
	OutcomeFallbackUnavailable = "fallback_unavailable"
	OutcomeFallbackMalformed   = "fallback_malformed"
)

var evaluationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cssprep",
	Subsystem: "essay",
	Name:      "evaluations_total",
	Help:      "Essay evaluations by the path that produced the result",
}, []string{"outcome"})

// Config tunes the evaluator.
type Config struct {
	// AITimeout bounds the model call; expiry is treated as the model being unavailable.
	AITimeout time.Duration
	Logger    zerolog.Logger
}

// Evaluator grades essays with a model and falls back to FallbackAnalyze whenever the
// model is unavailable or its answer is malformed. It holds no per-call state and is
// safe for concurrent use.
type Evaluator struct {
	client  ai.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// NewEvaluator builds an evaluator. A nil client is allowed: every evaluation then
// degrades to fallback analysis.
func NewEvaluator(client ai.Client, cfg Config) *Evaluator {
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = DefaultAITimeout
	}

	return &Evaluator{
		client:  client,
		timeout: cfg.AITimeout,
		logger:  cfg.Logger.With().Str("component", "essay_evaluator").Logger(),
	}
}

// Evaluate grades essayText. The only error it returns is ErrInputOutOfRange, raised
// before any model call when the essay is outside [MinEssayLength, MaxEssayLength]
// characters. Model failures never surface: they degrade to a fallback result.
func (e *Evaluator) Evaluate(ctx context.Context, essayText string) (EvaluationResult, error) {
	if err := CheckLength(essayText); err != nil {
		return EvaluationResult{}, err
	}

	text := Normalize(essayText)

	raw, err := e.invoke(ctx, BuildPrompt(text))
	if err != nil {
		e.logger.Warn().Err(err).Int("characters", CharacterCount(text)).Msg("ai evaluation unavailable, using fallback")
		evaluationOutcomes.WithLabelValues(OutcomeFallbackUnavailable).Inc()
		return FallbackAnalyze(text), nil
	}

	result, err := Parse(raw)
	if err != nil {
		e.logger.Warn().Err(err).Int("response_length", len(raw)).Msg("ai response malformed, using fallback")
		evaluationOutcomes.WithLabelValues(OutcomeFallbackMalformed).Inc()
		return FallbackAnalyze(text), nil
	}

	result = ApplyOutlineOnlyRule(result, DetectOutlineOnly(result))
	if result.CorrectedText == "" {
		result.CorrectedText = text
	}

	evaluationOutcomes.WithLabelValues(OutcomeAI).Inc()
	e.logger.Debug().
		Int("total_score", result.TotalScore).
		Bool("outline_only", result.IsOutlineOnly).
		Int("mistakes", len(result.Mistakes)).
		Msg("essay evaluated")

	return result, nil
}

func (e *Evaluator) invoke(parent context.Context, prompt string) (string, error) {
	if e.client == nil {
		return "", fmt.Errorf("%w: no client configured", ai.ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(parent, e.timeout)
	defer cancel()

	raw, err := e.client.Invoke(ctx, prompt)
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ai.ErrUnavailable, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("%w: %v", ai.ErrUnavailable, ctxErr)
	}
	return raw, nil
}
