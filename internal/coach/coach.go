// Package coach turns a user's recent workout history into a 3-day training
// plan by prompting a text generation model and validating its reply.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dukerupert/fitcoach/internal/model"
)

var (
	ErrAIConfigMissing   = errors.New("ai coach is not configured: api key missing")
	ErrUpstream          = errors.New("ai provider request failed")
	ErrInvalidAIResponse = errors.New("invalid AI response format")
)

// TextGenerator sends a prompt to a language model and returns its raw reply.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type WorkoutHistory interface {
	Recent(ctx context.Context, userID string, limit int) ([]model.Workout, error)
}

// Policy decides what happens when a reply is not valid JSON.
type Policy int

const (
	// PolicyLenient serves FallbackPlan for unparseable replies.
	PolicyLenient Policy = iota
	// PolicyStrict fails with ErrInvalidAIResponse instead.
	PolicyStrict
)

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "lenient":
		return PolicyLenient, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyLenient, fmt.Errorf("unknown parse policy %q", s)
	}
}

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "lenient"
}

type Options struct {
	Policy Policy
	// Timeout bounds each provider attempt.
	Timeout time.Duration
	// MaxRetries is how many more attempts follow one that timed out.
	MaxRetries int
	RetryDelay time.Duration
}

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
)

type Generator struct {
	llm     TextGenerator
	history WorkoutHistory
	opts    Options
	logger  *slog.Logger
}

// NewGenerator returns a Generator. A nil llm means no provider key was
// configured; every Recommend call then fails with ErrAIConfigMissing.
func NewGenerator(llm TextGenerator, history WorkoutHistory, opts Options, logger *slog.Logger) *Generator {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	return &Generator{llm: llm, history: history, opts: opts, logger: logger}
}

// Recommend builds a plan for userID and returns it as a JSON document of
// the form {"plan": [...]}.
func (g *Generator) Recommend(ctx context.Context, userID string) (json.RawMessage, error) {
	if g.llm == nil {
		return nil, ErrAIConfigMissing
	}

	workouts, err := g.history.Recent(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load workout history: %w", err)
	}

	reply, err := g.generate(ctx, BuildPrompt(workouts))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	res := ParsePlan(reply)
	switch res.Outcome {
	case Parsed:
		return res.Plan, nil
	case ParseFailed:
		if g.opts.Policy == PolicyStrict {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAIResponse, res.Err)
		}
		g.logger.Warn("unparseable ai reply, serving fallback plan", "user_id", userID, "error", res.Err)
		return json.Marshal(FallbackPlan())
	default:
		return nil, fmt.Errorf("%w: %w", ErrInvalidAIResponse, res.Err)
	}
}

// generate calls the provider with a per-attempt deadline. Only attempts
// that hit that deadline are retried; a cancelled parent context is not.
func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	var reply string
	backoff := retry.WithMaxRetries(uint64(g.opts.MaxRetries), retry.NewConstant(g.opts.RetryDelay))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()

		start := time.Now()
		out, err := g.llm.Generate(attemptCtx, prompt)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				g.logger.Warn("ai provider attempt timed out", "attempt", attempt, "timeout", g.opts.Timeout)
				return retry.RetryableError(err)
			}
			return err
		}
		g.logger.Debug("ai provider replied", "attempt", attempt, "duration", time.Since(start))
		reply = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}
