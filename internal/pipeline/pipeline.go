package pipeline

import (
	"context"
	"errors"
	"log/slog"
)

// Step is one stage of a pipeline operating on state of type T.
type Step[T any] interface {
	// Do executes the step. A returned error stops the pipeline unless
	// it was created WithContinueOnError.
	Do(ctx context.Context, state T) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// funcStep adapts a function to the Step interface.
type funcStep[T any] struct {
	name string
	fn   func(ctx context.Context, state T) error
}

func (s funcStep[T]) Do(ctx context.Context, state T) error {
	return s.fn(ctx, state)
}

func (s funcStep[T]) Name() string {
	return s.name
}

// NewStep returns a Step that calls fn.
func NewStep[T any](name string, fn func(ctx context.Context, state T) error) Step[T] {
	return funcStep[T]{name: name, fn: fn}
}

// settings are the options shared by pipelines of every state type.
type settings struct {
	logger          *slog.Logger
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*settings)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithContinueOnError configures the pipeline to run the remaining steps
// after one fails. Execute then returns all step errors joined.
func WithContinueOnError(continueOnError bool) Option {
	return func(s *settings) {
		s.continueOnError = continueOnError
	}
}

// Pipeline orchestrates the execution of multiple steps.
// A configured pipeline may be executed concurrently with different states.
type Pipeline[T any] struct {
	steps []Step[T]
	settings
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New[T any](opts ...Option) *Pipeline[T] {
	p := &Pipeline[T]{}
	for _, opt := range opts {
		opt(&p.settings)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline[T]) AddStep(step Step[T]) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline[T]) AddSteps(steps ...Step[T]) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in order on state.
//
// Cancellation is checked before each step; a step in progress is expected
// to honour ctx itself. On cancellation the context error is returned.
func (p *Pipeline[T]) Execute(ctx context.Context, state T) error {
	var errs []error
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step", "step", step.Name())

		if err := step.Do(ctx, state); err != nil {
			p.logger.Debug("step failed", "step", step.Name(), "error", err)
			if !p.continueOnError {
				return err
			}
			errs = append(errs, err)
			continue
		}
		p.logger.Debug("step completed", "step", step.Name())
	}
	return errors.Join(errs...)
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline[T]) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline[T]) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
