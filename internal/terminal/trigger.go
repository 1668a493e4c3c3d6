package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Handler is run when a trigger fires.
type Handler func(ctx context.Context)

// Runner drives a trigger until it is exhausted or ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// handlers is the registration list shared by the triggers.
type handlers struct {
	mu   sync.Mutex
	list []Handler
}

// OnActivate registers a handler run on each activation.
func (h *handlers) OnActivate(handler func(ctx context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.list = append(h.list, handler)
}

func (h *handlers) snapshot() []Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Handler(nil), h.list...)
}

// OnceTrigger fires exactly once.
type OnceTrigger struct {
	handlers
}

// NewOnceTrigger creates a one-shot trigger.
func NewOnceTrigger() *OnceTrigger {
	return &OnceTrigger{}
}

// Run calls every registered handler in order and returns when they are done.
func (t *OnceTrigger) Run(ctx context.Context) error {
	for _, h := range t.snapshot() {
		if err := ctx.Err(); err != nil {
			return err
		}
		h(ctx)
	}
	return nil
}

// QuitCommand ends an interactive session.
const QuitCommand = "q"

// KeyTrigger fires once per line read from its input.
// Handlers of overlapping activations run concurrently.
type KeyTrigger struct {
	handlers

	in     io.Reader
	prompt io.Writer
}

// NewKeyTrigger creates a trigger reading lines from in.
// The usage prompt is written to prompt; pass io.Discard to suppress it.
func NewKeyTrigger(in io.Reader, prompt io.Writer) *KeyTrigger {
	return &KeyTrigger{in: in, prompt: prompt}
}

// Run reads lines until end of input, the quit command or cancellation,
// then waits for running handlers to finish.
func (t *KeyTrigger) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprintf(t.prompt, "Press Enter to scan the active tab, %q then Enter to quit.\n", QuitCommand) //nolint:errcheck // prompt output

	var g errgroup.Group
	defer g.Wait() //nolint:errcheck // handlers never fail

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if strings.TrimSpace(line) == QuitCommand {
				return nil
			}
			for _, h := range t.snapshot() {
				h := h
				g.Go(func() error {
					h(ctx)
					return nil
				})
			}
		}
	}
}
