// Package processor runs one request through the model and reshapes the answer
// into a ProcessingResult.
package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bitrise-io/ai-verse-processor/attachment"
	"github.com/bitrise-io/ai-verse-processor/common"
	"github.com/bitrise-io/ai-verse-processor/history"
	"github.com/bitrise-io/ai-verse-processor/llm"
	"github.com/bitrise-io/ai-verse-processor/logger"
	"github.com/bitrise-io/ai-verse-processor/prompt"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single model call
const DefaultTimeout = 60 * time.Second

var (
	// ErrBusy is returned when a request is already in flight
	ErrBusy = errors.New("a request is already being processed")
	// ErrInvalidInput is returned for configs or attachments that cannot be sent
	ErrInvalidInput = errors.New("invalid input")
	// ErrTimeout is returned when the model did not answer before the deadline
	ErrTimeout = errors.New("model request timed out")
)

// State is the position of the current request in its lifecycle
type State string

const (
	StateIdle          State = "idle"
	StateBuilding      State = "building"
	StateAwaitingModel State = "awaiting_model"
	StateNormalizing   State = "normalizing"
	StateComplete      State = "complete"
	StateSoftFailed    State = "soft_failed"
)

// Option configures a Processor
type Option func(*Processor)

// WithTimeout sets the deadline of each model call
func WithTimeout(timeout time.Duration) Option {
	return func(p *Processor) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithMetrics records outcomes and durations on m
func WithMetrics(m *Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

// WithClock replaces the time source used for history timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDGenerator replaces the history item id generator
func WithIDGenerator(newID func() string) Option {
	return func(p *Processor) {
		if newID != nil {
			p.newID = newID
		}
	}
}

// Processor serializes requests: at most one is in flight at any time
type Processor struct {
	llm     llm.LLM
	store   *history.Store
	timeout time.Duration
	metrics *Metrics
	now     func() time.Time
	newID   func() string

	inFlight sync.Mutex

	stateMu sync.RWMutex
	state   State
}

// New creates a Processor. store may be nil, in which case nothing is recorded.
func New(model llm.LLM, store *history.Store, opts ...Option) (*Processor, error) {
	if model == nil {
		return nil, errors.New("llm client is required")
	}

	p := &Processor{
		llm:     model,
		store:   store,
		timeout: DefaultTimeout,
		now:     time.Now,
		newID:   uuid.NewString,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// State returns the state of the current or last request
func (p *Processor) State() State {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()

	return p.state
}

func (p *Processor) setState(state State) {
	p.stateMu.Lock()
	p.state = state
	p.stateMu.Unlock()

	logger.Debugf("Processor state: %s", state)
}

// Process sends text and the optional attachment to the model and records the request in history.
// Blank text without an attachment returns an empty result without calling the model.
// Only model call failures are returned as errors; unusable answers become a degraded result.
func (p *Processor) Process(ctx context.Context, text string, config common.ProcessorConfig, att *attachment.Attachment) (common.ProcessingResult, error) {
	if !p.inFlight.TryLock() {
		p.metrics.count(labelBusy)
		return common.ProcessingResult{}, ErrBusy
	}
	defer p.inFlight.Unlock()

	if att != nil {
		if err := att.Validate(); err != nil {
			return common.ProcessingResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	result, called, err := p.run(ctx, text, config, att)
	if err != nil || !called {
		return result, err
	}

	attachmentName := ""
	if att != nil {
		attachmentName = att.Name
	}
	p.record(ctx, history.NewItem(p.newID(), p.now(), text, attachmentName, config))

	return result, nil
}

// Reprocess selects a history item and runs its text and config again.
// No new history item is added.
func (p *Processor) Reprocess(ctx context.Context, id string) (common.ProcessingResult, history.Item, error) {
	if p.store == nil {
		return common.ProcessingResult{}, history.Item{}, errors.New("history is not available")
	}
	if !p.inFlight.TryLock() {
		p.metrics.count(labelBusy)
		return common.ProcessingResult{}, history.Item{}, ErrBusy
	}
	defer p.inFlight.Unlock()

	item, ok := p.store.Get(id)
	if !ok {
		return common.ProcessingResult{}, history.Item{}, fmt.Errorf("%w: %s", history.ErrItemNotFound, id)
	}
	if err := p.store.Select(ctx, id); err != nil {
		return common.ProcessingResult{}, item, err
	}
	if item.AttachmentName != "" {
		logger.Infof("Attachment %s is not kept in history, only the text is processed again", item.AttachmentName)
	}

	result, _, err := p.run(ctx, item.OriginalText, item.Config, nil)
	return result, item, err
}

// run drives one request through the state machine. called is false when
// the input was empty and no model call was made.
func (p *Processor) run(ctx context.Context, text string, config common.ProcessorConfig, att *attachment.Attachment) (result common.ProcessingResult, called bool, err error) {
	p.setState(StateBuilding)
	if err := config.Validate(); err != nil {
		p.setState(StateIdle)
		return common.ProcessingResult{}, false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	req, err := prompt.Build(text, config, att)
	if errors.Is(err, prompt.ErrEmptyInput) {
		p.setState(StateIdle)
		p.metrics.count(labelEmpty)
		logger.Debug("Nothing to process")
		return common.EmptyResult(), false, nil
	}
	if err != nil {
		p.setState(StateIdle)
		return common.ProcessingResult{}, false, fmt.Errorf("failed to build request: %w", err)
	}

	p.setState(StateAwaitingModel)
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp := p.llm.Prompt(callCtx, req)
	if resp.Error != nil {
		p.setState(StateIdle)
		p.metrics.observe(labelFailed, time.Since(start))
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return common.ProcessingResult{}, false, fmt.Errorf("%w after %s: %w", ErrTimeout, p.timeout, resp.Error)
		}
		return common.ProcessingResult{}, false, fmt.Errorf("model request failed: %w", resp.Error)
	}

	p.setState(StateNormalizing)
	outcome := Normalize(resp.Content)
	elapsed := time.Since(start)

	if outcome.Degraded() {
		p.setState(StateSoftFailed)
		p.metrics.observe(labelDegraded, elapsed)
		logger.Warnw("Model response could not be used", "reason", outcome.Reason, "duration", elapsed)
	} else {
		p.setState(StateComplete)
		p.metrics.observe(labelOK, elapsed)
		logger.Infow("Text processed", "verses", len(outcome.Result.Verses), "duration", elapsed)
	}

	return outcome.Result, true, nil
}

// record appends item and selects it. A failing backend is logged, the result is still returned.
func (p *Processor) record(ctx context.Context, item history.Item) {
	if p.store == nil {
		return
	}
	if err := p.store.Append(ctx, item); err != nil {
		logger.Errorf("Failed to save history: %v", err)
		return
	}
	if err := p.store.Select(ctx, item.ID); err != nil {
		logger.Errorf("Failed to select history item: %v", err)
	}
}
