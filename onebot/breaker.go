package onebot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is skipping calls to an
// endpoint that keeps failing.
var ErrCircuitOpen = errors.New("onebot: circuit open")

// Compile-time check: Breaker satisfies the Caller interface.
var _ Caller = (*Breaker)(nil)

// State represents the breaker state.
type State int

const (
	// StateClosed is normal operation; calls pass through.
	StateClosed State = iota
	// StateOpen means failures exceeded the threshold; calls are rejected.
	StateOpen
	// StateHalfOpen lets one probe call through to test recovery.
	StateHalfOpen
)

// String returns the human-readable state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// BreakerConfig configures the breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive transport failures before
	// the circuit opens.
	MaxFailures int
	// ResetTimeout is the initial wait before a half-open probe.
	ResetTimeout time.Duration
	// MaxResetTimeout caps the exponential backoff.
	MaxResetTimeout time.Duration
	// BackoffMultiplier grows ResetTimeout each time a probe fails.
	BackoffMultiplier float64
	// Logger for breaker events. Nil is safe.
	Logger *slog.Logger
}

// DefaultBreakerConfig returns the settings used by the command.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:       3,
		ResetTimeout:      30 * time.Second,
		MaxResetTimeout:   10 * time.Minute,
		BackoffMultiplier: 2.0,
	}
}

// Breaker wraps a Caller and stops dialing an endpoint that is down. Only
// errors count as failures; a response with a failed status means the
// endpoint is reachable.
type Breaker struct {
	next   Caller
	config BreakerConfig
	logger *slog.Logger
	now    func() time.Time

	mu             sync.Mutex
	state          State
	failures       int
	lastFailure    time.Time
	currentTimeout time.Duration
}

// NewBreaker wraps next with circuit breaker logic.
func NewBreaker(next Caller, cfg BreakerConfig) *Breaker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 1
	}
	if cfg.BackoffMultiplier < 1 {
		cfg.BackoffMultiplier = 1
	}
	return &Breaker{
		next:           next,
		config:         cfg,
		logger:         logger,
		now:            time.Now,
		state:          StateClosed,
		currentTimeout: cfg.ResetTimeout,
	}
}

// Call forwards the action unless the circuit is open.
func (b *Breaker) Call(ctx context.Context, action string, params any) (*Response, error) {
	b.mu.Lock()
	switch b.state {
	case StateOpen:
		elapsed := b.now().Sub(b.lastFailure)
		if elapsed < b.currentTimeout {
			remaining := b.currentTimeout - elapsed
			failures := b.failures
			b.mu.Unlock()
			b.logger.Debug("circuit open, skipping call",
				"action", action,
				"failures", failures,
				"retry_in", remaining,
			)
			return nil, fmt.Errorf("%w (retry in %s)", ErrCircuitOpen, remaining.Truncate(time.Second))
		}
		b.state = StateHalfOpen
		b.logger.Info("circuit half-open, probing endpoint", "action", action)
	case StateHalfOpen:
		// A probe is already in flight.
		b.mu.Unlock()
		return nil, ErrCircuitOpen
	}
	b.mu.Unlock()

	// A panicking caller counts as a failure so a half-open trial call is never
	// left in flight.
	defer func() {
		if p := recover(); p != nil {
			b.recordFailure()
			panic(p)
		}
	}()

	resp, err := b.next.Call(ctx, action, params)
	if err != nil && ctx.Err() == nil {
		b.recordFailure()
		return resp, err
	}
	if err == nil {
		b.recordSuccess()
	} else {
		b.release()
	}
	return resp, err
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailure = b.now()

	switch {
	case b.state == StateHalfOpen:
		b.currentTimeout = time.Duration(float64(b.currentTimeout) * b.config.BackoffMultiplier)
		if b.config.MaxResetTimeout > 0 && b.currentTimeout > b.config.MaxResetTimeout {
			b.currentTimeout = b.config.MaxResetTimeout
		}
		b.state = StateOpen
		b.logger.Warn("circuit re-opened after failed probe",
			"failures", b.failures,
			"next_timeout", b.currentTimeout,
		)
	case b.failures >= b.config.MaxFailures:
		b.state = StateOpen
		b.currentTimeout = b.config.ResetTimeout
		b.logger.Warn("circuit opened",
			"failures", b.failures,
			"timeout", b.currentTimeout,
		)
	}
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateClosed {
		b.logger.Info("circuit closed after successful probe")
	}
	b.state = StateClosed
	b.failures = 0
	b.currentTimeout = b.config.ResetTimeout
}

// release returns a half-open breaker to open without counting a failure,
// for probes abandoned by the caller.
func (b *Breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen {
		b.state = StateOpen
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset forces the breaker closed.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.currentTimeout = b.config.ResetTimeout
}

// Close closes the wrapped caller when it holds a connection.
func (b *Breaker) Close() error {
	if c, ok := b.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
