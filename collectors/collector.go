// Package collectors defines the polling interface shared by the system
// information resolver and the live watch view.
package collectors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Collector gathers a snapshot from a single source and returns it as a
// structured result.
type Collector interface {
	// Name returns the collector's unique identifier (e.g. "sysinfo").
	Name() string

	// Description returns a human-readable description of what this collector gathers.
	Description() string

	// Interval returns the recommended polling interval for this collector.
	Interval() time.Duration

	// Collect gathers data and returns it. Non-fatal issues are reported as
	// Warnings rather than errors. The context bounds long-running probes.
	Collect(ctx context.Context) (*CollectResult, error)
}

// CollectResult holds the output of a collection run.
type CollectResult struct {
	// Collector is the name of the collector that produced this result.
	Collector string `json:"collector"`

	// Timestamp records when the collection completed.
	Timestamp time.Time `json:"timestamp"`

	// Data is the collector-specific structured data.
	Data interface{} `json:"data"`

	// Warnings contains non-fatal issues encountered during collection,
	// such as a probe that fell back to its sentinel value.
	Warnings []string `json:"warnings,omitempty"`
}

// Run invokes c once, logs its warnings, and fills in Collector and
// Timestamp when the collector left them empty.
func Run(ctx context.Context, c Collector, logger *slog.Logger) (*CollectResult, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logger.Debug("running collector", "name", c.Name())

	result, err := c.Collect(ctx)
	if err != nil {
		logger.Error("collector failed", "name", c.Name(), "error", err)
		return nil, fmt.Errorf("collectors: %s: %w", c.Name(), err)
	}
	if result == nil {
		return nil, fmt.Errorf("collectors: %s: empty result", c.Name())
	}

	for _, w := range result.Warnings {
		logger.Warn("collector warning", "name", c.Name(), "warning", w)
	}

	if result.Collector == "" {
		result.Collector = c.Name()
	}
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now()
	}
	return result, nil
}
