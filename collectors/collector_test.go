package collectors

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubCollector is a minimal Collector implementation for Run tests.
type stubCollector struct {
	name   string
	result *CollectResult
	err    error
}

func (s *stubCollector) Name() string            { return s.name }
func (s *stubCollector) Description() string     { return "stub " + s.name }
func (s *stubCollector) Interval() time.Duration { return time.Minute }
func (s *stubCollector) Collect(_ context.Context) (*CollectResult, error) {
	return s.result, s.err
}

func TestRun_FillsDefaults(t *testing.T) {
	c := &stubCollector{
		name:   "stub",
		result: &CollectResult{Data: 42, Warnings: []string{"degraded"}},
	}

	got, err := Run(context.Background(), c, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.Collector != "stub" {
		t.Errorf("Collector = %q, want stub", got.Collector)
	}
	if got.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
	if got.Data != 42 {
		t.Errorf("Data = %v, want 42", got.Data)
	}
}

func TestRun_KeepsTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &stubCollector{name: "stub", result: &CollectResult{Collector: "other", Timestamp: ts}}

	got, err := Run(context.Background(), c, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
	if got.Collector != "other" {
		t.Errorf("Collector = %q, want other", got.Collector)
	}
}

func TestRun_Errors(t *testing.T) {
	sentinel := errors.New("boom")

	tests := []struct {
		name string
		c    *stubCollector
	}{
		{"collector error", &stubCollector{name: "bad", err: sentinel}},
		{"nil result", &stubCollector{name: "empty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Run(context.Background(), tt.c, nil); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := Run(context.Background(), &stubCollector{name: "bad", err: sentinel}, nil)
	if !errors.Is(err, sentinel) {
		t.Errorf("error should wrap the collector error, got %v", err)
	}
}
