package sysinfo

import (
	"context"
	"errors"
	"fmt"
)

var errUnsupported = errors.New("not supported on this platform")

// probe is one step in a fallback chain.
type probe[T any] struct {
	name string
	fn   func(ctx context.Context) (T, error)
}

// firstOf runs probes in order and returns the first value that accept
// allows. Errors and rejected values are logged at debug and skipped.
func firstOf[T any](ctx context.Context, r *Resolver, query string, probes []probe[T], accept func(T) bool) (T, bool) {
	var zero T
	for _, p := range probes {
		if ctx.Err() != nil {
			return zero, false
		}
		v, err := safeProbe(ctx, p)
		if err != nil {
			r.logger.Debug("probe failed", "query", query, "probe", p.name, "error", err)
			continue
		}
		if accept != nil && !accept(v) {
			r.logger.Debug("probe value rejected", "query", query, "probe", p.name, "value", v)
			continue
		}
		return v, true
	}
	return zero, false
}

// safeProbe converts a panicking probe into an error so the chain continues.
func safeProbe[T any](ctx context.Context, p probe[T]) (v T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("sysinfo: %s panicked: %v", p.name, rec)
		}
	}()
	if p.fn == nil {
		return v, errUnsupported
	}
	return p.fn(ctx)
}
