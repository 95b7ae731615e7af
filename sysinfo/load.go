package sysinfo

import (
	"context"
	"errors"
	"sync"
	"time"
)

// cpuSample is a cumulative CPU time reading. Units depend on source, so
// deltas are only taken between samples from the same source.
type cpuSample struct {
	source string
	idle   float64
	total  float64
}

// loadSampler caches the last CPU busy percentage and the counters it was
// computed from.
type loadSampler struct {
	mu      sync.Mutex
	prev    cpuSample
	hasPrev bool
	value   float64
	at      time.Time
	ok      bool
}

// cpuLoad returns the busy percentage. A value younger than LoadCacheTTL is
// returned unchanged. The first read blocks for LoadBaseline to get two
// samples; later reads diff against the previous counters without blocking.
func (r *Resolver) cpuLoad(ctx context.Context) (float64, bool) {
	s := &r.load
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ok && r.now().Sub(s.at) < r.opts.LoadCacheTTL {
		return s.value, true
	}

	cur, err := r.sampleCPU(ctx)
	if err != nil {
		r.logger.Debug("cpu times unavailable", "error", err)
		return 0, false
	}

	if !s.hasPrev || s.prev.source != cur.source {
		base := cur
		if err := r.sleep(ctx, r.opts.LoadBaseline); err != nil {
			s.prev, s.hasPrev = base, true
			return 0, false
		}
		cur, err = r.sampleCPU(ctx)
		if err != nil || cur.source != base.source {
			s.prev, s.hasPrev = base, true
			r.logger.Debug("cpu baseline sample failed", "error", err)
			return 0, false
		}
		s.prev, s.hasPrev = base, true
	}

	pct, ok := busyPercent(s.prev, cur)
	if !ok {
		// No ticks elapsed; keep the earlier counters and value.
		if s.ok {
			return s.value, true
		}
		return 0, true
	}

	s.prev, s.hasPrev = cur, true
	s.value, s.at, s.ok = pct, r.now(), true
	return pct, true
}

// sampleCPU reads aggregate CPU times from gopsutil.
func (r *Resolver) sampleCPU(ctx context.Context) (cpuSample, error) {
	probes := []probe[cpuSample]{
		{name: "gopsutil", fn: r.libraryCPUTimes},
	}

	s, ok := firstOf(ctx, r, "cpu times", probes, func(s cpuSample) bool { return s.total > 0 })
	if !ok {
		return cpuSample{}, errors.New("sysinfo: no cpu time source")
	}
	return s, nil
}

func (r *Resolver) libraryCPUTimes(ctx context.Context) (cpuSample, error) {
	if r.cpuTimes == nil {
		return cpuSample{}, errUnsupported
	}
	times, err := r.cpuTimes(ctx, false)
	if err != nil {
		return cpuSample{}, err
	}
	if len(times) == 0 {
		return cpuSample{}, errNotFound
	}
	t := times[0]
	total := t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
	return cpuSample{source: "gopsutil", idle: t.Idle + t.Iowait, total: total}, nil
}

// busyPercent computes the busy share between two samples, clamped to
// [0, 100]. It reports false when no time elapsed.
func busyPercent(prev, cur cpuSample) (float64, bool) {
	dt := cur.total - prev.total
	if dt <= 0 {
		return 0, false
	}
	di := cur.idle - prev.idle
	pct := (dt - di) / dt * 100
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	return pct, true
}
