// Package sysinfo resolves a best-effort snapshot of the host: processor
// model and load, memory, operating system and uptime, and per-volume disk
// usage. Every query walks an ordered chain of probes and degrades to a
// sentinel value instead of returning an error.
package sysinfo

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"gitlab.com/tinyland/lab/xytu-function/collectors"
	"gitlab.com/tinyland/lab/xytu-function/config"
)

const (
	// collectorName is the unique identifier for this collector.
	collectorName = "sysinfo"

	// collectorDescription describes what this collector gathers.
	collectorDescription = "Host status (CPU model and load, memory, OS and uptime, disks)"

	// defaultInterval is the recommended polling interval.
	defaultInterval = 5 * time.Second

	defaultCommandTimeout = 3 * time.Second
	defaultLoadCacheTTL   = time.Second
	defaultLoadBaseline   = 500 * time.Millisecond
)

// Options tunes the resolver. Zero values select the defaults.
type Options struct {
	// CommandTimeout bounds every external command.
	CommandTimeout time.Duration
	// LoadCacheTTL is how long a CPU load sample is reused.
	LoadCacheTTL time.Duration
	// LoadBaseline is how long the first CPU load read waits between samples.
	LoadBaseline time.Duration
}

// OptionsFromConfig converts the sysinfo config section to Options.
func OptionsFromConfig(cfg config.SysInfoConfig) Options {
	return Options{
		CommandTimeout: config.Duration(cfg.CommandTimeout, defaultCommandTimeout),
		LoadCacheTTL:   config.Duration(cfg.LoadCacheTTL, defaultLoadCacheTTL),
		LoadBaseline:   config.Duration(cfg.LoadBaseline, defaultLoadBaseline),
	}
}

// Resolver answers system information queries. It is safe for concurrent
// use; only the CPU load sampler carries state between calls.
type Resolver struct {
	opts   Options
	logger *slog.Logger
	goos   string
	load   loadSampler

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	// openFile allows injection of procfs and /etc reads for testing.
	openFile func(name string) (io.ReadCloser, error)

	// lookPath allows injection of exec.LookPath for testing.
	lookPath func(string) (string, error)

	// execCommand allows injection of command execution for testing.
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd

	// Library probes.
	cpuInfo       func(ctx context.Context) ([]cpu.InfoStat, error)
	cpuTimes      func(ctx context.Context, percpu bool) ([]cpu.TimesStat, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	bootTime      func(ctx context.Context) (uint64, error)
	platformInfo  func(ctx context.Context) (string, string, string, error)
	kernelVersion func(ctx context.Context) (string, error)
	kernelArch    func() (string, error)
	partitions    func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	diskUsage     func(ctx context.Context, path string) (*disk.UsageStat, error)

	// Native probes backed by sysctl or the registry; see native_*.go.
	nativeCPUModel func() (string, error)
	nativeOSName   func() (string, error)
	nativeBootTime func() (time.Time, error)
}

// New creates a Resolver. If logger is nil, a no-op logger is used.
func New(opts Options, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = defaultCommandTimeout
	}
	if opts.LoadCacheTTL <= 0 {
		opts.LoadCacheTTL = defaultLoadCacheTTL
	}
	if opts.LoadBaseline <= 0 {
		opts.LoadBaseline = defaultLoadBaseline
	}

	r := &Resolver{
		opts:   opts,
		logger: logger,
		goos:   runtime.GOOS,
		now:    time.Now,
		sleep:  sleepContext,
		openFile: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
		lookPath:      exec.LookPath,
		execCommand:   exec.CommandContext,
		cpuInfo:       cpu.InfoWithContext,
		cpuTimes:      cpu.TimesWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
		bootTime:      host.BootTimeWithContext,
		platformInfo:  host.PlatformInformationWithContext,
		kernelVersion: host.KernelVersionWithContext,
		kernelArch:    host.KernelArch,
		partitions:    disk.PartitionsWithContext,
		diskUsage:     disk.UsageWithContext,
	}
	r.nativeCPUModel, r.nativeOSName, r.nativeBootTime = nativeProbes()
	return r
}

// Snapshot runs the four queries independently and combines them.
func (r *Resolver) Snapshot(ctx context.Context) Snapshot {
	return Snapshot{
		CPU:    r.CPU(ctx),
		Memory: r.Memory(ctx),
		OS:     r.OS(ctx),
		Disks:  r.Disks(ctx),
	}
}

// Name returns the collector's unique identifier.
func (r *Resolver) Name() string {
	return collectorName
}

// Description returns a human-readable description of what this collector gathers.
func (r *Resolver) Description() string {
	return collectorDescription
}

// Interval returns the recommended polling interval for this collector.
func (r *Resolver) Interval() time.Duration {
	return defaultInterval
}

// Collect takes a snapshot and reports every query that fell back to its
// sentinel as a warning.
func (r *Resolver) Collect(ctx context.Context) (*collectors.CollectResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	snap := r.Snapshot(ctx)

	var warnings []string
	if !snap.CPU.ModelOK {
		warnings = append(warnings, "sysinfo: cpu model unavailable")
	}
	if !snap.CPU.LoadOK {
		warnings = append(warnings, "sysinfo: cpu load unavailable")
	}
	if !snap.Memory.OK {
		warnings = append(warnings, "sysinfo: memory usage unavailable")
	}
	if !snap.OS.UptimeOK {
		warnings = append(warnings, "sysinfo: uptime unavailable")
	}
	for _, d := range snap.Disks {
		if d.Failed {
			warnings = append(warnings, "sysinfo: disk usage unavailable")
		}
	}

	return &collectors.CollectResult{
		Collector: collectorName,
		Timestamp: r.now(),
		Data:      &snap,
		Warnings:  warnings,
	}, nil
}

// recoverQuery turns a panic inside a query into a log line so the caller
// can return its sentinel.
func (r *Resolver) recoverQuery(query string) {
	if p := recover(); p != nil {
		r.logger.Error("sysinfo query panicked", "query", query, "panic", p)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
