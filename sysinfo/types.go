package sysinfo

import (
	"time"

	"gitlab.com/tinyland/lab/xytu-function/internal/format"
)

// Sentinel renderings used when a query degrades completely.
const (
	UnknownText     = format.UnknownText
	LoadSentinel    = "0%"
	MemorySentinel  = "0G/0G | 0%"
	DiskFailureText = "无法获取硬盘信息"
)

// Snapshot is the combined result of the four system queries.
type Snapshot struct {
	CPU    CPUInfo     `json:"cpu"`
	Memory MemoryInfo  `json:"memory"`
	OS     OSInfo      `json:"os"`
	Disks  []DiskUsage `json:"disks"`
}

// CPUInfo holds the cleaned processor model and the busy percentage.
type CPUInfo struct {
	Model   string  `json:"model"`
	Load    float64 `json:"load"`
	ModelOK bool    `json:"model_ok"`
	LoadOK  bool    `json:"load_ok"`
}

// LoadText renders the load with one decimal, or LoadSentinel when no
// sample could be taken.
func (c CPUInfo) LoadText() string {
	if !c.LoadOK {
		return LoadSentinel
	}
	return format.Percent(c.Load)
}

// MemoryInfo holds physical memory usage.
type MemoryInfo struct {
	UsedBytes  uint64  `json:"used_bytes"`
	TotalBytes uint64  `json:"total_bytes"`
	Percent    float64 `json:"percent"`
	OK         bool    `json:"ok"`
}

// String renders "used/total | percent".
func (m MemoryInfo) String() string {
	if !m.OK {
		return MemorySentinel
	}
	return format.Usage(m.UsedBytes, m.TotalBytes, m.Percent)
}

// OSInfo holds the operating system name and time since boot.
type OSInfo struct {
	Name     string        `json:"name"`
	Uptime   time.Duration `json:"uptime"`
	UptimeOK bool          `json:"uptime_ok"`
}

// UptimeText renders the uptime, or UnknownText when the boot time is unknown.
func (o OSInfo) UptimeText() string {
	if !o.UptimeOK {
		return UnknownText
	}
	return format.Uptime(o.Uptime)
}

// DiskUsage describes a single volume. A zero-valued entry with Failed set
// stands for the whole enumeration having failed.
type DiskUsage struct {
	Label      string  `json:"label"`
	UsedBytes  uint64  `json:"used_bytes"`
	TotalBytes uint64  `json:"total_bytes"`
	Percent    float64 `json:"percent"`
	Failed     bool    `json:"failed,omitempty"`
}

// String renders "label: used/total | percent", or DiskFailureText for the
// failure entry.
func (d DiskUsage) String() string {
	if d.Failed {
		return DiskFailureText
	}
	return d.Label + ": " + format.Usage(d.UsedBytes, d.TotalBytes, d.Percent)
}
