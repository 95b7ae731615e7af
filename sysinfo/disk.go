package sysinfo

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
)

var opticalFstypes = []string{"iso9660", "udf"}

// Disks returns usage for each physical volume. Removable optical media
// and volumes without a filesystem type are skipped. A failed enumeration,
// or every candidate failing, yields a single entry with Failed set; no
// candidates at all yields an empty list.
func (r *Resolver) Disks(ctx context.Context) (disks []DiskUsage) {
	disks = []DiskUsage{{Failed: true}}
	defer r.recoverQuery("disks")

	if r.partitions == nil || r.diskUsage == nil {
		return disks
	}

	parts, err := r.partitions(ctx, false)
	if err != nil {
		r.logger.Error("disk enumeration failed", "error", err)
		return []DiskUsage{{Failed: true}}
	}

	var (
		out        []DiskUsage
		seen       = make(map[string]bool)
		candidates int
	)
	for _, p := range parts {
		if skipPartition(p.Opts, p.Fstype) {
			continue
		}
		label := r.diskLabel(p.Device, p.Mountpoint)
		if seen[label] {
			continue
		}
		candidates++

		usage, err := r.diskUsage(ctx, p.Mountpoint)
		if err != nil || usage == nil {
			r.logger.Warn("disk usage failed", "mountpoint", p.Mountpoint, "error", err)
			continue
		}
		seen[label] = true
		out = append(out, DiskUsage{
			Label:      label,
			UsedBytes:  usage.Used,
			TotalBytes: usage.Total,
			Percent:    usage.UsedPercent,
		})
	}

	if candidates > 0 && len(out) == 0 {
		return []DiskUsage{{Failed: true}}
	}
	if out == nil {
		out = []DiskUsage{}
	}
	return out
}

func skipPartition(opts []string, fstype string) bool {
	if fstype == "" {
		return true
	}
	if slices.Contains(opticalFstypes, strings.ToLower(fstype)) {
		return true
	}
	for _, o := range opts {
		if strings.Contains(o, "cdrom") {
			return true
		}
	}
	return false
}

// diskLabel shows drive letters on Windows and the device basename on Linux.
func (r *Resolver) diskLabel(device, mountpoint string) string {
	if device == "" {
		return mountpoint
	}
	switch r.goos {
	case "linux":
		return filepath.Base(device)
	default:
		return device
	}
}
