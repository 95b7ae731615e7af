//go:build !darwin && !windows

package sysinfo

import "time"

// nativeProbes has nothing to offer here; the procfs and command probes
// cover Linux.
func nativeProbes() (cpuModel, osName func() (string, error), bootTime func() (time.Time, error)) {
	return nil, nil, nil
}
