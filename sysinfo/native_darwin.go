//go:build darwin

package sysinfo

import (
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

func nativeProbes() (cpuModel, osName func() (string, error), bootTime func() (time.Time, error)) {
	return sysctlBrandString, nil, sysctlBootTime
}

func sysctlBrandString() (string, error) {
	v, err := unix.Sysctl("machdep.cpu.brand_string")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

func sysctlBootTime() (time.Time, error) {
	tv, err := unix.SysctlTimeval("kern.boottime")
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(tv.Unix()), nil
}
