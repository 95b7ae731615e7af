//go:build windows

package sysinfo

import (
	"strings"
	"time"

	"golang.org/x/sys/windows/registry"
)

const (
	cpuRegistryKey     = `HARDWARE\DESCRIPTION\System\CentralProcessor\0`
	versionRegistryKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`
)

func nativeProbes() (cpuModel, osName func() (string, error), bootTime func() (time.Time, error)) {
	return registryCPUModel, registryProductName, nil
}

func registryCPUModel() (string, error) {
	return registryString(cpuRegistryKey, "ProcessorNameString")
}

func registryProductName() (string, error) {
	return registryString(versionRegistryKey, "ProductName")
}

func registryString(path, name string) (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer k.Close()

	v, _, err := k.GetStringValue(name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}
