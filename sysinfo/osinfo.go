package sysinfo

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var parenSuffix = regexp.MustCompile(`\s*\([^()]*\)`)

// OS returns the operating system name and time since boot.
func (r *Resolver) OS(ctx context.Context) (info OSInfo) {
	info = OSInfo{Name: r.goos}
	defer r.recoverQuery("os")

	name, ok := firstOf(ctx, r, "os name", r.osNameProbes(), func(s string) bool {
		return strings.TrimSpace(s) != ""
	})
	if !ok {
		name = r.goos
	}

	info = OSInfo{Name: name}
	if boot, ok := firstOf(ctx, r, "boot time", r.bootTimeProbes(), func(t time.Time) bool {
		return !t.IsZero() && !t.After(r.now())
	}); ok {
		info.Uptime = r.now().Sub(boot)
		info.UptimeOK = true
	}
	return info
}

func (r *Resolver) osNameProbes() []probe[string] {
	var probes []probe[string]

	switch r.goos {
	case "windows":
		probes = append(probes, probe[string]{name: "registry", fn: func(context.Context) (string, error) {
			if r.nativeOSName == nil {
				return "", errUnsupported
			}
			product, err := r.nativeOSName()
			if err != nil {
				return "", err
			}
			return windowsName(product), nil
		}})
	case "linux":
		probes = append(probes, probe[string]{name: "/etc/os-release", fn: func(context.Context) (string, error) {
			return readFile(r, "/etc/os-release", parseOSRelease)
		}})
	case "darwin":
		probes = append(probes, probe[string]{name: "sw_vers", fn: func(ctx context.Context) (string, error) {
			product, err := r.runCommand(ctx, "sw_vers", "-productName")
			if err != nil {
				return "", err
			}
			version, err := r.runCommand(ctx, "sw_vers", "-productVersion")
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(product + " " + version), nil
		}})
	}

	return append(probes,
		probe[string]{name: "gopsutil platform", fn: r.libraryPlatform},
		probe[string]{name: "kernel release", fn: r.genericOSName},
	)
}

func (r *Resolver) libraryPlatform(ctx context.Context) (string, error) {
	if r.platformInfo == nil {
		return "", errUnsupported
	}
	platform, _, version, err := r.platformInfo(ctx)
	if err != nil {
		return "", err
	}
	if platform == "" {
		return "", errNotFound
	}
	return strings.TrimSpace(capitalize(platform) + " " + version), nil
}

func (r *Resolver) genericOSName(ctx context.Context) (string, error) {
	if r.kernelVersion == nil {
		return "", errUnsupported
	}
	release, err := r.kernelVersion(ctx)
	if err != nil {
		return "", err
	}
	name := capitalize(r.goos) + " " + release
	return strings.TrimSpace(parenSuffix.ReplaceAllString(name, "")), nil
}

// windowsName strips parenthesized parts from a registry product name and
// prefixes "Windows " unless the name already carries it.
func windowsName(product string) string {
	name := strings.TrimSpace(parenSuffix.ReplaceAllString(product, ""))
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "Windows") {
		return name
	}
	return "Windows " + name
}

func (r *Resolver) bootTimeProbes() []probe[time.Time] {
	probes := []probe[time.Time]{
		{name: "gopsutil", fn: func(ctx context.Context) (time.Time, error) {
			if r.bootTime == nil {
				return time.Time{}, errUnsupported
			}
			secs, err := r.bootTime(ctx)
			if err != nil {
				return time.Time{}, err
			}
			if secs == 0 {
				return time.Time{}, errNotFound
			}
			return time.Unix(int64(secs), 0), nil
		}},
	}

	if r.goos == "darwin" {
		probes = append(probes, probe[time.Time]{name: "kern.boottime", fn: func(context.Context) (time.Time, error) {
			if r.nativeBootTime == nil {
				return time.Time{}, errUnsupported
			}
			return r.nativeBootTime()
		}})
	}
	return probes
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}
