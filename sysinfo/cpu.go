package sysinfo

import "context"

// CPU returns the cleaned processor model and the current busy percentage.
func (r *Resolver) CPU(ctx context.Context) (info CPUInfo) {
	info = CPUInfo{Model: UnknownText}
	defer r.recoverQuery("cpu")

	model, modelOK := r.cpuModel(ctx)
	load, loadOK := r.cpuLoad(ctx)

	return CPUInfo{
		Model:   model,
		Load:    load,
		ModelOK: modelOK,
		LoadOK:  loadOK,
	}
}

func (r *Resolver) cpuModel(ctx context.Context) (string, bool) {
	raw, ok := firstOf(ctx, r, "cpu model", r.cpuModelProbes(), acceptModel)
	if !ok {
		return UnknownText, false
	}
	model := CleanModel(raw)
	return model, model != UnknownText
}

func (r *Resolver) cpuModelProbes() []probe[string] {
	probes := []probe[string]{
		{name: "gopsutil", fn: r.libraryCPUModel},
	}

	switch r.goos {
	case "windows":
		probes = append(probes,
			probe[string]{name: "registry", fn: nativeString(r.nativeCPUModel)},
			probe[string]{name: "wmic", fn: func(ctx context.Context) (string, error) {
				out, err := r.runCommand(ctx, "wmic", "cpu", "get", "name")
				if err != nil {
					return "", err
				}
				return parseWmicName(out)
			}},
		)
	case "linux":
		probes = append(probes,
			probe[string]{name: "/proc/cpuinfo", fn: func(context.Context) (string, error) {
				return readFile(r, "/proc/cpuinfo", parseCPUInfoModel)
			}},
			probe[string]{name: "lscpu", fn: func(ctx context.Context) (string, error) {
				out, err := r.runCommand(ctx, "lscpu")
				if err != nil {
					return "", err
				}
				return parseLscpuModel(out)
			}},
		)
	case "darwin":
		probes = append(probes,
			probe[string]{name: "sysctl", fn: nativeString(r.nativeCPUModel)},
			probe[string]{name: "sysctl command", fn: func(ctx context.Context) (string, error) {
				return r.runCommand(ctx, "sysctl", "-n", "machdep.cpu.brand_string")
			}},
		)
	}

	return append(probes, probe[string]{name: "kernel arch", fn: func(context.Context) (string, error) {
		if r.kernelArch == nil {
			return "", errUnsupported
		}
		return r.kernelArch()
	}})
}

func (r *Resolver) libraryCPUModel(ctx context.Context) (string, error) {
	if r.cpuInfo == nil {
		return "", errUnsupported
	}
	infos, err := r.cpuInfo(ctx)
	if err != nil {
		return "", err
	}
	for _, info := range infos {
		if info.ModelName != "" {
			return info.ModelName, nil
		}
	}
	return "", errNotFound
}

// nativeString adapts a context-free native probe to the chain signature.
func nativeString(fn func() (string, error)) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		if fn == nil {
			return "", errUnsupported
		}
		return fn()
	}
}
