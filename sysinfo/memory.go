package sysinfo

import "context"

// Memory returns physical memory usage.
func (r *Resolver) Memory(ctx context.Context) (info MemoryInfo) {
	defer r.recoverQuery("memory")

	probes := []probe[MemoryInfo]{
		{name: "gopsutil", fn: r.libraryMemory},
	}

	m, ok := firstOf(ctx, r, "memory", probes, func(m MemoryInfo) bool { return m.TotalBytes > 0 })
	if !ok {
		return MemoryInfo{}
	}
	return m
}

func (r *Resolver) libraryMemory(ctx context.Context) (MemoryInfo, error) {
	if r.virtualMemory == nil {
		return MemoryInfo{}, errUnsupported
	}
	vm, err := r.virtualMemory(ctx)
	if err != nil {
		return MemoryInfo{}, err
	}
	if vm == nil {
		return MemoryInfo{}, errNotFound
	}
	return MemoryInfo{
		UsedBytes:  vm.Used,
		TotalBytes: vm.Total,
		Percent:    vm.UsedPercent,
		OK:         true,
	}, nil
}
