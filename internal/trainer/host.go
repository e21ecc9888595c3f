package trainer

import (
	"log/slog"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// DefaultWorkers returns the number of logical CPUs, used to bound
// concurrent tree fitting when no worker count is configured.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

func logHostMemory(logger *slog.Logger) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		logger.Debug("failed to read host memory", "error", err)
		return
	}
	logger.Debug("host memory",
		"total_mb", vm.Total/1024/1024,
		"available_mb", vm.Available/1024/1024,
		"used_percent", vm.UsedPercent,
	)
}
