// Package monitoring exposes host resource stats for the ops dashboard.
package monitoring

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskFreeGB    uint64  `json:"disk_free_gb"`
	HostUptimeSec uint64  `json:"host_uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
}

// Collect samples the host. Individual probe failures leave the field
// zeroed instead of failing the whole snapshot.
func Collect() SystemStats {
	var s SystemStats
	s.Goroutines = runtime.NumGoroutine()

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemoryPercent = vm.UsedPercent
		s.MemoryUsedMB = vm.Used / 1024 / 1024
		s.MemoryTotalMB = vm.Total / 1024 / 1024
	}
	if du, err := disk.Usage("/"); err == nil {
		s.DiskPercent = du.UsedPercent
		s.DiskFreeGB = du.Free / 1024 / 1024 / 1024
	}
	if up, err := host.Uptime(); err == nil {
		s.HostUptimeSec = up
	}
	return s
}
