// Package system gathers the host summary shown on the About page.
package system

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Summary is a best-effort description of the machine. Fields that could not
// be read are left empty.
type Summary struct {
	OS         string  `json:"os"`
	Hostname   string  `json:"hostname"`
	Platform   string  `json:"platform"`
	Kernel     string  `json:"kernel"`
	CPUModel   string  `json:"cpuModel"`
	CPUCores   int     `json:"cpuCores"`
	CPUThreads int     `json:"cpuThreads"`
	RAMTotal   uint64  `json:"ramTotal"`
	RAMUsed    uint64  `json:"ramUsed"`
	RAMUsage   float64 `json:"ramUsage"`
	Uptime     string  `json:"uptime"`
}

// GetSummary collects host, CPU and memory details through gopsutil.
func GetSummary(ctx context.Context) *Summary {
	s := &Summary{OS: runtime.GOOS}

	if hi, err := host.InfoWithContext(ctx); err == nil {
		s.Hostname = hi.Hostname
		s.Platform = hi.Platform + " " + hi.PlatformVersion
		s.Kernel = hi.KernelVersion
		s.Uptime = FormatUptime(hi.Uptime)
	}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		s.CPUModel = infos[0].ModelName
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		s.CPUCores = n
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		s.CPUThreads = n
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.RAMTotal = vm.Total
		s.RAMUsed = vm.Used
		s.RAMUsage = vm.UsedPercent
	}

	return s
}

// FormatUptime renders seconds as "3d 4h 12m".
func FormatUptime(seconds uint64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// FormatBytes renders a byte count with binary units, e.g. "15.9 GB".
func FormatBytes(bytes uint64) string {
	if bytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	b := float64(bytes)
	i := 0
	for b >= 1024 && i < len(units)-1 {
		b /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", b, units[i])
}
