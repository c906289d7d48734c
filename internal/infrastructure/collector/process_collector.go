package collector

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/naresh-2026/warehouseProducts/internal/application/port"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessCollector собирает диагностику текущего процесса сервера.
// Реализует интерфейс port.ProcessCollector
type ProcessCollector struct {
	proc   *process.Process
	volume *DiskCollector
	now    func() time.Time
}

// NewProcessCollector создает collector для текущего PID.
// Если volumePath не пуст, в снимок добавляется заполненность этого раздела.
func NewProcessCollector(ctx context.Context, volumePath string) (*ProcessCollector, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("open process %d: %w", os.Getpid(), err)
	}

	c := &ProcessCollector{proc: proc, now: time.Now}
	if volumePath != "" {
		c.volume = NewDiskCollector(volumePath)
	}
	return c, nil
}

// Collect возвращает снимок памяти, CPU и потоков процесса
func (c *ProcessCollector) Collect(ctx context.Context) (*port.ProcessStats, error) {
	memInfo, err := c.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory info: %w", err)
	}

	cpuPercent, err := c.proc.CPUPercentWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("cpu percent: %w", err)
	}

	threads, err := c.proc.NumThreadsWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("num threads: %w", err)
	}

	createdMs, err := c.proc.CreateTimeWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("create time: %w", err)
	}

	now := c.now()
	startedAt := time.UnixMilli(createdMs)
	uptime := now.Sub(startedAt)
	if uptime < 0 {
		uptime = 0
	}

	stats := &port.ProcessStats{
		PID:         c.proc.Pid,
		RSSBytes:    memInfo.RSS,
		VMSBytes:    memInfo.VMS,
		CPUPercent:  cpuPercent,
		NumThreads:  threads,
		Goroutines:  runtime.NumGoroutine(),
		StartedAt:   startedAt.UTC(),
		UptimeSec:   int64(uptime.Seconds()),
		CollectedAt: now.UTC(),
	}

	// Ошибка раздела не критична, отдаем снимок процесса без него
	if c.volume != nil {
		if volume, err := c.volume.Collect(ctx); err == nil {
			stats.Volume = volume
		}
	}

	return stats, nil
}
