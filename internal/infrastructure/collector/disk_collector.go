package collector

import (
	"context"
	"fmt"

	"github.com/naresh-2026/warehouseProducts/internal/application/port"
	"github.com/shirou/gopsutil/v3/disk"
)

// DiskCollector собирает заполненность раздела, на котором лежит статика
type DiskCollector struct {
	path string
}

// NewDiskCollector создает Disk collector для указанного пути
func NewDiskCollector(path string) *DiskCollector {
	return &DiskCollector{path: path}
}

// Collect возвращает использование раздела
func (c *DiskCollector) Collect(ctx context.Context) (*port.VolumeStats, error) {
	usage, err := disk.UsageWithContext(ctx, c.path)
	if err != nil {
		return nil, fmt.Errorf("disk usage %s: %w", c.path, err)
	}

	return &port.VolumeStats{
		Path:        c.path,
		TotalBytes:  usage.Total,
		FreeBytes:   usage.Free,
		UsedPercent: usage.UsedPercent,
	}, nil
}
