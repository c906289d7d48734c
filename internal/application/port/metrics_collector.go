package port

import (
	"context"
	"time"
)

// ProcessStats is a point-in-time snapshot of the server process.
type ProcessStats struct {
	PID         int32     `json:"pid"`
	RSSBytes    uint64    `json:"rss_bytes"`
	VMSBytes    uint64    `json:"vms_bytes"`
	CPUPercent  float64   `json:"cpu_percent"`
	NumThreads  int32     `json:"num_threads"`
	Goroutines  int       `json:"goroutines"`
	StartedAt   time.Time `json:"started_at"`
	UptimeSec   int64     `json:"uptime_seconds"`
	CollectedAt time.Time `json:"collected_at"`

	// Volume is nil when the static directory volume could not be inspected.
	Volume *VolumeStats `json:"static_volume,omitempty"`
}

// VolumeStats describes usage of the filesystem holding the static directory.
type VolumeStats struct {
	Path        string  `json:"path"`
	TotalBytes  uint64  `json:"total_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// ProcessCollector defines the interface for collecting process diagnostics
type ProcessCollector interface {
	Collect(ctx context.Context) (*ProcessStats, error)
}
