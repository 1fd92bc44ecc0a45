// AngelaMos | 2026
// dto.go

package admin

import (
	"database/sql"
	"runtime"

	"github.com/redis/go-redis/v9"
)

type SystemStatsResponse struct {
	Platform *PlatformCounts `json:"platform"`
	Database StoreStatus     `json:"database"`
	Redis    StoreStatus     `json:"redis"`
	Runtime  RuntimeStats    `json:"runtime"`
}

// StoreStatus carries either pool type in Stats.
type StoreStatus struct {
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latency_ms"`
	Stats     *Pool  `json:"stats,omitempty"`
	Error     string `json:"error,omitempty"`
}

type Pool struct {
	MaxOpen      int    `json:"max_open,omitempty"`
	Open         int    `json:"open"`
	InUse        int    `json:"in_use"`
	Idle         int    `json:"idle"`
	WaitCount    int64  `json:"wait_count,omitempty"`
	WaitDuration string `json:"wait_duration,omitempty"`
	Hits         uint32 `json:"hits,omitempty"`
	Misses       uint32 `json:"misses,omitempty"`
	Timeouts     uint32 `json:"timeouts,omitempty"`
	Stale        uint32 `json:"stale,omitempty"`
}

func sqlPool(s sql.DBStats) *Pool {
	return &Pool{
		MaxOpen:      s.MaxOpenConnections,
		Open:         s.OpenConnections,
		InUse:        s.InUse,
		Idle:         s.Idle,
		WaitCount:    s.WaitCount,
		WaitDuration: s.WaitDuration.String(),
	}
}

func redisPool(s *redis.PoolStats) *Pool {
	if s == nil {
		return nil
	}
	total := int(s.TotalConns)
	idle := int(s.IdleConns)
	return &Pool{
		Open:     total,
		InUse:    total - idle,
		Idle:     idle,
		Hits:     s.Hits,
		Misses:   s.Misses,
		Timeouts: s.Timeouts,
		Stale:    s.StaleConns,
	}
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	Goroutines   int    `json:"goroutines"`
	CPUs         int    `json:"cpus"`
	HeapAlloc    uint64 `json:"heap_alloc_bytes"`
	SysBytes     uint64 `json:"sys_bytes"`
	GCCycles     uint32 `json:"gc_cycles"`
	PauseTotalNS uint64 `json:"gc_pause_total_ns"`
}

func readRuntimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		Goroutines:   runtime.NumGoroutine(),
		CPUs:         runtime.NumCPU(),
		HeapAlloc:    m.HeapAlloc,
		SysBytes:     m.Sys,
		GCCycles:     m.NumGC,
		PauseTotalNS: m.PauseTotalNs,
	}
}
