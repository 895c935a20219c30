package handlers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

type memorySnapshot struct {
	RSSBytes       uint64 `json:"rss_bytes"`
	VMSBytes       uint64 `json:"vms_bytes"`
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	HeapSysBytes   uint64 `json:"heap_sys_bytes"`
	NumGoroutine   int    `json:"num_goroutine"`
}

type healthResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Memory        memorySnapshot `json:"memory"`
}

// Health reports process liveness, uptime and a memory snapshot. The
// storage backend is pinged first; an unreachable backend fails the check.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.Ping(r.Context()); err != nil {
		a.Logger.Error().Err(err).Msg("health check storage ping failed")
		a.error(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snapshot := memorySnapshot{
		HeapAllocBytes: memStats.HeapAlloc,
		HeapSysBytes:   memStats.HeapSys,
		NumGoroutine:   runtime.NumGoroutine(),
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			snapshot.RSSBytes = info.RSS
			snapshot.VMSBytes = info.VMS
		}
	}

	a.json(w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(a.StartedAt).Seconds(),
		Memory:        snapshot,
	})
}
