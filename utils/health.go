package utils

import (
	"context"
	"sync"
	"time"
)

// Pinger is anything whose liveness can be checked (Mongo, Redis, SQL pools).
type Pinger func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Backends  map[string]bool `json:"backends"`
	CheckedAt time.Time       `json:"checkedAt"`
}

var (
	currentHealth = HealthStatus{Backends: map[string]bool{}}
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings every backend once and stores the result.
func CheckHealth(ctx context.Context, backends map[string]Pinger) HealthStatus {
	status := HealthStatus{Backends: make(map[string]bool, len(backends)), CheckedAt: time.Now()}
	for name, ping := range backends {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		status.Backends[name] = ping(pingCtx) == nil
		cancel()
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, backends map[string]Pinger, interval time.Duration) {
	go func() {
		CheckHealth(ctx, backends)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, backends)
			}
		}
	}()
}
