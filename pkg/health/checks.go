package health

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/dd0wney/cluso-router/pkg/store"
)

// DataDirCheck verifies the distance store's data directory is writable.
func DataDirCheck(dataDir string) CheckFunc {
	return func() Check {
		check := Check{Name: "data_dir", Details: map[string]any{"path": dataDir}}

		probe := filepath.Join(dataDir, ".health")
		if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}
		os.Remove(probe)

		check.Status = StatusHealthy
		check.Message = "Writable"
		return check
	}
}

// StoreCheck verifies the distance store responds. A not-found result is
// healthy: it proves the store is reachable even when the probe map has
// never been processed.
func StoreCheck(st store.DistanceStore) CheckFunc {
	return func() Check {
		check := Check{Name: "store"}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := st.Load(ctx, "_health_probe")
		if err != nil && !store.IsNotFound(err) {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}

		check.Status = StatusHealthy
		check.Message = "Reachable"
		return check
	}
}

// ConsumersCheck reports whether the job consumers are running.
func ConsumersCheck(running func() bool) CheckFunc {
	return func() Check {
		check := Check{Name: "consumers"}
		if running() {
			check.Status = StatusHealthy
			check.Message = "Consuming"
		} else {
			check.Status = StatusUnhealthy
			check.Message = "Not running"
		}
		return check
	}
}
