package shared

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestConfigureDatabase(t *testing.T) {
	tests := []struct {
		name     string
		path     func(t *testing.T) string
		wantOpen int
	}{
		{name: "in-memory stays pinned", path: func(*testing.T) string { return ":memory:" }, wantOpen: 1},
		{name: "file uses the configured pool", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "jobs.db") }, wantOpen: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			db, err := NewDatabase(path)
			if err != nil {
				t.Fatalf("failed to create database: %v", err)
			}
			defer db.Close()

			ConfigureDatabase(db, path, 4, 2)
			if got := db.Stats().MaxOpenConnections; got != tt.wantOpen {
				t.Errorf("MaxOpenConnections = %d, want %d", got, tt.wantOpen)
			}

			if err := RunMigrations(db); err != nil {
				t.Fatalf("failed to run migrations: %v", err)
			}

			var wg sync.WaitGroup
			errs := make(chan error, 8)
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					var n int
					errs <- db.QueryRow("SELECT COUNT(*) FROM export_jobs").Scan(&n)
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				if err != nil {
					t.Errorf("every connection should see the migrated schema: %v", err)
				}
			}
		})
	}
}
