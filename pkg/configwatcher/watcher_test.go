package configwatcher

import (
	"educonnect_backend/internal/config"
	"educonnect_backend/pkg/logger"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testConfigTemplate = `server:
  port: "8080"
  mode: debug
jwt:
  secret: watcher-test-secret
  expire_hours: 24
certificate:
  validity_years: %d
`

func writeTestConfig(t *testing.T, path string, years int) {
	t.Helper()
	if err := os.WriteFile(path, []byte(fmt.Sprintf(testConfigTemplate, years)), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func waitForReload(t *testing.T, ch <-chan *config.Config) *config.Config {
	t.Helper()
	select {
	case cfg := <-ch:
		return cfg
	case <-time.After(5 * time.Second):
		t.Fatal("reloader was not invoked after config write")
		return nil
	}
}

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeTestConfig(t, path, 5)

	reloaded := make(chan *config.Config, 1)
	go WatchConfig(path, &config.Config{}, func(cfg interface{}) {
		if c, ok := cfg.(*config.Config); ok {
			reloaded <- c
		}
	})

	// Let the watcher register the file before the first write lands.
	time.Sleep(200 * time.Millisecond)

	writeTestConfig(t, path, 7)
	cfg := waitForReload(t, reloaded)
	if cfg.Certificate.ValidityYears != 7 {
		t.Errorf("ValidityYears after first reload = %d, want 7", cfg.Certificate.ValidityYears)
	}

	// A second write must fire again: the debounce rearms after each reload.
	writeTestConfig(t, path, 9)
	cfg = waitForReload(t, reloaded)
	if cfg.Certificate.ValidityYears != 9 {
		t.Errorf("ValidityYears after second reload = %d, want 9", cfg.Certificate.ValidityYears)
	}
}
