package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

func TestAtomicWrite_DefaultConfigRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "riskview.yaml")

	if err := AtomicWrite(path, []byte(DefaultConfigYAML)); err != nil {
		t.Fatalf("AtomicWrite error: %v", err)
	}

	cfg, err := NewLoader().WithConfigFile(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
	if cfg.Analyze.Concurrency != 4 {
		t.Errorf("Analyze.Concurrency = %d, want 4", cfg.Analyze.Concurrency)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0o600 {
		t.Errorf("new file perms = %v, want 0600", info.Mode().Perm())
	}
}

func TestAtomicWrite_PreservesPermissions(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}

	path := filepath.Join(t.TempDir(), "riskview.yaml")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if err := AtomicWrite(path, []byte("updated")); err != nil {
		t.Fatalf("AtomicWrite error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat error: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("expected perms 0644, got %v", info.Mode().Perm())
	}
}

func TestAtomicWrite_ConcurrentWrites(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "riskview.yaml")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = AtomicWrite(path, []byte(fmt.Sprintf("writer %d", n)))
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !strings.HasPrefix(string(data), "writer ") {
		t.Fatalf("expected a complete write, got %q", string(data))
	}
}
