package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	want := Default()
	if got != want {
		t.Errorf("Load(missing) = %+v, want defaults %+v", got, want)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
granularity = "Fine"
minimize = false

[cache]
backend = "redis"
addr = "localhost:6379"

[mongo]
uri = "mongodb://localhost:27017"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if got.Granularity != swarm.Fine {
		t.Errorf("Granularity = %v, want Fine", got.Granularity)
	}
	if got.Minimize {
		t.Error("Minimize = true, want false (explicit override)")
	}
	if got.Cache.Backend != "redis" || got.Cache.Addr != "localhost:6379" {
		t.Errorf("Cache = %+v, want backend=redis addr=localhost:6379", got.Cache)
	}
	if got.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("Mongo.URI = %q, want mongodb://localhost:27017", got.Mongo.URI)
	}
	// Fields the override file didn't set keep their defaults.
	if got.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want default :8080", got.HTTP.Addr)
	}
}

func TestDefaultPathHonorsXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdgconf")
	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}
	want := "/tmp/xdgconf/swarmcheck/config.toml"
	if got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
