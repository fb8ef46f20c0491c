package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zintix-labs/cyclelab/spec"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(m map[string]string) Lookup {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load("", noEnv)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":5808" || cfg.Server.RequestTimeout != 10*time.Second {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Store.Driver != DriverMemory || !cfg.Seeds.Embedded {
		t.Fatalf("store = %+v seeds = %+v", cfg.Store, cfg.Seeds)
	}
	if cfg.Limits.CycleWindow(spec.FlowDefault) != (spec.Window{Min: 1, Max: 100}) {
		t.Fatalf("limits = %+v", cfg.Limits)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cyclelab.yaml")
	data := `
server:
  addr: ":9000"
  request_timeout: 3s
store:
  driver: SQLite
  sqlite_path: /tmp/x.db
bot_api:
  base_url: http://bots.local/api
  retries: 5
limits:
  bet_ceiling: 500
snapshot:
  schedule: "0 */5 * * * *"
seeds:
  embedded: false
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := load(path, envOf(map[string]string{
		"CYCLELAB_ADDR":         ":9100",
		"CYCLELAB_CORS_ORIGINS": "http://a.test, http://b.test",
		"CYCLELAB_REDIS_DB":     "2",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9100" {
		t.Fatalf("env should override file, addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.RequestTimeout != 3*time.Second || len(cfg.Server.CORSOrigins) != 2 {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.RedisDB != 2 {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if cfg.BotAPI.Retries != 5 || cfg.BotAPI.Timeout != 10*time.Second {
		t.Fatalf("bot api = %+v", cfg.BotAPI)
	}
	if cfg.Limits.BetCeiling != 500 || cfg.Limits.BetFloor != 1 {
		t.Fatalf("limits = %+v", cfg.Limits)
	}
	if cfg.Seeds.Embedded {
		t.Fatal("seeds.embedded should stay false")
	}
}

func TestLoadKeepsExplicitZeroLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cyclelab.yaml")
	data := `
limits:
  rebalance_tolerance: 0
  pause_on_draw: {min: 0, max: 0}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := load(path, noEnv)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Limits.RebalanceTolerance != 0 || cfg.Limits.PauseOnDraw != (spec.Window{}) {
		t.Fatalf("explicit zero replaced: %+v", cfg.Limits)
	}
	if cfg.Limits.SumTolerance != spec.DefaultSumTolerance {
		t.Fatalf("sum_tolerance = %v", cfg.Limits.SumTolerance)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := load(filepath.Join(t.TempDir(), "nope.yaml"), noEnv); err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
}

func TestParseUnknownKey(t *testing.T) {
	var cfg Config
	if err := Parse([]byte("server:\n  adr: \":1\"\n"), &cfg); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestBadEnv(t *testing.T) {
	if _, err := load("", envOf(map[string]string{"CYCLELAB_REQUEST_TIMEOUT": "soon"})); err == nil {
		t.Fatal("expected duration error")
	}
	if _, err := load("", envOf(map[string]string{"CYCLELAB_BOT_API_RETRIES": "x"})); err == nil {
		t.Fatal("expected int error")
	}
}

func TestValidate(t *testing.T) {
	cfg, err := load("", envOf(map[string]string{"CYCLELAB_STORE_DRIVER": "postgres"}))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("postgres without dsn should fail")
	}
	cfg.Store.Driver = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown driver should fail")
	}
}
