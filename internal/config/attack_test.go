package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quirk/internal/errs"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attack.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write attack file: %v", err)
	}
	return path
}

func TestLoadAttackSpec_DefaultsSchema(t *testing.T) {
	path := write(t, `transforms:
  - swap
  - name: redact
    parameters: {rate: 0.1}
`)
	cfg, err := LoadAttackSpec(path)
	if err != nil {
		t.Fatalf("LoadAttackSpec: %v", err)
	}
	if cfg.SchemaVersion != SupportedSchema {
		t.Fatalf("want schema %s, got %s", SupportedSchema, cfg.SchemaVersion)
	}
	if len(cfg.Transforms) != 2 || cfg.Transforms[0].Compact != "swap" || cfg.Transforms[1].Name != "redact" {
		t.Fatalf("unexpected roster: %+v", cfg.Transforms)
	}
	if cfg.Seed != nil {
		t.Fatalf("seed should be unset, got %d", *cfg.Seed)
	}
}

func TestLoadAttackSpec_Invalid(t *testing.T) {
	cases := map[string]string{
		"schema":        "schema_version: v999\ntransforms: [swap]\n",
		"empty":         "",
		"no transforms": "seed: 3\n",
		"unknown field": "transforms: [swap]\nglitchlings: [swap]\n",
		"type key":      "transforms:\n  - {name: swap, type: x}\n",
		"no name":       "transforms:\n  - {parameters: {rate: 1}}\n",
		"mixed params":  "transforms:\n  - {name: swap, parameters: {rate: 1}, rate: 2}\n",
		"bad seed":      "seed: -4\ntransforms: [swap]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadAttackSpec(write(t, body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errs.ErrConfig) {
				t.Fatalf("want config error, got %T: %v", err, err)
			}
		})
	}
}

func TestLoadAttackSpec_Missing(t *testing.T) {
	_, err := LoadAttackSpec(filepath.Join(t.TempDir(), "nope.yml"))
	if !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("want config error, got %v", err)
	}
}

func TestLoadRuntime_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime.yml")
	body := "schema_version: v1\nbackend: reference\nseed: 9\ncache:\n  masks: 12\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write runtime: %v", err)
	}
	t.Setenv("QUIRK_LOG_JSON", "true")
	t.Setenv("QUIRK_CACHE_PROGRAMS", "5")

	cfg, err := LoadRuntime(path)
	if err != nil {
		t.Fatalf("LoadRuntime: %v", err)
	}
	if cfg.Backend != "reference" || cfg.Seed != 9 || cfg.Cache.Masks != 12 || cfg.Cache.Programs != 5 {
		t.Fatalf("unexpected runtime: %+v", cfg)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoadRuntime_Defaults(t *testing.T) {
	cfg, err := LoadRuntime(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("LoadRuntime: %v", err)
	}
	if cfg.Backend != "fast" || cfg.Seed != 151 || cfg.Log.Level != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadRuntime_InvalidSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime.yml")
	if err := os.WriteFile(path, []byte("schema_version: v2\n"), 0o644); err != nil {
		t.Fatalf("write runtime: %v", err)
	}
	if _, err := LoadRuntime(path); err == nil {
		t.Fatal("expected error for invalid schema_version")
	}
}
