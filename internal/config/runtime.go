package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"quirk/internal/errs"
	"quirk/internal/seed"
)

type LogCfg struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type CacheCfg struct {
	Masks    int `koanf:"masks"`
	Programs int `koanf:"programs"`
}

// Runtime is process configuration, as opposed to the attack file, which
// describes what to corrupt.
type Runtime struct {
	Backend string   `koanf:"backend"` // fast|reference
	Seed    uint64   `koanf:"seed"`    // used when the attack file has none
	Log     LogCfg   `koanf:"log"`
	Cache   CacheCfg `koanf:"cache"`
	Metrics bool     `koanf:"metrics"`
}

// LoadRuntime merges YAML (if present) with env-vars
// (prefix `QUIRK_`, `_` nests, e.g. QUIRK_LOG_LEVEL is log.level).
func LoadRuntime(path string) (Runtime, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Runtime{}, errs.Config(path, "%v", err)
		}
	}
	sv := k.String("schema_version")
	if sv != "" && sv != SupportedSchema {
		return Runtime{}, errs.Config(path, "runtime schema_version %q not supported (want %s)", sv, SupportedSchema)
	}

	_ = k.Load(env.Provider("QUIRK_", ".", envKey), nil)

	cfg := Runtime{Seed: seed.Default}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, errs.Config("runtime", "%v", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, "QUIRK_")
	return strings.ReplaceAll(strings.ToLower(s), "_", ".")
}

func applyDefaults(c *Runtime) {
	if c.Backend == "" {
		c.Backend = "fast"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
