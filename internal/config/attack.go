package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"quirk/internal/errs"
	"quirk/internal/spec"
)

const SupportedSchema = "v1"

// LoadAttackSpec reads an attack file and validates its shape. Transform
// names and parameters are checked later, when the composite is built.
func LoadAttackSpec(path string) (spec.File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return spec.File{}, errs.Config(path, "attack file not found")
		}
		return spec.File{}, err
	}
	return ParseAttackSpec(raw, path)
}

// ParseAttackSpec is LoadAttackSpec for in-memory YAML. label names the
// source in error messages.
func ParseAttackSpec(raw []byte, label string) (spec.File, error) {
	var cfg spec.File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, errs.Config(label, "attack file is empty")
		}
		return cfg, errs.Config(label, "parse: %v", err)
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, errs.Config(label, "schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	if len(cfg.Transforms) == 0 {
		return cfg, errs.Config(label, "must define at least one transform")
	}
	for i, t := range cfg.Transforms {
		if t.Compact != "" {
			continue
		}
		if _, ok := t.Extra["type"]; ok {
			return cfg, errs.Config(label, "transform #%d uses unsupported 'type'; use 'name'", i+1)
		}
		if strings.TrimSpace(t.Name) == "" {
			return cfg, errs.Config(label, "transform #%d is missing a name", i+1)
		}
		if t.Parameters != nil && len(t.Extra) > 0 {
			return cfg, errs.Config(label, "transform %q mixes a parameters block with inline parameters", t.Name)
		}
	}
	return cfg, nil
}
