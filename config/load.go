// Package config defines the client dispatch policy and loads it from
// defaults, maps, YAML files, and environment variables with koanf.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the environment variables overlaid by FromFile.
const EnvPrefix = "CONDUIT_"

// New returns a validated Config populated from defaults only.
func New() (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	return finalize(k)
}

// FromMap builds a Config from defaults overlaid with the given key-value
// mapping. Keys may be nested maps or dotted paths ("backoff.stopafter").
// Keys outside the known set are rejected.
func FromMap(values map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, NewInvalidFieldError("settings", fmt.Sprintf("unreadable settings map: %v", err), nil)
	}

	return finalize(k)
}

// Overlay builds a sparse Config from the given mapping alone, without
// defaults. Merging it over a base keeps the base values for everything the
// mapping does not mention. Keys outside the known set are rejected.
func Overlay(values map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, NewInvalidFieldError("settings", fmt.Sprintf("unreadable settings map: %v", err), nil)
	}

	return finalize(k)
}

// FromFile builds a Config from three sources in increasing priority:
// defaults, the YAML file at path, and CONDUIT_-prefixed environment
// variables (CONDUIT_BACKOFF_STOPAFTER=10s overrides backoff.stopafter).
func FromFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, NewInvalidFieldError("file", fmt.Sprintf("could not load %s: %v", path, err), nil)
	}

	if err := k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finalize(k)
}

// FromYAML builds a Config from defaults overlaid with raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, NewInvalidFieldError("yaml", fmt.Sprintf("could not parse yaml: %v", err), nil)
	}

	return finalize(k)
}

func loadDefaults(k *koanf.Koanf) error {
	return k.Load(confmap.Provider(defaultValues(), "."), nil)
}

// envTransform converts CONDUIT_RETRY_STATUSPATTERNS to retry.statuspatterns
// and splits comma-separated values into slices.
func envTransform(key, value string) (string, any) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", ".")
	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, value
}

// finalize rejects unknown keys, unmarshals, normalizes, and validates.
func finalize(k *koanf.Koanf) (*Config, error) {
	if err := checkUnknownKeys(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, NewInvalidFieldError("settings", fmt.Sprintf("failed to unmarshal config: %v", err), nil)
	}

	Normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func checkUnknownKeys(k *koanf.Koanf) error {
	known := make(map[string]struct{})
	for key := range defaultValues() {
		known[key] = struct{}{}
	}

	for _, key := range k.Keys() {
		if _, ok := known[key]; !ok {
			return NewUnknownKeyError(key)
		}
	}
	return nil
}
