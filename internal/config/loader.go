package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every configuration environment variable
const EnvPrefix = "SCREENING_"

// FileEnvVar names the environment variable holding the YAML config path
const FileEnvVar = EnvPrefix + "CONFIG"

const maxConfigFileSize = 1024 * 1024

// Load reads the YAML file at path (skipped when empty), applies environment overrides,
// fills defaults and validates.
//
// Environment variables map by splitting on the first underscore after the prefix:
//
//	SCREENING_STORE_MONGO_URI -> store.mongo_uri
//	SCREENING_REDIS_RESULT_TTL -> redis.result_ttl
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// LoadFromEnv loads using the file named by SCREENING_CONFIG, if any
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(FileEnvVar))
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}
