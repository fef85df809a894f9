// Package config loads the service configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkhuang/giftledger/internal/codec"
)

// Codec mode names for the storage slot.
const (
	CodecPlain  = "plain"  // base64 obfuscation, the default
	CodecSealed = "sealed" // authenticated cipher, passphrase from env
)

// sealedPassphraseEnv supplies the sealed-codec passphrase. It is never read
// from the config file so the file stays safe to back up alongside the data.
const sealedPassphraseEnv = "GIFTLEDGER_PASSPHRASE"

// Duration wraps time.Duration to accept "24h" style strings in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	dur, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(dur)
	return nil
}

// Config holds the full service configuration.
type Config struct {
	// Listen is the HTTP listen address, e.g. ":8080".
	Listen string `yaml:"listen"`

	// DBPath is the SQLite database file holding the ledger slot.
	DBPath string `yaml:"db_path"`

	// BackupDir receives exported backup files.
	BackupDir string `yaml:"backup_dir"`

	// Codec selects the slot transform: "plain" or "sealed".
	Codec string `yaml:"codec"`

	// AuthPassphraseHash is the bcrypt hash gating the HTTP surface.
	// Empty disables auth entirely.
	AuthPassphraseHash string `yaml:"auth_passphrase_hash"`

	// TokenSecret signs session tokens. Required when auth is enabled.
	TokenSecret string `yaml:"token_secret"`

	// TokenTTL is the session token lifetime.
	TokenTTL Duration `yaml:"token_ttl"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Listen:    ":8080",
		DBPath:    "./data/ledger.db",
		BackupDir: "./backups",
		Codec:     CodecPlain,
		TokenTTL:  Duration(24 * time.Hour),
		LogLevel:  "info",
	}
}

// Load reads the YAML file at path (missing file is fine) and applies
// environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if cfg.Codec != CodecPlain && cfg.Codec != CodecSealed {
		return nil, fmt.Errorf("unknown codec %q: want %s or %s", cfg.Codec, CodecPlain, CodecSealed)
	}
	if cfg.AuthPassphraseHash != "" && cfg.TokenSecret == "" {
		return nil, fmt.Errorf("auth_passphrase_hash is set but token_secret is empty")
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Listen = getEnv("GIFTLEDGER_LISTEN", c.Listen)
	c.DBPath = getEnv("GIFTLEDGER_DB_PATH", c.DBPath)
	c.BackupDir = getEnv("GIFTLEDGER_BACKUP_DIR", c.BackupDir)
	c.Codec = getEnv("GIFTLEDGER_CODEC", c.Codec)
	c.TokenSecret = getEnv("GIFTLEDGER_TOKEN_SECRET", c.TokenSecret)
	c.LogLevel = getEnv("GIFTLEDGER_LOG_LEVEL", c.LogLevel)
}

// NewCodec constructs the configured slot codec.
func (c *Config) NewCodec() (codec.Codec, error) {
	switch c.Codec {
	case CodecSealed:
		passphrase := os.Getenv(sealedPassphraseEnv)
		if passphrase == "" {
			return nil, fmt.Errorf("codec %q requires %s to be set", c.Codec, sealedPassphraseEnv)
		}
		return codec.NewSealed(passphrase)
	default:
		return codec.Obfuscating{}, nil
	}
}

// getEnv returns the env value when set, the fallback otherwise.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
