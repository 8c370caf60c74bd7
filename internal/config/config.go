package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rzbill/botconfig/pkg/crypto"
	"github.com/rzbill/botconfig/pkg/log"
	"github.com/rzbill/botconfig/pkg/utils"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. BOTCONFIG_LOG_LEVEL.
const EnvPrefix = "BOTCONFIG"

type Secret struct {
	// Env names the environment variable holding the bot secret.
	Env string `yaml:"env" mapstructure:"env"`
	// File holds the bot secret, trimmed of surrounding whitespace.
	File string `yaml:"file" mapstructure:"file"`
}

type Bot struct {
	// Dir is searched for a single .bot file when no path is given.
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Strict bool   `yaml:"strict" mapstructure:"strict"`
}

type Config struct {
	Log    log.Config `yaml:"log" mapstructure:"log"`
	Secret Secret     `yaml:"secret" mapstructure:"secret"`
	Bot    Bot        `yaml:"bot" mapstructure:"bot"`
}

func Default() *Config {
	return &Config{
		Log:    *log.DefaultConfig(),
		Secret: Secret{Env: crypto.DefaultSecretEnvVar},
		Bot:    Bot{Dir: "."},
	}
}

// SecretOptions returns the secret source described by the configuration:
// the file when one is set, the environment variable otherwise.
func (c *Config) SecretOptions() crypto.SecretOptions {
	if c.Secret.File != "" {
		return crypto.SecretOptions{Source: crypto.SecretSourceFile, FilePath: c.Secret.File}
	}
	return crypto.SecretOptions{Source: crypto.SecretSourceEnv, EnvVar: c.Secret.Env}
}

// SearchPaths lists the files Load tries, in order, when no path is given.
func SearchPaths() []string {
	paths := []string{"botconfig.yaml"}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".botconfig", "config.yaml"))
	}
	return paths
}

// Load reads the configuration at path. With an empty path the first
// existing file from SearchPaths is used, and defaults apply when there is
// none. BOTCONFIG_* environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := setDefaults(v, cfg); err != nil {
		return nil, err
	}

	if path == "" {
		path = utils.FirstExistingFile(SearchPaths()...)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key with its default and binds it to its
// environment variable. Keys are bound explicitly: BOTCONFIG_SECRET holds the
// secret itself and must not shadow the secret section.
func setDefaults(v *viper.Viper, cfg *Config) error {
	defaults := map[string]interface{}{
		"log.level":           cfg.Log.Level,
		"log.format":          cfg.Log.Format,
		"log.output":          cfg.Log.Output,
		"log.enable_caller":   cfg.Log.EnableCaller,
		"log.redacted_fields": cfg.Log.RedactedFields,
		"secret.env":          cfg.Secret.Env,
		"secret.file":         cfg.Secret.File,
		"bot.dir":             cfg.Bot.Dir,
		"bot.strict":          cfg.Bot.Strict,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}
