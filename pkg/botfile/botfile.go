// Package botfile reads and writes bot files and decrypts the secret fields
// of the services they describe.
package botfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rzbill/botconfig/pkg/log"
	"github.com/rzbill/botconfig/pkg/types"
	"github.com/rzbill/botconfig/pkg/utils"
	yaml "gopkg.in/yaml.v3"
)

// Extension is the file extension of bot files.
const Extension = ".bot"

// requiredKeys must be present at the top level of every bot file.
var requiredKeys = []string{"name", "services"}

type options struct {
	strict bool
	logger log.Logger
}

// Option configures Load and Parse.
type Option func(*options)

// WithStrict rejects unknown top-level keys and unknown service fields.
// By default they are kept in Extra and written back by Save.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithLogger sets the logger used while loading.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) *options {
	o := &options{logger: log.GetDefaultLogger()}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.WithComponent("botfile")
	return o
}

// Load reads the bot file at path, validates it and, when a secret is
// available, decrypts every encrypted service field. The secret argument
// takes precedence over the file's own secretKey. On failure no
// configuration is returned.
func Load(path, secret string, opts ...Option) (*types.BotConfig, error) {
	o := newOptions(opts)
	logger := o.logger.With(log.BotFile(path))
	start := time.Now()

	cfg, err := read(path, o)
	if err != nil {
		return nil, err
	}

	secret = utils.PickFirstNonEmpty(secret, cfg.SecretKey)
	if secret == "" {
		logger.Debug("no secret available, leaving fields encrypted")
		return cfg, nil
	}

	decrypted, err := Decrypt(cfg, secret)
	if err != nil {
		logger.Debug("failed to decrypt bot file", log.Err(err))
		return nil, err
	}
	logger.Debug("loaded bot file",
		log.Str("name", decrypted.Name),
		log.Int("services", len(decrypted.Services)),
		log.Bool("strict", o.strict),
		log.Duration("elapsed", time.Since(start)))
	return decrypted, nil
}

// Read reads and validates the bot file at path without decrypting it.
func Read(path string, opts ...Option) (*types.BotConfig, error) {
	return read(path, newOptions(opts))
}

func read(path string, o *options) (*types.BotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, types.NewFileNotFoundError(path, err)
		}
		return nil, fmt.Errorf("failed to read bot file %q: %w", path, err)
	}
	return parse(data, path, o)
}

// Parse decodes bot file content without decrypting it. source names the
// content in errors and selects the format: YAML for .yaml/.yml, JSON
// otherwise.
func Parse(data []byte, source string, opts ...Option) (*types.BotConfig, error) {
	return parse(data, source, newOptions(opts))
}

func parse(data []byte, source string, o *options) (*types.BotConfig, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, types.NewParseError(source, errors.New("file is empty"))
	}

	isYAML := hasYAMLExtension(source)

	var (
		top map[string]interface{}
		err error
	)
	if isYAML {
		err = yaml.Unmarshal(data, &top)
	} else {
		err = json.Unmarshal(data, &top)
	}
	if err != nil {
		return nil, types.NewParseError(source, err)
	}
	if top == nil {
		return nil, types.NewParseError(source, errors.New("top level is not an object"))
	}

	for _, k := range requiredKeys {
		if _, ok := top[k]; !ok {
			return nil, types.NewValidationError(fmt.Sprintf("missing required field %q", k))
		}
	}

	cfg := &types.BotConfig{}
	if isYAML {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, classifyDecodeError(source, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if o.strict {
		if err := rejectExtraKeys(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// rejectExtraKeys fails when cfg or one of its services carries keys that
// have no typed field.
func rejectExtraKeys(cfg *types.BotConfig) error {
	if keys := cfg.ExtraKeys(); len(keys) > 0 {
		return types.NewValidationError(fmt.Sprintf("unknown field(s) %s", strings.Join(keys, ", ")))
	}
	for i, svc := range cfg.Services {
		if keys := svc.ExtraKeys(); len(keys) > 0 {
			return types.NewValidationError(fmt.Sprintf("services[%d]: unknown field(s) %s", i, strings.Join(keys, ", ")))
		}
	}
	return nil
}

// classifyDecodeError separates wrong value types from malformed content.
func classifyDecodeError(source string, err error) error {
	var (
		jsonType *json.UnmarshalTypeError
		yamlType *yaml.TypeError
	)
	switch {
	case errors.As(err, &jsonType), errors.As(err, &yamlType):
		return types.WrapValidationError(err, "invalid bot file %q", source)
	default:
		return types.NewParseError(source, err)
	}
}

func hasYAMLExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Find returns the single bot file in dir.
func Find(dir string) (string, error) {
	if !utils.IsDirectory(dir) {
		return "", types.NewFileNotFoundError(dir, os.ErrNotExist)
	}
	found, err := utils.FilesWithExtension(dir, false, Extension)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %q: %w", dir, err)
	}

	switch len(found) {
	case 0:
		return "", types.NewFileNotFoundError(filepath.Join(dir, "*"+Extension), nil)
	case 1:
		return found[0], nil
	default:
		return "", types.NewValidationError(fmt.Sprintf("multiple bot files in %s: %s", dir, strings.Join(found, ", ")))
	}
}

// Save writes cfg to path, encrypting secret fields with secret when it is
// not empty. cfg itself is left untouched. The format follows the extension
// as in Parse. The file is left with 0600 permissions, including when it
// already existed with wider ones.
func Save(path string, cfg *types.BotConfig, secret string) error {
	if cfg == nil {
		return types.NewValidationError("bot configuration is nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := cfg
	if secret != "" {
		var err error
		if out, err = Encrypt(cfg, secret); err != nil {
			return err
		}
	}

	data, err := Marshal(out, hasYAMLExtension(path))
	if err != nil {
		return err
	}
	if err := writePrivate(path, data); err != nil {
		return fmt.Errorf("failed to write bot file %q: %w", path, err)
	}
	return nil
}

// writePrivate restricts path to its owner before any content is written.
func writePrivate(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if err := f.Chmod(0600); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Marshal encodes cfg as indented JSON, or YAML when asYAML is set.
func Marshal(cfg *types.BotConfig, asYAML bool) ([]byte, error) {
	if asYAML {
		return yaml.Marshal(cfg)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
