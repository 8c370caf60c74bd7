package cmd

import (
	"os"

	"github.com/rzbill/botconfig/pkg/botfile"
	"github.com/rzbill/botconfig/pkg/crypto"
	"github.com/rzbill/botconfig/pkg/log"
	"github.com/rzbill/botconfig/pkg/types"
)

// botPath returns --bot, or the single .bot file of the configured directory.
func (o *globalOptions) botPath() (string, error) {
	if o.botFile != "" {
		return o.botFile, nil
	}
	return botfile.Find(o.cfg.Bot.Dir)
}

// resolveSecret picks the bot secret. The first source set wins: --secret,
// --secret-file, --prompt-secret, the configured secret file, then the
// configured environment variable. An empty result means no secret.
func (o *globalOptions) resolveSecret() (string, error) {
	var opts crypto.SecretOptions
	switch {
	case o.secret != "":
		opts = crypto.SecretOptions{Source: crypto.SecretSourceValue, Value: o.secret}
	case o.secretFile != "":
		opts = crypto.SecretOptions{Source: crypto.SecretSourceFile, FilePath: o.secretFile}
	case o.promptSecret:
		opts = crypto.SecretOptions{Source: crypto.SecretSourcePrompt, Prompt: o.prompt}
	default:
		opts = o.cfg.SecretOptions()
		if opts.Source == crypto.SecretSourceEnv {
			if v, _ := os.LookupEnv(opts.EnvVar); v == "" {
				return "", nil
			}
		}
	}

	secret, err := crypto.LoadSecret(opts)
	if err != nil {
		return "", err
	}
	o.logger.Debug("resolved bot secret", log.Str("source", string(opts.Source)))
	return secret, nil
}

func (o *globalOptions) fileOptions() []botfile.Option {
	return []botfile.Option{
		botfile.WithStrict(o.cfg.Bot.Strict),
		botfile.WithLogger(o.logger),
	}
}

// loadBot loads the selected bot file, decrypting it when a secret is known.
func (o *globalOptions) loadBot() (*types.BotConfig, error) {
	path, err := o.botPath()
	if err != nil {
		return nil, err
	}
	secret, err := o.resolveSecret()
	if err != nil {
		return nil, err
	}
	return botfile.Load(path, secret, o.fileOptions()...)
}
