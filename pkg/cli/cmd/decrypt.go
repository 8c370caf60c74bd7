package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rzbill/botconfig/pkg/botfile"
	"github.com/rzbill/botconfig/pkg/cli/format"
	"github.com/rzbill/botconfig/pkg/log"
	"github.com/rzbill/botconfig/pkg/types"
	"github.com/rzbill/botconfig/pkg/utils"
	"github.com/spf13/cobra"
)

// errSecretRequired is returned by decrypt and encrypt when no secret is set.
var errSecretRequired = errors.New("a bot secret is required: use --secret, --secret-file, --prompt-secret or $BOTCONFIG_SECRET")

func newDecryptCmd(global *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Write the bot file with every secret field decrypted",
		Args:  cobra.NoArgs,
		Example: `  # Print the decrypted bot file
  botconfig decrypt --bot ./MyBot.bot --secret-file ./bot.secret

  # Write it to a file readable only by the owner
  botconfig decrypt --out ./MyBot.plain.bot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := global.botPath()
			if err != nil {
				return err
			}
			secret, err := global.resolveSecret()
			if err != nil {
				return err
			}
			if secret == "" {
				// fall back to the secretKey stored in the file
				cfg, err := botfile.Read(path, global.fileOptions()...)
				if err != nil {
					return err
				}
				if cfg.SecretKey == "" {
					return errSecretRequired
				}
			}

			cfg, err := botfile.Load(path, secret, global.fileOptions()...)
			if err != nil {
				return err
			}
			return writeBot(cmd, cfg, out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the result to this file instead of stdout (YAML for .yaml/.yml)")
	return cmd
}

func newEncryptCmd(global *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Write the bot file with every secret field encrypted",
		Long: `Encrypt the secret fields of a bot file whose fields are in plain text.
The secret comes from the usual flags, falling back to the file's secretKey.`,
		Args: cobra.NoArgs,
		Example: `  # Encrypt a plain bot file in place
  botconfig encrypt --bot ./MyBot.bot --secret-file ./bot.secret --out ./MyBot.bot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := global.botPath()
			if err != nil {
				return err
			}
			cfg, err := botfile.Read(path, global.fileOptions()...)
			if err != nil {
				return err
			}
			secret, err := global.resolveSecret()
			if err != nil {
				return err
			}
			secret = utils.PickFirstNonEmpty(secret, cfg.SecretKey)
			if secret == "" {
				return errSecretRequired
			}

			encrypted, err := botfile.Encrypt(cfg, secret)
			if err != nil {
				return err
			}
			return writeBot(cmd, encrypted, out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the result to this file instead of stdout (YAML for .yaml/.yml)")
	return cmd
}

// writeBot writes cfg as is, to path when set and to the command output
// otherwise.
func writeBot(cmd *cobra.Command, cfg *types.BotConfig, path string) error {
	w := cmd.OutOrStdout()
	if path == "" {
		data, err := botfile.Marshal(cfg, false)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	if err := botfile.Save(path, cfg, ""); err != nil {
		return err
	}
	log.FromContext(cmd.Context()).Info("wrote bot file", log.BotFile(path), log.Int("services", len(cfg.Services)))
	fmt.Fprintln(w, format.Success("Wrote %s", strings.TrimSpace(path)))
	return nil
}
