package cmd

import (
	"io"
	"os"

	"github.com/rzbill/botconfig/internal/config"
	"github.com/rzbill/botconfig/pkg/cli/format"
	"github.com/rzbill/botconfig/pkg/log"
	"github.com/rzbill/botconfig/pkg/version"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags and the state derived from them
// before a subcommand runs.
type globalOptions struct {
	cfgFile      string
	botFile      string
	botDir       string
	secret       string
	secretFile   string
	promptSecret bool
	strict       bool
	verbose      bool

	// prompt reads a secret interactively; nil means the terminal.
	prompt func(label string) (string, error)

	cfg    *config.Config
	logger log.Logger
	closer io.Closer
}

// NewRootCmd builds the botconfig command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&globalOptions{})
}

func newRootCmd(opts *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "botconfig",
		Short: "Inspect and decrypt bot configuration files",
		Long: `botconfig reads .bot files, the JSON documents describing a bot and the
services it depends on (endpoints, Azure Bot Service registrations, LUIS and
dispatch models, QnA Maker knowledge bases). Secret fields are stored
encrypted with the bot secret and decrypted on load.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.closer != nil {
				_ = opts.closer.Close()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is ./botconfig.yaml or $HOME/.botconfig/config.yaml)")
	flags.StringVarP(&opts.botFile, "bot", "b", "", "path to the bot file")
	flags.StringVar(&opts.botDir, "dir", "", "directory searched for a single .bot file when --bot is not set")
	flags.StringVar(&opts.secret, "secret", "", "bot secret used to decrypt service fields")
	flags.StringVar(&opts.secretFile, "secret-file", "", "file containing the bot secret")
	flags.BoolVar(&opts.promptSecret, "prompt-secret", false, "prompt for the bot secret without echo")
	flags.BoolVar(&opts.strict, "strict", false, "reject unknown fields in the bot file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(
		newListCmd(opts),
		newGetCmd(opts),
		newDecryptCmd(opts),
		newEncryptCmd(opts),
		newSecretCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads the tool configuration and the logger. Flags override
// configuration values.
func (o *globalOptions) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if cmd.Flags().Changed("strict") {
		cfg.Bot.Strict = o.strict
	}
	if o.botDir != "" {
		cfg.Bot.Dir = o.botDir
	}

	logger, closer, err := log.ApplyConfig(&cfg.Log)
	if err != nil {
		return err
	}
	log.SetDefaultLogger(logger)

	ctx := log.ContextInjector(cmd.Context(), log.Fields{log.OperationKey: cmd.Name()})
	o.cfg = cfg
	o.logger = logger.WithComponent("cli").WithContext(ctx)
	o.closer = closer
	cmd.SetContext(log.WithLogger(ctx, o.logger))
	return nil
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		format.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
