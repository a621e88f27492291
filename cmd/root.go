package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/perspectshift/internal/backend"
	"github.com/lehigh-university-libraries/perspectshift/internal/config"
	"github.com/lehigh-university-libraries/perspectshift/internal/logging"
)

// rootOptions are the persistent flags shared by every subcommand. Config
// flags are bound in config.Load; only the values below are read directly.
type rootOptions struct {
	configPath string
	verbose    bool

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "perspectshift",
		Short: "Explore images from different perspectives",
		Long: `PerspectShift uploads an image to a PerspectShift backend, shows it from the
original, bird's eye and worm's eye perspectives, and collects comments tagged
with the perspective they were written from.

It offers a local web page, an interactive terminal session, and one-shot
commands for scripting.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.String("api-url", backend.DefaultBaseURL, "PerspectShift backend base URL")
	flags.String("skin", "decorated", "Presentation skin (plain, decorated)")
	flags.Duration("timeout", 0, "Backend request timeout (0 disables)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newTUICmd(opts))
	cmd.AddCommand(newViewCmd(opts))
	cmd.AddCommand(newCommentsCmd(opts))

	return cmd
}

// load resolves the configuration for the running command and installs the
// default logger on stderr.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if _, err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat, o.verbose); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func (o *rootOptions) client() *backend.Client {
	return backend.New(o.cfg.APIURL, o.cfg.Timeout)
}
