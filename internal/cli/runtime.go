package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/genatt/internal/config"
	"github.com/example/genatt/internal/log"
	"github.com/example/genatt/internal/wire"
)

// Global flag values shared by every command.
var (
	dbPathFlag string
	addrFlag   string
	localeFlag string
	debugFlag  bool
)

// runtimeConfig is the configuration resolved by Prepare.
var runtimeConfig = config.Default()

// RegisterFlags adds the persistent flags to the root command.
func RegisterFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Path to the SQLite database (default ~/.genatt/genatt.db)")
	root.PersistentFlags().StringVar(&addrFlag, "addr", "", "Listen address for serve")
	root.PersistentFlags().StringVar(&localeFlag, "locale", "", "Locale for messages (en, fr)")
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// Prepare loads .genatt/config.json from the working directory, applies
// flag overrides and hands the result to the service wiring.
func Prepare(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return err
	}

	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}
	if addrFlag != "" {
		cfg.Addr = addrFlag
	}
	if localeFlag != "" {
		cfg.DefaultLocale = localeFlag
	}
	if debugFlag {
		cfg.LogLevel = "debug"
	}

	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	runtimeConfig = cfg
	wire.Configure(cfg)
	return nil
}

func locale() string {
	return runtimeConfig.DefaultLocale
}
