package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/genatt/internal/cli"
	"github.com/example/genatt/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "genatt",
		Short:   "genatt - generic attributes for forms",
		Version: version.String(),
		Long: `genatt manages the configurable questions (entries) attached to a resource,
their choices (fields), and validates the answers (responses) submitted against them.`,
		PersistentPreRunE: cli.Prepare,
		SilenceUsage:      true,
	}
	cli.RegisterFlags(rootCmd)

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	// Entity commands
	rootCmd.AddCommand(cli.EntryCmd())
	rootCmd.AddCommand(cli.EntryTypeCmd())
	rootCmd.AddCommand(cli.FieldCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
