package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/genatt/internal/config"
	"github.com/example/genatt/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the genatt database and configuration",
		Long: `Write .genatt/config.json in the current directory (when missing),
create the database, apply migrations and load the entry type catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			configPath := filepath.Join(cwd, ".genatt", "config.json")
			if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
				if err := config.SaveConfig(cwd, runtimeConfig); err != nil {
					return err
				}
				fmt.Printf("✓ Configuration written to %s\n", configPath)
			}

			dbPath, err := runtimeConfig.ResolveDBPath()
			if err != nil {
				return err
			}

			fmt.Printf("Initializing database at %s\n", dbPath)

			database, err := db.GetDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			version, _, err := db.SchemaVersion(database)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Schema at version %d\n", version)

			n, err := db.SeedEntryTypes(cmd.Context(), database)
			if err != nil {
				return err
			}
			fmt.Printf("✓ %d entry types loaded\n", n)

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  genatt entry-type list")
			fmt.Println("  genatt entry create --resource 1 --type 2 --param title=\"Your comment\" --param width=50 --param height=5")
			fmt.Println("  genatt serve")

			return nil
		},
	}
}
