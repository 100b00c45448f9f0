package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed/entry_types.yaml
var entryTypeCatalog []byte

// EntryTypeSeed is one row of the embedded entry type catalog.
type EntryTypeSeed struct {
	ID        int    `yaml:"id"`
	Title     string `yaml:"title"`
	ClassName string `yaml:"class_name"`
	Group     bool   `yaml:"group"`
	Comment   bool   `yaml:"comment"`
	UserOnly  bool   `yaml:"user_only"`
}

// EntryTypeCatalog parses the embedded entry type catalog.
func EntryTypeCatalog() ([]EntryTypeSeed, error) {
	var doc struct {
		EntryTypes []EntryTypeSeed `yaml:"entry_types"`
	}
	if err := yaml.Unmarshal(entryTypeCatalog, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse entry type catalog: %w", err)
	}
	return doc.EntryTypes, nil
}

// SeedEntryTypes upserts the embedded entry type catalog keyed by class name.
// It returns the number of catalog rows written.
func SeedEntryTypes(ctx context.Context, database *sql.DB) (int, error) {
	seeds, err := EntryTypeCatalog()
	if err != nil {
		return 0, err
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range seeds {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO genatt_entry_type (id_type, title, is_group, is_comment, class_name, is_mylutece_user)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(class_name) DO UPDATE SET
				title = excluded.title,
				is_group = excluded.is_group,
				is_comment = excluded.is_comment,
				is_mylutece_user = excluded.is_mylutece_user`,
			s.ID, s.Title, s.Group, s.Comment, s.ClassName, s.UserOnly,
		)
		if err != nil {
			return 0, fmt.Errorf("seed entry type %s: %w", s.ClassName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit entry types: %w", err)
	}
	return len(seeds), nil
}
