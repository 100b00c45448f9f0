package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/genatt/internal/ports/primary"
	"github.com/example/genatt/internal/wire"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Manage the choices of an entry",
}

var fieldAddCmd = &cobra.Command{
	Use:   "add [entry-id] [title]",
	Short: "Add a field to an entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, err := parseID(args[0])
		if err != nil {
			return err
		}
		value, _ := cmd.Flags().GetString("value")
		comment, _ := cmd.Flags().GetString("comment")
		isDefault, _ := cmd.Flags().GetBool("default")

		return wire.EntryAdapter().AddField(cmd.Context(), primary.AddFieldRequest{
			EntryID:      entryID,
			Title:        args[1],
			Value:        value,
			Comment:      comment,
			DefaultValue: isDefault,
		})
	},
}

var fieldRemoveCmd = &cobra.Command{
	Use:   "remove [field-id]",
	Short: "Remove a field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fieldID, err := parseID(args[0])
		if err != nil {
			return err
		}
		return wire.EntryAdapter().RemoveField(cmd.Context(), fieldID)
	},
}

func init() {
	fieldAddCmd.Flags().String("value", "", "Field value")
	fieldAddCmd.Flags().String("comment", "", "Field comment")
	fieldAddCmd.Flags().Bool("default", false, "Checked by default")

	fieldCmd.AddCommand(fieldAddCmd)
	fieldCmd.AddCommand(fieldRemoveCmd)
}

// FieldCmd returns the field command
func FieldCmd() *cobra.Command {
	return fieldCmd
}
