package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/genatt/internal/ports/primary"
	"github.com/example/genatt/internal/wire"
)

// DefaultResourceType is used when --resource-type is omitted.
const DefaultResourceType = "FORM"

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage the entries of a resource",
	Long:  "Create, list, copy, move and delete the questions attached to a resource",
}

var entryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an entry",
	Long: `Create an entry from admin form parameters.

Examples:
  genatt entry create --resource 1 --type 2 --param title="Comment" --param width=50 --param height=5
  genatt entry create --resource 1 --type 5 --param title="Identity"
  genatt entry create --resource 1 --type 1 --parent 4 --param title="Name" --param width=30`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resourceID, _ := cmd.Flags().GetInt("resource")
		resourceType, _ := cmd.Flags().GetString("resource-type")
		typeID, _ := cmd.Flags().GetInt("type")
		parentID, _ := cmd.Flags().GetInt("parent")
		dependID, _ := cmd.Flags().GetInt("depends-on")
		params, _ := cmd.Flags().GetStringArray("param")

		form, err := parseParams(params)
		if err != nil {
			return err
		}

		return wire.EntryAdapter().Create(cmd.Context(), primary.CreateEntryRequest{
			ResourceID:    resourceID,
			ResourceType:  resourceType,
			TypeID:        typeID,
			ParentID:      parentID,
			FieldDependID: dependID,
			Form:          form,
			Locale:        locale(),
		})
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resourceID, _ := cmd.Flags().GetInt("resource")
		resourceType, _ := cmd.Flags().GetString("resource-type")
		parentID, _ := cmd.Flags().GetInt("parent")
		dependID, _ := cmd.Flags().GetInt("depends-on")
		root, _ := cmd.Flags().GetBool("root")

		return wire.EntryAdapter().List(cmd.Context(), primary.EntryFilters{
			ResourceID:        resourceID,
			ResourceType:      resourceType,
			ParentID:          parentID,
			FieldDependID:     dependID,
			RootOnly:          root,
			UnconditionalOnly: root,
		})
	},
}

var entryShowCmd = &cobra.Command{
	Use:   "show [entry-id]",
	Short: "Show entry details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		_, err = wire.EntryAdapter().Show(cmd.Context(), id)
		return err
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete [entry-id]",
	Short: "Delete an entry with its fields, children and conditional entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		return wire.EntryAdapter().Delete(cmd.Context(), id, force)
	},
}

var entryCopyCmd = &cobra.Command{
	Use:   "copy [entry-id]",
	Short: "Copy an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return wire.EntryAdapter().Copy(cmd.Context(), id, locale())
	},
}

var entryMoveCmd = &cobra.Command{
	Use:   "move [entry-id] [up|down]",
	Short: "Move a conditional entry among its siblings",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return wire.EntryAdapter().Move(cmd.Context(), id, args[1])
	},
}

var entryTypeCmd = &cobra.Command{
	Use:   "entry-type",
	Short: "Inspect the entry type catalog",
}

var entryTypeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entry types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.EntryAdapter().ListTypes(cmd.Context())
	},
}

func init() {
	for _, c := range []*cobra.Command{entryCreateCmd, entryListCmd} {
		c.Flags().Int("resource", 0, "Resource ID")
		c.Flags().String("resource-type", DefaultResourceType, "Resource type")
		c.Flags().Int("parent", 0, "Group entry ID")
		c.Flags().Int("depends-on", 0, "Field ID the entry is conditional on")
	}
	entryCreateCmd.Flags().Int("type", 0, "Entry type ID (see 'genatt entry-type list')")
	entryCreateCmd.Flags().StringArrayP("param", "p", nil, "Form parameter as key=value (repeatable)")
	entryCreateCmd.MarkFlagRequired("resource")
	entryCreateCmd.MarkFlagRequired("type")

	entryListCmd.Flags().Bool("root", false, "Only entries outside groups and not conditional")

	entryDeleteCmd.Flags().Bool("force", false, "Delete even when the entry has children or conditional entries")

	entryCmd.AddCommand(entryCreateCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryShowCmd)
	entryCmd.AddCommand(entryDeleteCmd)
	entryCmd.AddCommand(entryCopyCmd)
	entryCmd.AddCommand(entryMoveCmd)

	entryTypeCmd.AddCommand(entryTypeListCmd)
}

// EntryCmd returns the entry command
func EntryCmd() *cobra.Command {
	return entryCmd
}

// EntryTypeCmd returns the entry-type command
func EntryTypeCmd() *cobra.Command {
	return entryTypeCmd
}

// parseParams turns repeated key=value flags into form values.
func parseParams(params []string) (url.Values, error) {
	form := url.Values{}
	for _, p := range params {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", p)
		}
		form.Add(key, value)
	}
	return form, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
