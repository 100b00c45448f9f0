// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/genatt/internal/models"
	"github.com/example/genatt/internal/ports/primary"
)

// EntryAdapter translates CLI operations to EntryService and FieldService calls.
type EntryAdapter struct {
	entries primary.EntryService
	fields  primary.FieldService
	out     io.Writer
}

// NewEntryAdapter creates a new EntryAdapter with the given services.
func NewEntryAdapter(entries primary.EntryService, fields primary.FieldService, out io.Writer) *EntryAdapter {
	return &EntryAdapter{
		entries: entries,
		fields:  fields,
		out:     out,
	}
}

// Create creates an entry from admin form parameters.
func (a *EntryAdapter) Create(ctx context.Context, req primary.CreateEntryRequest) error {
	resp, err := a.entries.CreateEntry(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created entry %d: %s\n", resp.EntryID, resp.Entry.Title)
	return nil
}

// List lists the entries of a resource matching the filters.
func (a *EntryAdapter) List(ctx context.Context, filters primary.EntryFilters) error {
	entries, err := a.entries.ListEntries(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No entries found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-6s %-4s %-20s %-6s %s\n", "ID", "POS", "TYPE", "PARENT", "TITLE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		parent := "-"
		if e.ParentID() != 0 {
			parent = fmt.Sprintf("%d", e.ParentID())
		}
		fmt.Fprintf(a.out, "%-6d %-4d %-20s %-6s %s%s\n", e.ID, e.Position, typeTitle(e), parent, e.Title, entryMarkers(e))
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays an entry with its fields and children.
func (a *EntryAdapter) Show(ctx context.Context, entryID int) (*models.Entry, error) {
	entry, err := a.entries.GetEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	fmt.Fprintf(a.out, "\nEntry:    %d%s\n", entry.ID, entryMarkers(entry))
	fmt.Fprintf(a.out, "Title:    %s\n", entry.Title)
	fmt.Fprintf(a.out, "Type:     %s\n", typeTitle(entry))
	fmt.Fprintf(a.out, "Resource: %s %d\n", entry.ResourceType, entry.ResourceID)
	fmt.Fprintf(a.out, "Position: %d\n", entry.Position)
	if entry.HelpMessage != "" {
		fmt.Fprintf(a.out, "Help:     %s\n", entry.HelpMessage)
	}
	if entry.IsConditional() {
		fmt.Fprintf(a.out, "Depends on field: %d\n", entry.FieldDependID())
	}

	if len(entry.Fields) > 0 {
		fmt.Fprintln(a.out, "\nFields:")
		for _, f := range entry.Fields {
			fmt.Fprintf(a.out, "  %-6d %s\n", f.ID, fieldLabel(f))
		}
	}
	if len(entry.Children) > 0 {
		fmt.Fprintln(a.out, "\nChildren:")
		for _, c := range entry.Children {
			fmt.Fprintf(a.out, "  %-6d %-20s %s\n", c.ID, typeTitle(c), c.Title)
		}
	}
	fmt.Fprintln(a.out)

	return entry, nil
}

// Delete deletes an entry and everything below it.
func (a *EntryAdapter) Delete(ctx context.Context, entryID int, force bool) error {
	entry, err := a.entries.GetEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	if err := a.entries.DeleteEntry(ctx, entryID, force); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Deleted entry %d: %s\n", entry.ID, entry.Title)
	return nil
}

// Copy duplicates an entry.
func (a *EntryAdapter) Copy(ctx context.Context, entryID int, locale string) error {
	entry, err := a.entries.CopyEntry(ctx, entryID, locale)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Copied entry %d to %d: %s\n", entryID, entry.ID, entry.Title)
	return nil
}

// Move swaps a conditional entry with its neighbour.
func (a *EntryAdapter) Move(ctx context.Context, entryID int, direction string) error {
	if err := a.entries.MoveConditionalEntry(ctx, entryID, direction); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Entry %d moved %s\n", entryID, strings.ToLower(direction))
	return nil
}

// ListTypes lists the entry type catalog.
func (a *EntryAdapter) ListTypes(ctx context.Context) error {
	types, err := a.entries.ListEntryTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list entry types: %w", err)
	}

	if len(types) == 0 {
		fmt.Fprintln(a.out, "No entry types found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-4s %-20s %s\n", "ID", "TITLE", "CLASS")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, t := range types {
		kind := ""
		switch {
		case t.Group:
			kind = color.New(color.FgCyan).Sprint(" [group]")
		case t.Comment:
			kind = color.New(color.FgYellow).Sprint(" [comment]")
		}
		fmt.Fprintf(a.out, "%-4d %-20s %s%s\n", t.ID, t.Title, t.ClassName, kind)
	}
	fmt.Fprintln(a.out)

	return nil
}

// AddField appends a field to an entry.
func (a *EntryAdapter) AddField(ctx context.Context, req primary.AddFieldRequest) error {
	field, err := a.fields.AddField(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Added field %d to entry %d: %s\n", field.ID, field.EntryID, fieldLabel(field))
	return nil
}

// RemoveField deletes a field.
func (a *EntryAdapter) RemoveField(ctx context.Context, fieldID int) error {
	if err := a.fields.RemoveField(ctx, fieldID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Removed field %d\n", fieldID)
	return nil
}

func typeTitle(e *models.Entry) string {
	if e.Type == nil {
		return "?"
	}
	return e.Type.Title
}

func fieldLabel(f *models.Field) string {
	label := f.Title
	if label == "" {
		label = f.Value
	}
	if f.DefaultValue {
		label += color.New(color.FgGreen).Sprint(" (default)")
	}
	return label
}

func entryMarkers(e *models.Entry) string {
	var b strings.Builder
	if e.Mandatory {
		b.WriteString(color.New(color.FgRed).Sprint(" *"))
	}
	if e.NumberConditionalQuestions > 0 {
		b.WriteString(color.New(color.FgHiMagenta).Sprintf(" [%d conditional]", e.NumberConditionalQuestions))
	}
	return b.String()
}
