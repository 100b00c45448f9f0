package sqlite

import (
	"strings"

	"github.com/example/genatt/internal/ports/secondary"
)

// clause is one SQL predicate and the arguments it binds.
type clause struct {
	sql  string
	args []any
}

// entryFilterClauses turns a filter into predicates, always in the same
// order: resource, resource type, parent, group, field depend, type, comment.
func entryFilterClauses(f secondary.EntryFilter) []clause {
	var clauses []clause

	if f.ResourceID != 0 {
		clauses = append(clauses, clause{"ent.id_resource = ?", []any{f.ResourceID}})
	}
	if f.ResourceType != "" {
		clauses = append(clauses, clause{"ent.resource_type = ?", []any{f.ResourceType}})
	}

	switch {
	case f.ParentID != 0:
		clauses = append(clauses, clause{"ent.id_parent = ?", []any{f.ParentID}})
	case f.ParentIsNull:
		clauses = append(clauses, clause{sql: "ent.id_parent IS NULL"})
	}

	if f.Group != nil {
		clauses = append(clauses, clause{"typ.is_group = ?", []any{*f.Group}})
	}

	switch {
	case f.FieldDependID != 0:
		clauses = append(clauses, clause{"ent.id_field_depend = ?", []any{f.FieldDependID}})
	case f.FieldDependIsNull:
		clauses = append(clauses, clause{sql: "ent.id_field_depend IS NULL"})
	}

	if f.TypeID != 0 {
		clauses = append(clauses, clause{"ent.id_type = ?", []any{f.TypeID}})
	}
	if f.Comment != nil {
		clauses = append(clauses, clause{"typ.is_comment = ?", []any{*f.Comment}})
	}

	return clauses
}

// where joins clauses into a WHERE fragment (empty when there are none).
func where(clauses []clause) (string, []any) {
	if len(clauses) == 0 {
		return "", nil
	}

	parts := make([]string, len(clauses))
	var args []any
	for i, c := range clauses {
		parts[i] = c.sql
		args = append(args, c.args...)
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}
