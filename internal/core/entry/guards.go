// Package entry contains the pure rules governing how entries are arranged.
// No I/O: callers pre-fetch whatever the guards need.
package entry

import "fmt"

// Direction is the way a conditional entry moves among its siblings.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a direction read from user input.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q: must be up or down", s)
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &DeniedError{Reason: r.Reason}
}

// DeniedError is returned when a guard refuses an operation.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}

func allowed() GuardResult { return GuardResult{Allowed: true} }

func denied(format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// CreateContext describes where a new entry is being placed.
type CreateContext struct {
	TypeTitle    string
	IsGroup      bool
	ResourceID   int
	ResourceType string

	// ParentID is 0 for a root entry.
	ParentID      int
	ParentIsGroup bool

	// FieldDependID is 0 for an unconditional entry.
	FieldDependID     int
	FieldDependExists bool
	// Resource of the entry owning the depended-on field.
	FieldDependResourceID   int
	FieldDependResourceType string
}

// CanCreateEntry evaluates whether an entry may be placed as described.
// Rules: a parent must be a group, groups do not nest, and a conditional
// entry must depend on an existing field of its own resource.
func CanCreateEntry(ctx CreateContext) GuardResult {
	if ctx.ParentID != 0 {
		if !ctx.ParentIsGroup {
			return denied("Entry %d is not a group and cannot contain entries", ctx.ParentID)
		}
		if ctx.IsGroup {
			return denied("A %s cannot be placed inside group %d", ctx.TypeTitle, ctx.ParentID)
		}
	}
	if ctx.FieldDependID != 0 && !ctx.FieldDependExists {
		return denied("Field %d not found", ctx.FieldDependID)
	}
	if ctx.FieldDependID != 0 &&
		(ctx.FieldDependResourceID != ctx.ResourceID || ctx.FieldDependResourceType != ctx.ResourceType) {
		return denied("Field %d belongs to %s %d, not %s %d", ctx.FieldDependID,
			ctx.FieldDependResourceType, ctx.FieldDependResourceID, ctx.ResourceType, ctx.ResourceID)
	}
	return allowed()
}

// DeleteContext provides context for entry deletion guards.
// Populated by the caller with pre-fetched dependency counts.
type DeleteContext struct {
	EntryID          int
	ChildCount       int
	ConditionalCount int
	ForceDelete      bool
}

// CanDeleteEntry evaluates whether an entry can be deleted.
// Rule: entries with children or conditional entries require --force.
func CanDeleteEntry(ctx DeleteContext) GuardResult {
	if (ctx.ChildCount > 0 || ctx.ConditionalCount > 0) && !ctx.ForceDelete {
		return denied("Entry %d has %d child entries and %d conditional entries. Use --force to delete anyway",
			ctx.EntryID, ctx.ChildCount, ctx.ConditionalCount)
	}
	return allowed()
}

// MoveContext describes a conditional entry about to swap with a neighbour.
type MoveContext struct {
	EntryID       int
	IsConditional bool
	Position      int
	SiblingCount  int
	Direction     Direction
}

// CanMoveConditional evaluates whether a conditional entry can move one
// step. Rule: only conditional entries move, and never past either end.
func CanMoveConditional(ctx MoveContext) GuardResult {
	if !ctx.IsConditional {
		return denied("Entry %d is not a conditional entry", ctx.EntryID)
	}
	switch ctx.Direction {
	case DirectionUp:
		if ctx.Position <= 1 {
			return denied("Entry %d is already first", ctx.EntryID)
		}
	case DirectionDown:
		if ctx.Position >= ctx.SiblingCount {
			return denied("Entry %d is already last", ctx.EntryID)
		}
	default:
		return denied("invalid direction %q", ctx.Direction)
	}
	return allowed()
}

// TargetPosition returns the conditional position an entry moves to.
func TargetPosition(position int, dir Direction) int {
	if dir == DirectionUp {
		return position - 1
	}
	return position + 1
}

// FieldContext describes an entry receiving a new field.
type FieldContext struct {
	EntryID   int
	IsGroup   bool
	IsComment bool
}

// CanAddField evaluates whether an entry accepts fields.
// Rule: groups and comments have no fields.
func CanAddField(ctx FieldContext) GuardResult {
	if ctx.IsGroup || ctx.IsComment {
		return denied("Entry %d does not accept fields", ctx.EntryID)
	}
	return allowed()
}

// RemoveFieldContext describes a field about to be deleted.
type RemoveFieldContext struct {
	FieldID        int
	DependentCount int
}

// CanRemoveField evaluates whether a field can be deleted.
// Rule: a field with conditional entries is kept until they are deleted.
func CanRemoveField(ctx RemoveFieldContext) GuardResult {
	if ctx.DependentCount > 0 {
		return denied("Field %d has %d conditional entries; delete them first", ctx.FieldID, ctx.DependentCount)
	}
	return allowed()
}
