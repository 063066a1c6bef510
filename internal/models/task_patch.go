package models

import (
	"fmt"
	"time"
)

type TaskField string

const (
	FieldName         TaskField = "name"
	FieldDescription  TaskField = "description"
	FieldStatus       TaskField = "status"
	FieldCompletionAt TaskField = "completion_at"
)

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Name         *string
	Description  *string
	Status       *TaskStatus
	CompletionAt *time.Time
}

// FieldChange records a single field going from Old to New,
// both in their wire representation.
type FieldChange struct {
	Field TaskField
	Old   string
	New   string
}

func (c FieldChange) String() string {
	return fmt.Sprintf("field %s changed from %q to %q", c.Field, c.Old, c.New)
}

// Apply writes the patch into the task and returns one change per field whose
// value actually differs, in name, description, status, completion_at order.
func (t *Task) Apply(patch TaskPatch) []FieldChange {
	var changes []FieldChange

	if patch.Name != nil && *patch.Name != t.Name {
		changes = append(changes, FieldChange{
			Field: FieldName,
			Old:   t.Name,
			New:   *patch.Name,
		})
		t.Name = *patch.Name
	}

	if patch.Description != nil && *patch.Description != t.Description {
		changes = append(changes, FieldChange{
			Field: FieldDescription,
			Old:   t.Description,
			New:   *patch.Description,
		})
		t.Description = *patch.Description
	}

	if patch.Status != nil && *patch.Status != t.Status {
		changes = append(changes, FieldChange{
			Field: FieldStatus,
			Old:   t.Status.String(),
			New:   patch.Status.String(),
		})
		t.Status = *patch.Status
	}

	if patch.CompletionAt != nil {
		old, next := t.CompletionAtString(), FormatDate(*patch.CompletionAt)
		if old != next {
			changes = append(changes, FieldChange{
				Field: FieldCompletionAt,
				Old:   old,
				New:   next,
			})
			completionAt := *patch.CompletionAt
			t.CompletionAt = &completionAt
		}
	}

	return changes
}
