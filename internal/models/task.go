package models

import (
	"errors"
	"time"
)

var ErrInvalidTaskStatus = errors.New("invalid task status")

// TaskStatus is the lifecycle state of a task. The zero value is not a valid
// status, use ParseTaskStatus to obtain one from user input.
type TaskStatus string

const (
	StatusNew       TaskStatus = "new"
	StatusPlanned   TaskStatus = "planned"
	StatusInWork    TaskStatus = "in_work"
	StatusCompleted TaskStatus = "completed"
)

// TaskStatuses lists every valid status in lifecycle order.
var TaskStatuses = []TaskStatus{
	StatusNew,
	StatusPlanned,
	StatusInWork,
	StatusCompleted,
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.Valid() {
		return "", ErrInvalidTaskStatus
	}
	return status, nil
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNew, StatusPlanned, StatusInWork, StatusCompleted:
		return true
	default:
		return false
	}
}

func (s TaskStatus) String() string {
	return string(s)
}

type Task struct {
	ID           int64
	UserID       int64
	Name         string
	Description  string
	Status       TaskStatus
	CreatedAt    time.Time
	CompletionAt *time.Time
}

// CompletionAtString returns the completion date in DateLayout
// or an empty string when the task has none.
func (t *Task) CompletionAtString() string {
	if t.CompletionAt == nil {
		return ""
	}
	return FormatDate(*t.CompletionAt)
}
