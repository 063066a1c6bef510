package models

import "time"

type TaskLog struct {
	ID        int64
	TaskID    int64
	Log       string
	CreatedAt time.Time
}
