package models

import (
	"encoding/json"
	"time"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status" gorm:"type:varchar(16);not null;default:'TODO'"`
	Deadline    *Date      `json:"deadline"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskWithOwner is a task row joined with its owner's name and email.
type TaskWithOwner struct {
	Task
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// TaskInput is the payload for creating a task.
type TaskInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	Deadline    *Date      `json:"deadline"`
	UserID      uint       `json:"user_id"`
}

// UnmarshalJSON drops a blank deadline so it is stored as no deadline.
func (in *TaskInput) UnmarshalJSON(data []byte) error {
	type plain TaskInput
	if err := json.Unmarshal(data, (*plain)(in)); err != nil {
		return err
	}
	if in.Deadline != nil && in.Deadline.IsZero() {
		in.Deadline = nil
	}
	return nil
}

// TaskPatch holds the fields of a partial task update. Description and
// Deadline may be explicitly null to clear them.
type TaskPatch struct {
	Title       Optional[string]     `json:"title"`
	Description Optional[string]     `json:"description"`
	Status      Optional[TaskStatus] `json:"status"`
	Deadline    Optional[Date]       `json:"deadline"`
	UserID      Optional[uint]       `json:"user_id"`
}

// TaskFilter narrows a task listing. A nil OwnerID lists every task.
type TaskFilter struct {
	OwnerID *uint
}
