package models

import "time"

// Task represents the tasks table.
type Task struct {
	TaskID      int       `gorm:"primaryKey;column:task_id" json:"task_id"`
	Title       string    `gorm:"column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	ProjectID   int       `gorm:"column:project_id;index" json:"project_id"`
	AssigneeID  int       `gorm:"column:assignee_id;index" json:"assignee_id"`
	DueDate     time.Time `gorm:"column:due_date" json:"due_date"`
	Status      string    `gorm:"column:status" json:"status"`
}

// TableName overrides the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// TaskCreateRequest is the payload for creating a task. ProjectID and
// AssigneeID must reference existing rows.
type TaskCreateRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	ProjectID   int       `json:"project_id" binding:"required"`
	AssigneeID  int       `json:"assignee_id" binding:"required"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
}
