package services

import (
	"context"
	"strings"

	"jobsite-api/models"
)

// AddTask creates a task with the next id. Both the project and the assignee
// must exist.
func (d *DataContext) AddTask(ctx context.Context, req models.TaskCreateRequest) (models.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return models.Task{}, invalid("task title is required")
	}
	status := req.Status
	if status == "" {
		status = models.TaskToDo
	}
	if !models.ValidTaskStatus(status) {
		return models.Task{}, invalid("unknown task status %q", status)
	}

	d.lock()
	defer d.unlock()

	if d.findProject(req.ProjectID) == nil {
		return models.Task{}, notFound("project", req.ProjectID)
	}
	if d.findUser(req.AssigneeID) == nil {
		return models.Task{}, notFound("user", req.AssigneeID)
	}

	task := models.Task{
		TaskID:      d.peekID("task"),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		Status:      status,
	}
	if err := d.store.CreateTask(ctx, &task); err != nil {
		return models.Task{}, err
	}
	d.commitID("task", task.TaskID)
	d.tasks = append(d.tasks, task)
	d.saveSnapshot(ctx, "tasks", d.tasks)
	return task, nil
}

// UpdateTaskStatus moves a task to a new status.
func (d *DataContext) UpdateTaskStatus(ctx context.Context, id int, status string) (models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return models.Task{}, invalid("unknown task status %q", status)
	}

	d.lock()
	defer d.unlock()

	current := d.findTask(id)
	if current == nil {
		return models.Task{}, notFound("task", id)
	}
	updated := *current
	updated.Status = status
	if err := d.store.UpdateTask(ctx, &updated); err != nil {
		return models.Task{}, err
	}
	*current = updated
	d.saveSnapshot(ctx, "tasks", d.tasks)
	return updated, nil
}
