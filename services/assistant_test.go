package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jobsite-api/models"

	"github.com/shopspring/decimal"
)

func TestResolveProjectByExactNameIgnoresCase(t *testing.T) {
	d, _, _ := newTestContext(t)

	id, err := d.ResolveProject(EntityRef{Name: "maple street remodel"})
	if err != nil {
		t.Fatalf("ResolveProject returned error: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected project 1, got %d", id)
	}
}

func TestResolveProjectRejectsUnknownAndAmbiguousNames(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	_, err := d.ResolveProject(EntityRef{Name: "Maple Street"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for a partial name, got %v", err)
	}

	// A duplicate name makes the reference ambiguous.
	if _, err := d.AddProject(ctx, models.ProjectCreateRequest{
		Name:   "Maple Street Remodel",
		Budget: decimal.NewFromInt(1000),
	}); err != nil {
		t.Fatalf("AddProject returned error: %v", err)
	}
	_, err = d.ResolveProject(EntityRef{Name: "Maple Street Remodel"})
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for ambiguous name, got %v", err)
	}
	if !strings.Contains(err.Error(), "project id") {
		t.Fatalf("expected the error to steer toward ids, got %q", err.Error())
	}
}

func TestResolveProjectByIDWinsOverName(t *testing.T) {
	d, _, _ := newTestContext(t)

	id, err := d.ResolveProject(EntityRef{ID: 2, Name: "Maple Street Remodel"})
	if err != nil {
		t.Fatalf("ResolveProject returned error: %v", err)
	}
	if id != 2 {
		t.Fatalf("expected the id to win, got %d", id)
	}

	if _, err := d.ResolveProject(EntityRef{ID: 99}); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError for unknown id, got %v", err)
	}
}

func TestResolveUserUnknownName(t *testing.T) {
	d, _, _ := newTestContext(t)

	_, err := d.ResolveUser(EntityRef{Name: "Nobody Here"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err.Error() != "no user named Nobody Here" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestExecuteAssistantCommandClockInByName(t *testing.T) {
	d, _, _ := newTestContext(t)

	result, err := d.ExecuteAssistantCommand(context.Background(), AssistantCommand{
		ClockIn: &ClockInCommand{
			User:    EntityRef{Name: "Dana Whitfield"},
			Project: EntityRef{Name: "Harbor View Deck"},
		},
	})
	if err != nil {
		t.Fatalf("ExecuteAssistantCommand returned error: %v", err)
	}
	log, ok := result.(models.TimeLog)
	if !ok {
		t.Fatalf("expected a TimeLog result, got %T", result)
	}
	if log.UserID != 2 || log.ProjectID != 2 {
		t.Fatalf("unexpected log ownership: %+v", log)
	}

	user, _ := d.UserByID(2)
	if !user.IsClockedIn {
		t.Fatalf("expected Dana clocked in")
	}
}

func TestExecuteAssistantCommandAddTask(t *testing.T) {
	d, _, _ := newTestContext(t)

	result, err := d.ExecuteAssistantCommand(context.Background(), AssistantCommand{
		AddTask: &AddTaskCommand{
			Project:  EntityRef{Name: "Maple Street Remodel"},
			Assignee: EntityRef{Name: "Luis Herrera"},
			Title:    "Install recessed lighting",
			DueDate:  baseTime.AddDate(0, 0, 5),
		},
	})
	if err != nil {
		t.Fatalf("ExecuteAssistantCommand returned error: %v", err)
	}
	task, ok := result.(models.Task)
	if !ok {
		t.Fatalf("expected a Task result, got %T", result)
	}
	if task.ProjectID != 1 || task.AssigneeID != 3 {
		t.Fatalf("unexpected task routing: %+v", task)
	}
	if task.Status != models.TaskToDo {
		t.Fatalf("expected new task in To Do, got %q", task.Status)
	}
}

func TestExecuteAssistantCommandListData(t *testing.T) {
	d, _, _ := newTestContext(t)

	result, err := d.ExecuteAssistantCommand(context.Background(), AssistantCommand{
		ListData: &ListDataCommand{Collection: "projects"},
	})
	if err != nil {
		t.Fatalf("ExecuteAssistantCommand returned error: %v", err)
	}
	projects, ok := result.([]models.Project)
	if !ok {
		t.Fatalf("expected []Project, got %T", result)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}

	_, err = d.ExecuteAssistantCommand(context.Background(), AssistantCommand{
		ListData: &ListDataCommand{Collection: "widgets"},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown collection, got %v", err)
	}
}

func TestExecuteAssistantCommandEmpty(t *testing.T) {
	d, _, _ := newTestContext(t)

	_, err := d.ExecuteAssistantCommand(context.Background(), AssistantCommand{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for an empty command, got %v", err)
	}
}
