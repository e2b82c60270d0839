package services

import (
	"context"
	"strings"
	"time"

	"jobsite-api/models"

	"github.com/shopspring/decimal"
)

// EntityRef names a project or user in an assistant command, by id or by
// name. Resolution is deterministic: an id wins outright; a name must match
// exactly one entity (case-insensitive) or the command is rejected, never
// "first substring match wins".
type EntityRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func (r EntityRef) empty() bool {
	return r.ID <= 0 && strings.TrimSpace(r.Name) == ""
}

// AssistantCommand is the set of operations the chat assistant may invoke.
// Exactly one action field is set per command; each maps 1:1 onto a mutation
// API call with the same validation semantics.
type AssistantCommand struct {
	AddProject          *AddProjectCommand          `json:"add_project,omitempty"`
	AddTask             *AddTaskCommand             `json:"add_task,omitempty"`
	UpdateTaskStatus    *UpdateTaskStatusCommand    `json:"update_task_status,omitempty"`
	AddUser             *AddUserCommand             `json:"add_user,omitempty"`
	ClockIn             *ClockInCommand             `json:"clock_in,omitempty"`
	ClockOut            *ClockOutCommand            `json:"clock_out,omitempty"`
	SwitchJob           *SwitchJobCommand           `json:"switch_job,omitempty"`
	AddPunchListItem    *AddPunchListItemCommand    `json:"add_punch_list_item,omitempty"`
	TogglePunchListItem *TogglePunchListItemCommand `json:"toggle_punch_list_item,omitempty"`
	ListData            *ListDataCommand            `json:"list_data,omitempty"`
}

type AddProjectCommand struct {
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	ProjectType string          `json:"project_type"`
	Budget      decimal.Decimal `json:"budget"`
}

type AddTaskCommand struct {
	Project  EntityRef `json:"project"`
	Assignee EntityRef `json:"assignee"`
	Title    string    `json:"title"`
	DueDate  time.Time `json:"due_date"`
}

type UpdateTaskStatusCommand struct {
	TaskID int    `json:"task_id"`
	Status string `json:"status"`
}

type AddUserCommand struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	RoleTitle  string          `json:"role_title"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

type ClockInCommand struct {
	User    EntityRef `json:"user"`
	Project EntityRef `json:"project"`
}

type ClockOutCommand struct {
	User EntityRef `json:"user"`
}

type SwitchJobCommand struct {
	User    EntityRef `json:"user"`
	Project EntityRef `json:"project"`
}

type AddPunchListItemCommand struct {
	Project EntityRef `json:"project"`
	Text    string    `json:"text"`
}

type TogglePunchListItemCommand struct {
	Project EntityRef `json:"project"`
	ItemID  int       `json:"item_id"`
}

type ListDataCommand struct {
	Collection string `json:"collection"`
}

// ResolveProject turns a project reference into an id, or a typed failure the
// assistant can relay as structured output.
func (d *DataContext) ResolveProject(ref EntityRef) (int, error) {
	if ref.empty() {
		return 0, invalid("a project reference is required")
	}
	d.lock()
	defer d.unlock()
	if ref.ID > 0 {
		if d.findProject(ref.ID) == nil {
			return 0, notFound("project", ref.ID)
		}
		return ref.ID, nil
	}
	want := strings.ToLower(strings.TrimSpace(ref.Name))
	var matches []int
	for _, p := range d.projects {
		if strings.ToLower(p.Name) == want {
			matches = append(matches, p.ProjectID)
		}
	}
	switch len(matches) {
	case 0:
		return 0, &ValidationError{Message: "no project named " + ref.Name}
	case 1:
		return matches[0], nil
	default:
		return 0, invalid("%d projects named %q; use the project id", len(matches), ref.Name)
	}
}

// ResolveUser turns a user reference into an id, with the same exact-match
// rules as ResolveProject.
func (d *DataContext) ResolveUser(ref EntityRef) (int, error) {
	if ref.empty() {
		return 0, invalid("a user reference is required")
	}
	d.lock()
	defer d.unlock()
	if ref.ID > 0 {
		if d.findUser(ref.ID) == nil {
			return 0, notFound("user", ref.ID)
		}
		return ref.ID, nil
	}
	want := strings.ToLower(strings.TrimSpace(ref.Name))
	var matches []int
	for _, u := range d.users {
		if strings.ToLower(u.Name) == want {
			matches = append(matches, u.UserID)
		}
	}
	switch len(matches) {
	case 0:
		return 0, &ValidationError{Message: "no user named " + ref.Name}
	case 1:
		return matches[0], nil
	default:
		return 0, invalid("%d users named %q; use the user id", len(matches), ref.Name)
	}
}

// ExecuteAssistantCommand dispatches one command onto the mutation API and
// returns the operation's result. Errors come back typed so the assistant can
// distinguish "not found" from invalid arguments.
func (d *DataContext) ExecuteAssistantCommand(ctx context.Context, cmd AssistantCommand) (interface{}, error) {
	switch {
	case cmd.AddProject != nil:
		return d.AddProject(ctx, models.ProjectCreateRequest{
			Name:        cmd.AddProject.Name,
			Address:     cmd.AddProject.Address,
			ProjectType: cmd.AddProject.ProjectType,
			Budget:      cmd.AddProject.Budget,
		})

	case cmd.AddTask != nil:
		projectID, err := d.ResolveProject(cmd.AddTask.Project)
		if err != nil {
			return nil, err
		}
		assigneeID, err := d.ResolveUser(cmd.AddTask.Assignee)
		if err != nil {
			return nil, err
		}
		return d.AddTask(ctx, models.TaskCreateRequest{
			Title:      cmd.AddTask.Title,
			ProjectID:  projectID,
			AssigneeID: assigneeID,
			DueDate:    cmd.AddTask.DueDate,
		})

	case cmd.UpdateTaskStatus != nil:
		return d.UpdateTaskStatus(ctx, cmd.UpdateTaskStatus.TaskID, cmd.UpdateTaskStatus.Status)

	case cmd.AddUser != nil:
		return d.AddUser(ctx, models.UserCreateRequest{
			Name:       cmd.AddUser.Name,
			Email:      cmd.AddUser.Email,
			RoleTitle:  cmd.AddUser.RoleTitle,
			HourlyRate: cmd.AddUser.HourlyRate,
		})

	case cmd.ClockIn != nil:
		userID, err := d.ResolveUser(cmd.ClockIn.User)
		if err != nil {
			return nil, err
		}
		projectID, err := d.ResolveProject(cmd.ClockIn.Project)
		if err != nil {
			return nil, err
		}
		return d.ClockIn(ctx, Session{UserID: userID}, projectID)

	case cmd.ClockOut != nil:
		userID, err := d.ResolveUser(cmd.ClockOut.User)
		if err != nil {
			return nil, err
		}
		return d.ClockOut(ctx, Session{UserID: userID})

	case cmd.SwitchJob != nil:
		userID, err := d.ResolveUser(cmd.SwitchJob.User)
		if err != nil {
			return nil, err
		}
		projectID, err := d.ResolveProject(cmd.SwitchJob.Project)
		if err != nil {
			return nil, err
		}
		closed, opened, err := d.SwitchJob(ctx, Session{UserID: userID}, projectID)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"closed": closed, "opened": opened}, nil

	case cmd.AddPunchListItem != nil:
		projectID, err := d.ResolveProject(cmd.AddPunchListItem.Project)
		if err != nil {
			return nil, err
		}
		return d.AddPunchListItem(ctx, projectID, cmd.AddPunchListItem.Text)

	case cmd.TogglePunchListItem != nil:
		projectID, err := d.ResolveProject(cmd.TogglePunchListItem.Project)
		if err != nil {
			return nil, err
		}
		return d.TogglePunchListItem(ctx, projectID, cmd.TogglePunchListItem.ItemID)

	case cmd.ListData != nil:
		return d.listCollection(cmd.ListData.Collection)

	default:
		return nil, invalid("no assistant action given")
	}
}

func (d *DataContext) listCollection(name string) (interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "users":
		return d.Users(), nil
	case "projects":
		return d.Projects(), nil
	case "tasks":
		return d.Tasks(), nil
	case "time_logs", "timelogs":
		return d.TimeLogs(), nil
	case "estimates":
		return d.Estimates(), nil
	case "expenses":
		return d.Expenses(), nil
	case "invoices":
		return d.Invoices(), nil
	case "inventory":
		return d.Inventory(), nil
	default:
		return nil, invalid("unknown collection %q", name)
	}
}
