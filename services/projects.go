package services

import (
	"context"
	"strings"

	"jobsite-api/models"
)

// AddProject creates a project with the next id. End date must not precede
// the start date.
func (d *DataContext) AddProject(ctx context.Context, req models.ProjectCreateRequest) (models.Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.Project{}, invalid("project name is required")
	}
	status := req.Status
	if status == "" {
		status = models.ProjectInProgress
	}
	if !models.ValidProjectStatus(status) {
		return models.Project{}, invalid("unknown project status %q", status)
	}
	if !req.EndDate.IsZero() && !req.StartDate.IsZero() && req.EndDate.Before(req.StartDate) {
		return models.Project{}, invalid("project end date precedes start date")
	}

	d.lock()
	defer d.unlock()

	project := models.Project{
		ProjectID:   d.peekID("project"),
		Name:        strings.TrimSpace(req.Name),
		Address:     req.Address,
		ProjectType: req.ProjectType,
		Status:      status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		PunchList:   models.PunchList{},
		Photos:      models.PhotoList{},
	}
	if err := d.store.CreateProject(ctx, &project); err != nil {
		return models.Project{}, err
	}
	d.commitID("project", project.ProjectID)
	d.projects = append(d.projects, project)
	d.saveSnapshot(ctx, "projects", d.projects)
	return cloneProject(project), nil
}

// UpdateProject applies a partial update by id. The punch list and photos are
// owned collections with their own operations and are not touched here.
func (d *DataContext) UpdateProject(ctx context.Context, id int, req models.ProjectUpdateRequest) (models.Project, error) {
	d.lock()
	defer d.unlock()

	current := d.findProject(id)
	if current == nil {
		return models.Project{}, notFound("project", id)
	}

	updated := cloneProject(*current)
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Address != nil {
		updated.Address = *req.Address
	}
	if req.ProjectType != nil {
		updated.ProjectType = *req.ProjectType
	}
	if req.Status != nil {
		if !models.ValidProjectStatus(*req.Status) {
			return models.Project{}, invalid("unknown project status %q", *req.Status)
		}
		updated.Status = *req.Status
	}
	if req.StartDate != nil {
		updated.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		updated.EndDate = *req.EndDate
	}
	if !updated.EndDate.IsZero() && !updated.StartDate.IsZero() && updated.EndDate.Before(updated.StartDate) {
		return models.Project{}, invalid("project end date precedes start date")
	}
	if req.Budget != nil {
		updated.Budget = *req.Budget
	}

	if err := d.store.UpdateProject(ctx, &updated); err != nil {
		return models.Project{}, err
	}
	*current = updated
	d.saveSnapshot(ctx, "projects", d.projects)
	return cloneProject(updated), nil
}
