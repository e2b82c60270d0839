package services

import (
	"context"

	"jobsite-api/models"

	"github.com/shopspring/decimal"
)

// seedLocked writes the bootstrap data set through the store and into the
// mirror. Only called from Load when every collection came back empty, so a
// first run has projects and a crew to look at.
func (d *DataContext) seedLocked(ctx context.Context) error {
	now := d.now()

	users := []models.User{
		{
			UserID:     1,
			Name:       "Mike Torres",
			Email:      "mike@example.com",
			RoleTitle:  "Site Foreman",
			Role:       models.RoleAdmin,
			HourlyRate: decimal.NewFromInt(65),
		},
		{
			UserID:     2,
			Name:       "Dana Whitfield",
			Email:      "dana@example.com",
			RoleTitle:  "Carpenter",
			Role:       models.RoleEmployee,
			HourlyRate: decimal.NewFromInt(42),
		},
		{
			UserID:     3,
			Name:       "Luis Herrera",
			Email:      "luis@example.com",
			RoleTitle:  "Electrician",
			Role:       models.RoleEmployee,
			HourlyRate: decimal.NewFromInt(55),
		},
	}

	projects := []models.Project{
		{
			ProjectID:   1,
			Name:        "Maple Street Remodel",
			Address:     "214 Maple St",
			ProjectType: "Renovation",
			Status:      models.ProjectInProgress,
			StartDate:   now.AddDate(0, -1, 0),
			EndDate:     now.AddDate(0, 2, 0),
			Budget:      decimal.NewFromInt(85000),
			PunchList: models.PunchList{
				{ItemID: 1, Text: "Patch drywall in hallway"},
				{ItemID: 2, Text: "Replace cracked outlet cover"},
			},
		},
		{
			ProjectID:   2,
			Name:        "Harbor View Deck",
			Address:     "9 Harbor View Rd",
			ProjectType: "Residential",
			Status:      models.ProjectInProgress,
			StartDate:   now.AddDate(0, 0, -14),
			EndDate:     now.AddDate(0, 1, 14),
			Budget:      decimal.NewFromInt(32000),
		},
	}

	tasks := []models.Task{
		{
			TaskID:      1,
			Title:       "Frame hallway closet",
			ProjectID:   1,
			AssigneeID:  2,
			DueDate:     now.AddDate(0, 0, 7),
			Status:      models.TaskToDo,
		},
		{
			TaskID:      2,
			Title:       "Rough-in deck lighting",
			ProjectID:   2,
			AssigneeID:  3,
			DueDate:     now.AddDate(0, 0, 10),
			Status:      models.TaskInProgress,
		},
	}

	for i := range users {
		if err := d.store.CreateUser(ctx, &users[i]); err != nil {
			return err
		}
	}
	for i := range projects {
		if err := d.store.CreateProject(ctx, &projects[i]); err != nil {
			return err
		}
	}
	for i := range tasks {
		if err := d.store.CreateTask(ctx, &tasks[i]); err != nil {
			return err
		}
	}

	d.users = users
	d.projects = projects
	d.tasks = tasks
	d.log.Infof("seeded bootstrap data: %d users, %d projects, %d tasks", len(users), len(projects), len(tasks))
	return nil
}
