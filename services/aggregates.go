package services

import (
	"math"
	"time"

	"jobsite-api/models"

	"github.com/shopspring/decimal"
)

// Job costing thresholds: actual/estimated above 100% is over budget, above
// 85% is a warning, anything else is healthy.
const (
	CostingOver    = "over"
	CostingWarning = "warning"
	CostingHealthy = "healthy"

	costingWarningRatio = 0.85
)

func costingStatus(ratio float64) string {
	switch {
	case ratio > 1.0:
		return CostingOver
	case ratio > costingWarningRatio:
		return CostingWarning
	default:
		return CostingHealthy
	}
}

// WeeklySummary is a user's closed time for the ISO week (Monday start)
// containing the reference time.
type WeeklySummary struct {
	UserID  int             `json:"user_id"`
	Hours   float64         `json:"hours"`
	Cost    decimal.Decimal `json:"cost"`
	WeekOf  time.Time       `json:"week_of"`
}

// weekStart returns Monday 00:00 of the ISO week containing t.
func weekStart(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -daysSinceMonday)
}

// WeeklyHours sums duration and cost over the user's closed logs whose
// clock-in falls inside the current ISO week.
func (d *DataContext) WeeklyHours(userID int, ref time.Time) (WeeklySummary, error) {
	d.lock()
	defer d.unlock()

	if d.findUser(userID) == nil {
		return WeeklySummary{}, notFound("user", userID)
	}

	start := weekStart(ref)
	end := start.AddDate(0, 0, 7)
	summary := WeeklySummary{UserID: userID, Cost: decimal.Zero, WeekOf: start}
	for _, log := range d.timeLogs {
		if log.UserID != userID || log.IsOpen() {
			continue
		}
		if log.ClockIn.Before(start) || !log.ClockIn.Before(end) {
			continue
		}
		if log.DurationMs != nil {
			summary.Hours += float64(*log.DurationMs) / float64(models.MillisPerHour)
		}
		if log.Cost != nil {
			summary.Cost = summary.Cost.Add(*log.Cost)
		}
	}
	return summary, nil
}

// TaskStatusCounts counts tasks per status, scoped to one project when
// projectID is positive or to every task otherwise.
func (d *DataContext) TaskStatusCounts(projectID int) map[string]int {
	d.lock()
	defer d.unlock()

	counts := map[string]int{
		models.TaskToDo:       0,
		models.TaskInProgress: 0,
		models.TaskDone:       0,
	}
	for _, t := range d.tasks {
		if projectID > 0 && t.ProjectID != projectID {
			continue
		}
		counts[t.Status]++
	}
	return counts
}

// CostingCategory is one row of a job costing report.
type CostingCategory struct {
	Category  string          `json:"category"`
	Estimated decimal.Decimal `json:"estimated"`
	Actual    decimal.Decimal `json:"actual"`
	Ratio     float64         `json:"ratio"`
	Status    string          `json:"status"`
}

// JobCostingReport splits a project's Approved estimates against actuals per
// cost category. Labor actuals come from closed time logs; Material from
// Material expenses; every other expense category rolls into Other.
type JobCostingReport struct {
	ProjectID  int               `json:"project_id"`
	Categories []CostingCategory `json:"categories"`
}

// JobCosting builds the report for a project.
func (d *DataContext) JobCosting(projectID int) (JobCostingReport, error) {
	d.lock()
	defer d.unlock()

	if d.findProject(projectID) == nil {
		return JobCostingReport{}, notFound("project", projectID)
	}

	estimated := map[string]decimal.Decimal{
		models.CategoryLabor:    decimal.Zero,
		models.CategoryMaterial: decimal.Zero,
		models.CategoryOther:    decimal.Zero,
	}
	for _, est := range d.estimates {
		if est.ProjectID != projectID || est.Status != models.EstimateApproved {
			continue
		}
		for _, item := range est.Items {
			estimated[costingBucket(item.Type)] = estimated[costingBucket(item.Type)].Add(item.TotalCost)
		}
	}

	actual := map[string]decimal.Decimal{
		models.CategoryLabor:    decimal.Zero,
		models.CategoryMaterial: decimal.Zero,
		models.CategoryOther:    decimal.Zero,
	}
	for _, log := range d.timeLogs {
		if log.ProjectID != projectID || log.Cost == nil {
			continue
		}
		actual[models.CategoryLabor] = actual[models.CategoryLabor].Add(*log.Cost)
	}
	for _, exp := range d.expenses {
		if exp.ProjectID != projectID {
			continue
		}
		actual[costingBucket(exp.Category)] = actual[costingBucket(exp.Category)].Add(exp.Amount)
	}

	report := JobCostingReport{ProjectID: projectID}
	for _, category := range []string{models.CategoryLabor, models.CategoryMaterial, models.CategoryOther} {
		row := CostingCategory{
			Category:  category,
			Estimated: estimated[category],
			Actual:    actual[category],
		}
		if row.Estimated.IsPositive() {
			ratio, _ := row.Actual.Div(row.Estimated).Float64()
			row.Ratio = ratio
		} else if row.Actual.IsPositive() {
			row.Ratio = math.Inf(1)
		}
		row.Status = costingStatus(row.Ratio)
		report.Categories = append(report.Categories, row)
	}
	return report, nil
}

// costingBucket folds the five cost categories into the three report rows.
func costingBucket(category string) string {
	switch category {
	case models.CategoryLabor:
		return models.CategoryLabor
	case models.CategoryMaterial:
		return models.CategoryMaterial
	default:
		return models.CategoryOther
	}
}

// BudgetUsage reports how much of a project's budget its actual spend has
// consumed. Percent carries the true rounded ratio for color-coding;
// DisplayPercent clamps at 100 for rendering.
type BudgetUsage struct {
	ProjectID      int             `json:"project_id"`
	Budget         decimal.Decimal `json:"budget"`
	Spend          decimal.Decimal `json:"spend"`
	Percent        int             `json:"percent"`
	DisplayPercent int             `json:"display_percent"`
}

// BudgetUsed derives the project's current spend from time log costs plus
// expenses. Spend is never persisted; it is always recomputed here.
func (d *DataContext) BudgetUsed(projectID int) (BudgetUsage, error) {
	d.lock()
	defer d.unlock()

	project := d.findProject(projectID)
	if project == nil {
		return BudgetUsage{}, notFound("project", projectID)
	}

	spend := decimal.Zero
	for _, log := range d.timeLogs {
		if log.ProjectID == projectID && log.Cost != nil {
			spend = spend.Add(*log.Cost)
		}
	}
	for _, exp := range d.expenses {
		if exp.ProjectID == projectID {
			spend = spend.Add(exp.Amount)
		}
	}

	usage := BudgetUsage{ProjectID: projectID, Budget: project.Budget, Spend: spend}
	if project.Budget.IsPositive() {
		ratio, _ := spend.Div(project.Budget).Float64()
		usage.Percent = int(math.Round(ratio * 100))
	}
	usage.DisplayPercent = usage.Percent
	if usage.DisplayPercent > 100 {
		usage.DisplayPercent = 100
	}
	return usage, nil
}
