package services

import (
	"context"

	"jobsite-api/models"

	"github.com/shopspring/decimal"
)

// logCost computes the cost of a closed span at the given hourly rate:
// durationMs / 3,600,000 hours times the rate.
func logCost(rate decimal.Decimal, durationMs int64) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(durationMs)).Div(decimal.NewFromInt(models.MillisPerHour))
}

// AddManualTimeLog records a closed log directly, bypassing the clock state
// machine. Duration and cost are computed from the given pair and the user's
// hourly rate at call time.
func (d *DataContext) AddManualTimeLog(ctx context.Context, req models.ManualTimeLogRequest) (models.TimeLog, error) {
	if !req.ClockOut.After(req.ClockIn) {
		return models.TimeLog{}, invalid("clock-out must be after clock-in")
	}

	d.lock()
	defer d.unlock()

	user := d.findUser(req.UserID)
	if user == nil {
		return models.TimeLog{}, notFound("user", req.UserID)
	}
	if d.findProject(req.ProjectID) == nil {
		return models.TimeLog{}, notFound("project", req.ProjectID)
	}

	clockOut := req.ClockOut
	durationMs := clockOut.Sub(req.ClockIn).Milliseconds()
	cost := logCost(user.HourlyRate, durationMs)

	log := models.TimeLog{
		TimeLogID:  d.peekID("time_log"),
		UserID:     req.UserID,
		ProjectID:  req.ProjectID,
		ClockIn:    req.ClockIn,
		ClockOut:   &clockOut,
		DurationMs: &durationMs,
		Cost:       &cost,
	}
	if err := d.store.CreateTimeLog(ctx, &log); err != nil {
		return models.TimeLog{}, err
	}
	d.commitID("time_log", log.TimeLogID)
	d.timeLogs = append(d.timeLogs, log)
	d.saveSnapshot(ctx, "time_logs", d.timeLogs)
	return cloneTimeLog(log), nil
}

// UpdateTimeLog adjusts a closed log's project or clock pair and recomputes
// duration and cost at the owner's current hourly rate. Open logs belong to
// the clock state machine and are not editable here.
func (d *DataContext) UpdateTimeLog(ctx context.Context, id int, req models.TimeLogUpdateRequest) (models.TimeLog, error) {
	d.lock()
	defer d.unlock()

	current := d.findTimeLog(id)
	if current == nil {
		return models.TimeLog{}, notFound("time log", id)
	}
	if current.IsOpen() {
		return models.TimeLog{}, invalid("time log %d is open; clock out instead", id)
	}

	updated := cloneTimeLog(*current)
	if req.ProjectID != nil {
		if d.findProject(*req.ProjectID) == nil {
			return models.TimeLog{}, notFound("project", *req.ProjectID)
		}
		updated.ProjectID = *req.ProjectID
	}
	if req.ClockIn != nil {
		updated.ClockIn = *req.ClockIn
	}
	if req.ClockOut != nil {
		out := *req.ClockOut
		updated.ClockOut = &out
	}
	if !updated.ClockOut.After(updated.ClockIn) {
		return models.TimeLog{}, invalid("clock-out must be after clock-in")
	}

	user := d.findUser(updated.UserID)
	if user == nil {
		return models.TimeLog{}, notFound("user", updated.UserID)
	}
	durationMs := updated.ClockOut.Sub(updated.ClockIn).Milliseconds()
	cost := logCost(user.HourlyRate, durationMs)
	updated.DurationMs = &durationMs
	updated.Cost = &cost

	if err := d.store.UpdateTimeLog(ctx, &updated); err != nil {
		return models.TimeLog{}, err
	}
	*current = updated
	d.saveSnapshot(ctx, "time_logs", d.timeLogs)
	return cloneTimeLog(updated), nil
}

// DeleteTimeLog removes a log. Logs claimed by an invoice cannot be deleted;
// remove them from the invoice first.
func (d *DataContext) DeleteTimeLog(ctx context.Context, id int) error {
	d.lock()
	defer d.unlock()

	idx := -1
	for i := range d.timeLogs {
		if d.timeLogs[i].TimeLogID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return notFound("time log", id)
	}
	if d.timeLogs[idx].InvoiceID != nil {
		return invalid("time log %d is billed on invoice %d", id, *d.timeLogs[idx].InvoiceID)
	}
	if err := d.store.DeleteTimeLog(ctx, id); err != nil {
		return err
	}
	d.timeLogs = append(d.timeLogs[:idx], d.timeLogs[idx+1:]...)
	d.saveSnapshot(ctx, "time_logs", d.timeLogs)
	return nil
}
