package services

import (
	"context"
	"fmt"

	"jobsite-api/models"

	"github.com/google/uuid"
)

// captureLocation grabs the caller's location and a static map snapshot for
// it. Both are enrichments: any failure, including the timeout, degrades to
// "absent" and never blocks a clock transition.
func (d *DataContext) captureLocation(ctx context.Context, kind string) (*models.GeoPoint, string) {
	if d.geo == nil {
		return nil, ""
	}
	lctx, cancel := context.WithTimeout(ctx, GeolocationTimeout)
	defer cancel()

	point, err := d.geo.CurrentLocation(lctx)
	if err != nil {
		d.log.Debugf("geolocation unavailable for clock-%s: %v", kind, err)
		return nil, ""
	}

	mapKey := ""
	if d.maps != nil && d.blobs != nil {
		img, err := d.maps.Snapshot(lctx, point)
		if err != nil {
			d.log.Debugf("map snapshot unavailable for clock-%s: %v", kind, err)
		} else {
			key := fmt.Sprintf("maps/%s-%s.png", kind, uuid.NewString())
			if err := d.blobs.Put(ctx, key, img); err != nil {
				d.log.Debugf("map snapshot store failed for clock-%s: %v", kind, err)
			} else {
				mapKey = key
			}
		}
	}
	return &point, mapKey
}

// ClockIn opens a time log for the session user on the given project and
// marks the user clocked in. A user has at most one open log; clocking in
// while already clocked in is rejected (use SwitchJob to change projects).
func (d *DataContext) ClockIn(ctx context.Context, sess Session, projectID int) (models.TimeLog, error) {
	if projectID <= 0 {
		return models.TimeLog{}, invalid("a project is required to clock in")
	}

	d.lock()
	defer d.unlock()

	user := d.findUser(sess.UserID)
	if user == nil {
		return models.TimeLog{}, notFound("user", sess.UserID)
	}
	if d.findProject(projectID) == nil {
		return models.TimeLog{}, notFound("project", projectID)
	}
	if user.IsClockedIn || d.findOpenTimeLog(user.UserID) != nil {
		return models.TimeLog{}, invalid("user %d is already clocked in", user.UserID)
	}

	opened, err := d.clockInLocked(ctx, user, projectID)
	if err != nil {
		return models.TimeLog{}, err
	}
	return cloneTimeLog(*opened), nil
}

func (d *DataContext) clockInLocked(ctx context.Context, user *models.User, projectID int) (*models.TimeLog, error) {
	coords, mapKey := d.captureLocation(ctx, "in")
	now := d.now()

	log := models.TimeLog{
		TimeLogID:     d.peekID("time_log"),
		UserID:        user.UserID,
		ProjectID:     projectID,
		ClockIn:       now,
		ClockInCoords: coords,
		ClockInMapKey: mapKey,
	}
	if err := d.store.CreateTimeLog(ctx, &log); err != nil {
		return nil, err
	}

	updatedUser := *user
	updatedUser.IsClockedIn = true
	updatedUser.ClockInTime = &now
	updatedUser.CurrentProjectID = &projectID
	if err := d.store.UpdateUser(ctx, &updatedUser); err != nil {
		if delErr := d.store.DeleteTimeLog(ctx, log.TimeLogID); delErr != nil {
			d.log.Errorf("failed to undo time log %d after clock-in failure: %v", log.TimeLogID, delErr)
		}
		return nil, err
	}

	d.commitID("time_log", log.TimeLogID)
	d.timeLogs = append(d.timeLogs, log)
	*user = updatedUser
	d.saveSnapshot(ctx, "time_logs", d.timeLogs)
	d.saveSnapshot(ctx, "users", d.users)
	return &d.timeLogs[len(d.timeLogs)-1], nil
}

// ClockOut closes the session user's open time log, computing duration and
// cost at the user's hourly rate in effect right now, and clears the user's
// active-session fields. When no open log exists the call is a no-op and
// returns nil.
func (d *DataContext) ClockOut(ctx context.Context, sess Session) (*models.TimeLog, error) {
	d.lock()
	defer d.unlock()

	user := d.findUser(sess.UserID)
	if user == nil {
		return nil, notFound("user", sess.UserID)
	}
	closed, err := d.clockOutLocked(ctx, user)
	if err != nil {
		return nil, err
	}
	if closed == nil {
		return nil, nil
	}
	out := cloneTimeLog(*closed)
	return &out, nil
}

func (d *DataContext) clockOutLocked(ctx context.Context, user *models.User) (*models.TimeLog, error) {
	open := d.findOpenTimeLog(user.UserID)
	if open == nil {
		return nil, nil
	}

	coords, mapKey := d.captureLocation(ctx, "out")
	now := d.now()
	durationMs := now.Sub(open.ClockIn).Milliseconds()
	// Rate changes mid-session are not split retroactively: the whole span
	// costs out at the rate in effect when the log closes.
	cost := logCost(user.HourlyRate, durationMs)

	updated := cloneTimeLog(*open)
	updated.ClockOut = &now
	updated.DurationMs = &durationMs
	updated.Cost = &cost
	updated.ClockOutCoords = coords
	updated.ClockOutMapKey = mapKey
	if err := d.store.UpdateTimeLog(ctx, &updated); err != nil {
		return nil, err
	}

	updatedUser := *user
	updatedUser.IsClockedIn = false
	updatedUser.ClockInTime = nil
	updatedUser.CurrentProjectID = nil
	if err := d.store.UpdateUser(ctx, &updatedUser); err != nil {
		reverted := cloneTimeLog(*open)
		if revErr := d.store.UpdateTimeLog(ctx, &reverted); revErr != nil {
			d.log.Errorf("failed to reopen time log %d after clock-out failure: %v", open.TimeLogID, revErr)
		}
		return nil, err
	}

	*open = updated
	*user = updatedUser
	d.saveSnapshot(ctx, "time_logs", d.timeLogs)
	d.saveSnapshot(ctx, "users", d.users)
	return open, nil
}

// SwitchJob closes the session user's current log and opens a fresh one on
// the new project, with fresh timestamps. Two records come out of it, one
// closed and one open, so per-project cost attribution stays exact. Defined
// only while clocked in on a different project; otherwise a no-op.
func (d *DataContext) SwitchJob(ctx context.Context, sess Session, newProjectID int) (closed, opened *models.TimeLog, err error) {
	d.lock()
	defer d.unlock()

	user := d.findUser(sess.UserID)
	if user == nil {
		return nil, nil, notFound("user", sess.UserID)
	}
	if !user.IsClockedIn || d.findOpenTimeLog(user.UserID) == nil {
		return nil, nil, nil
	}
	if user.CurrentProjectID != nil && *user.CurrentProjectID == newProjectID {
		return nil, nil, nil
	}
	if d.findProject(newProjectID) == nil {
		return nil, nil, notFound("project", newProjectID)
	}

	closedLog, err := d.clockOutLocked(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	// The clock-out is fully committed before the clock-in begins, so the
	// single-open-log invariant holds even if the second half fails.
	openedLog, err := d.clockInLocked(ctx, user, newProjectID)
	if err != nil {
		c := cloneTimeLog(*closedLog)
		return &c, nil, err
	}

	c := cloneTimeLog(*closedLog)
	o := cloneTimeLog(*openedLog)
	return &c, &o, nil
}
