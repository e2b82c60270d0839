package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"jobsite-api/models"

	"github.com/shopspring/decimal"
)

func openLogsFor(d *DataContext, userID int) []models.TimeLog {
	var open []models.TimeLog
	for _, l := range d.TimeLogs() {
		if l.UserID == userID && l.IsOpen() {
			open = append(open, l)
		}
	}
	return open
}

func TestClockInOpensLogAndMarksUser(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	log, err := d.ClockIn(ctx, Session{UserID: 2}, 1)
	if err != nil {
		t.Fatalf("ClockIn returned error: %v", err)
	}
	if !log.IsOpen() {
		t.Fatalf("expected open log, got clock-out %v", log.ClockOut)
	}
	if log.UserID != 2 || log.ProjectID != 1 {
		t.Fatalf("unexpected log ownership: %+v", log)
	}
	if !log.ClockIn.Equal(baseTime) {
		t.Fatalf("expected clock-in at %v, got %v", baseTime, log.ClockIn)
	}

	user, err := d.UserByID(2)
	if err != nil {
		t.Fatalf("UserByID returned error: %v", err)
	}
	if !user.IsClockedIn {
		t.Fatalf("expected user to be clocked in")
	}
	if user.ClockInTime == nil || !user.ClockInTime.Equal(baseTime) {
		t.Fatalf("unexpected clock-in time: %v", user.ClockInTime)
	}
	if user.CurrentProjectID == nil || *user.CurrentProjectID != 1 {
		t.Fatalf("unexpected current project: %v", user.CurrentProjectID)
	}
}

func TestClockOutComputesDurationAndCost(t *testing.T) {
	d, _, clock := newTestContext(t)
	ctx := context.Background()

	if _, err := d.ClockIn(ctx, Session{UserID: 2}, 1); err != nil {
		t.Fatalf("ClockIn returned error: %v", err)
	}
	clock.Advance(2 * time.Hour)

	closed, err := d.ClockOut(ctx, Session{UserID: 2})
	if err != nil {
		t.Fatalf("ClockOut returned error: %v", err)
	}
	if closed == nil {
		t.Fatalf("expected a closed log")
	}
	if closed.DurationMs == nil || *closed.DurationMs != 7200000 {
		t.Fatalf("expected duration 7200000ms, got %v", closed.DurationMs)
	}
	// 2 hours at Dana's 42/hr
	if closed.Cost == nil || !closed.Cost.Equal(decimal.NewFromInt(84)) {
		t.Fatalf("expected cost 84, got %v", closed.Cost)
	}

	user, _ := d.UserByID(2)
	if user.IsClockedIn || user.ClockInTime != nil || user.CurrentProjectID != nil {
		t.Fatalf("expected clock fields cleared, got %+v", user)
	}
}

func TestClockOutUsesRateAtCloseTime(t *testing.T) {
	d, _, clock := newTestContext(t)
	ctx := context.Background()

	if _, err := d.ClockIn(ctx, Session{UserID: 2}, 1); err != nil {
		t.Fatalf("ClockIn returned error: %v", err)
	}

	// Raise Dana's rate mid-session; the whole span costs out at the new rate.
	rate := decimal.NewFromInt(50)
	if _, err := d.UpdateUser(ctx, 2, models.UserUpdateRequest{HourlyRate: &rate}); err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}

	clock.Advance(2 * time.Hour)
	closed, err := d.ClockOut(ctx, Session{UserID: 2})
	if err != nil {
		t.Fatalf("ClockOut returned error: %v", err)
	}
	if closed.Cost == nil || !closed.Cost.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected cost 100 at the updated rate, got %v", closed.Cost)
	}
}

func TestClockOutWithoutOpenLogIsNoOp(t *testing.T) {
	d, _, _ := newTestContext(t)

	closed, err := d.ClockOut(context.Background(), Session{UserID: 2})
	if err != nil {
		t.Fatalf("ClockOut returned error: %v", err)
	}
	if closed != nil {
		t.Fatalf("expected nil log, got %+v", closed)
	}
}

func TestClockInWhileClockedInRejected(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	if _, err := d.ClockIn(ctx, Session{UserID: 2}, 1); err != nil {
		t.Fatalf("first ClockIn returned error: %v", err)
	}
	_, err := d.ClockIn(ctx, Session{UserID: 2}, 2)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := len(openLogsFor(d, 2)); got != 1 {
		t.Fatalf("expected exactly one open log, got %d", got)
	}
}

func TestClockInUnknownProjectRejected(t *testing.T) {
	d, _, _ := newTestContext(t)

	_, err := d.ClockIn(context.Background(), Session{UserID: 2}, 99)
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	_, err = d.ClockIn(context.Background(), Session{UserID: 2}, 0)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for missing project, got %v", err)
	}
}

func TestSwitchJobProducesClosedAndOpenLogs(t *testing.T) {
	d, _, clock := newTestContext(t)
	ctx := context.Background()

	if _, err := d.ClockIn(ctx, Session{UserID: 3}, 1); err != nil {
		t.Fatalf("ClockIn returned error: %v", err)
	}
	clock.Advance(time.Hour)

	closed, opened, err := d.SwitchJob(ctx, Session{UserID: 3}, 2)
	if err != nil {
		t.Fatalf("SwitchJob returned error: %v", err)
	}
	if closed == nil || opened == nil {
		t.Fatalf("expected both a closed and an opened log")
	}
	if closed.ProjectID != 1 || closed.IsOpen() {
		t.Fatalf("unexpected closed log: %+v", closed)
	}
	if *closed.DurationMs != 3600000 {
		t.Fatalf("expected closed duration 3600000ms, got %d", *closed.DurationMs)
	}
	// 1 hour at Luis's 55/hr
	if !closed.Cost.Equal(decimal.NewFromInt(55)) {
		t.Fatalf("expected closed cost 55, got %v", closed.Cost)
	}
	if opened.ProjectID != 2 || !opened.IsOpen() {
		t.Fatalf("unexpected opened log: %+v", opened)
	}
	if !opened.ClockIn.Equal(clock.Now()) {
		t.Fatalf("expected fresh clock-in %v, got %v", clock.Now(), opened.ClockIn)
	}
	if opened.TimeLogID == closed.TimeLogID {
		t.Fatalf("expected two distinct log records")
	}

	user, _ := d.UserByID(3)
	if user.CurrentProjectID == nil || *user.CurrentProjectID != 2 {
		t.Fatalf("expected current project 2, got %v", user.CurrentProjectID)
	}
	if got := len(openLogsFor(d, 3)); got != 1 {
		t.Fatalf("expected exactly one open log, got %d", got)
	}
}

func TestSwitchJobToSameProjectIsNoOp(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	if _, err := d.ClockIn(ctx, Session{UserID: 3}, 1); err != nil {
		t.Fatalf("ClockIn returned error: %v", err)
	}
	closed, opened, err := d.SwitchJob(ctx, Session{UserID: 3}, 1)
	if err != nil {
		t.Fatalf("SwitchJob returned error: %v", err)
	}
	if closed != nil || opened != nil {
		t.Fatalf("expected no-op, got closed=%+v opened=%+v", closed, opened)
	}
	if got := len(openLogsFor(d, 3)); got != 1 {
		t.Fatalf("expected the original open log to survive, got %d", got)
	}
}

func TestSwitchJobWhileOffClockIsNoOp(t *testing.T) {
	d, _, _ := newTestContext(t)

	closed, opened, err := d.SwitchJob(context.Background(), Session{UserID: 3}, 2)
	if err != nil {
		t.Fatalf("SwitchJob returned error: %v", err)
	}
	if closed != nil || opened != nil {
		t.Fatalf("expected no-op, got closed=%+v opened=%+v", closed, opened)
	}
}

func TestClockInRollbackLeavesNoTrace(t *testing.T) {
	d, store, _ := newTestContext(t)
	ctx := context.Background()

	store.FailNext("update", "user", errors.New("connection reset"))
	_, err := d.ClockIn(ctx, Session{UserID: 2}, 1)
	var serr *StoreError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StoreError, got %v", err)
	}

	if got := len(d.TimeLogs()); got != 0 {
		t.Fatalf("expected no time logs after rollback, got %d", got)
	}
	user, _ := d.UserByID(2)
	if user.IsClockedIn {
		t.Fatalf("expected user off the clock after rollback")
	}

	// The failed create must not burn an id.
	log, err := d.ClockIn(ctx, Session{UserID: 2}, 1)
	if err != nil {
		t.Fatalf("ClockIn after rollback returned error: %v", err)
	}
	if log.TimeLogID != 1 {
		t.Fatalf("expected time log id 1, got %d", log.TimeLogID)
	}
}

func TestRandomizedClockSequenceKeepsInvariants(t *testing.T) {
	d, _, clock := newTestContext(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	users := []int{1, 2, 3}
	projects := []int{1, 2}

	for i := 0; i < 300; i++ {
		userID := users[rng.Intn(len(users))]
		projectID := projects[rng.Intn(len(projects))]
		clock.Advance(time.Duration(1+rng.Intn(90)) * time.Minute)

		switch rng.Intn(3) {
		case 0:
			_, err := d.ClockIn(ctx, Session{UserID: userID}, projectID)
			var verr *ValidationError
			if err != nil && !errors.As(err, &verr) {
				t.Fatalf("step %d: unexpected ClockIn error: %v", i, err)
			}
		case 1:
			if _, err := d.ClockOut(ctx, Session{UserID: userID}); err != nil {
				t.Fatalf("step %d: ClockOut returned error: %v", i, err)
			}
		case 2:
			if _, _, err := d.SwitchJob(ctx, Session{UserID: userID}, projectID); err != nil {
				t.Fatalf("step %d: SwitchJob returned error: %v", i, err)
			}
		}

		for _, uid := range users {
			open := openLogsFor(d, uid)
			if len(open) > 1 {
				t.Fatalf("step %d: user %d has %d open logs", i, uid, len(open))
			}
			user, _ := d.UserByID(uid)
			if user.IsClockedIn != (len(open) == 1) {
				t.Fatalf("step %d: user %d clock flag %v disagrees with %d open logs",
					i, uid, user.IsClockedIn, len(open))
			}
			if user.IsClockedIn {
				if user.CurrentProjectID == nil || *user.CurrentProjectID != open[0].ProjectID {
					t.Fatalf("step %d: user %d current project %v disagrees with open log %+v",
						i, uid, user.CurrentProjectID, open[0])
				}
			}
		}
	}

	// Every closed log must carry a consistent duration and cost.
	for _, l := range d.TimeLogs() {
		if l.IsOpen() {
			continue
		}
		if l.DurationMs == nil || l.Cost == nil {
			t.Fatalf("closed log %d missing duration or cost", l.TimeLogID)
		}
		if want := l.ClockOut.Sub(l.ClockIn).Milliseconds(); *l.DurationMs != want {
			t.Fatalf("log %d duration %d disagrees with span %d", l.TimeLogID, *l.DurationMs, want)
		}
	}
}
