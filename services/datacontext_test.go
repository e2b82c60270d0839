package services

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	"jobsite-api/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func TestLoadSeedsEmptyStore(t *testing.T) {
	d, _, _ := newTestContext(t)

	if got := len(d.Users()); got != 3 {
		t.Fatalf("expected 3 seeded users, got %d", got)
	}
	if got := len(d.Projects()); got != 2 {
		t.Fatalf("expected 2 seeded projects, got %d", got)
	}
	if got := len(d.Tasks()); got != 2 {
		t.Fatalf("expected 2 seeded tasks, got %d", got)
	}

	project, err := d.ProjectByID(1)
	if err != nil {
		t.Fatalf("ProjectByID returned error: %v", err)
	}
	if len(project.PunchList) != 2 {
		t.Fatalf("expected 2 seeded punch items, got %d", len(project.PunchList))
	}
}

func TestIDsContinueFromHighWaterMarkAfterDeletion(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	first, err := d.AddExpense(ctx, models.ExpenseCreateRequest{
		ProjectID:   1,
		Description: "Paint",
		Amount:      decimal.NewFromInt(80),
		Category:    models.CategoryMaterial,
		Date:        baseTime,
	})
	if err != nil {
		t.Fatalf("AddExpense returned error: %v", err)
	}
	if first.ExpenseID != 1 {
		t.Fatalf("expected expense id 1, got %d", first.ExpenseID)
	}

	if err := d.DeleteExpense(ctx, first.ExpenseID); err != nil {
		t.Fatalf("DeleteExpense returned error: %v", err)
	}

	second, err := d.AddExpense(ctx, models.ExpenseCreateRequest{
		ProjectID:   1,
		Description: "More paint",
		Amount:      decimal.NewFromInt(40),
		Category:    models.CategoryMaterial,
		Date:        baseTime,
	})
	if err != nil {
		t.Fatalf("AddExpense returned error: %v", err)
	}
	if second.ExpenseID != 2 {
		t.Fatalf("expected id 2 after deletion, never a reused 1, got %d", second.ExpenseID)
	}
}

func TestFailedCreateBurnsNoID(t *testing.T) {
	d, store, _ := newTestContext(t)
	ctx := context.Background()

	store.FailNext("create", "expense", errors.New("connection reset"))
	_, err := d.AddExpense(ctx, models.ExpenseCreateRequest{
		ProjectID:   1,
		Description: "Paint",
		Amount:      decimal.NewFromInt(80),
		Category:    models.CategoryMaterial,
		Date:        baseTime,
	})
	var serr *StoreError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StoreError, got %v", err)
	}

	created, err := d.AddExpense(ctx, models.ExpenseCreateRequest{
		ProjectID:   1,
		Description: "Paint",
		Amount:      decimal.NewFromInt(80),
		Category:    models.CategoryMaterial,
		Date:        baseTime,
	})
	if err != nil {
		t.Fatalf("AddExpense returned error: %v", err)
	}
	if created.ExpenseID != 1 {
		t.Fatalf("expected id 1 after failed create, got %d", created.ExpenseID)
	}
}

func TestFailedMutationLeavesMirrorUntouched(t *testing.T) {
	d, store, _ := newTestContext(t)
	ctx := context.Background()

	before, _ := d.ProjectByID(1)

	store.FailNext("update", "project", errors.New("write timeout"))
	name := "Renamed"
	_, err := d.UpdateProject(ctx, 1, models.ProjectUpdateRequest{Name: &name})
	var serr *StoreError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StoreError, got %v", err)
	}

	after, _ := d.ProjectByID(1)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("mirror changed after a failed write:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestTogglePunchListItemTwiceRestoresState(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	item, err := d.TogglePunchListItem(ctx, 1, 1)
	if err != nil {
		t.Fatalf("TogglePunchListItem returned error: %v", err)
	}
	if !item.IsComplete {
		t.Fatalf("expected item complete after first toggle")
	}

	item, err = d.TogglePunchListItem(ctx, 1, 1)
	if err != nil {
		t.Fatalf("TogglePunchListItem returned error: %v", err)
	}
	if item.IsComplete {
		t.Fatalf("expected item open again after second toggle")
	}
}

func TestPunchItemIDsAreGloballyUnique(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	// Project 1 already carries seeded items 1 and 2.
	onOther, err := d.AddPunchListItem(ctx, 2, "Sand deck railing")
	if err != nil {
		t.Fatalf("AddPunchListItem returned error: %v", err)
	}
	if onOther.ItemID != 3 {
		t.Fatalf("expected global item id 3, got %d", onOther.ItemID)
	}
	onFirst, err := d.AddPunchListItem(ctx, 1, "Caulk window trim")
	if err != nil {
		t.Fatalf("AddPunchListItem returned error: %v", err)
	}
	if onFirst.ItemID != 4 {
		t.Fatalf("expected global item id 4, got %d", onFirst.ItemID)
	}
}

func TestTimeLogsOrderedNewestFirst(t *testing.T) {
	d, _, _ := newTestContext(t)

	addClosedLog(t, d, 2, 1, baseTime.Add(4*time.Hour))
	addClosedLog(t, d, 2, 1, baseTime)
	addClosedLog(t, d, 3, 2, baseTime.Add(8*time.Hour))

	logs := d.TimeLogs()
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if logs[i].ClockIn.After(logs[i-1].ClockIn) {
			t.Fatalf("logs not in descending clock-in order: %v before %v",
				logs[i-1].ClockIn, logs[i].ClockIn)
		}
	}
}

func TestReloadFromStoreReproducesMirror(t *testing.T) {
	d, store, clock := newTestContext(t)
	ctx := context.Background()

	// Mutate across several collections.
	if _, err := d.ClockIn(ctx, Session{UserID: 2}, 1); err != nil {
		t.Fatalf("ClockIn returned error: %v", err)
	}
	clock.Advance(time.Hour)
	if _, err := d.ClockOut(ctx, Session{UserID: 2}); err != nil {
		t.Fatalf("ClockOut returned error: %v", err)
	}
	if _, err := d.AddPunchListItem(ctx, 1, "Touch up paint"); err != nil {
		t.Fatalf("AddPunchListItem returned error: %v", err)
	}
	logID := addClosedLog(t, d, 3, 2, clock.Now())
	if _, err := d.AddInvoice(ctx, models.InvoiceCreateRequest{
		ProjectID: 2,
		TaxRate:   decimal.NewFromFloat(0.05),
		LineItems: []models.InvoiceLineItemRequest{
			{Description: "Deck labor", Amount: decimal.NewFromInt(110), TimeLogIDs: []int{logID}},
		},
	}); err != nil {
		t.Fatalf("AddInvoice returned error: %v", err)
	}

	// A fresh context over the same store must see the identical dataset,
	// dates and claims included.
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	reloaded := NewDataContext(store, logger)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload returned error: %v", err)
	}

	if !reflect.DeepEqual(d.Snapshot(), reloaded.Snapshot()) {
		t.Fatalf("reloaded mirror differs from the original")
	}

	// Id marks must continue, not restart.
	item, err := reloaded.AddPunchListItem(ctx, 1, "One more")
	if err != nil {
		t.Fatalf("AddPunchListItem on reloaded context returned error: %v", err)
	}
	if item.ItemID != 4 {
		t.Fatalf("expected punch item id 4 after reload, got %d", item.ItemID)
	}
}

func TestAddExpenseRejectsLaborCategory(t *testing.T) {
	d, _, _ := newTestContext(t)

	_, err := d.AddExpense(context.Background(), models.ExpenseCreateRequest{
		ProjectID:   1,
		Description: "Crew wages",
		Amount:      decimal.NewFromInt(500),
		Category:    models.CategoryLabor,
		Date:        baseTime,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for labor expense, got %v", err)
	}
}

func TestLowStockItems(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	threshold := 10.0
	low, err := d.AddInventoryItem(ctx, models.InventoryItemCreateRequest{
		Name:              "2x4 studs",
		Quantity:          8,
		Unit:              "piece",
		LowStockThreshold: &threshold,
	})
	if err != nil {
		t.Fatalf("AddInventoryItem returned error: %v", err)
	}
	if _, err := d.AddInventoryItem(ctx, models.InventoryItemCreateRequest{
		Name:              "Deck screws",
		Quantity:          500,
		Unit:              "box",
		LowStockThreshold: &threshold,
	}); err != nil {
		t.Fatalf("AddInventoryItem returned error: %v", err)
	}
	if _, err := d.AddInventoryItem(ctx, models.InventoryItemCreateRequest{
		Name:     "Shims",
		Quantity: 2,
		Unit:     "pack",
	}); err != nil {
		t.Fatalf("AddInventoryItem returned error: %v", err)
	}

	lowStock := d.LowStockItems()
	if len(lowStock) != 1 || lowStock[0].ItemID != low.ItemID {
		t.Fatalf("expected only the stud item low, got %+v", lowStock)
	}
}

func TestUpdateProjectValidatesDateOrder(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	end := baseTime.AddDate(0, -2, 0)
	_, err := d.UpdateProject(ctx, 1, models.ProjectUpdateRequest{EndDate: &end})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for end before start, got %v", err)
	}
}
