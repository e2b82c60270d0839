package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobsite-api/models"

	"github.com/shopspring/decimal"
)

// addClosedLog records a closed two-hour manual log for the user and returns
// its id.
func addClosedLog(t *testing.T, d *DataContext, userID, projectID int, start time.Time) int {
	t.Helper()
	log, err := d.AddManualTimeLog(context.Background(), models.ManualTimeLogRequest{
		UserID:    userID,
		ProjectID: projectID,
		ClockIn:   start,
		ClockOut:  start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("AddManualTimeLog returned error: %v", err)
	}
	return log.TimeLogID
}

func logByID(t *testing.T, d *DataContext, id int) models.TimeLog {
	t.Helper()
	for _, l := range d.TimeLogs() {
		if l.TimeLogID == id {
			return l
		}
	}
	t.Fatalf("time log %d not found", id)
	return models.TimeLog{}
}

func TestAddInvoiceDerivesTotalsAndClaimsLogs(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	log1 := addClosedLog(t, d, 2, 1, baseTime)
	log2 := addClosedLog(t, d, 3, 1, baseTime.Add(3*time.Hour))

	inv, err := d.AddInvoice(ctx, models.InvoiceCreateRequest{
		ProjectID: 1,
		TaxRate:   decimal.NewFromFloat(0.1),
		LineItems: []models.InvoiceLineItemRequest{
			{Description: "Labor", Amount: decimal.NewFromInt(100), TimeLogIDs: []int{log1, log2}},
			{Description: "Materials", Amount: decimal.NewFromInt(50)},
		},
	})
	if err != nil {
		t.Fatalf("AddInvoice returned error: %v", err)
	}

	if !inv.Subtotal.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected subtotal 150, got %v", inv.Subtotal)
	}
	if !inv.TaxAmount.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected tax 15, got %v", inv.TaxAmount)
	}
	if !inv.Total.Equal(decimal.NewFromInt(165)) {
		t.Fatalf("expected total 165, got %v", inv.Total)
	}
	if inv.Status != models.InvoiceDraft {
		t.Fatalf("expected Draft status, got %q", inv.Status)
	}

	for _, id := range []int{log1, log2} {
		l := logByID(t, d, id)
		if l.InvoiceID == nil || *l.InvoiceID != inv.InvoiceID {
			t.Fatalf("expected log %d claimed by invoice %d, got %v", id, inv.InvoiceID, l.InvoiceID)
		}
	}
}

func TestAddInvoiceRejectsAlreadyClaimedLog(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	logID := addClosedLog(t, d, 2, 1, baseTime)
	first, err := d.AddInvoice(ctx, models.InvoiceCreateRequest{
		ProjectID: 1,
		LineItems: []models.InvoiceLineItemRequest{
			{Description: "Labor", Amount: decimal.NewFromInt(100), TimeLogIDs: []int{logID}},
		},
	})
	if err != nil {
		t.Fatalf("first AddInvoice returned error: %v", err)
	}

	_, err = d.AddInvoice(ctx, models.InvoiceCreateRequest{
		ProjectID: 1,
		LineItems: []models.InvoiceLineItemRequest{
			{Description: "Labor again", Amount: decimal.NewFromInt(80), TimeLogIDs: []int{logID}},
		},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	l := logByID(t, d, logID)
	if l.InvoiceID == nil || *l.InvoiceID != first.InvoiceID {
		t.Fatalf("expected log to stay claimed by invoice %d, got %v", first.InvoiceID, l.InvoiceID)
	}
	if got := len(d.Invoices()); got != 1 {
		t.Fatalf("expected 1 invoice, got %d", got)
	}
}

func TestAddInvoiceRollsBackOnClaimFailure(t *testing.T) {
	d, store, _ := newTestContext(t)
	ctx := context.Background()

	logID := addClosedLog(t, d, 2, 1, baseTime)

	store.FailNext("update", "time_log", errors.New("write timeout"))
	_, err := d.AddInvoice(ctx, models.InvoiceCreateRequest{
		ProjectID: 1,
		LineItems: []models.InvoiceLineItemRequest{
			{Description: "Labor", Amount: decimal.NewFromInt(100), TimeLogIDs: []int{logID}},
		},
	})
	var serr *StoreError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StoreError, got %v", err)
	}

	if got := len(d.Invoices()); got != 0 {
		t.Fatalf("expected no invoices after rollback, got %d", got)
	}
	if l := logByID(t, d, logID); l.InvoiceID != nil {
		t.Fatalf("expected log unclaimed after rollback, got %v", l.InvoiceID)
	}
	if rows, _ := store.ListInvoices(ctx); len(rows) != 0 {
		t.Fatalf("expected invoice row removed from store, got %d rows", len(rows))
	}

	// The failed create must not burn an invoice id.
	inv, err := d.AddInvoice(ctx, models.InvoiceCreateRequest{
		ProjectID: 1,
		LineItems: []models.InvoiceLineItemRequest{
			{Description: "Labor", Amount: decimal.NewFromInt(100), TimeLogIDs: []int{logID}},
		},
	})
	if err != nil {
		t.Fatalf("AddInvoice after rollback returned error: %v", err)
	}
	if inv.InvoiceID != 1 {
		t.Fatalf("expected invoice id 1, got %d", inv.InvoiceID)
	}
}

func TestUpdateInvoiceReconcilesClaims(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	log1 := addClosedLog(t, d, 2, 1, baseTime)
	log2 := addClosedLog(t, d, 3, 1, baseTime.Add(3*time.Hour))

	inv, err := d.AddInvoice(ctx, models.InvoiceCreateRequest{
		ProjectID: 1,
		LineItems: []models.InvoiceLineItemRequest{
			{Description: "Labor", Amount: decimal.NewFromInt(100), TimeLogIDs: []int{log1}},
		},
	})
	if err != nil {
		t.Fatalf("AddInvoice returned error: %v", err)
	}

	updated, err := d.UpdateInvoice(ctx, inv.InvoiceID, models.InvoiceUpdateRequest{
		LineItems: []models.InvoiceLineItemRequest{
			{Description: "Labor", Amount: decimal.NewFromInt(120), TimeLogIDs: []int{log2}},
		},
	})
	if err != nil {
		t.Fatalf("UpdateInvoice returned error: %v", err)
	}
	if !updated.Subtotal.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected subtotal 120, got %v", updated.Subtotal)
	}

	if l := logByID(t, d, log1); l.InvoiceID != nil {
		t.Fatalf("expected log %d released, got %v", log1, l.InvoiceID)
	}
	if l := logByID(t, d, log2); l.InvoiceID == nil || *l.InvoiceID != inv.InvoiceID {
		t.Fatalf("expected log %d claimed, got %v", log2, l.InvoiceID)
	}
}

func TestDeleteInvoiceReleasesClaims(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	logID := addClosedLog(t, d, 2, 1, baseTime)
	inv, err := d.AddInvoice(ctx, models.InvoiceCreateRequest{
		ProjectID: 1,
		LineItems: []models.InvoiceLineItemRequest{
			{Description: "Labor", Amount: decimal.NewFromInt(100), TimeLogIDs: []int{logID}},
		},
	})
	if err != nil {
		t.Fatalf("AddInvoice returned error: %v", err)
	}

	// Claimed logs cannot be deleted out from under the invoice.
	err = d.DeleteTimeLog(ctx, logID)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError deleting claimed log, got %v", err)
	}

	if err := d.DeleteInvoice(ctx, inv.InvoiceID); err != nil {
		t.Fatalf("DeleteInvoice returned error: %v", err)
	}
	if l := logByID(t, d, logID); l.InvoiceID != nil {
		t.Fatalf("expected log released after invoice delete, got %v", l.InvoiceID)
	}
	if err := d.DeleteTimeLog(ctx, logID); err != nil {
		t.Fatalf("expected released log to be deletable, got %v", err)
	}
}

func TestUpdateInvoiceStatusMailsAdminsOnSent(t *testing.T) {
	d, _, _ := newTestContext(t)
	ctx := context.Background()

	var gotTo []string
	var gotSubject string
	d.SetMailer(func(to []string, subject, html string) error {
		gotTo = append([]string(nil), to...)
		gotSubject = subject
		return nil
	})

	inv, err := d.AddInvoice(ctx, models.InvoiceCreateRequest{
		ProjectID: 1,
		LineItems: []models.InvoiceLineItemRequest{
			{Description: "Deposit", Amount: decimal.NewFromInt(500)},
		},
	})
	if err != nil {
		t.Fatalf("AddInvoice returned error: %v", err)
	}

	if _, err := d.UpdateInvoiceStatus(ctx, inv.InvoiceID, models.InvoiceSent); err != nil {
		t.Fatalf("UpdateInvoiceStatus returned error: %v", err)
	}
	if len(gotTo) != 1 || gotTo[0] != "mike@example.com" {
		t.Fatalf("expected mail to the admin, got %v", gotTo)
	}
	if gotSubject == "" {
		t.Fatalf("expected a mail subject")
	}

	// Re-applying the same status must not mail again.
	gotTo = nil
	if _, err := d.UpdateInvoiceStatus(ctx, inv.InvoiceID, models.InvoiceSent); err != nil {
		t.Fatalf("UpdateInvoiceStatus returned error: %v", err)
	}
	if gotTo != nil {
		t.Fatalf("expected no mail on a no-op status change, got %v", gotTo)
	}
}
