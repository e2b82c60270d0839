package services

import (
	"context"
	"fmt"

	"jobsite-api/models"

	"github.com/shopspring/decimal"
)

func buildLineItems(reqs []models.InvoiceLineItemRequest) (models.InvoiceLineItems, decimal.Decimal, error) {
	lines := make(models.InvoiceLineItems, len(reqs))
	subtotal := decimal.Zero
	for i, r := range reqs {
		if r.Amount.IsNegative() {
			return nil, decimal.Zero, invalid("line item amount must not be negative")
		}
		lines[i] = models.InvoiceLineItem{
			Description: r.Description,
			Amount:      r.Amount,
			TimeLogIDs:  append([]int(nil), r.TimeLogIDs...),
		}
		subtotal = subtotal.Add(r.Amount)
	}
	return lines, subtotal, nil
}

// checkClaims verifies every referenced time log exists and is not already
// claimed by a different invoice. Caller holds the lock.
func (d *DataContext) checkClaims(claims map[int]bool, invoiceID int) error {
	for id := range claims {
		log := d.findTimeLog(id)
		if log == nil {
			return notFound("time log", id)
		}
		if log.InvoiceID != nil && *log.InvoiceID != invoiceID {
			return invalid("time log %d is already billed on invoice %d", id, *log.InvoiceID)
		}
	}
	return nil
}

// setClaim writes a time log's invoice reference through the store only; the
// mirror copy is touched by the caller once the whole operation lands.
func (d *DataContext) setClaim(ctx context.Context, logID int, invoiceID *int) error {
	log := d.findTimeLog(logID)
	if log == nil {
		return notFound("time log", logID)
	}
	updated := cloneTimeLog(*log)
	updated.InvoiceID = invoiceID
	return d.store.UpdateTimeLog(ctx, &updated)
}

// AddInvoice creates an invoice and claims every time log its line items
// reference. The create and the claims are one logical unit: if a claim
// write fails, the claims already applied are reverted, the invoice row is
// removed, and the mirror is left untouched.
func (d *DataContext) AddInvoice(ctx context.Context, req models.InvoiceCreateRequest) (models.Invoice, error) {
	if len(req.LineItems) == 0 {
		return models.Invoice{}, invalid("invoice needs at least one line item")
	}
	if req.TaxRate.IsNegative() {
		return models.Invoice{}, invalid("tax rate must not be negative")
	}
	lines, subtotal, err := buildLineItems(req.LineItems)
	if err != nil {
		return models.Invoice{}, err
	}

	d.lock()
	defer d.unlock()

	if d.findProject(req.ProjectID) == nil {
		return models.Invoice{}, notFound("project", req.ProjectID)
	}

	dateIssued := req.DateIssued
	if dateIssued.IsZero() {
		dateIssued = d.now()
	}
	taxAmount := subtotal.Mul(req.TaxRate)
	invoice := models.Invoice{
		InvoiceID:  d.peekID("invoice"),
		ProjectID:  req.ProjectID,
		DateIssued: dateIssued,
		DueDate:    req.DueDate,
		Status:     models.InvoiceDraft,
		LineItems:  lines,
		Subtotal:   subtotal,
		TaxRate:    req.TaxRate,
		TaxAmount:  taxAmount,
		Total:      subtotal.Add(taxAmount),
	}

	claims := invoice.ClaimedTimeLogIDs()
	if err := d.checkClaims(claims, invoice.InvoiceID); err != nil {
		return models.Invoice{}, err
	}

	if err := d.store.CreateInvoice(ctx, &invoice); err != nil {
		return models.Invoice{}, err
	}

	claimed := make([]int, 0, len(claims))
	for logID := range claims {
		if err := d.setClaim(ctx, logID, &invoice.InvoiceID); err != nil {
			d.revertClaims(ctx, claimed, nil)
			if delErr := d.store.DeleteInvoice(ctx, invoice.InvoiceID); delErr != nil {
				d.log.Errorf("failed to undo invoice %d after claim failure: %v", invoice.InvoiceID, delErr)
			}
			return models.Invoice{}, err
		}
		claimed = append(claimed, logID)
	}

	d.commitID("invoice", invoice.InvoiceID)
	d.invoices = append(d.invoices, invoice)
	for logID := range claims {
		if log := d.findTimeLog(logID); log != nil {
			id := invoice.InvoiceID
			log.InvoiceID = &id
		}
	}
	d.saveSnapshot(ctx, "invoices", d.invoices)
	d.saveSnapshot(ctx, "time_logs", d.timeLogs)
	return cloneInvoice(invoice), nil
}

// revertClaims is the compensation path: point the given logs back at
// previous (nil to unclaim) through the store, logging anything that fails.
func (d *DataContext) revertClaims(ctx context.Context, logIDs []int, previous *int) {
	for _, logID := range logIDs {
		if err := d.setClaim(ctx, logID, previous); err != nil {
			d.log.Errorf("failed to revert claim on time log %d: %v", logID, err)
		}
	}
}

// UpdateInvoice replaces an invoice's billing fields and line items, then
// diffs the old and new claimed time log sets: logs no longer referenced are
// unclaimed, newly referenced ones are claimed. On failure everything applied
// so far is reverted.
func (d *DataContext) UpdateInvoice(ctx context.Context, id int, req models.InvoiceUpdateRequest) (models.Invoice, error) {
	d.lock()
	defer d.unlock()

	current := d.findInvoice(id)
	if current == nil {
		return models.Invoice{}, notFound("invoice", id)
	}

	updated := cloneInvoice(*current)
	if req.DateIssued != nil {
		updated.DateIssued = *req.DateIssued
	}
	if req.DueDate != nil {
		updated.DueDate = *req.DueDate
	}
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() {
			return models.Invoice{}, invalid("tax rate must not be negative")
		}
		updated.TaxRate = *req.TaxRate
	}
	if req.LineItems != nil {
		lines, subtotal, err := buildLineItems(req.LineItems)
		if err != nil {
			return models.Invoice{}, err
		}
		updated.LineItems = lines
		updated.Subtotal = subtotal
	}
	updated.TaxAmount = updated.Subtotal.Mul(updated.TaxRate)
	updated.Total = updated.Subtotal.Add(updated.TaxAmount)

	oldClaims := current.ClaimedTimeLogIDs()
	newClaims := updated.ClaimedTimeLogIDs()
	if err := d.checkClaims(newClaims, id); err != nil {
		return models.Invoice{}, err
	}

	if err := d.store.UpdateInvoice(ctx, &updated); err != nil {
		return models.Invoice{}, err
	}

	rollbackInvoice := func() {
		prev := cloneInvoice(*current)
		if err := d.store.UpdateInvoice(ctx, &prev); err != nil {
			d.log.Errorf("failed to revert invoice %d after claim failure: %v", id, err)
		}
	}

	var unclaimed, claimed []int
	for logID := range oldClaims {
		if newClaims[logID] {
			continue
		}
		if err := d.setClaim(ctx, logID, nil); err != nil {
			d.revertClaims(ctx, unclaimed, &id)
			rollbackInvoice()
			return models.Invoice{}, err
		}
		unclaimed = append(unclaimed, logID)
	}
	for logID := range newClaims {
		if oldClaims[logID] {
			continue
		}
		if err := d.setClaim(ctx, logID, &id); err != nil {
			d.revertClaims(ctx, claimed, nil)
			d.revertClaims(ctx, unclaimed, &id)
			rollbackInvoice()
			return models.Invoice{}, err
		}
		claimed = append(claimed, logID)
	}

	*current = updated
	for _, logID := range unclaimed {
		if log := d.findTimeLog(logID); log != nil {
			log.InvoiceID = nil
		}
	}
	for _, logID := range claimed {
		if log := d.findTimeLog(logID); log != nil {
			invID := id
			log.InvoiceID = &invID
		}
	}
	d.saveSnapshot(ctx, "invoices", d.invoices)
	d.saveSnapshot(ctx, "time_logs", d.timeLogs)
	return cloneInvoice(updated), nil
}

// DeleteInvoice removes an invoice and unclaims every time log it billed.
// The unclaims run first; if the row delete then fails, the claims are
// restored so no log dangles either way.
func (d *DataContext) DeleteInvoice(ctx context.Context, id int) error {
	d.lock()
	defer d.unlock()

	idx := -1
	for i := range d.invoices {
		if d.invoices[i].InvoiceID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return notFound("invoice", id)
	}

	claims := d.invoices[idx].ClaimedTimeLogIDs()
	var unclaimed []int
	for logID := range claims {
		if err := d.setClaim(ctx, logID, nil); err != nil {
			d.revertClaims(ctx, unclaimed, &id)
			return err
		}
		unclaimed = append(unclaimed, logID)
	}

	if err := d.store.DeleteInvoice(ctx, id); err != nil {
		d.revertClaims(ctx, unclaimed, &id)
		return err
	}

	d.invoices = append(d.invoices[:idx], d.invoices[idx+1:]...)
	for _, logID := range unclaimed {
		if log := d.findTimeLog(logID); log != nil {
			log.InvoiceID = nil
		}
	}
	d.saveSnapshot(ctx, "invoices", d.invoices)
	d.saveSnapshot(ctx, "time_logs", d.timeLogs)
	return nil
}

// UpdateInvoiceStatus moves an invoice between Draft, Sent, Paid and
// Overdue. Moving to Sent mails the admins, best-effort.
func (d *DataContext) UpdateInvoiceStatus(ctx context.Context, id int, status string) (models.Invoice, error) {
	if !models.ValidInvoiceStatus(status) {
		return models.Invoice{}, invalid("unknown invoice status %q", status)
	}

	d.lock()
	defer d.unlock()

	current := d.findInvoice(id)
	if current == nil {
		return models.Invoice{}, notFound("invoice", id)
	}
	if current.Status == status {
		return cloneInvoice(*current), nil
	}
	updated := cloneInvoice(*current)
	updated.Status = status
	if err := d.store.UpdateInvoice(ctx, &updated); err != nil {
		return models.Invoice{}, err
	}
	*current = updated
	d.saveSnapshot(ctx, "invoices", d.invoices)

	if status == models.InvoiceSent && d.mail != nil {
		var to []string
		for _, u := range d.users {
			if u.IsAdmin() && u.Email != "" {
				to = append(to, u.Email)
			}
		}
		projectName := ""
		if p := d.findProject(updated.ProjectID); p != nil {
			projectName = p.Name
		}
		subject := fmt.Sprintf("Invoice #%d sent", updated.InvoiceID)
		body := fmt.Sprintf("<p>Invoice #%d for project %s was marked sent. Total: %s.</p>",
			updated.InvoiceID, projectName, updated.Total.StringFixed(2))
		if err := d.mail(to, subject, body); err != nil {
			d.log.Warnf("invoice %d sent-mail failed: %v", updated.InvoiceID, err)
		}
	}
	return cloneInvoice(updated), nil
}
