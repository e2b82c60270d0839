package services

import (
	"context"
	"strings"

	"jobsite-api/models"

	"github.com/shopspring/decimal"
)

// AddEstimate creates an estimate in Draft status. Item totals, the estimate
// total and the estimated hours are derived here; only Labor items contribute
// hours.
func (d *DataContext) AddEstimate(ctx context.Context, req models.EstimateCreateRequest) (models.Estimate, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.Estimate{}, invalid("estimate name is required")
	}
	if len(req.Items) == 0 {
		return models.Estimate{}, invalid("estimate needs at least one item")
	}

	items := make(models.EstimateItems, len(req.Items))
	total := decimal.Zero
	var hours float64
	for i, it := range req.Items {
		if !models.ValidCostCategory(it.Type) {
			return models.Estimate{}, invalid("unknown estimate item type %q", it.Type)
		}
		lineTotal := it.Quantity.Mul(it.UnitCost)
		items[i] = models.EstimateItem{
			Description: it.Description,
			Type:        it.Type,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitCost:    it.UnitCost,
			TotalCost:   lineTotal,
		}
		if it.Type == models.CategoryLabor {
			items[i].EstimatedHours = it.EstimatedHours
			hours += it.EstimatedHours
		}
		total = total.Add(lineTotal)
	}

	d.lock()
	defer d.unlock()

	if d.findProject(req.ProjectID) == nil {
		return models.Estimate{}, notFound("project", req.ProjectID)
	}

	estimate := models.Estimate{
		EstimateID:          d.peekID("estimate"),
		ProjectID:           req.ProjectID,
		Name:                strings.TrimSpace(req.Name),
		DateCreated:         d.now(),
		Status:              models.EstimateDraft,
		Items:               items,
		TotalAmount:         total,
		TotalEstimatedHours: hours,
	}
	if err := d.store.CreateEstimate(ctx, &estimate); err != nil {
		return models.Estimate{}, err
	}
	d.commitID("estimate", estimate.EstimateID)
	d.estimates = append(d.estimates, estimate)
	d.saveSnapshot(ctx, "estimates", d.estimates)
	return estimate, nil
}

// UpdateEstimateStatus moves an estimate between Draft, Approved and
// Rejected. Re-applying the current status is a no-op on every other field.
func (d *DataContext) UpdateEstimateStatus(ctx context.Context, id int, status string) (models.Estimate, error) {
	if !models.ValidEstimateStatus(status) {
		return models.Estimate{}, invalid("unknown estimate status %q", status)
	}

	d.lock()
	defer d.unlock()

	current := d.findEstimate(id)
	if current == nil {
		return models.Estimate{}, notFound("estimate", id)
	}
	if current.Status == status {
		return *current, nil
	}
	updated := *current
	updated.Status = status
	if err := d.store.UpdateEstimate(ctx, &updated); err != nil {
		return models.Estimate{}, err
	}
	*current = updated
	d.saveSnapshot(ctx, "estimates", d.estimates)
	return updated, nil
}
