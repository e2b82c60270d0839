package services

import (
	"context"
	"strings"

	"jobsite-api/models"
)

// AddInventoryItem creates an inventory item with the next id.
func (d *DataContext) AddInventoryItem(ctx context.Context, req models.InventoryItemCreateRequest) (models.InventoryItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.InventoryItem{}, invalid("inventory item name is required")
	}
	if req.Quantity < 0 {
		return models.InventoryItem{}, invalid("inventory quantity must not be negative")
	}

	d.lock()
	defer d.unlock()

	item := models.InventoryItem{
		ItemID:            d.peekID("inventory_item"),
		Name:              strings.TrimSpace(req.Name),
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		LowStockThreshold: req.LowStockThreshold,
	}
	if err := d.store.CreateInventoryItem(ctx, &item); err != nil {
		return models.InventoryItem{}, err
	}
	d.commitID("inventory_item", item.ItemID)
	d.inventory = append(d.inventory, item)
	d.saveSnapshot(ctx, "inventory", d.inventory)
	return item, nil
}

// UpdateInventoryItem applies a partial update by id.
func (d *DataContext) UpdateInventoryItem(ctx context.Context, id int, req models.InventoryItemUpdateRequest) (models.InventoryItem, error) {
	d.lock()
	defer d.unlock()

	current := d.findInventoryItem(id)
	if current == nil {
		return models.InventoryItem{}, notFound("inventory item", id)
	}

	updated := *current
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return models.InventoryItem{}, invalid("inventory quantity must not be negative")
		}
		updated.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		updated.Unit = *req.Unit
	}
	if req.LowStockThreshold != nil {
		updated.LowStockThreshold = req.LowStockThreshold
	}

	if err := d.store.UpdateInventoryItem(ctx, &updated); err != nil {
		return models.InventoryItem{}, err
	}
	*current = updated
	d.saveSnapshot(ctx, "inventory", d.inventory)
	return updated, nil
}

// LowStockItems returns the items at or below their low stock threshold.
func (d *DataContext) LowStockItems() []models.InventoryItem {
	d.lock()
	defer d.unlock()
	var out []models.InventoryItem
	for _, item := range d.inventory {
		if item.IsLowStock() {
			out = append(out, item)
		}
	}
	return out
}
