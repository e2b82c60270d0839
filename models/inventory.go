package models

// InventoryItem represents the inventory_items table.
type InventoryItem struct {
	ItemID            int      `gorm:"primaryKey;column:item_id" json:"item_id"`
	Name              string   `gorm:"column:name" json:"name"`
	Quantity          float64  `gorm:"column:quantity" json:"quantity"`
	Unit              string   `gorm:"column:unit" json:"unit"`
	LowStockThreshold *float64 `gorm:"column:low_stock_threshold" json:"low_stock_threshold,omitempty"`
}

// TableName overrides the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsLowStock reports whether the quantity is at or below the configured
// threshold, when one is set.
func (i *InventoryItem) IsLowStock() bool {
	return i.LowStockThreshold != nil && i.Quantity <= *i.LowStockThreshold
}

// InventoryItemCreateRequest is the payload for adding an inventory item.
type InventoryItemCreateRequest struct {
	Name              string   `json:"name" binding:"required"`
	Quantity          float64  `json:"quantity"`
	Unit              string   `json:"unit"`
	LowStockThreshold *float64 `json:"low_stock_threshold"`
}

// InventoryItemUpdateRequest is a partial update; nil fields are left
// unchanged.
type InventoryItemUpdateRequest struct {
	Name              *string  `json:"name,omitempty"`
	Quantity          *float64 `json:"quantity,omitempty"`
	Unit              *string  `json:"unit,omitempty"`
	LowStockThreshold *float64 `json:"low_stock_threshold,omitempty"`
}
