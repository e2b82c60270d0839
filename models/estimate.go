package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EstimateItem is one line of an estimate. TotalCost is quantity times unit
// cost; EstimatedHours is only meaningful for Labor items.
type EstimateItem struct {
	Description    string          `json:"description"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	EstimatedHours float64         `json:"estimated_hours,omitempty"`
}

// EstimateItems is a jsonb-backed ordered collection of estimate items.
type EstimateItems []EstimateItem

// Value implements the driver.Valuer interface
func (e EstimateItems) Value() (driver.Value, error) {
	if e == nil {
		e = EstimateItems{}
	}
	return json.Marshal(e)
}

// Scan implements the sql.Scanner interface
func (e *EstimateItems) Scan(value interface{}) error {
	return scanJSON(value, e)
}

// Estimate represents the estimates table. TotalAmount and
// TotalEstimatedHours are derived from the items at write time.
type Estimate struct {
	EstimateID          int             `gorm:"primaryKey;column:estimate_id" json:"estimate_id"`
	ProjectID           int             `gorm:"column:project_id;index" json:"project_id"`
	Name                string          `gorm:"column:name" json:"name"`
	DateCreated         time.Time       `gorm:"column:date_created" json:"date_created"`
	Status              string          `gorm:"column:status" json:"status"`
	Items               EstimateItems   `gorm:"column:items;type:jsonb" json:"items"`
	TotalAmount         decimal.Decimal `gorm:"column:total_amount;type:decimal(20,4)" json:"total_amount"`
	TotalEstimatedHours float64         `gorm:"column:total_estimated_hours" json:"total_estimated_hours"`
}

// TableName overrides the table name for Estimate
func (Estimate) TableName() string {
	return "estimates"
}

// EstimateItemRequest is one item of an estimate payload; TotalCost is
// computed server-side.
type EstimateItemRequest struct {
	Description    string          `json:"description" binding:"required"`
	Type           string          `json:"type" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	EstimatedHours float64         `json:"estimated_hours"`
}

// EstimateCreateRequest is the payload for creating an estimate.
type EstimateCreateRequest struct {
	ProjectID int                   `json:"project_id" binding:"required"`
	Name      string                `json:"name" binding:"required"`
	Items     []EstimateItemRequest `json:"items" binding:"required"`
}
