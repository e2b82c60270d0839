package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLineItem is one billed line. TimeLogIDs lists the time logs the line
// bills, if any; those logs carry the invoice id while the invoice exists.
type InvoiceLineItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	TimeLogIDs  []int           `json:"time_log_ids,omitempty"`
}

// InvoiceLineItems is a jsonb-backed ordered collection of invoice lines.
type InvoiceLineItems []InvoiceLineItem

// Value implements the driver.Valuer interface
func (i InvoiceLineItems) Value() (driver.Value, error) {
	if i == nil {
		i = InvoiceLineItems{}
	}
	return json.Marshal(i)
}

// Scan implements the sql.Scanner interface
func (i *InvoiceLineItems) Scan(value interface{}) error {
	return scanJSON(value, i)
}

// Invoice represents the invoices table. Subtotal, TaxAmount and Total are
// derived from the line items and the tax rate at write time.
type Invoice struct {
	InvoiceID  int              `gorm:"primaryKey;column:invoice_id" json:"invoice_id"`
	ProjectID  int              `gorm:"column:project_id;index" json:"project_id"`
	DateIssued time.Time        `gorm:"column:date_issued" json:"date_issued"`
	DueDate    time.Time        `gorm:"column:due_date" json:"due_date"`
	Status     string           `gorm:"column:status" json:"status"`
	LineItems  InvoiceLineItems `gorm:"column:line_items;type:jsonb" json:"line_items"`
	Subtotal   decimal.Decimal  `gorm:"column:subtotal;type:decimal(20,4)" json:"subtotal"`
	TaxRate    decimal.Decimal  `gorm:"column:tax_rate;type:decimal(10,4)" json:"tax_rate"`
	TaxAmount  decimal.Decimal  `gorm:"column:tax_amount;type:decimal(20,4)" json:"tax_amount"`
	Total      decimal.Decimal  `gorm:"column:total;type:decimal(20,4)" json:"total"`
}

// TableName overrides the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// ClaimedTimeLogIDs returns the de-duplicated set of time log ids referenced
// by the invoice's line items.
func (inv *Invoice) ClaimedTimeLogIDs() map[int]bool {
	claimed := make(map[int]bool)
	for _, line := range inv.LineItems {
		for _, id := range line.TimeLogIDs {
			claimed[id] = true
		}
	}
	return claimed
}

// InvoiceLineItemRequest is one line of an invoice payload.
type InvoiceLineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	TimeLogIDs  []int           `json:"time_log_ids"`
}

// InvoiceCreateRequest is the payload for creating an invoice.
type InvoiceCreateRequest struct {
	ProjectID  int                      `json:"project_id" binding:"required"`
	DateIssued time.Time                `json:"date_issued"`
	DueDate    time.Time                `json:"due_date"`
	TaxRate    decimal.Decimal          `json:"tax_rate"`
	LineItems  []InvoiceLineItemRequest `json:"line_items" binding:"required"`
}

// InvoiceUpdateRequest replaces the line items and billing fields of an
// existing invoice; time log claims are re-diffed against the new lines.
type InvoiceUpdateRequest struct {
	DateIssued *time.Time               `json:"date_issued,omitempty"`
	DueDate    *time.Time               `json:"due_date,omitempty"`
	TaxRate    *decimal.Decimal         `json:"tax_rate,omitempty"`
	LineItems  []InvoiceLineItemRequest `json:"line_items,omitempty"`
}
