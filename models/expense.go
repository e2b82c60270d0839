package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents the expenses table. Category is any cost category except
// Labor.
type Expense struct {
	ExpenseID   int             `gorm:"primaryKey;column:expense_id" json:"expense_id"`
	ProjectID   int             `gorm:"column:project_id;index" json:"project_id"`
	Description string          `gorm:"column:description" json:"description"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(20,4)" json:"amount"`
	Category    string          `gorm:"column:category" json:"category"`
	Date        time.Time       `gorm:"column:date" json:"date"`
}

// TableName overrides the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}

// ExpenseCreateRequest is the payload for recording an expense.
type ExpenseCreateRequest struct {
	ProjectID   int             `json:"project_id" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" binding:"required"`
	Date        time.Time       `json:"date"`
}
