package controllers

import (
	"net/http"

	"jobsite-api/models"

	"github.com/gin-gonic/gin"
)

// GetExpenses returns all expenses.
func GetExpenses(c *gin.Context) {
	respondOK(c, Data.Expenses())
}

// CreateExpense records a non-labor project cost.
func CreateExpense(c *gin.Context) {
	var req models.ExpenseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	expense, err := Data.AddExpense(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, expense)
}

// DeleteExpense removes an expense.
func DeleteExpense(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := Data.DeleteExpense(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Expense deleted"})
}
