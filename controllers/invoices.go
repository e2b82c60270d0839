package controllers

import (
	"net/http"

	"jobsite-api/models"

	"github.com/gin-gonic/gin"
)

// GetInvoices returns all invoices.
func GetInvoices(c *gin.Context) {
	respondOK(c, Data.Invoices())
}

// CreateInvoice creates an invoice and claims the time logs its line items
// reference.
func CreateInvoice(c *gin.Context) {
	var req models.InvoiceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	invoice, err := Data.AddInvoice(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, invoice)
}

// UpdateInvoice replaces an invoice's content, reconciling time log claims
// against the new line items.
func UpdateInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.InvoiceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	invoice, err := Data.UpdateInvoice(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, invoice)
}

// UpdateInvoiceStatus changes an invoice's lifecycle status.
func UpdateInvoiceStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	invoice, err := Data.UpdateInvoiceStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, invoice)
}

// DeleteInvoice removes an invoice and releases its time log claims.
func DeleteInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := Data.DeleteInvoice(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invoice deleted"})
}
