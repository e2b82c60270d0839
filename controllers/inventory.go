package controllers

import (
	"net/http"

	"jobsite-api/models"

	"github.com/gin-gonic/gin"
)

// GetInventory returns all inventory items.
func GetInventory(c *gin.Context) {
	respondOK(c, Data.Inventory())
}

// GetLowStock returns items at or below their reorder threshold.
func GetLowStock(c *gin.Context) {
	respondOK(c, Data.LowStockItems())
}

// CreateInventoryItem adds a material to the inventory.
func CreateInventoryItem(c *gin.Context) {
	var req models.InventoryItemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	item, err := Data.AddInventoryItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, item)
}

// UpdateInventoryItem applies a partial update to an inventory item.
func UpdateInventoryItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.InventoryItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	item, err := Data.UpdateInventoryItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, item)
}
