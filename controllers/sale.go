package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"routeros-panel-api/config"
	"routeros-panel-api/models"
	"routeros-panel-api/utils"
)

// GetSales lists billing records, newest first.
func GetSales(c *gin.Context) {
	var sales []models.Sale
	if err := config.DB.Where("delete_at IS NULL").Order("create_at DESC").Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sales"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales, "total": len(sales)})
}

type saleRequest struct {
	CustomerName string  `json:"customer_name" binding:"required"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Channel      string  `json:"channel" binding:"omitempty,oneof=cash transfer gateway"`
}

// CreateSale records a billing event; the billed-event generator picks it up
// within its 24-hour window.
func CreateSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel := req.Channel
	if channel == "" {
		channel = "cash"
	}

	sale := models.Sale{
		CustomerName: utils.SanitizeInput(req.CustomerName),
		Amount:       req.Amount,
		Channel:      channel,
		CreateAt:     time.Now(),
	}
	if err := config.DB.Create(&sale).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sale"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sale": sale})
}

// DeleteSale soft-deletes a billing record.
func DeleteSale(c *gin.Context) {
	var sale models.Sale
	if err := config.DB.Where("sale_id = ? AND delete_at IS NULL", c.Param("id")).First(&sale).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}

	now := time.Now()
	sale.DeleteAt = &now
	if err := config.DB.Save(&sale).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sale"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted"})
}
