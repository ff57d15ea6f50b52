package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"routeros-panel-api/config"
	"routeros-panel-api/models"
)

// GetRouters lists registered routers.
func GetRouters(c *gin.Context) {
	var routers []models.Router
	if err := config.DB.Where("delete_at IS NULL").Order("router_id ASC").Find(&routers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list routers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"routers": routers, "total": len(routers)})
}

// GetRouter returns one router.
func GetRouter(c *gin.Context) {
	var router models.Router
	if err := config.DB.Where("router_id = ? AND delete_at IS NULL", c.Param("id")).First(&router).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Router not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"router": router})
}

type routerRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
	Enabled  *bool  `json:"enabled"`
}

// CreateRouter registers a MikroTik device.
func CreateRouter(c *gin.Context) {
	var req routerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	now := time.Now()
	router := models.Router{
		Name:     req.Name,
		Address:  req.Address,
		Username: req.Username,
		Password: req.Password,
		Enabled:  enabled,
		CreateAt: &now,
		UpdateAt: &now,
	}
	if err := config.DB.Create(&router).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create router"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"router": router})
}

// UpdateRouter edits a registered device. An empty password keeps the stored
// one.
func UpdateRouter(c *gin.Context) {
	var router models.Router
	if err := config.DB.Where("router_id = ? AND delete_at IS NULL", c.Param("id")).First(&router).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Router not found"})
		return
	}

	var req routerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	router.Name = req.Name
	router.Address = req.Address
	router.Username = req.Username
	if req.Password != "" {
		router.Password = req.Password
	}
	if req.Enabled != nil {
		router.Enabled = *req.Enabled
	}
	now := time.Now()
	router.UpdateAt = &now

	if err := config.DB.Save(&router).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update router"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"router": router})
}

// DeleteRouter soft-deletes a device; its notifications stay.
func DeleteRouter(c *gin.Context) {
	var router models.Router
	if err := config.DB.Where("router_id = ? AND delete_at IS NULL", c.Param("id")).First(&router).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Router not found"})
		return
	}

	now := time.Now()
	router.DeleteAt = &now
	router.Enabled = false
	if err := config.DB.Save(&router).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete router"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Router deleted"})
}
