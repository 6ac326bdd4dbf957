package controllers

import (
	"net/http"

	"city-report-api/config"
	"city-report-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OsbbRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// CreateOsbb registers a housing association and issues its invitation
// code, which citizens use to attach their accounts on registration.
func CreateOsbb(c *gin.Context) {
	var req OsbbRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	osbb := models.Osbb{
		Name:           req.Name,
		Address:        req.Address,
		InvitationCode: uuid.NewString(),
	}
	if err := config.DB.Create(&osbb).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create association"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"osbb": osbb})
}

// GetAllOsbbs lists associations with their member counts, name order.
func GetAllOsbbs(c *gin.Context) {
	var osbbs []models.Osbb
	if err := config.DB.Order("name ASC").Find(&osbbs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch associations"})
		return
	}

	type osbbWithCount struct {
		models.Osbb
		MemberCount int64 `json:"member_count"`
	}
	result := make([]osbbWithCount, 0, len(osbbs))
	for _, osbb := range osbbs {
		var count int64
		config.DB.Model(&models.User{}).Where("osbb_id = ?", osbb.ID).Count(&count)
		result = append(result, osbbWithCount{Osbb: osbb, MemberCount: count})
	}

	c.JSON(http.StatusOK, gin.H{"osbbs": result, "total": len(result)})
}

// UpdateOsbb edits an association's name or address.
func UpdateOsbb(c *gin.Context) {
	var req struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var osbb models.Osbb
	if err := config.DB.Where("id = ?", c.Param("id")).First(&osbb).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Association not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if len(updates) > 0 {
		if err := config.DB.Model(&osbb).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update association"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"osbb": osbb})
}

// DeleteOsbb removes an association that has no members left.
func DeleteOsbb(c *gin.Context) {
	var osbb models.Osbb
	if err := config.DB.Where("id = ?", c.Param("id")).First(&osbb).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Association not found"})
		return
	}

	var memberCount int64
	if err := config.DB.Model(&models.User{}).Where("osbb_id = ?", osbb.ID).Count(&memberCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check members"})
		return
	}
	if memberCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete an association with members"})
		return
	}

	if err := config.DB.Delete(&osbb).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete association"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Association deleted successfully"})
}
