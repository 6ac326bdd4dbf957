package controllers

import (
	"net/http"

	"city-report-api/config"
	"city-report-api/models"
	"city-report-api/services"

	"github.com/gin-gonic/gin"
)

// CreateReport files a new citizen report. The workflow engine validates
// location data and emits the registration notification.
func CreateReport(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input services.CreateReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := reportService.Create(userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// GetMyReports lists the caller's own reports, newest first.
func GetMyReports(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	var reports []models.Report
	if err := config.DB.Preload("Category").Preload("Recipient").
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports, "total": len(reports)})
}

// GetReport returns one report with its audit history. Citizens may only
// read their own reports; admins are held to the same tenant scope as the
// admin listing.
func GetReport(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	reportID := c.Param("id")

	var report models.Report
	if err := config.DB.Preload("Author").Preload("Category").Preload("Recipient").
		Where("id = ?", reportID).
		First(&report).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	if report.AuthorID != userID {
		role, _ := c.Get("role")
		if role == models.RoleUser {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		var authorOsbb *string
		if report.Author != nil {
			authorOsbb = report.Author.OsbbID
		}
		if !scopeFromContext(c).AllowsMember(authorOsbb) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Report belongs to another association"})
			return
		}
	}

	history, err := reportService.History(report.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report, "history": history})
}

// GetCategories lists report categories.
func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Order("name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetRecipients lists municipal services a report can be addressed to.
func GetRecipients(c *gin.Context) {
	var recipients []models.Recipient
	if err := config.DB.Order("name ASC").Find(&recipients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipients": recipients})
}
