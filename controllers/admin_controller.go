package controllers

import (
	"net/http"
	"time"

	"city-report-api/config"
	"city-report-api/models"
	"city-report-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetAllReports lists reports visible to the admin's scope, newest first.
func GetAllReports(c *gin.Context) {
	scope := scopeFromContext(c)

	var reports []models.Report
	if err := config.DB.Scopes(scope.ReportFilter()).
		Preload("Author").Preload("Category").Preload("Recipient").
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports, "total": len(reports)})
}

// GetAllUsers lists users visible to the admin's scope. With
// ?include_counts=true each user carries their report count.
func GetAllUsers(c *gin.Context) {
	scope := scopeFromContext(c)

	var users []models.User
	if err := config.DB.Scopes(scope.UserFilter()).
		Preload("Osbb").
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	if c.Query("include_counts") != "true" {
		c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
		return
	}

	type userWithCount struct {
		models.User
		ReportCount int64 `json:"report_count"`
	}
	result := make([]userWithCount, 0, len(users))
	for _, user := range users {
		var count int64
		config.DB.Model(&models.Report{}).Where("author_id = ?", user.ID).Count(&count)
		result = append(result, userWithCount{User: user, ReportCount: count})
	}

	c.JSON(http.StatusOK, gin.H{"users": result, "total": len(result)})
}

// UpdateReport applies an admin mutation (fields, status, notes) through the
// workflow engine.
func UpdateReport(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	scope := scopeFromContext(c)

	var patch services.UpdateReportPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := reportService.Update(c.Param("id"), userID, patch, scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// UpdateReportStatus is the status-only shortcut used by the dashboard's
// quick actions. Same workflow path as UpdateReport.
func UpdateReportStatus(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	scope := scopeFromContext(c)

	var req struct {
		Status string  `json:"status" binding:"required"`
		Notes  *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := services.UpdateReportPatch{Status: &req.Status, Notes: req.Notes}
	report, err := reportService.Update(c.Param("id"), userID, patch, scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
	OsbbID    *string `json:"osbb_id"`
	// Distinguishes "detach from association" from "leave unchanged".
	DetachOsbb bool `json:"detach_osbb"`
}

// UpdateUser edits a user account within the admin's scope. OSBB admins may
// not move users into or out of another association.
func UpdateUser(c *gin.Context) {
	scope := scopeFromContext(c)
	targetID := c.Param("id")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ?", targetID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !scope.AllowsMember(user.OsbbID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "User belongs to another association"})
		return
	}
	if scope.Role == models.RoleOsbbAdmin && (req.DetachOsbb || (req.OsbbID != nil && (user.OsbbID == nil || *req.OsbbID != *user.OsbbID))) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot change association membership"})
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.DetachOsbb {
		updates["osbb_id"] = nil
	} else if req.OsbbID != nil {
		updates["osbb_id"] = *req.OsbbID
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes a user without reports, cascading their history entries
// and notifications. Users with reports cannot be deleted.
func DeleteUser(c *gin.Context) {
	scope := scopeFromContext(c)
	targetID := c.Param("id")

	var user models.User
	if err := config.DB.Where("id = ?", targetID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !scope.AllowsMember(user.OsbbID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "User belongs to another association"})
		return
	}

	var reportCount int64
	if err := config.DB.Model(&models.Report{}).Where("author_id = ?", targetID).Count(&reportCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check user reports"})
		return
	}
	if reportCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete a user with existing reports"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", targetID).Delete(&models.ReportUpdate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ExportReports returns the scoped report set for CSV export, oldest first.
// Query filters: date_from / date_to (YYYY-MM-DD, inclusive), user_id,
// category_id, recipient_id, status. An empty value or "all" skips a filter.
func ExportReports(c *gin.Context) {
	scope := scopeFromContext(c)

	query := config.DB.Scopes(scope.ReportFilter()).
		Preload("Author").Preload("Category").Preload("Recipient")

	if from := c.Query("date_from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_from, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("created_at >= ?", parsed)
	}
	if to := c.Query("date_to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_to, expected YYYY-MM-DD"})
			return
		}
		// Inclusive end of day.
		query = query.Where("created_at < ?", parsed.AddDate(0, 0, 1))
	}
	for column, value := range map[string]string{
		"author_id":    c.Query("user_id"),
		"category_id":  c.Query("category_id"),
		"recipient_id": c.Query("recipient_id"),
		"status":       c.Query("status"),
	} {
		if value != "" && value != "all" {
			query = query.Where(column+" = ?", value)
		}
	}

	var reports []models.Report
	if err := query.Order("created_at ASC").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports, "total": len(reports)})
}

// GetDashboardStats returns the scoped status breakdown for the admin
// dashboard.
func GetDashboardStats(c *gin.Context) {
	scope := scopeFromContext(c)

	counts := map[string]int64{}
	for key, status := range map[string]string{
		"pending":     models.StatusNew,
		"in_progress": models.StatusInProgress,
		"resolved":    models.StatusDone,
	} {
		var n int64
		if err := config.DB.Model(&models.Report{}).Scopes(scope.ReportFilter()).
			Where("status = ?", status).Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
			return
		}
		counts[key] = n
	}

	var total int64
	if err := config.DB.Model(&models.Report{}).Scopes(scope.ReportFilter()).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	counts["total"] = total

	c.JSON(http.StatusOK, counts)
}
