package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"city-report-api/models"

	"gorm.io/gorm"
)

// statusMessages maps each known report status to the canonical notification
// body sent to the report's author when the report enters that status.
// Unmapped statuses fall back through StatusMessage.
var statusMessages = map[string]string{
	models.StatusNew:        "report received and registered",
	models.StatusInProgress: "work on your report has begun",
	models.StatusDone:       "your report has been successfully resolved",
	models.StatusRejected:   "your report has been rejected",
}

// StatusMessage returns the canonical author-facing message for a status.
func StatusMessage(status string) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return "the status of your report has changed"
}

type ReportService struct {
	db            *gorm.DB
	notifications *NotificationService
	geocoder      Geocoder
}

func NewReportService(db *gorm.DB, notifications *NotificationService, geocoder Geocoder) *ReportService {
	return &ReportService{db: db, notifications: notifications, geocoder: geocoder}
}

type CreateReportInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Priority    string   `json:"priority"`
	Address     *string  `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	CategoryID  *string  `json:"category_id"`
	RecipientID *string  `json:"recipient_id"`
}

// UpdateReportPatch carries the admin-supplied mutation. Notes and Status
// feed the audit/notification flow; the remaining fields are plain updates.
type UpdateReportPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	CategoryID  *string `json:"category_id"`
	RecipientID *string `json:"recipient_id"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
}

// Create validates location data, persists the report with status NEW and
// sends the registration notification to the author. A report needs either
// explicit coordinates or an address the geocoder can resolve.
func (s *ReportService) Create(authorID string, input CreateReportInput) (*models.Report, error) {
	lat, lng := input.Latitude, input.Longitude
	if lat == nil || lng == nil {
		if input.Address == nil || strings.TrimSpace(*input.Address) == "" {
			return nil, &ValidationError{Message: "either coordinates or an address is required"}
		}
		resolvedLat, resolvedLng, err := s.geocoder.Resolve(*input.Address)
		if err != nil {
			if errors.Is(err, ErrAddressNotFound) {
				return nil, &ResolutionError{Address: *input.Address}
			}
			return nil, &ResolutionError{Address: *input.Address, Err: err}
		}
		lat, lng = &resolvedLat, &resolvedLng
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}

	report := models.Report{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.StatusNew,
		Priority:    priority,
		Address:     input.Address,
		Latitude:    lat,
		Longitude:   lng,
		AuthorID:    authorID,
		CategoryID:  input.CategoryID,
		RecipientID: input.RecipientID,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, err
	}

	s.notifyStatus(&report, models.StatusNew)
	return &report, nil
}

// Update applies an admin mutation to a report. The field updates, the
// status value and the history entry are committed in a single transaction;
// everything after the commit (notification, realtime push, email) is
// best-effort and can never fail the update.
func (s *ReportService) Update(reportID, actingUserID string, patch UpdateReportPatch, scope AccessScope) (*models.Report, error) {
	var report models.Report
	if err := s.db.Preload("Author").Where("id = ?", reportID).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "report"}
		}
		return nil, err
	}

	var authorOsbb *string
	if report.Author != nil {
		authorOsbb = report.Author.OsbbID
	}
	if !scope.AllowsMember(authorOsbb) {
		return nil, &ForbiddenError{Message: "report belongs to another association"}
	}

	notes := ""
	if patch.Notes != nil {
		notes = strings.TrimSpace(*patch.Notes)
	}
	statusChanged := patch.Status != nil && *patch.Status != report.Status
	previousStatus := report.Status

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.RecipientID != nil {
		updates["recipient_id"] = *patch.RecipientID
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			updates["updated_at"] = time.Now()
			if err := tx.Model(&models.Report{}).Where("id = ?", report.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Exactly one history entry per mutation: notes supersedes the
		// auto-generated status line when both are present.
		if statusChanged {
			description := notes
			if description == "" {
				description = fmt.Sprintf("status changed to %s", *patch.Status)
			}
			return tx.Create(&models.ReportUpdate{
				ReportID:    report.ID,
				Description: description,
				AuthorID:    actingUserID,
			}).Error
		}
		if notes != "" {
			return tx.Create(&models.ReportUpdate{
				ReportID:    report.ID,
				Description: notes,
				AuthorID:    actingUserID,
			}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var updated models.Report
	if err := s.db.Where("id = ?", report.ID).First(&updated).Error; err != nil {
		return nil, err
	}
	updated.Author = report.Author

	if statusChanged {
		log.Printf("Report %s status %s -> %s by %s", report.ID, previousStatus, updated.Status, actingUserID)
		s.notifyStatus(&updated, updated.Status)
	}
	return &updated, nil
}

// History returns the audit trail of a report, oldest first.
func (s *ReportService) History(reportID string) ([]models.ReportUpdate, error) {
	var entries []models.ReportUpdate
	if err := s.db.Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// notifyStatus emits the canonical status notification to the report's
// author. Failures are logged and swallowed: the durable report mutation has
// already committed and must not be rolled back by the notification path.
func (s *ReportService) notifyStatus(report *models.Report, status string) {
	if s.notifications == nil {
		return
	}
	reportID := report.ID
	notification, err := s.notifications.Create(CreateNotificationInput{
		UserID:   report.AuthorID,
		ReportID: &reportID,
		Title:    report.Title,
		Message:  StatusMessage(status),
		Type:     models.NotificationStatusChange,
		Priority: models.NotificationPriorityMedium,
	})
	if err != nil {
		log.Printf("Failed to create status notification for report %s: %v", report.ID, err)
		return
	}
	if notification == nil {
		// Author no longer exists; nothing to deliver.
		return
	}
	s.emailStatus(report, notification)
}
