package services

import (
	"errors"

	"city-report-api/models"

	"gorm.io/gorm"
)

// Dispatcher pushes a payload to all live connections of a user.
// Delivery is fire-and-forget; implementations must never block the caller
// on transport problems.
type Dispatcher interface {
	Dispatch(userID string, payload interface{})
}

type NotificationService struct {
	db         *gorm.DB
	dispatcher Dispatcher
}

func NewNotificationService(db *gorm.DB, dispatcher Dispatcher) *NotificationService {
	return &NotificationService{db: db, dispatcher: dispatcher}
}

type CreateNotificationInput struct {
	UserID   string  `json:"user_id" binding:"required"`
	ReportID *string `json:"report_id"`
	Title    string  `json:"title" binding:"required"`
	Message  string  `json:"message" binding:"required"`
	Type     string  `json:"type"`
	Priority string  `json:"priority"`
}

// Create persists a notification and pushes it to the recipient's live
// connections. When the target user does not exist it returns (nil, nil)
// and writes nothing: a dangling reference must never abort the report
// mutation that produced the notification.
func (s *NotificationService) Create(input CreateNotificationInput) (*models.Notification, error) {
	var user models.User
	if err := s.db.Where("id = ?", input.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	notification := models.Notification{
		UserID:   input.UserID,
		ReportID: input.ReportID,
		Title:    input.Title,
		Message:  input.Message,
		Type:     input.Type,
		Priority: input.Priority,
		IsRead:   false,
	}
	if notification.Type == "" {
		notification.Type = models.NotificationGeneralUpdate
	}
	if notification.Priority == "" {
		notification.Priority = models.NotificationPriorityLow
	}

	if err := s.db.Create(&notification).Error; err != nil {
		return nil, err
	}

	s.attachReportRefs([]*models.Notification{&notification})

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(notification.UserID, notification)
	}
	return &notification, nil
}

// ListForUser returns all notifications of a user, newest first.
func (s *NotificationService) ListForUser(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}

	refs := make([]*models.Notification, len(notifications))
	for i := range notifications {
		refs[i] = &notifications[i]
	}
	s.attachReportRefs(refs)
	return notifications, nil
}

// MarkRead flips a single notification to read.
func (s *NotificationService) MarkRead(id string) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.Where("id = ?", id).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "notification"}
		}
		return nil, err
	}

	if err := s.db.Model(&notification).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	notification.IsRead = true

	s.attachReportRefs([]*models.Notification{&notification})
	return &notification, nil
}

// MarkAllRead flips every unread notification of the user and returns the
// number affected. Zero is not an error.
func (s *NotificationService) MarkAllRead(userID string) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// attachReportRefs fills the {id, title} report projection. The relation is
// soft: notifications whose report has been deleted keep a nil projection.
func (s *NotificationService) attachReportRefs(notifications []*models.Notification) {
	ids := make([]string, 0, len(notifications))
	seen := map[string]bool{}
	for _, n := range notifications {
		if n.ReportID != nil && !seen[*n.ReportID] {
			seen[*n.ReportID] = true
			ids = append(ids, *n.ReportID)
		}
	}
	if len(ids) == 0 {
		return
	}

	var reports []models.Report
	if err := s.db.Select("id, title").Where("id IN ?", ids).Find(&reports).Error; err != nil {
		return
	}
	byID := make(map[string]models.Report, len(reports))
	for _, r := range reports {
		byID[r.ID] = r
	}
	for _, n := range notifications {
		if n.ReportID == nil {
			continue
		}
		if r, ok := byID[*n.ReportID]; ok {
			n.Report = &models.ReportRef{ID: r.ID, Title: r.Title}
		}
	}
}
