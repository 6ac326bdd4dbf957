package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotificationStatusChange  = "REPORT_STATUS_CHANGE"
	NotificationReportUpdate  = "REPORT_UPDATE"
	NotificationGeneralUpdate = "GENERAL_UPDATE"
)

// Notification priorities (distinct from report priorities).
const (
	NotificationPriorityLow    = "LOW"
	NotificationPriorityMedium = "MEDIUM"
	NotificationPriorityHigh   = "HIGH"
)

type Notification struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	UserID    string    `gorm:"column:user_id" json:"user_id"`
	ReportID  *string   `gorm:"column:report_id" json:"report_id,omitempty"`
	Title     string    `gorm:"column:title" json:"title"`
	Message   string    `gorm:"column:message" json:"message"`
	Type      string    `gorm:"column:type" json:"type"`
	Priority  string    `gorm:"column:priority" json:"priority"`
	IsRead    bool      `gorm:"column:is_read" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	// Denormalized report projection for display, populated on reads.
	Report *ReportRef `gorm:"-" json:"report,omitempty"`
}

// ReportRef is the {id, title} projection attached to notifications.
type ReportRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

func (Notification) TableName() string { return "notifications" }
