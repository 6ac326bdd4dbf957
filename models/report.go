package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report lifecycle statuses. NEW is the only initial status; DONE and
// REJECTED are terminal for notification purposes but transitions out of
// them are not blocked.
const (
	StatusNew        = "NEW"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusRejected   = "REJECTED"
)

// Report priorities.
const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityUrgent = "URGENT"
)

type Report struct {
	ID          string    `gorm:"primaryKey;column:id" json:"id"`
	Title       string    `gorm:"column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Status      string    `gorm:"column:status" json:"status"`
	Priority    string    `gorm:"column:priority" json:"priority"`
	Address     *string   `gorm:"column:address" json:"address,omitempty"`
	Latitude    *float64  `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude   *float64  `gorm:"column:longitude" json:"longitude,omitempty"`
	AuthorID    string    `gorm:"column:author_id" json:"author_id"`
	CategoryID  *string   `gorm:"column:category_id" json:"category_id,omitempty"`
	RecipientID *string   `gorm:"column:recipient_id" json:"recipient_id,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Author    *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Category  *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Recipient *Recipient `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReportUpdate is the append-only audit history of a report. Entries are
// never modified after creation.
type ReportUpdate struct {
	ID          string    `gorm:"primaryKey;column:id" json:"id"`
	ReportID    string    `gorm:"column:report_id" json:"report_id"`
	Description string    `gorm:"column:description" json:"description"`
	AuthorID    string    `gorm:"column:author_id" json:"author_id"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (u *ReportUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Category struct {
	ID   string `gorm:"primaryKey;column:id" json:"id"`
	Name string `gorm:"column:name" json:"name"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Recipient is the municipal service a report is addressed to.
type Recipient struct {
	ID   string `gorm:"primaryKey;column:id" json:"id"`
	Name string `gorm:"column:name" json:"name"`
}

func (r *Recipient) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides
func (Report) TableName() string {
	return "reports"
}

func (ReportUpdate) TableName() string {
	return "report_updates"
}

func (Category) TableName() string {
	return "categories"
}

func (Recipient) TableName() string {
	return "recipients"
}
