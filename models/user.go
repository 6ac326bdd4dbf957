package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. OSBB admins are scoped to a single housing association,
// global admins are unconstrained.
const (
	RoleUser      = "USER"
	RoleOsbbAdmin = "OSBB_ADMIN"
	RoleAdmin     = "ADMIN"
)

type User struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Email     string    `gorm:"column:email;unique" json:"email"`
	Password  string    `gorm:"column:password" json:"-"`
	FirstName string    `gorm:"column:first_name" json:"first_name"`
	LastName  string    `gorm:"column:last_name" json:"last_name"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	Role      string    `gorm:"column:role" json:"role"`
	OsbbID    *string   `gorm:"column:osbb_id" json:"osbb_id,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Osbb *Osbb `gorm:"foreignKey:OsbbID" json:"osbb,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Osbb is a housing association, the tenant unit for scoped admins.
type Osbb struct {
	ID             string    `gorm:"primaryKey;column:id" json:"id"`
	Name           string    `gorm:"column:name" json:"name"`
	Address        string    `gorm:"column:address" json:"address"`
	InvitationCode string    `gorm:"column:invitation_code;unique" json:"invitation_code"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

func (o *Osbb) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Osbb) TableName() string {
	return "osbbs"
}
