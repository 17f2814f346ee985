package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WaitlistEntry is a single signup. The email column carries the waitlist_email_key unique constraint.
type WaitlistEntry struct {
	ID           string    `gorm:"type:text;primaryKey" json:"id"`
	Email        string    `gorm:"not null;uniqueIndex:waitlist_email_key" json:"email"`
	CustomerType string    `gorm:"column:customer_type;not null" json:"customer_type"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist"
}

// BeforeCreate assigns an id for databases without the schema default, such as SQLite.
func (e *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
