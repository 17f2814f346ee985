package models

import "time"

// WaitlistBackup is one record of the append-only fallback list.
type WaitlistBackup struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ListKey   string    `gorm:"not null;index:idx_waitlist_backups_list_key" json:"-"`
	EntryID   string    `gorm:"not null" json:"id"`
	Email     string    `gorm:"not null" json:"email"`
	UserType  string    `gorm:"not null" json:"userType"`
	Timestamp string    `gorm:"not null" json:"timestamp"`
	CreatedAt time.Time `json:"-"`
}

func (WaitlistBackup) TableName() string {
	return "waitlist_backups"
}
