package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment is a booked session with a counsellor.
type Appointment struct {
	ID         string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID     string         `gorm:"index;not null" json:"userId"`
	DoctorName string         `gorm:"not null" json:"doctorName"`
	Slot       string         `gorm:"not null" json:"slot"` // Free-form slot label chosen in the UI, e.g. "Mon 10:00 AM"
	Timestamp  time.Time      `gorm:"index;autoCreateTime" json:"timestamp"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"` // For soft deletes
}

// TableName specifies the table name for the Appointment model.
func (Appointment) TableName() string {
	return "appointments"
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
