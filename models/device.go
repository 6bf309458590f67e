package models

import (
	"time"

	"gorm.io/gorm"
)

// A mobile device that registered for an API token. There are no user
// accounts; the device is the identity.
type Device struct {
	gorm.Model
	DeviceID   string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Platform   string
	LastSeenAt time.Time
}
