package models

import "gorm.io/datatypes"

// KVRecord is a key → JSON blob row. The whole food log lives under a
// single key, mirroring the mobile client's key-value store.
type KVRecord struct {
	Key   string         `gorm:"primaryKey;type:varchar(255)"`
	Value datatypes.JSON `gorm:"not null"`
}
