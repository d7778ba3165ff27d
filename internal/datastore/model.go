package datastore

import "time"

// KeyValue is one persisted key.
type KeyValue struct {
	Key       string `gorm:"primaryKey;column:key_name;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName sets the table name for KeyValue.
func (KeyValue) TableName() string {
	return "key_values"
}
