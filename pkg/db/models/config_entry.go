package models

import "time"

// ConfigEntry is one key in the lookup dictionary store. Value holds a JSON
// document; the engine never interprets it beyond handing it to clients.
type ConfigEntry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ConfigEntry) TableName() string {
	return "config_entries"
}
