// internals/features/schools/directory/model/setting_model.go
package model

import "time"

// Well-known keys of the settings table
const (
	SettingInitialized = "initialized"
	SettingLastBackup  = "last_backup"
)

// SettingModel is a lightweight key-value row for scalar application flags.
type SettingModel struct {
	SettingKey       string    `gorm:"type:varchar(64);primaryKey;column:setting_key" json:"setting_key"`
	SettingValue     string    `gorm:"type:text;not null;column:setting_value" json:"setting_value"`
	SettingUpdatedAt time.Time `gorm:"column:setting_updated_at;autoUpdateTime" json:"setting_updated_at"`
}

func (SettingModel) TableName() string { return "settings" }
