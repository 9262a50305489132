package db

import "time"

// SiteSetting 以键值对的形式存储全站唯一的设置记录。
type SiteSetting struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"size:100;uniqueIndex;not null"`
	Value     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 自定义表名以保持命名一致。
func (SiteSetting) TableName() string {
	return "site_settings"
}

const (
	SettingKeyBrandName      = "brand_name"
	SettingKeyHeroTitle      = "hero_title"
	SettingKeyHeroSubtitle   = "hero_subtitle"
	SettingKeyContactBtnText = "contact_btn_text"
	SettingKeyContactBtnURL  = "contact_btn_url"
	SettingKeyLinkedIn       = "linkedin"
	SettingKeyTwitter        = "twitter"
	SettingKeyGitHub         = "github"
)
