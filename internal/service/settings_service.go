package service

import (
	"fmt"
	"strings"

	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteSettings 描述全站唯一的设置记录：品牌、首屏文案与社交链接。
type SiteSettings struct {
	BrandName      string `json:"brandName"`
	HeroTitle      string `json:"heroTitle"`
	HeroSubtitle   string `json:"heroSubtitle"`
	ContactBtnText string `json:"contactBtnText"`
	ContactBtnURL  string `json:"contactBtnUrl"`
	LinkedIn       string `json:"linkedin"`
	Twitter        string `json:"twitter"`
	GitHub         string `json:"github"`
}

// ContactOpensNewTab reports whether the contact button points off-site.
func (s SiteSettings) ContactOpensNewTab() bool {
	return strings.HasPrefix(s.ContactBtnURL, "http")
}

// DefaultSiteSettings 返回尚未保存过设置时使用的默认值。
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		BrandName:      "Sagar.dev",
		HeroTitle:      "Building the Future with AI & Engineering",
		HeroSubtitle:   "I'm Sagar Arora, a software engineer passionate about scalable systems, AI initiatives, and crafting exceptional digital experiences.",
		ContactBtnText: "Contact Me",
		ContactBtnURL:  "#contact",
	}
}

// SettingsRepository 是全站设置的读写入口，由调用方显式注入。
type SettingsRepository interface {
	Get() (SiteSettings, error)
	Set(settings SiteSettings) (SiteSettings, error)
}

// SettingsService 提供系统设置的读取与整体替换能力。
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService 构造 SettingsService。
func NewSettingsService(gdb *gorm.DB) *SettingsService {
	return &SettingsService{db: gdb}
}

var settingKeys = []string{
	db.SettingKeyBrandName,
	db.SettingKeyHeroTitle,
	db.SettingKeyHeroSubtitle,
	db.SettingKeyContactBtnText,
	db.SettingKeyContactBtnURL,
	db.SettingKeyLinkedIn,
	db.SettingKeyTwitter,
	db.SettingKeyGitHub,
}

// Get 读取站点设置；从未保存过时返回默认值。
func (s *SettingsService) Get() (SiteSettings, error) {
	var records []db.SiteSetting
	if err := s.db.Where("`key` IN ?", settingKeys).Find(&records).Error; err != nil {
		return DefaultSiteSettings(), storeError("load site settings", err)
	}

	if len(records) == 0 {
		return DefaultSiteSettings(), nil
	}

	var result SiteSettings
	for _, record := range records {
		if field := result.field(record.Key); field != nil {
			*field = record.Value
		}
	}
	return result, nil
}

// Set 整体替换站点设置，所有键在同一事务中写入。首次保存即隐式创建记录。
func (s *SettingsService) Set(input SiteSettings) (SiteSettings, error) {
	sanitized := SiteSettings{
		BrandName:      strings.TrimSpace(input.BrandName),
		HeroTitle:      strings.TrimSpace(input.HeroTitle),
		HeroSubtitle:   strings.TrimSpace(input.HeroSubtitle),
		ContactBtnText: strings.TrimSpace(input.ContactBtnText),
		ContactBtnURL:  strings.TrimSpace(input.ContactBtnURL),
		LinkedIn:       strings.TrimSpace(input.LinkedIn),
		Twitter:        strings.TrimSpace(input.Twitter),
		GitHub:         strings.TrimSpace(input.GitHub),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, key := range settingKeys {
			if err := upsertSetting(tx, key, *sanitized.field(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SiteSettings{}, storeError("update site settings", err)
	}

	return sanitized, nil
}

func (s *SiteSettings) field(key string) *string {
	switch key {
	case db.SettingKeyBrandName:
		return &s.BrandName
	case db.SettingKeyHeroTitle:
		return &s.HeroTitle
	case db.SettingKeyHeroSubtitle:
		return &s.HeroSubtitle
	case db.SettingKeyContactBtnText:
		return &s.ContactBtnText
	case db.SettingKeyContactBtnURL:
		return &s.ContactBtnURL
	case db.SettingKeyLinkedIn:
		return &s.LinkedIn
	case db.SettingKeyTwitter:
		return &s.Twitter
	case db.SettingKeyGitHub:
		return &s.GitHub
	}
	return nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SiteSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
