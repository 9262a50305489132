package service

import (
	"testing"

	"github.com/portfolio/internal/db"
)

func TestSettingsServiceDefaultsBeforeFirstSave(t *testing.T) {
	svc := NewSettingsService(newTestDB(t))

	settings, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if settings != DefaultSiteSettings() {
		t.Fatalf("expected defaults, got %+v", settings)
	}
}

func TestSettingsServiceSetReplacesAllFields(t *testing.T) {
	gdb := newTestDB(t)
	var repo SettingsRepository = NewSettingsService(gdb)

	first := SiteSettings{
		BrandName:      " Jane.dev ",
		HeroTitle:      "Hi",
		ContactBtnText: "Email",
		ContactBtnURL:  "https://example.com/contact",
		GitHub:         "https://github.com/jane",
	}
	saved, err := repo.Set(first)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if saved.BrandName != "Jane.dev" {
		t.Fatalf("expected trimmed brand name, got %q", saved.BrandName)
	}
	if !saved.ContactOpensNewTab() {
		t.Fatalf("expected external contact url to open in new tab")
	}

	// 整体替换：未提供的字段被清空，而不是保留旧值
	second := SiteSettings{BrandName: "Jane", ContactBtnURL: "#contact"}
	if _, err := repo.Set(second); err != nil {
		t.Fatalf("second set: %v", err)
	}

	loaded, err := repo.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded != second {
		t.Fatalf("expected full replace, got %+v", loaded)
	}
	if loaded.ContactOpensNewTab() {
		t.Fatalf("expected in-page anchor to stay in the same tab")
	}

	var count int64
	gdb.Model(&db.SiteSetting{}).Count(&count)
	if count != int64(len(settingKeys)) {
		t.Fatalf("expected one row per key, got %d", count)
	}
}
