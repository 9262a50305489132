package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := Open(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("postgres", "whatever"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
	if _, err := Open(DriverMySQL, " "); err == nil {
		t.Fatalf("expected error for empty mysql dsn")
	}
}

func TestRecordAssignsOpaqueID(t *testing.T) {
	gdb := openTestDB(t)

	item := ProjectItem{Title: "Portfolio", Category: CategoryWeekend}
	if err := gdb.Create(&item).Error; err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	if len(item.ID) != 21 {
		t.Fatalf("expected 21 character nanoid, got %q", item.ID)
	}

	preset := ProjectItem{Record: Record{ID: "fixed-id"}, Title: "Preset", Category: CategoryAI}
	if err := gdb.Create(&preset).Error; err != nil {
		t.Fatalf("failed to create preset item: %v", err)
	}
	if preset.ID != "fixed-id" {
		t.Fatalf("expected preset id to be kept, got %q", preset.ID)
	}
}

func TestStringListRoundTrip(t *testing.T) {
	gdb := openTestDB(t)

	item := ProjectItem{Title: "Dune", Category: CategoryBook, Tags: StringList{"Finished", "Sci-Fi"}}
	if err := gdb.Create(&item).Error; err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	var loaded ProjectItem
	if err := gdb.First(&loaded, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("failed to load item: %v", err)
	}
	if len(loaded.Tags) != 2 || loaded.Tags[0] != "Finished" || loaded.Tags[1] != "Sci-Fi" {
		t.Fatalf("unexpected tags: %#v", loaded.Tags)
	}

	empty := ProjectItem{Title: "No tags", Category: CategoryAI}
	if err := gdb.Create(&empty).Error; err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	if err := gdb.First(&loaded, "id = ?", empty.ID).Error; err != nil {
		t.Fatalf("failed to load item: %v", err)
	}
	if loaded.Tags == nil || len(loaded.Tags) != 0 {
		t.Fatalf("expected empty non-nil tags, got %#v", loaded.Tags)
	}
}

func TestBlogPostSlugIsUnique(t *testing.T) {
	gdb := openTestDB(t)

	first := BlogPost{Title: "A", Slug: "same", Status: BlogStatusDraft}
	if err := gdb.Create(&first).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	second := BlogPost{Title: "B", Slug: "same", Status: BlogStatusDraft}
	if err := gdb.Create(&second).Error; err == nil {
		t.Fatalf("expected unique constraint violation")
	}
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	gdb := openTestDB(t)

	created, err := EnsureUser(gdb, " Admin@Example.com ", "secret")
	if err != nil || !created {
		t.Fatalf("expected user to be created, got created=%v err=%v", created, err)
	}

	created, err = EnsureUser(gdb, "admin@example.com", "other")
	if err != nil || created {
		t.Fatalf("expected existing user to be kept, got created=%v err=%v", created, err)
	}

	created, err = EnsureUser(gdb, "", "secret")
	if err != nil || created {
		t.Fatalf("expected empty email to be ignored")
	}

	var count int64
	gdb.Model(&User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}
}

func TestLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf)
	query := func() (string, int64) { return "SELECT * FROM blog_posts WHERE slug = 'missing'", 0 }

	l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	if buf.Len() != 0 {
		t.Fatalf("expected record not found to be silent, got %q", buf.String())
	}

	l.Trace(context.Background(), time.Now(), query, errors.New("database is locked"))
	if !strings.Contains(buf.String(), "database is locked") {
		t.Fatalf("expected real errors to be logged, got %q", buf.String())
	}
}
