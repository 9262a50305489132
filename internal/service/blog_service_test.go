package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(db.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
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

// fixedClock 返回一个每次调用前进 step 的时钟。
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}

func TestBlogServiceCreateDraftDerivesFields(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewBlogService(gdb)
	created := time.Date(2024, 3, 1, 10, 0, 0, 123_000_000, time.UTC)
	svc.SetClock(func() time.Time { return created })

	post, err := svc.Create(BlogInput{Title: "Hello World", Content: words(150), Status: "draft", Tags: []string{" Go ", ""}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if post.ReadingTime != 1 {
		t.Fatalf("expected reading time 1, got %d", post.ReadingTime)
	}
	if post.PublishedAt != nil {
		t.Fatalf("expected draft to have no publish time, got %v", post.PublishedAt)
	}
	if want := fmt.Sprintf("hello-world-%04d", created.UnixMilli()%10000); post.Slug != want {
		t.Fatalf("expected slug %q, got %q", want, post.Slug)
	}
	if post.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if !post.CreatedAt.Equal(created) || !post.UpdatedAt.Equal(created) {
		t.Fatalf("expected timestamps from service clock, got %v / %v", post.CreatedAt, post.UpdatedAt)
	}
	if len(post.Tags) != 1 || post.Tags[0] != "Go" {
		t.Fatalf("expected normalized tags, got %#v", post.Tags)
	}

	stored, err := svc.Get(post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Slug != post.Slug || stored.Status != db.BlogStatusDraft {
		t.Fatalf("unexpected stored post: %+v", stored)
	}
}

func TestBlogServiceCreateRequiresTitle(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewBlogService(gdb)

	if _, err := svc.Create(BlogInput{Title: "   ", Content: "body"}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := svc.Create(BlogInput{Title: "x", Status: "archived"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	var count int64
	gdb.Model(&db.BlogPost{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no rows written, got %d", count)
	}
}

func TestBlogServicePublishOnce(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewBlogService(gdb)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.SetClock(fixedClock(start, time.Minute))

	post, err := svc.Create(BlogInput{Title: "Hello World", Content: words(150), Status: "draft"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	published, err := svc.Update(post.ID, BlogInput{Title: "Hello World", Content: words(150), Status: "published"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatalf("expected publish time after first publish")
	}
	firstPublish := *published.PublishedAt

	again, err := svc.Update(post.ID, BlogInput{Title: "Hello World", Content: words(150), Status: "published"})
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(firstPublish) {
		t.Fatalf("expected publish time unchanged, got %v want %v", again.PublishedAt, firstPublish)
	}
	if again.ReadingTime != published.ReadingTime {
		t.Fatalf("expected identical reading time on repeated update")
	}
	if !again.UpdatedAt.After(published.UpdatedAt) {
		t.Fatalf("expected updatedAt to advance on every write")
	}

	unpublished, err := svc.Update(post.ID, BlogInput{Title: "Hello World", Content: words(10), Status: "draft"})
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if unpublished.PublishedAt == nil || !unpublished.PublishedAt.Equal(firstPublish) {
		t.Fatalf("expected publish time kept after returning to draft")
	}

	republished, err := svc.Update(post.ID, BlogInput{Title: "Hello World", Content: words(10), Status: "published"})
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if !republished.PublishedAt.Equal(firstPublish) {
		t.Fatalf("expected publish time to stay at first publish, got %v", republished.PublishedAt)
	}

	stored, err := svc.Get(post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.PublishedAt == nil || !stored.PublishedAt.Equal(firstPublish) {
		t.Fatalf("expected stored publish time %v, got %v", firstPublish, stored.PublishedAt)
	}
	if !stored.CreatedAt.Equal(start) {
		t.Fatalf("expected createdAt unchanged, got %v", stored.CreatedAt)
	}
}

func TestBlogServiceCreatePublishedSetsPublishTime(t *testing.T) {
	svc := NewBlogService(newTestDB(t))
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	post, err := svc.Create(BlogInput{Title: "Launch", Status: "Published"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(now) {
		t.Fatalf("expected publish time %v, got %v", now, post.PublishedAt)
	}
	if post.ReadingTime != 0 {
		t.Fatalf("expected zero reading time for empty content, got %d", post.ReadingTime)
	}
}

func TestBlogServiceDerivedSlugRetriesOnCollision(t *testing.T) {
	svc := NewBlogService(newTestDB(t))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	first, err := svc.Create(BlogInput{Title: "Same Title"})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(BlogInput{Title: "Same Title"})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.Slug == second.Slug {
		t.Fatalf("expected distinct slugs, both were %q", first.Slug)
	}
	if want := DeriveSlug("Same Title", now.Add(time.Millisecond)); second.Slug != want {
		t.Fatalf("expected retry slug %q, got %q", want, second.Slug)
	}
}

func TestBlogServiceExplicitSlug(t *testing.T) {
	svc := NewBlogService(newTestDB(t))

	post, err := svc.Create(BlogInput{Title: "Anything", Slug: "  My Custom Slug! "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.Slug != "my-custom-slug" {
		t.Fatalf("expected normalized slug, got %q", post.Slug)
	}

	if _, err := svc.Create(BlogInput{Title: "Other", Slug: "my-custom-slug"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
	if _, err := svc.Create(BlogInput{Title: "Other", Slug: "!!!"}); !errors.Is(err, ErrSlugInvalid) {
		t.Fatalf("expected ErrSlugInvalid, got %v", err)
	}

	// 更新时保留自身 slug 不视为冲突
	if _, err := svc.Update(post.ID, BlogInput{Title: "Anything", Slug: "my-custom-slug"}); err != nil {
		t.Fatalf("update with own slug: %v", err)
	}

	renamed, err := svc.Update(post.ID, BlogInput{Title: "Renamed"})
	if err != nil {
		t.Fatalf("update without slug: %v", err)
	}
	if renamed.Slug != "my-custom-slug" {
		t.Fatalf("expected slug to stay stable on title change, got %q", renamed.Slug)
	}
}

func TestBlogServiceGetBySlugAndNotFound(t *testing.T) {
	svc := NewBlogService(newTestDB(t))

	post, err := svc.Create(BlogInput{Title: "Findable", Slug: "findable"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := svc.GetBySlug("findable")
	if err != nil || found.ID != post.ID {
		t.Fatalf("expected to find post by slug, got %v, %v", found, err)
	}

	if _, err := svc.GetBySlug("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Update("missing", BlogInput{Title: "x"}); !errors.Is(err, ErrBlogPostNotFound) {
		t.Fatalf("expected ErrBlogPostNotFound on update, got %v", err)
	}
}

func TestBlogServiceDeleteIsIdempotent(t *testing.T) {
	svc := NewBlogService(newTestDB(t))

	post, err := svc.Create(BlogInput{Title: "Temporary"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(post.ID); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if _, err := svc.Get(post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted post to be gone, got %v", err)
	}
}

func TestBlogServiceListPublished(t *testing.T) {
	svc := NewBlogService(newTestDB(t))
	svc.SetClock(fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour))

	older, err := svc.Create(BlogInput{Title: "Older", Status: "published"})
	if err != nil {
		t.Fatalf("create older: %v", err)
	}
	if _, err := svc.Create(BlogInput{Title: "Draft"}); err != nil {
		t.Fatalf("create draft: %v", err)
	}
	newer, err := svc.Create(BlogInput{Title: "Newer", Status: "published"})
	if err != nil {
		t.Fatalf("create newer: %v", err)
	}

	posts, err := svc.ListPublished()
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != newer.ID || posts[1].ID != older.ID {
		t.Fatalf("unexpected published order: %+v", posts)
	}

	all, err := svc.ListAll()
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 || all[0].ID != newer.ID {
		t.Fatalf("expected all posts newest first, got %+v", all)
	}
}

func TestBlogServiceCheckWritesNothing(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewBlogService(gdb)

	existing, err := svc.Create(BlogInput{Title: "Taken", Slug: "taken"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name  string
		id    string
		input BlogInput
		want  error
	}{
		{name: "valid create", input: BlogInput{Title: "Fresh"}},
		{name: "valid update keeps own slug", id: existing.ID, input: BlogInput{Title: "Taken", Slug: "taken"}},
		{name: "blank title", input: BlogInput{Title: "  "}, want: ErrTitleRequired},
		{name: "bad status", input: BlogInput{Title: "x", Status: "archived"}, want: ErrStatusInvalid},
		{name: "duplicate slug", input: BlogInput{Title: "x", Slug: "Taken"}, want: ErrSlugTaken},
		{name: "empty slug", input: BlogInput{Title: "x", Slug: "!!!"}, want: ErrSlugInvalid},
		{name: "unknown id wins over blank title", id: "missing", input: BlogInput{}, want: ErrBlogPostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Check(tt.id, tt.input)
			if tt.want == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	var count int64
	gdb.Model(&db.BlogPost{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected check to leave one post, got %d", count)
	}
}

func TestBlogServiceUpdateUnknownIDIsNotFound(t *testing.T) {
	svc := NewBlogService(newTestDB(t))

	_, err := svc.Update("missing", BlogInput{Title: ""})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found before validation, got %v", err)
	}
}
