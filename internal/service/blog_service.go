package service

import (
	"errors"
	"strings"
	"time"

	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

// maxSlugAttempts 限制派生 slug 冲突时的重试次数，每次重试使用下一毫秒的后缀。
const maxSlugAttempts = 10

// BlogService wraps blog post related database operations.
type BlogService struct {
	db  *gorm.DB
	now func() time.Time
}

// BlogInput represents fields accepted when creating or updating a blog post.
// ReadingTime、PublishedAt 等派生字段不在此处，始终由服务计算。
type BlogInput struct {
	Title      string
	Subtitle   string
	Slug       string
	Content    string
	Tags       []string
	Status     string
	CoverImage string
}

// NewBlogService creates a BlogService instance.
func NewBlogService(gdb *gorm.DB) *BlogService {
	return &BlogService{db: gdb, now: utcNow}
}

// SetClock 替换服务使用的时钟，主要面向测试场景。
func (s *BlogService) SetClock(now func() time.Time) {
	if now == nil {
		now = utcNow
	}
	s.now = now
}

// ListAll returns all posts ordered by created time descending.
func (s *BlogService) ListAll() ([]db.BlogPost, error) {
	var posts []db.BlogPost
	if err := s.db.Order("created_at desc").Order("id asc").Find(&posts).Error; err != nil {
		return nil, storeError("list blog posts", err)
	}
	return posts, nil
}

// ListPublished 返回已发布文章，按首次发布时间倒序。
func (s *BlogService) ListPublished() ([]db.BlogPost, error) {
	var posts []db.BlogPost
	if err := s.db.Where("status = ?", db.BlogStatusPublished).
		Order("published_at desc").
		Find(&posts).Error; err != nil {
		return nil, storeError("list published blog posts", err)
	}
	return ProjectBlogs(posts), nil
}

// Get fetches a post by id.
func (s *BlogService) Get(id string) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogPostNotFound
		}
		return nil, storeError("get blog post", err)
	}
	return &post, nil
}

// GetBySlug fetches a post by its public routing key.
func (s *BlogService) GetBySlug(slug string) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogPostNotFound
		}
		return nil, storeError("get blog post by slug", err)
	}
	return &post, nil
}

// Check 校验输入但不写入任何数据；id 非空时按更新处理，先确认文章存在。
// 附带文件的保存请求在上传前调用它，避免无效提交写入对象存储。
func (s *BlogService) Check(id string, input BlogInput) error {
	var existing *db.BlogPost
	if id != "" {
		post, err := s.Get(id)
		if err != nil {
			return err
		}
		existing = post
	}
	_, err := s.prepare(existing, input)
	return err
}

// blogDraft 是通过校验、已归一化的输入。
type blogDraft struct {
	title  string
	status db.BlogStatus
	// slug 为显式指定并通过唯一性检查的 slug，未指定时为空
	slug string
}

func (s *BlogService) prepare(existing *db.BlogPost, input BlogInput) (blogDraft, error) {
	draft := blogDraft{title: strings.TrimSpace(input.Title)}
	if draft.title == "" {
		return draft, ErrTitleRequired
	}
	status, err := normalizeBlogStatus(input.Status)
	if err != nil {
		return draft, err
	}
	draft.status = status

	if requested := strings.TrimSpace(input.Slug); requested != "" {
		excludeID := ""
		if existing != nil {
			excludeID = existing.ID
		}
		slug, err := s.explicitSlug(requested, excludeID)
		if err != nil {
			return draft, err
		}
		draft.slug = slug
	}
	return draft, nil
}

// Create validates the draft, derives slug, reading time and publish time, then persists it.
func (s *BlogService) Create(input BlogInput) (*db.BlogPost, error) {
	draft, err := s.prepare(nil, input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	slug := draft.slug
	if slug == "" {
		slug, err = s.derivedSlug(draft.title, now)
		if err != nil {
			return nil, err
		}
	}

	post := db.BlogPost{
		Record:      db.Record{CreatedAt: now, UpdatedAt: now},
		Title:       draft.title,
		Subtitle:    strings.TrimSpace(input.Subtitle),
		Slug:        slug,
		Content:     input.Content,
		Tags:        NormalizeTags(input.Tags),
		Status:      draft.status,
		CoverImage:  strings.TrimSpace(input.CoverImage),
		ReadingTime: CalculateReadingTime(input.Content),
	}
	if draft.status == db.BlogStatusPublished {
		publishedAt := now
		post.PublishedAt = &publishedAt
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, storeError("create blog post", err)
	}
	return &post, nil
}

// Update applies a full replace of the editable fields of an existing post.
// PublishedAt 只在首次进入 published 状态时写入，此后不再变化；slug 只在显式传入时修改。
func (s *BlogService) Update(id string, input BlogInput) (*db.BlogPost, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	draft, err := s.prepare(existing, input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if draft.slug != "" {
		existing.Slug = draft.slug
	}
	existing.Title = draft.title
	existing.Subtitle = strings.TrimSpace(input.Subtitle)
	existing.Content = input.Content
	existing.Tags = NormalizeTags(input.Tags)
	existing.Status = draft.status
	existing.CoverImage = strings.TrimSpace(input.CoverImage)
	existing.ReadingTime = CalculateReadingTime(input.Content)
	existing.UpdatedAt = now
	if existing.PublishedAt == nil && draft.status == db.BlogStatusPublished {
		publishedAt := now
		existing.PublishedAt = &publishedAt
	}

	if err := s.db.Save(existing).Error; err != nil {
		return nil, storeError("update blog post", err)
	}
	return existing, nil
}

// Delete removes a post by id. 删除不存在的文章不视为错误。
func (s *BlogService) Delete(id string) error {
	if err := s.db.Delete(&db.BlogPost{}, "id = ?", id).Error; err != nil {
		return storeError("delete blog post", err)
	}
	return nil
}

// explicitSlug 归一化作者指定的 slug 并检查唯一性。
// excludeID 为当前文章 ID，更新时允许保留自身的 slug。
func (s *BlogService) explicitSlug(requested, excludeID string) (string, error) {
	slug := Slugify(requested)
	if slug == "" {
		return "", ErrSlugInvalid
	}
	taken, err := s.slugTaken(slug, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrSlugTaken
	}
	return slug, nil
}

// derivedSlug 由标题派生 slug，冲突时换用下一毫秒的后缀重试。
func (s *BlogService) derivedSlug(title string, now time.Time) (string, error) {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := DeriveSlug(title, now.Add(time.Duration(attempt)*time.Millisecond))
		taken, err := s.slugTaken(candidate, "")
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrSlugConflict
}

func (s *BlogService) slugTaken(slug, excludeID string) (bool, error) {
	query := s.db.Model(&db.BlogPost{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, storeError("check slug", err)
	}
	return count > 0, nil
}

func normalizeBlogStatus(raw string) (db.BlogStatus, error) {
	switch db.BlogStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case "", db.BlogStatusDraft:
		return db.BlogStatusDraft, nil
	case db.BlogStatusPublished:
		return db.BlogStatusPublished, nil
	default:
		return "", ErrStatusInvalid
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}
