package db

import "time"

// BlogStatus 描述文章的发布状态。
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// BlogPost 定义了博客文章模型
// Slug 为前台路由键，ReadingTime 与 PublishedAt 由服务层派生，不接受外部直接写入。
type BlogPost struct {
	Record
	Title       string     `gorm:"size:255;not null" json:"title"`
	Subtitle    string     `gorm:"size:512" json:"subtitle"`
	Slug        string     `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	Content     string     `gorm:"type:text" json:"content"`
	Tags        StringList `json:"tags"`
	Status      BlogStatus `gorm:"size:16;index;not null" json:"status"`
	CoverImage  string     `gorm:"size:1024" json:"coverImage"`
	ReadingTime int        `json:"readingTime"`
	PublishedAt *time.Time `gorm:"index" json:"publishedAt"`
}

// IsPublished reports whether the post is visible on public pages.
func (p BlogPost) IsPublished() bool {
	return p.Status == BlogStatusPublished && p.PublishedAt != nil
}

// PrimaryTag 返回列表页作为分类徽标展示的第一个标签。
func (p BlogPost) PrimaryTag() string {
	if len(p.Tags) == 0 {
		return ""
	}
	return p.Tags[0]
}
