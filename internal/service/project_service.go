package service

import (
	"errors"
	"strings"
	"time"

	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectService handles project and interest item CRUD.
type ProjectService struct {
	db  *gorm.DB
	now func() time.Time
}

// ProjectInput represents fields accepted when creating or updating a project item.
// 更新时 Category 为空表示沿用原分类；分类一经创建不可修改。
type ProjectInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	Image       string
	Link        string
	Year        string
	Rank        int
}

// NewProjectService creates a ProjectService instance.
func NewProjectService(gdb *gorm.DB) *ProjectService {
	return &ProjectService{db: gdb, now: utcNow}
}

// SetClock 替换服务使用的时钟，主要面向测试场景。
func (s *ProjectService) SetClock(now func() time.Time) {
	if now == nil {
		now = utcNow
	}
	s.now = now
}

// ListAll returns all items ordered by rank, then creation time.
func (s *ProjectService) ListAll() ([]db.ProjectItem, error) {
	var items []db.ProjectItem
	// rank 在 MySQL 8 中是保留字，交由 gorm 负责引用
	rankOrder := clause.OrderByColumn{Column: clause.Column{Name: "rank"}}
	if err := s.db.Order(rankOrder).Order("created_at asc").Order("id asc").Find(&items).Error; err != nil {
		return nil, storeError("list project items", err)
	}
	return items, nil
}

// Get fetches an item by id.
func (s *ProjectService) Get(id string) (*db.ProjectItem, error) {
	var item db.ProjectItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectItemNotFound
		}
		return nil, storeError("get project item", err)
	}
	return &item, nil
}

// Check 校验输入但不写入任何数据；id 非空时按更新处理，先确认条目存在并检查分类是否被修改。
func (s *ProjectService) Check(id string, input ProjectInput) error {
	if id == "" {
		_, _, err := validateNewProject(input)
		return err
	}
	item, err := s.Get(id)
	if err != nil {
		return err
	}
	_, err = validateProjectUpdate(item, input)
	return err
}

// Create inserts a new item.
func (s *ProjectService) Create(input ProjectInput) (*db.ProjectItem, error) {
	title, category, err := validateNewProject(input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item := db.ProjectItem{
		Record:   db.Record{CreatedAt: now, UpdatedAt: now},
		Title:    title,
		Category: category,
	}
	applyProjectInput(&item, input)

	if err := s.db.Create(&item).Error; err != nil {
		return nil, storeError("create project item", err)
	}
	return &item, nil
}

// Update replaces the mutable fields of an existing item.
func (s *ProjectService) Update(id string, input ProjectInput) (*db.ProjectItem, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	title, err := validateProjectUpdate(item, input)
	if err != nil {
		return nil, err
	}

	item.Title = title
	item.UpdatedAt = s.now()
	applyProjectInput(item, input)

	if err := s.db.Save(item).Error; err != nil {
		return nil, storeError("update project item", err)
	}
	return item, nil
}

func validateNewProject(input ProjectInput) (string, db.Category, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", "", ErrTitleRequired
	}
	category, err := parseCategory(input.Category)
	if err != nil {
		return "", "", err
	}
	return title, category, nil
}

// validateProjectUpdate 返回归一化后的标题；分类为空表示沿用原分类。
func validateProjectUpdate(item *db.ProjectItem, input ProjectInput) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if strings.TrimSpace(input.Category) != "" {
		category, err := parseCategory(input.Category)
		if err != nil {
			return "", err
		}
		if category != item.Category {
			return "", ErrCategoryImmutable
		}
	}
	return title, nil
}

// Delete removes an item. 删除不存在的条目不视为错误。
func (s *ProjectService) Delete(id string) error {
	if err := s.db.Delete(&db.ProjectItem{}, "id = ?", id).Error; err != nil {
		return storeError("delete project item", err)
	}
	return nil
}

func applyProjectInput(item *db.ProjectItem, input ProjectInput) {
	item.Description = strings.TrimSpace(input.Description)
	item.Tags = NormalizeTags(input.Tags)
	item.Image = strings.TrimSpace(input.Image)
	item.Link = strings.TrimSpace(input.Link)
	item.Year = strings.TrimSpace(input.Year)
	item.Rank = input.Rank
}

func parseCategory(raw string) (db.Category, error) {
	category := db.Category(strings.ToLower(strings.TrimSpace(raw)))
	if !category.Valid() {
		return "", ErrCategoryInvalid
	}
	return category, nil
}
