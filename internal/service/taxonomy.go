package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/portfolio/internal/db"
)

// ProjectCard 是工作、周末、AI 与博客链接分区共用的卡片视图。
type ProjectCard struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
	Year        string   `json:"year"`
	Rank        int      `json:"rank"`
}

// Book 是书架分区的视图，Description 解释为作者。
type Book struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Tags     []string `json:"tags"`
	Finished bool     `json:"finished"`
	Cover    string   `json:"cover"`
	Link     string   `json:"link"`
	Year     string   `json:"year"`
	Rank     int      `json:"rank"`
}

// Photo 是相册分区的视图，标题即拍摄地点。
type Photo struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Caption  string `json:"caption"`
	Image    string `json:"image"`
	Date     string `json:"date"`
	Rank     int    `json:"rank"`
}

// Activity 是运动分区的视图，Description 为统计数值，首个标签为图标名。
type Activity struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Stat  string `json:"stat"`
	Icon  string `json:"icon"`
	Rank  int    `json:"rank"`
}

// Projection 为首页各分区准备好的数据。
type Projection struct {
	Employment []ProjectCard `json:"employment"`
	Weekend    []ProjectCard `json:"weekend"`
	AI         []ProjectCard `json:"ai"`
	Books      []Book        `json:"books"`
	Photos     []Photo       `json:"photos"`
	Activities []Activity    `json:"activities"`
	BlogLinks  []ProjectCard `json:"blogLinks"`
	// Dropped 记录分类无法识别而被丢弃的条目 ID
	Dropped []string `json:"-"`
}

// IDs 返回所有分区中条目的 ID，按分区顺序排列。
func (p Projection) IDs() []string {
	var ids []string
	for _, bucket := range [][]ProjectCard{p.Employment, p.Weekend, p.AI, p.BlogLinks} {
		for _, card := range bucket {
			ids = append(ids, card.ID)
		}
	}
	for _, book := range p.Books {
		ids = append(ids, book.ID)
	}
	for _, photo := range p.Photos {
		ids = append(ids, photo.ID)
	}
	for _, activity := range p.Activities {
		ids = append(ids, activity.ID)
	}
	return ids
}

// Project 将条目按分类划入唯一的分区，分区内按 rank 升序且保持相同 rank 的相对顺序。
// 分类无法识别的条目被丢弃并记录在 Dropped 中。
func Project(items []db.ProjectItem) Projection {
	ordered := sortByRank(items)

	projection := Projection{
		Employment: []ProjectCard{},
		Weekend:    []ProjectCard{},
		AI:         []ProjectCard{},
		Books:      []Book{},
		Photos:     []Photo{},
		Activities: []Activity{},
		BlogLinks:  []ProjectCard{},
	}

	for _, item := range ordered {
		switch item.Category {
		case db.CategoryEmployment:
			projection.Employment = append(projection.Employment, cardFrom(item))
		case db.CategoryWeekend:
			projection.Weekend = append(projection.Weekend, cardFrom(item))
		case db.CategoryAI:
			projection.AI = append(projection.AI, cardFrom(item))
		case db.CategoryBlog:
			projection.BlogLinks = append(projection.BlogLinks, cardFrom(item))
		case db.CategoryBook:
			projection.Books = append(projection.Books, bookFrom(item))
		case db.CategoryPhoto:
			projection.Photos = append(projection.Photos, photoFrom(item))
		case db.CategoryActivity:
			projection.Activities = append(projection.Activities, activityFrom(item))
		default:
			projection.Dropped = append(projection.Dropped, item.ID)
		}
	}

	return projection
}

// Section 是后台内容管理页中按分类分组的一节。
type Section struct {
	Category db.Category      `json:"category"`
	Label    string           `json:"label"`
	Count    int              `json:"count"`
	Items    []db.ProjectItem `json:"items"`
}

var categoryLabels = map[db.Category]string{
	db.CategoryEmployment: "Employment Projects",
	db.CategoryWeekend:    "Weekend Projects",
	db.CategoryAI:         "AI Initiatives",
	db.CategoryBlog:       "Blog Links",
	db.CategoryBook:       "Books",
	db.CategoryPhoto:      "Photos",
	db.CategoryActivity:   "Activities",
}

// CategoryLabel 返回分类在后台展示的名称。
func CategoryLabel(c db.Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ManageSections 按固定分类顺序分组，并给出每组数量。未知分类同样被忽略。
func ManageSections(items []db.ProjectItem) []Section {
	ordered := sortByRank(items)

	sections := make([]Section, 0, len(db.Categories))
	index := make(map[db.Category]int, len(db.Categories))
	for i, category := range db.Categories {
		index[category] = i
		sections = append(sections, Section{
			Category: category,
			Label:    CategoryLabel(category),
			Items:    []db.ProjectItem{},
		})
	}

	for _, item := range ordered {
		i, ok := index[item.Category]
		if !ok {
			continue
		}
		sections[i].Items = append(sections[i].Items, item)
		sections[i].Count++
	}
	return sections
}

// ProjectBlogs 过滤出已发布的文章并按发布时间倒序排列。
// 没有 PublishedAt 的文章视为未发布。
func ProjectBlogs(posts []db.BlogPost) []db.BlogPost {
	published := make([]db.BlogPost, 0, len(posts))
	for _, post := range posts {
		if post.IsPublished() {
			published = append(published, post)
		}
	}
	slices.SortStableFunc(published, func(a, b db.BlogPost) int {
		return b.PublishedAt.Compare(*a.PublishedAt)
	})
	return published
}

func sortByRank(items []db.ProjectItem) []db.ProjectItem {
	ordered := slices.Clone(items)
	slices.SortStableFunc(ordered, func(a, b db.ProjectItem) int {
		return cmp.Compare(a.Rank, b.Rank)
	})
	return ordered
}

func cardFrom(item db.ProjectItem) ProjectCard {
	return ProjectCard{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Tags:        tagsOf(item),
		Image:       item.Image,
		Link:        item.Link,
		Year:        item.Year,
		Rank:        item.Rank,
	}
}

func bookFrom(item db.ProjectItem) Book {
	tags := tagsOf(item)
	return Book{
		ID:       item.ID,
		Title:    item.Title,
		Author:   item.Description,
		Tags:     tags,
		Finished: hasFinishedTag(tags),
		Cover:    item.Image,
		Link:     item.Link,
		Year:     item.Year,
		Rank:     item.Rank,
	}
}

func photoFrom(item db.ProjectItem) Photo {
	return Photo{
		ID:       item.ID,
		Location: item.Title,
		Caption:  item.Description,
		Image:    item.Image,
		Date:     item.Year,
		Rank:     item.Rank,
	}
}

func activityFrom(item db.ProjectItem) Activity {
	icon := ""
	if len(item.Tags) > 0 {
		icon = item.Tags[0]
	}
	return Activity{
		ID:    item.ID,
		Label: item.Title,
		Stat:  item.Description,
		Icon:  icon,
		Rank:  item.Rank,
	}
}

func hasFinishedTag(tags []string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), "finish") {
			return true
		}
	}
	return false
}

func tagsOf(item db.ProjectItem) []string {
	if item.Tags == nil {
		return []string{}
	}
	return []string(item.Tags)
}
