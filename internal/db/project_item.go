package db

// Category 决定条目在首页落入哪个展示分区，以及后台表单使用哪些字段。
type Category string

const (
	CategoryEmployment Category = "employment"
	CategoryWeekend    Category = "weekend"
	CategoryAI         Category = "ai"
	CategoryBook       Category = "book"
	CategoryPhoto      Category = "photo"
	CategoryActivity   Category = "activity"
	CategoryBlog       Category = "blog"
)

// Categories 按后台管理页的展示顺序列出全部已知分类。
var Categories = []Category{
	CategoryEmployment,
	CategoryWeekend,
	CategoryAI,
	CategoryBlog,
	CategoryBook,
	CategoryPhoto,
	CategoryActivity,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ProjectItem 是首页展示的项目或兴趣条目。
// Description 的含义随分类变化：书籍为作者，活动为统计数值，照片为说明文字。
type ProjectItem struct {
	Record
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    Category   `gorm:"size:32;index;not null" json:"category"`
	Tags        StringList `json:"tags"`
	Image       string     `gorm:"size:1024" json:"image"`
	Link        string     `gorm:"size:1024" json:"link"`
	Year        string     `gorm:"size:64" json:"year"`
	Rank        int        `gorm:"index" json:"rank"`
}
