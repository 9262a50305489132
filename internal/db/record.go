package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// Record 是所有集合记录共享的字段。
// ID 在首次写入时由存储层分配，之后不可变；时间戳由服务层写入，gorm 不再自动维护。
type Record struct {
	ID        string    `gorm:"primaryKey;size:21" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// BeforeCreate 为新记录分配不透明的 nanoid。
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID != "" {
		return nil
	}
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("generate record id: %w", err)
	}
	r.ID = id
	return nil
}

// StringList 以 JSON 数组的形式保存有序字符串列表。
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	encoded, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported string list source %T", src)
	}

	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("decode string list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	*l = items
	return nil
}

// GormDataType 指定列类型，sqlite 与 mysql 均使用 text。
func (StringList) GormDataType() string {
	return "text"
}
