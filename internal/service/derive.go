package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// WordsPerMinute 是估算阅读时长使用的阅读速度。
const WordsPerMinute = 200

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 将任意文本转换为 URL 安全的片段：音译为 ASCII、转小写、
// 非字母数字的连续字符折叠为单个 "-"，并去掉首尾的 "-"。
func Slugify(s string) string {
	ascii := unidecode.Unidecode(norm.NFC.String(s))
	lowered := strings.ToLower(ascii)
	collapsed := nonSlugChars.ReplaceAllString(lowered, "-")
	return strings.Trim(collapsed, "-")
}

// DeriveSlug 由标题生成 slug，并追加当前毫秒时间戳的后 4 位以降低冲突概率。
// 标题无法音译出任何字母数字时，slug 仅由后缀组成。
func DeriveSlug(title string, now time.Time) string {
	suffix := fmt.Sprintf("%04d", now.UnixMilli()%10000)
	base := Slugify(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// CalculateReadingTime 按每分钟 200 词估算阅读分钟数，向上取整。
// 词为以空白分隔的片段；空内容返回 0。
func CalculateReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// Tags 接受逗号分隔的字符串或字符串数组两种 JSON 形式。
type Tags []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tags) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*t = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "\"") {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*t = ParseTags(text)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or an array of strings: %w", err)
	}
	*t = Tags(list)
	return nil
}

// ParseTags 拆分逗号分隔的标签文本。
func ParseTags(text string) Tags {
	return NormalizeTags(strings.Split(text, ","))
}

// NormalizeTags 去除首尾空白并过滤空标签，保持原有顺序。结果永不为 nil。
func NormalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		tags = append(tags, trimmed)
	}
	return tags
}
