package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio/internal/storage"
)

// ObjectStore 是上传文件的对象存储。每次 Put 都创建新对象，不覆盖、不删除。
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Asset 描述一次成功上传的结果。
type Asset struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Upload 是待上传的文件内容。
type Upload struct {
	Data     []byte
	FileName string
}

// AssetService 负责图片上传，以及“先上传再保存记录”的两阶段流程。
type AssetService struct {
	store    ObjectStore
	maxWidth int
	logger   *slog.Logger
	now      func() time.Time
}

// NewAssetService creates an AssetService. maxWidth <= 0 表示不缩放。
func NewAssetService(store ObjectStore, maxWidth int, logger *slog.Logger) *AssetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetService{
		store:    store,
		maxWidth: maxWidth,
		logger:   logger,
		now:      utcNow,
	}
}

var extensionByFormat = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// Upload 校验并存储一个图片文件，返回可访问的 URL。
// folder 为对象键的目录，例如 projects、blogs、content。
func (s *AssetService) Upload(ctx context.Context, folder string, upload Upload) (*Asset, error) {
	if len(upload.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	info, err := storage.InspectImage(upload.Data)
	if err != nil {
		return nil, ErrUnsupportedUpload
	}

	data, info, err := storage.FitWidth(upload.Data, info, s.maxWidth)
	if err != nil {
		return nil, uploadError("resize image", err)
	}

	// 扩展名以实际格式为准，文件名只作兜底
	ext, ok := extensionByFormat[info.Format]
	if !ok {
		ext = strings.ToLower(filepath.Ext(upload.FileName))
	}

	key := fmt.Sprintf("%s-%s%s", s.now().Format("20060102"), uuid.New().String(), ext)
	if folder = strings.Trim(folder, "/"); folder != "" {
		key = folder + "/" + key
	}

	contentType := http.DetectContentType(data)
	url, err := s.store.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, uploadError("store object", err)
	}

	return &Asset{
		URL:         url,
		ContentType: contentType,
		Width:       info.Width,
		Height:      info.Height,
	}, nil
}

// Attach 执行两阶段保存：先上传，再调用 save 关联 URL。
// 上传失败时不会调用 save；save 失败时已上传的对象成为孤儿，仅记录告警。
func (s *AssetService) Attach(ctx context.Context, folder string, upload Upload, save func(url string) error) (*Asset, error) {
	asset, err := s.Upload(ctx, folder, upload)
	if err != nil {
		return nil, err
	}

	if err := save(asset.URL); err != nil {
		s.logger.Warn("uploaded asset left unreferenced", "url", asset.URL, "error", err)
		return nil, err
	}
	return asset, nil
}
