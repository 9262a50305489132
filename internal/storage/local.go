// Package storage 提供上传文件的对象存储实现：本地目录与 S3 兼容存储。
// 每次上传都生成新的对象，不提供覆盖或删除。
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidKey 表示对象键为空或试图跳出存储根目录。
var ErrInvalidKey = errors.New("invalid object key")

// LocalStore 将对象写入本地目录，并通过静态路由对外提供访问。
type LocalStore struct {
	dir     string
	urlPath string
}

// NewLocalStore creates a store rooted at dir and served under urlPath.
func NewLocalStore(dir, urlPath string) *LocalStore {
	return &LocalStore{
		dir:     dir,
		urlPath: "/" + strings.Trim(urlPath, "/"),
	}
}

// Dir returns the directory files are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// URLPath returns the URL prefix the directory is served under.
func (s *LocalStore) URLPath() string {
	return s.urlPath
}

// Put 写入对象并返回可访问的 URL。
func (s *LocalStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cleanKey, err := cleanObjectKey(key)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	// O_EXCL 保证不会覆盖已有对象
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create object file: %w", err)
	}
	if _, err := file.Write(body); err != nil {
		file.Close()
		return "", fmt.Errorf("write object file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close object file: %w", err)
	}

	return s.urlPath + "/" + cleanKey, nil
}

func cleanObjectKey(key string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(key))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
