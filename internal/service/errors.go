package service

import (
	"errors"
	"fmt"
)

// 错误分类。具体错误均包装其中之一，handler 通过 errors.Is 映射为 HTTP 状态。
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("record not found")
	ErrUpload     = errors.New("upload failed")
	ErrAuth       = errors.New("authentication failed")
	ErrStore      = errors.New("store operation failed")
)

var (
	ErrTitleRequired     = fmt.Errorf("%w: title is required", ErrValidation)
	ErrCategoryInvalid   = fmt.Errorf("%w: category is invalid", ErrValidation)
	ErrCategoryImmutable = fmt.Errorf("%w: category cannot be changed", ErrValidation)
	ErrStatusInvalid     = fmt.Errorf("%w: status is invalid", ErrValidation)
	ErrSlugInvalid       = fmt.Errorf("%w: slug is invalid", ErrValidation)
	ErrSlugTaken         = fmt.Errorf("%w: slug is already in use", ErrValidation)
	ErrSlugConflict      = fmt.Errorf("%w: could not derive a unique slug", ErrValidation)
	ErrUnsupportedUpload = fmt.Errorf("%w: only image files are allowed", ErrValidation)

	ErrBlogPostNotFound    = fmt.Errorf("%w: blog post", ErrNotFound)
	ErrProjectItemNotFound = fmt.Errorf("%w: project item", ErrNotFound)

	ErrEmptyUpload = fmt.Errorf("%w: file is empty", ErrUpload)

	// ErrInvalidCredentials 不区分账号不存在与密码错误。
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuth)
)

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStore, err))
}

func uploadError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUpload, err))
}
