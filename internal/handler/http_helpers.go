package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
)

// maxUploadBytes 限制单个上传文件的大小。
const maxUploadBytes = 10 << 20

var errUploadTooLarge = errors.New("file exceeds the 10MB limit")

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// statusForError 将服务层错误分类映射为 HTTP 状态码。
func statusForError(err error) int {
	switch {
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrEmptyUpload), errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUpload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError 输出服务层错误。存储类错误不向客户端暴露细节。
func (a *API) respondServiceError(c *gin.Context, err error, message string) {
	status := statusForError(err)
	switch {
	case status == http.StatusInternalServerError:
		c.Error(err)
		a.logger.Error(message, "error", err, "path", c.Request.URL.Path)
		respondError(c, status, message)
	case status == http.StatusBadGateway:
		c.Error(err)
		a.logger.Warn(message, "error", err, "path", c.Request.URL.Path)
		respondError(c, status, message)
	default:
		respondError(c, status, err.Error())
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// readUpload 读取表单中的文件字段；字段不存在时返回 nil。
func readUpload(c *gin.Context, field string) (*service.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	if header.Size > maxUploadBytes {
		return nil, errUploadTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadBytes {
		return nil, errUploadTooLarge
	}
	return &service.Upload{Data: data, FileName: header.Filename}, nil
}

func parseIntOrZero(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return parsed
}
