package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadAsset 处理正文图片上传，返回可插入 Markdown 的地址。
func (a *API) UploadAsset(c *gin.Context) {
	if a.assets == nil {
		respondError(c, http.StatusServiceUnavailable, "uploads are not configured")
		return
	}

	upload, err := readUpload(c, "image")
	if err != nil {
		respondError(c, statusForUploadRead(err), "invalid image upload")
		return
	}
	if upload == nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}

	asset, err := a.assets.Upload(c.Request.Context(), "content", *upload)
	if err != nil {
		a.respondServiceError(c, err, "failed to upload image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "upload succeeded",
		"url":     asset.URL,
		"item":    asset,
	})
}
