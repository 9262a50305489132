package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
)

type projectRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Tags        service.Tags `json:"tags"`
	Image       string       `json:"image"`
	Link        string       `json:"link"`
	Year        string       `json:"year"`
	Rank        int          `json:"rank"`
}

func (r projectRequest) input() service.ProjectInput {
	return service.ProjectInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Tags:        r.Tags,
		Image:       r.Image,
		Link:        r.Link,
		Year:        r.Year,
		Rank:        r.Rank,
	}
}

// bindProjectRequest 同时支持 JSON 与 multipart 表单；表单中的 image 文件字段单独返回。
func bindProjectRequest(c *gin.Context) (projectRequest, *service.Upload, bool) {
	var req projectRequest
	if !isMultipart(c) {
		return req, nil, bindJSON(c, &req, "invalid project payload")
	}

	req = projectRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Tags:        service.ParseTags(c.PostForm("tags")),
		Image:       c.PostForm("image"),
		Link:        c.PostForm("link"),
		Year:        c.PostForm("year"),
		Rank:        parseIntOrZero(c.PostForm("rank")),
	}

	upload, err := readUpload(c, "image")
	if err != nil {
		respondError(c, statusForUploadRead(err), "invalid image upload")
		return req, nil, false
	}
	return req, upload, true
}

func statusForUploadRead(err error) int {
	if errors.Is(err, errUploadTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// ListProjects returns every item plus the grouped sections used by the dashboard.
func (a *API) ListProjects(c *gin.Context) {
	items, err := a.projects.ListAll()
	if err != nil {
		a.respondServiceError(c, err, "failed to list project items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"sections": service.ManageSections(items),
	})
}

// CreateProject 创建条目；带图片文件时先上传再保存。
func (a *API) CreateProject(c *gin.Context) {
	req, upload, ok := bindProjectRequest(c)
	if !ok {
		return
	}

	item, err := a.saveProjectWithImage(c, "", upload, req.input(), a.projects.Create)
	if err != nil {
		a.respondServiceError(c, err, "failed to create project item")
		return
	}

	a.invalidateHome(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"message": "project item created", "item": item})
}

// UpdateProject 更新条目；分类不可修改。
func (a *API) UpdateProject(c *gin.Context) {
	id := c.Param("id")
	req, upload, ok := bindProjectRequest(c)
	if !ok {
		return
	}

	item, err := a.saveProjectWithImage(c, id, upload, req.input(), func(input service.ProjectInput) (*db.ProjectItem, error) {
		return a.projects.Update(id, input)
	})
	if err != nil {
		a.respondServiceError(c, err, "failed to update project item")
		return
	}

	a.invalidateHome(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "project item updated", "item": item})
}

// DeleteProject removes an item. 重复删除同样返回成功。
func (a *API) DeleteProject(c *gin.Context) {
	if err := a.projects.Delete(c.Param("id")); err != nil {
		a.respondServiceError(c, err, "failed to delete project item")
		return
	}

	a.invalidateHome(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "project item deleted"})
}

// saveProjectWithImage 先校验再上传图片；id 为空表示新建。
func (a *API) saveProjectWithImage(c *gin.Context, id string, upload *service.Upload, input service.ProjectInput, save func(service.ProjectInput) (*db.ProjectItem, error)) (*db.ProjectItem, error) {
	if upload == nil {
		return save(input)
	}
	if a.assets == nil {
		return nil, service.ErrUpload
	}
	if err := a.projects.Check(id, input); err != nil {
		return nil, err
	}

	var item *db.ProjectItem
	_, err := a.assets.Attach(c.Request.Context(), "projects", *upload, func(url string) error {
		input.Image = url
		saved, err := save(input)
		item = saved
		return err
	})
	return item, err
}
