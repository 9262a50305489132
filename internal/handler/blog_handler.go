package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
)

type blogRequest struct {
	Title      string       `json:"title"`
	Subtitle   string       `json:"subtitle"`
	Slug       string       `json:"slug"`
	Content    string       `json:"content"`
	Tags       service.Tags `json:"tags"`
	Status     string       `json:"status"`
	CoverImage string       `json:"coverImage"`
}

func (r blogRequest) input() service.BlogInput {
	return service.BlogInput{
		Title:      r.Title,
		Subtitle:   r.Subtitle,
		Slug:       r.Slug,
		Content:    r.Content,
		Tags:       r.Tags,
		Status:     r.Status,
		CoverImage: r.CoverImage,
	}
}

func bindBlogRequest(c *gin.Context) (blogRequest, *service.Upload, bool) {
	var req blogRequest
	if !isMultipart(c) {
		return req, nil, bindJSON(c, &req, "invalid blog payload")
	}

	req = blogRequest{
		Title:      c.PostForm("title"),
		Subtitle:   c.PostForm("subtitle"),
		Slug:       c.PostForm("slug"),
		Content:    c.PostForm("content"),
		Tags:       service.ParseTags(c.PostForm("tags")),
		Status:     c.PostForm("status"),
		CoverImage: c.PostForm("coverImage"),
	}

	upload, err := readUpload(c, "cover")
	if err != nil {
		respondError(c, statusForUploadRead(err), "invalid cover upload")
		return req, nil, false
	}
	return req, upload, true
}

// ListBlogs returns all posts, drafts included.
func (a *API) ListBlogs(c *gin.Context) {
	posts, err := a.blogs.ListAll()
	if err != nil {
		a.respondServiceError(c, err, "failed to list blog posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": posts})
}

// GetBlog returns a single post by id.
func (a *API) GetBlog(c *gin.Context) {
	post, err := a.blogs.Get(c.Param("id"))
	if err != nil {
		a.respondServiceError(c, err, "failed to load blog post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": post})
}

// CreateBlog 创建文章；带封面文件时先上传再保存。
func (a *API) CreateBlog(c *gin.Context) {
	req, upload, ok := bindBlogRequest(c)
	if !ok {
		return
	}

	post, err := a.saveBlogWithCover(c, "", upload, req.input(), a.blogs.Create)
	if err != nil {
		a.respondServiceError(c, err, "failed to create blog post")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "blog post created", "item": post})
}

// UpdateBlog 整体替换文章的可编辑字段。
func (a *API) UpdateBlog(c *gin.Context) {
	id := c.Param("id")
	req, upload, ok := bindBlogRequest(c)
	if !ok {
		return
	}

	post, err := a.saveBlogWithCover(c, id, upload, req.input(), func(input service.BlogInput) (*db.BlogPost, error) {
		return a.blogs.Update(id, input)
	})
	if err != nil {
		a.respondServiceError(c, err, "failed to update blog post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "blog post updated", "item": post})
}

// DeleteBlog removes a post. 重复删除同样返回成功。
func (a *API) DeleteBlog(c *gin.Context) {
	if err := a.blogs.Delete(c.Param("id")); err != nil {
		a.respondServiceError(c, err, "failed to delete blog post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "blog post deleted"})
}

// PreviewBlog 渲染 Markdown 预览并估算阅读时长，不写入任何数据。
func (a *API) PreviewBlog(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &req, "invalid preview payload") {
		return
	}

	html, err := renderMarkdown(req.Content)
	if err != nil {
		a.respondServiceError(c, err, "failed to render preview")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"html":        html,
		"readingTime": service.CalculateReadingTime(req.Content),
	})
}

// saveBlogWithCover 在上传封面前先校验输入，被拒绝的请求不会写入对象存储。
// id 为空表示新建。
func (a *API) saveBlogWithCover(c *gin.Context, id string, upload *service.Upload, input service.BlogInput, save func(service.BlogInput) (*db.BlogPost, error)) (*db.BlogPost, error) {
	if upload == nil {
		return save(input)
	}
	if a.assets == nil {
		return nil, service.ErrUpload
	}
	if err := a.blogs.Check(id, input); err != nil {
		return nil, err
	}

	var post *db.BlogPost
	_, err := a.assets.Attach(c.Request.Context(), "blogs", *upload, func(url string) error {
		input.CoverImage = url
		saved, err := save(input)
		post = saved
		return err
	})
	return post, err
}
