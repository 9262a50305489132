package handler

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/portfolio/internal/cache"
	"github.com/portfolio/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const homeProjectionKey = "home:projection"

// ShowHome renders the public home page: hero, sections and social links.
func (a *API) ShowHome(c *gin.Context) {
	projection, err := a.homeProjection(c.Request.Context())
	if err != nil {
		c.Error(err)
		a.logger.Error("load home projection failed", "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "home.html", gin.H{
			"title":      "Home",
			"error":      "Failed to load content",
			"projection": service.Project(nil),
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":      "Home",
		"projection": projection,
	})
}

// homeProjection 优先读取缓存，未命中时重新计算并回填。缓存故障只降级为直接查询。
func (a *API) homeProjection(ctx context.Context) (service.Projection, error) {
	cached, err := cache.GetJSON[service.Projection](ctx, a.cache, homeProjectionKey)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		a.logger.Warn("read projection cache failed", "error", err)
	}

	items, err := a.projects.ListAll()
	if err != nil {
		return service.Projection{}, err
	}

	projection := service.Project(items)
	if len(projection.Dropped) > 0 {
		a.logger.Warn("items with unknown category were skipped", "ids", projection.Dropped)
	}

	if err := cache.SetJSON(ctx, a.cache, homeProjectionKey, projection, a.cacheTTL); err != nil {
		a.logger.Warn("write projection cache failed", "error", err)
	}
	return projection, nil
}

func (a *API) invalidateHome(ctx context.Context) {
	if err := a.cache.Delete(ctx, homeProjectionKey); err != nil {
		a.logger.Warn("invalidate projection cache failed", "error", err)
	}
}

// ShowBlogList renders published posts, newest first.
func (a *API) ShowBlogList(c *gin.Context) {
	posts, err := a.blogs.ListPublished()
	if err != nil {
		c.Error(err)
		a.renderHTML(c, http.StatusInternalServerError, "blog_list.html", gin.H{
			"title": "Blog",
			"error": "Failed to load posts",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "blog_list.html", gin.H{
		"title": "Blog",
		"posts": posts,
	})
}

// ShowBlogPost renders one published post by slug. 未知 slug 或未发布的文章渲染 404 页面。
func (a *API) ShowBlogPost(c *gin.Context) {
	post, err := a.blogs.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			a.renderNotFound(c)
			return
		}
		c.Error(err)
		a.renderHTML(c, http.StatusInternalServerError, "not_found.html", gin.H{
			"title": "Something went wrong",
			"error": "Failed to load post",
		})
		return
	}
	if !post.IsPublished() {
		a.renderNotFound(c)
		return
	}

	content, err := renderMarkdown(post.Content)
	if err != nil {
		c.Error(err)
		a.renderHTML(c, http.StatusInternalServerError, "not_found.html", gin.H{
			"title": "Something went wrong",
			"error": "Failed to render post",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "blog_post.html", gin.H{
		"title":   post.Title,
		"post":    post,
		"content": content,
	})
}

func (a *API) renderNotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{
		"title": "Post not found",
	})
}

// NotFound handles unmatched routes.
func (a *API) NotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{
		"title": "Page not found",
	})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
