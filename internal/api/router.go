package api

import (
	"net/http"
	"path"
	"strings"

	"github.com/MosinFAM/arfixture/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	personRoot  = "person"
	postRoot    = "post"
	commentRoot = "comment"
)

// Handler serves the people, posts and comments resources.
type Handler struct {
	Storage           storage.Storage
	IncludeRootInJSON bool
}

// NewRouter builds the gin engine with middleware and every resource route.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(), corsMiddleware(allowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	h.Register(r)

	r.NoRoute(func(c *gin.Context) {
		if foreignFormat(r.Routes(), c.Request.Method, c.Request.URL.Path) {
			renderError(c, errNotAcceptable)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}

// withFormat registers path and its .json twin.
func withFormat(r gin.IRoutes, method, path string, handler gin.HandlerFunc) {
	r.Handle(method, path, handler)
	r.Handle(method, path+".json", handler)
}

// foreignFormat reports whether p is a known route with a format suffix
// other than .json.
func foreignFormat(routes gin.RoutesInfo, method, p string) bool {
	ext := path.Ext(p)
	if ext == "" || ext == ".json" || strings.Contains(ext, "/") {
		return false
	}
	segments := strings.Split(strings.TrimSuffix(p, ext), "/")
	for _, route := range routes {
		if route.Method == method && matchRoute(strings.Split(route.Path, "/"), segments) {
			return true
		}
	}
	return false
}

func matchRoute(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, part := range pattern {
		if strings.HasPrefix(part, ":") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if part != segments[i] {
			return false
		}
	}
	return true
}

// Register mounts the resource routes on r.
func (h *Handler) Register(r gin.IRouter) {
	withFormat(r, http.MethodGet, "/people", h.ListPeople)
	withFormat(r, http.MethodPost, "/people", h.CreatePerson)
	r.GET("/people/:id", h.GetPerson)
	r.HEAD("/people/:id", h.HeadPerson)
	r.PUT("/people/:id", h.UpdatePerson)
	r.PATCH("/people/:id", h.UpdatePerson)
	r.DELETE("/people/:id", h.DeletePerson)
	withFormat(r, http.MethodGet, "/people/:id/posts", h.ListPersonPosts)

	withFormat(r, http.MethodGet, "/posts", h.ListPosts)
	withFormat(r, http.MethodPost, "/posts", h.CreatePost)
	r.GET("/posts/:id", h.GetPost)
	r.HEAD("/posts/:id", h.HeadPost)
	r.PUT("/posts/:id", h.UpdatePost)
	r.PATCH("/posts/:id", h.UpdatePost)
	r.DELETE("/posts/:id", h.DeletePost)
	withFormat(r, http.MethodGet, "/posts/:id/poster", h.GetPostPoster)
	r.GET("/posts/:id/comment_stream", h.StreamComments)

	withFormat(r, http.MethodGet, "/posts/:id/comments", h.ListPostComments)
	withFormat(r, http.MethodPost, "/posts/:id/comments", h.CreatePostComment)
	r.GET("/posts/:id/comments/:comment_id", h.GetPostComment)
	r.HEAD("/posts/:id/comments/:comment_id", h.HeadPostComment)
	r.PUT("/posts/:id/comments/:comment_id", h.UpdatePostComment)
	r.PATCH("/posts/:id/comments/:comment_id", h.UpdatePostComment)
	r.DELETE("/posts/:id/comments/:comment_id", h.DeletePostComment)

	withFormat(r, http.MethodGet, "/comments", h.ListComments)
	withFormat(r, http.MethodPost, "/comments", h.CreateComment)
	r.GET("/comments/:id", h.GetComment)
	r.HEAD("/comments/:id", h.HeadComment)
	r.PUT("/comments/:id", h.UpdateComment)
	r.PATCH("/comments/:id", h.UpdateComment)
	r.DELETE("/comments/:id", h.DeleteComment)
}
