package api

import (
	"fmt"
	"net/http"

	"github.com/MosinFAM/arfixture/internal/models"
	"github.com/MosinFAM/arfixture/internal/storage"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPosts(c *gin.Context) {
	posterID, err := queryID(c, "poster_id")
	if err != nil {
		renderError(c, err)
		return
	}
	posts, err := h.Storage.ListPosts(c.Request.Context(), storage.PostFilter{
		ListOptions: listOptions(c),
		PosterID:    posterID,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection(h, postRoot, posts))
}

func (h *Handler) GetPost(c *gin.Context) {
	if isNew(c, "id") {
		h.renderElement(c, http.StatusOK, postRoot, models.PostAttributes{})
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}
	post, err := h.Storage.GetPost(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderElement(c, http.StatusOK, postRoot, post)
}

func (h *Handler) HeadPost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		_, err = h.Storage.GetPost(c.Request.Context(), id)
	}
	head(c, err)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var attrs models.PostAttributes
	if err := bindAttributes(c, postRoot, &attrs); err != nil {
		renderError(c, err)
		return
	}
	post, err := h.Storage.CreatePost(c.Request.Context(), attrs)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderCreated(c, postRoot, fmt.Sprintf("/posts/%d", post.ID), post)
}

func (h *Handler) UpdatePost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}
	var attrs models.PostAttributes
	if err := bindAttributes(c, postRoot, &attrs); err != nil {
		renderError(c, err)
		return
	}
	if _, err := h.Storage.UpdatePost(c.Request.Context(), id, attrs); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}
	if err := h.Storage.DeletePost(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPostPoster follows the post's poster_id.
func (h *Handler) GetPostPoster(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}
	ctx := c.Request.Context()
	post, err := h.Storage.GetPost(ctx, id)
	if err != nil {
		renderError(c, err)
		return
	}
	if post.PosterID == nil {
		renderError(c, storage.ErrNotFound)
		return
	}
	person, err := h.Storage.GetPerson(ctx, *post.PosterID)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderElement(c, http.StatusOK, personRoot, person)
}
