package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MosinFAM/arfixture/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// element wraps v in its root key when the handler is configured to.
func (h *Handler) element(root string, v any) any {
	if h.IncludeRootInJSON {
		return gin.H{root: v}
	}
	return v
}

func collection[T any](h *Handler, root string, items []T) any {
	if !h.IncludeRootInJSON {
		return items
	}
	wrapped := make([]gin.H, 0, len(items))
	for _, item := range items {
		wrapped = append(wrapped, gin.H{root: item})
	}
	return wrapped
}

func (h *Handler) renderElement(c *gin.Context, status int, root string, v any) {
	c.JSON(status, h.element(root, v))
}

// renderCreated answers 201 with the new element's URL.
func (h *Handler) renderCreated(c *gin.Context, root, path string, v any) {
	c.Header("Location", absoluteURL(c, path))
	h.renderElement(c, http.StatusCreated, root, v)
}

func absoluteURL(c *gin.Context, path string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, path)
}

func renderError(c *gin.Context, err error) {
	var verr *validationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
	case errors.Is(err, errBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errNotAcceptable):
		c.JSON(http.StatusNotAcceptable, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, storage.ErrPosterNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"poster": []string{"must exist"}}})
	case errors.Is(err, storage.ErrPostNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"post": []string{"must exist"}}})
	case errors.Is(err, storage.ErrReferenced):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
