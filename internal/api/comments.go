package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MosinFAM/arfixture/internal/models"
	"github.com/MosinFAM/arfixture/internal/storage"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListComments(c *gin.Context) {
	postID, err := queryID(c, "post_id")
	if err != nil {
		renderError(c, err)
		return
	}
	comments, err := h.Storage.ListComments(c.Request.Context(), storage.CommentFilter{
		ListOptions: listOptions(c),
		PostID:      postID,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection(h, commentRoot, comments))
}

func (h *Handler) GetComment(c *gin.Context) {
	if isNew(c, "id") {
		h.renderElement(c, http.StatusOK, commentRoot, models.CommentAttributes{})
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}
	comment, err := h.Storage.GetComment(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderElement(c, http.StatusOK, commentRoot, comment)
}

func (h *Handler) HeadComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		_, err = h.Storage.GetComment(c.Request.Context(), id)
	}
	head(c, err)
}

func (h *Handler) CreateComment(c *gin.Context) {
	var attrs models.CommentAttributes
	if err := bindAttributes(c, commentRoot, &attrs); err != nil {
		renderError(c, err)
		return
	}
	comment, err := h.Storage.CreateComment(c.Request.Context(), attrs)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderCreated(c, commentRoot, fmt.Sprintf("/comments/%d", comment.ID), comment)
}

func (h *Handler) UpdateComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}
	h.updateComment(c, id)
}

func (h *Handler) updateComment(c *gin.Context, id int64) {
	var attrs models.CommentAttributes
	if err := bindAttributes(c, commentRoot, &attrs); err != nil {
		renderError(c, err)
		return
	}
	if _, err := h.Storage.UpdateComment(c.Request.Context(), id, attrs); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}
	if err := h.Storage.DeleteComment(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPostComments serves /posts/:id/comments
func (h *Handler) ListPostComments(c *gin.Context) {
	postID, err := h.existingPost(c)
	if err != nil {
		renderError(c, err)
		return
	}
	comments, err := h.Storage.ListComments(c.Request.Context(), storage.CommentFilter{
		ListOptions: listOptions(c),
		PostID:      &postID,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection(h, commentRoot, comments))
}

// CreatePostComment always attaches the comment to the post in the path.
func (h *Handler) CreatePostComment(c *gin.Context) {
	postID, err := h.existingPost(c)
	if err != nil {
		renderError(c, err)
		return
	}
	var attrs models.CommentAttributes
	if err := bindAttributes(c, commentRoot, &attrs); err != nil {
		renderError(c, err)
		return
	}
	attrs.PostID = &postID
	comment, err := h.Storage.CreateComment(c.Request.Context(), attrs)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderCreated(c, commentRoot, fmt.Sprintf("/posts/%d/comments/%d", postID, comment.ID), comment)
}

func (h *Handler) GetPostComment(c *gin.Context) {
	if isNew(c, "comment_id") {
		postID, err := h.existingPost(c)
		if err != nil {
			renderError(c, err)
			return
		}
		h.renderElement(c, http.StatusOK, commentRoot, models.CommentAttributes{PostID: &postID})
		return
	}
	comment, err := h.postComment(c)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderElement(c, http.StatusOK, commentRoot, comment)
}

func (h *Handler) HeadPostComment(c *gin.Context) {
	_, err := h.postComment(c)
	head(c, err)
}

func (h *Handler) UpdatePostComment(c *gin.Context) {
	comment, err := h.postComment(c)
	if err != nil {
		renderError(c, err)
		return
	}
	h.updateComment(c, comment.ID)
}

func (h *Handler) DeletePostComment(c *gin.Context) {
	comment, err := h.postComment(c)
	if err != nil {
		renderError(c, err)
		return
	}
	if err := h.Storage.DeleteComment(c.Request.Context(), comment.ID); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// existingPost resolves the :id segment of a nested route to a stored post.
func (h *Handler) existingPost(c *gin.Context) (int64, error) {
	postID, err := pathID(c, "id")
	if err != nil {
		return 0, err
	}
	if _, err := h.Storage.GetPost(c.Request.Context(), postID); err != nil {
		return 0, err
	}
	return postID, nil
}

// postComment loads :comment_id and hides it unless it belongs to post :id.
func (h *Handler) postComment(c *gin.Context) (*models.Comment, error) {
	postID, err := pathID(c, "id")
	if err != nil {
		return nil, err
	}
	commentID, err := pathID(c, "comment_id")
	if err != nil {
		return nil, err
	}
	return h.commentOnPost(c.Request.Context(), postID, commentID)
}

func (h *Handler) commentOnPost(ctx context.Context, postID, commentID int64) (*models.Comment, error) {
	comment, err := h.Storage.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID == nil || *comment.PostID != postID {
		return nil, storage.ErrNotFound
	}
	return comment, nil
}
