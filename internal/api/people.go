package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MosinFAM/arfixture/internal/models"
	"github.com/MosinFAM/arfixture/internal/storage"

	"github.com/gin-gonic/gin"
)

// newElement is the id segment that asks for a blank template.
const newElement = "new"

func (h *Handler) ListPeople(c *gin.Context) {
	people, err := h.Storage.ListPeople(c.Request.Context(), listOptions(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection(h, personRoot, people))
}

func (h *Handler) GetPerson(c *gin.Context) {
	if isNew(c, "id") {
		h.renderElement(c, http.StatusOK, personRoot, models.PersonAttributes{})
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}
	person, err := h.Storage.GetPerson(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderElement(c, http.StatusOK, personRoot, person)
}

func (h *Handler) HeadPerson(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		_, err = h.Storage.GetPerson(c.Request.Context(), id)
	}
	head(c, err)
}

func (h *Handler) CreatePerson(c *gin.Context) {
	var attrs models.PersonAttributes
	if err := bindAttributes(c, personRoot, &attrs); err != nil {
		renderError(c, err)
		return
	}
	person, err := h.Storage.CreatePerson(c.Request.Context(), attrs)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderCreated(c, personRoot, fmt.Sprintf("/people/%d", person.ID), person)
}

func (h *Handler) UpdatePerson(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}
	var attrs models.PersonAttributes
	if err := bindAttributes(c, personRoot, &attrs); err != nil {
		renderError(c, err)
		return
	}
	if _, err := h.Storage.UpdatePerson(c.Request.Context(), id, attrs); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeletePerson(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}
	if err := h.Storage.DeletePerson(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPersonPosts lists the posts the person is poster of.
func (h *Handler) ListPersonPosts(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Storage.GetPerson(ctx, id); err != nil {
		renderError(c, err)
		return
	}
	posts, err := h.Storage.ListPosts(ctx, storage.PostFilter{ListOptions: listOptions(c), PosterID: &id})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection(h, postRoot, posts))
}

func isNew(c *gin.Context, name string) bool {
	value, err := stripFormat(c.Param(name))
	return err == nil && value == newElement
}

// head answers an existence check without a body.
func head(c *gin.Context, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, storage.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, errNotAcceptable):
			status = http.StatusNotAcceptable
		}
		c.Status(status)
		return
	}
	c.Status(http.StatusOK)
}
