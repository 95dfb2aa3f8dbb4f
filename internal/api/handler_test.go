package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/MosinFAM/arfixture/internal/models"
	"github.com/MosinFAM/arfixture/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListPeople(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	r := newTestRouter(mockStorage, false)

	name := "Test Person"
	now := time.Date(2011, 10, 21, 9, 39, 45, 0, time.UTC)
	mockStorage.On("ListPeople", mock.Anything, storage.ListOptions{Limit: 10}).
		Return([]models.Person{{ID: 1, Name: &name, CreatedAt: now, UpdatedAt: now}}, nil)

	w := do(r, http.MethodGet, "/people.json?limit=10", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id": 1, "name": "Test Person",
		"created_at": "2011-10-21T09:39:45Z", "updated_at": "2011-10-21T09:39:45Z"}]`, w.Body.String())
	mockStorage.AssertExpectations(t)
}

func TestListPeople_Failure(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	r := newTestRouter(mockStorage, false)

	mockStorage.On("ListPeople", mock.Anything, storage.ListOptions{}).
		Return([]models.Person(nil), errors.New("connection refused"))

	w := do(r, http.MethodGet, "/people", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	mockStorage.AssertExpectations(t)
}

func TestCreatePerson_PassesWhitelistOnly(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	r := newTestRouter(mockStorage, false)

	name := "Ann"
	mockStorage.On("CreatePerson", mock.Anything, models.PersonAttributes{Name: &name}).
		Return(&models.Person{ID: 4, Name: &name}, nil)

	w := do(r, http.MethodPost, "/people", `{"person": {"name": "Ann", "id": 1, "admin": true}}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "http://example.com/people/4", w.Header().Get("Location"))
	mockStorage.AssertExpectations(t)
}

func TestUpdatePost_UnknownPoster(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	r := newTestRouter(mockStorage, false)

	posterID := int64(9)
	mockStorage.On("UpdatePost", mock.Anything, int64(2), models.PostAttributes{PosterID: &posterID}).
		Return((*models.Post)(nil), storage.ErrPosterNotFound)

	w := do(r, http.MethodPut, "/posts/2.json", `{"post": {"poster_id": 9}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	mockStorage.AssertExpectations(t)
}

func TestDeletePost_Referenced(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	r := newTestRouter(mockStorage, false)

	mockStorage.On("DeletePost", mock.Anything, int64(1)).Return(storage.ErrReferenced)

	w := do(r, http.MethodDelete, "/posts/1.json", "")

	assert.Equal(t, http.StatusConflict, w.Code)
	mockStorage.AssertExpectations(t)
}

func TestDeleteComment(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	r := newTestRouter(mockStorage, false)

	mockStorage.On("DeleteComment", mock.Anything, int64(3)).Return(nil)

	w := do(r, http.MethodDelete, "/comments/3", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockStorage.AssertExpectations(t)
}

func TestListPosts_ByPoster(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	r := newTestRouter(mockStorage, false)

	posterID := int64(5)
	mockStorage.On("ListPosts", mock.Anything, storage.PostFilter{PosterID: &posterID}).
		Return([]models.Post{}, nil)

	w := do(r, http.MethodGet, "/posts?poster_id=5", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	mockStorage.AssertExpectations(t)
}

func TestGetPostComment_OtherPost(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	r := newTestRouter(mockStorage, false)

	postID := int64(1)
	mockStorage.On("GetComment", mock.Anything, int64(7)).
		Return(&models.Comment{ID: 7, PostID: &postID}, nil)

	w := do(r, http.MethodGet, "/posts/2/comments/7", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockStorage.AssertExpectations(t)
}

func TestStreamComments_UnknownPost(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	r := newTestRouter(mockStorage, false)

	mockStorage.On("SubscribeToComments", mock.Anything, int64(8)).Return(nil, storage.ErrNotFound)

	w := do(r, http.MethodGet, "/posts/8/comment_stream", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockStorage.AssertExpectations(t)
}
