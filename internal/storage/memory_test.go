package storage

import (
	"context"
	"testing"
	"time"

	"github.com/MosinFAM/arfixture/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }

func TestListPeople_Empty(t *testing.T) {
	storage := NewMemoryStorage()

	people, err := storage.ListPeople(context.Background(), ListOptions{})

	// an empty collection is not an error
	assert.NoError(t, err)
	assert.Empty(t, people)
}

func TestCreatePerson_AssignsSequentialIDs(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	first, err := storage.CreatePerson(ctx, models.PersonAttributes{Name: strPtr("Ann")})
	require.NoError(t, err)
	second, err := storage.CreatePerson(ctx, models.PersonAttributes{Name: strPtr("Bob")})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)
}

func TestCreatePerson_KeepsAssignedTimestamps(t *testing.T) {
	storage := NewMemoryStorage()
	created := time.Date(2011, 10, 21, 9, 39, 45, 0, time.UTC)

	person, err := storage.CreatePerson(context.Background(), models.PersonAttributes{
		Name:      strPtr("Ann"),
		CreatedAt: &created,
	})

	assert.NoError(t, err)
	assert.Equal(t, created, person.CreatedAt)
	assert.True(t, person.UpdatedAt.After(created))
}

func TestGetPerson_NotFound(t *testing.T) {
	storage := NewMemoryStorage()

	person, err := storage.GetPerson(context.Background(), 42)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, person)
}

func TestUpdatePerson_Partial(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	person, err := storage.CreatePerson(ctx, models.PersonAttributes{Name: strPtr("Ann")})
	require.NoError(t, err)

	updated, err := storage.UpdatePerson(ctx, person.ID, models.PersonAttributes{})
	require.NoError(t, err)

	// name was not in the attributes, so it stays
	assert.Equal(t, "Ann", *updated.Name)
	assert.Equal(t, person.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(person.UpdatedAt))
}

func TestPostPoster_RoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	person, err := storage.CreatePerson(ctx, models.PersonAttributes{Name: strPtr("Ann")})
	require.NoError(t, err)
	post, err := storage.CreatePost(ctx, models.PostAttributes{Title: strPtr("Hello"), PosterID: &person.ID})
	require.NoError(t, err)

	fetched, err := storage.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.PosterID)

	poster, err := storage.GetPerson(ctx, *fetched.PosterID)
	assert.NoError(t, err)
	assert.Equal(t, "Ann", *poster.Name)
}

func TestCreatePost_UnknownPoster(t *testing.T) {
	storage := NewMemoryStorage()

	post, err := storage.CreatePost(context.Background(), models.PostAttributes{PosterID: int64Ptr(7)})

	assert.ErrorIs(t, err, ErrPosterNotFound)
	assert.Nil(t, post)
}

func TestCreatePost_WithoutPoster(t *testing.T) {
	storage := NewMemoryStorage()

	post, err := storage.CreatePost(context.Background(), models.PostAttributes{Title: strPtr("Orphan")})

	assert.NoError(t, err)
	assert.Nil(t, post.PosterID)
}

func TestUpdatePost_UnknownPosterLeavesRowUnchanged(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	post, err := storage.CreatePost(ctx, models.PostAttributes{Title: strPtr("Hello")})
	require.NoError(t, err)

	_, err = storage.UpdatePost(ctx, post.ID, models.PostAttributes{Title: strPtr("Changed"), PosterID: int64Ptr(9)})
	assert.ErrorIs(t, err, ErrPosterNotFound)

	fetched, err := storage.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", *fetched.Title)
	assert.Nil(t, fetched.PosterID)
}

func TestListPosts_FilterByPoster(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	ann, _ := storage.CreatePerson(ctx, models.PersonAttributes{Name: strPtr("Ann")})
	bob, _ := storage.CreatePerson(ctx, models.PersonAttributes{Name: strPtr("Bob")})
	_, _ = storage.CreatePost(ctx, models.PostAttributes{Title: strPtr("a1"), PosterID: &ann.ID})
	_, _ = storage.CreatePost(ctx, models.PostAttributes{Title: strPtr("b1"), PosterID: &bob.ID})
	_, _ = storage.CreatePost(ctx, models.PostAttributes{Title: strPtr("a2"), PosterID: &ann.ID})

	posts, err := storage.ListPosts(ctx, PostFilter{PosterID: &ann.ID})

	assert.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "a1", *posts[0].Title)
	assert.Equal(t, "a2", *posts[1].Title)
}

func TestListPosts_Pagination(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := storage.CreatePost(ctx, models.PostAttributes{})
		require.NoError(t, err)
	}

	posts, err := storage.ListPosts(ctx, PostFilter{ListOptions: ListOptions{Limit: 2, Offset: 1}})
	assert.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, int64(2), posts[0].ID)
	assert.Equal(t, int64(3), posts[1].ID)

	posts, err = storage.ListPosts(ctx, PostFilter{ListOptions: ListOptions{Offset: 10}})
	assert.NoError(t, err)
	assert.Empty(t, posts)
}

func TestDeletePerson_StillPoster(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	person, _ := storage.CreatePerson(ctx, models.PersonAttributes{Name: strPtr("Ann")})
	_, err := storage.CreatePost(ctx, models.PostAttributes{PosterID: &person.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, storage.DeletePerson(ctx, person.ID), ErrReferenced)
}

func TestCreateComment_UnknownPost(t *testing.T) {
	storage := NewMemoryStorage()

	comment, err := storage.CreateComment(context.Background(), models.CommentAttributes{
		Text:   strPtr("Test comment"),
		PostID: int64Ptr(99),
	})

	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Nil(t, comment)
}

func TestComment_RetrievableUntilDeleted(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	post, err := storage.CreatePost(ctx, models.PostAttributes{Title: strPtr("Post 1")})
	require.NoError(t, err)
	comment, err := storage.CreateComment(ctx, models.CommentAttributes{Text: strPtr("Test comment"), PostID: &post.ID})
	require.NoError(t, err)

	fetched, err := storage.GetComment(ctx, comment.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Test comment", *fetched.Text)
	assert.Equal(t, post.ID, *fetched.PostID)

	// the post cannot go while the comment points at it
	assert.ErrorIs(t, storage.DeletePost(ctx, post.ID), ErrReferenced)

	require.NoError(t, storage.DeleteComment(ctx, comment.ID))
	_, err = storage.GetComment(ctx, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, storage.DeleteComment(ctx, comment.ID), ErrNotFound)

	assert.NoError(t, storage.DeletePost(ctx, post.ID))
}

func TestListComments_FilterByPost(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	p1, _ := storage.CreatePost(ctx, models.PostAttributes{})
	p2, _ := storage.CreatePost(ctx, models.PostAttributes{})
	_, _ = storage.CreateComment(ctx, models.CommentAttributes{Text: strPtr("one"), PostID: &p1.ID})
	_, _ = storage.CreateComment(ctx, models.CommentAttributes{Text: strPtr("two"), PostID: &p2.ID})

	comments, err := storage.ListComments(ctx, CommentFilter{PostID: &p2.ID})

	assert.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "two", *comments[0].Text)
}

func TestSubscribeToComments_UnknownPost(t *testing.T) {
	storage := NewMemoryStorage()

	ch, err := storage.SubscribeToComments(context.Background(), 1)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, ch)
}

func TestSubscribeToComments_Success(t *testing.T) {
	storage := NewMemoryStorage()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	post, err := storage.CreatePost(ctx, models.PostAttributes{Title: strPtr("Post 1")})
	require.NoError(t, err)
	other, err := storage.CreatePost(ctx, models.PostAttributes{Title: strPtr("Post 2")})
	require.NoError(t, err)

	ch, err := storage.SubscribeToComments(ctx, post.ID)
	require.NoError(t, err)

	_, err = storage.CreateComment(ctx, models.CommentAttributes{Text: strPtr("elsewhere"), PostID: &other.ID})
	require.NoError(t, err)
	_, err = storage.CreateComment(ctx, models.CommentAttributes{Text: strPtr("Test comment"), PostID: &post.ID})
	require.NoError(t, err)

	select {
	case comment := <-ch:
		assert.Equal(t, "Test comment", *comment.Text)
	case <-time.After(time.Second):
		assert.Fail(t, "Failed to receive comment")
	}
}

func TestSubscribeToComments_ClosesOnCancel(t *testing.T) {
	storage := NewMemoryStorage()
	ctx, cancel := context.WithCancel(context.Background())

	post, err := storage.CreatePost(ctx, models.PostAttributes{})
	require.NoError(t, err)
	ch, err := storage.SubscribeToComments(ctx, post.ID)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		assert.Fail(t, "channel was not closed")
	}
}
