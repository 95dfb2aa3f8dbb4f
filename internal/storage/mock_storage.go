package storage

import (
	"context"

	"github.com/MosinFAM/arfixture/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ListPeople(ctx context.Context, opts ListOptions) ([]models.Person, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]models.Person), args.Error(1)
}

func (m *MockStorage) GetPerson(ctx context.Context, id int64) (*models.Person, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockStorage) CreatePerson(ctx context.Context, attrs models.PersonAttributes) (*models.Person, error) {
	args := m.Called(ctx, attrs)
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockStorage) UpdatePerson(ctx context.Context, id int64, attrs models.PersonAttributes) (*models.Person, error) {
	args := m.Called(ctx, id, attrs)
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockStorage) DeletePerson(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockStorage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockStorage) CreatePost(ctx context.Context, attrs models.PostAttributes) (*models.Post, error) {
	args := m.Called(ctx, attrs)
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockStorage) UpdatePost(ctx context.Context, id int64, attrs models.PostAttributes) (*models.Post, error) {
	args := m.Called(ctx, id, attrs)
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockStorage) DeletePost(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) ListComments(ctx context.Context, filter CommentFilter) ([]models.Comment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockStorage) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockStorage) CreateComment(ctx context.Context, attrs models.CommentAttributes) (*models.Comment, error) {
	args := m.Called(ctx, attrs)
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockStorage) UpdateComment(ctx context.Context, id int64, attrs models.CommentAttributes) (*models.Comment, error) {
	args := m.Called(ctx, id, attrs)
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockStorage) DeleteComment(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) SubscribeToComments(ctx context.Context, postID int64) (<-chan *models.Comment, error) {
	args := m.Called(ctx, postID)
	if ch, ok := args.Get(0).(chan *models.Comment); ok {
		return ch, args.Error(1)
	}
	return nil, args.Error(1)
}
