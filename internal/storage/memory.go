package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/MosinFAM/arfixture/internal/models"

	"github.com/rs/zerolog/log"
)

const subscriberBuffer = 16

// MemoryStorage - in-memory store
type MemoryStorage struct {
	people        map[int64]models.Person
	posts         map[int64]models.Post
	comments      map[int64]models.Comment
	lastID        map[string]int64
	subscriptions map[int64][]chan *models.Comment
	mu            sync.RWMutex
}

// NewMemoryStorage creates a new in-memory store
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		people:        make(map[int64]models.Person),
		posts:         make(map[int64]models.Post),
		comments:      make(map[int64]models.Comment),
		lastID:        make(map[string]int64),
		subscriptions: make(map[int64][]chan *models.Comment),
	}
}

func (s *MemoryStorage) nextID(table string) int64 {
	s.lastID[table]++
	return s.lastID[table]
}

func sortedKeys[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ListPeople returns people ordered by id
func (s *MemoryStorage) ListPeople(_ context.Context, opts ListOptions) ([]models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log.Debug().Msg("Fetching people from memory")
	result := make([]models.Person, 0, len(s.people))
	for _, id := range sortedKeys(s.people) {
		result = append(result, s.people[id])
	}
	return page(result, opts), nil
}

// GetPerson returns a person by id
func (s *MemoryStorage) GetPerson(_ context.Context, id int64) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log.Debug().Int64("id", id).Msg("Fetching person")
	person, exists := s.people[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &person, nil
}

// CreatePerson stores a new person
func (s *MemoryStorage) CreatePerson(_ context.Context, attrs models.PersonAttributes) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	person := models.NewPerson(attrs)
	person.ID = s.nextID("people")
	s.people[person.ID] = person
	log.Debug().Int64("id", person.ID).Msg("Person added")
	return &person, nil
}

// UpdatePerson assigns attributes to an existing person
func (s *MemoryStorage) UpdatePerson(_ context.Context, id int64, attrs models.PersonAttributes) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	person, exists := s.people[id]
	if !exists {
		return nil, ErrNotFound
	}
	person.Apply(attrs)
	s.people[id] = person
	log.Debug().Int64("id", id).Msg("Person updated")
	return &person, nil
}

// DeletePerson removes a person who is nobody's poster
func (s *MemoryStorage) DeletePerson(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.people[id]; !exists {
		return ErrNotFound
	}
	for _, post := range s.posts {
		if post.PosterID != nil && *post.PosterID == id {
			log.Warn().Int64("id", id).Int64("post_id", post.ID).Msg("Person is still a poster")
			return ErrReferenced
		}
	}
	delete(s.people, id)
	log.Debug().Int64("id", id).Msg("Person deleted")
	return nil
}

// ListPosts returns posts ordered by id, optionally for one poster
func (s *MemoryStorage) ListPosts(_ context.Context, filter PostFilter) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log.Debug().Msg("Fetching posts from memory")
	result := make([]models.Post, 0, len(s.posts))
	for _, id := range sortedKeys(s.posts) {
		post := s.posts[id]
		if filter.PosterID != nil && (post.PosterID == nil || *post.PosterID != *filter.PosterID) {
			continue
		}
		result = append(result, post)
	}
	return page(result, filter.ListOptions), nil
}

// GetPost returns a post by id
func (s *MemoryStorage) GetPost(_ context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log.Debug().Int64("id", id).Msg("Fetching post")
	post, exists := s.posts[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &post, nil
}

// CreatePost stores a new post
func (s *MemoryStorage) CreatePost(_ context.Context, attrs models.PostAttributes) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := models.NewPost(attrs)
	if err := s.checkPoster(post.PosterID); err != nil {
		return nil, err
	}
	post.ID = s.nextID("posts")
	s.posts[post.ID] = post
	log.Debug().Int64("id", post.ID).Msg("Post added")
	return &post, nil
}

// UpdatePost assigns attributes to an existing post
func (s *MemoryStorage) UpdatePost(_ context.Context, id int64, attrs models.PostAttributes) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, ErrNotFound
	}
	post.Apply(attrs)
	if err := s.checkPoster(post.PosterID); err != nil {
		return nil, err
	}
	s.posts[id] = post
	log.Debug().Int64("id", id).Msg("Post updated")
	return &post, nil
}

// DeletePost removes a post without comments
func (s *MemoryStorage) DeletePost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[id]; !exists {
		return ErrNotFound
	}
	for _, comment := range s.comments {
		if comment.PostID != nil && *comment.PostID == id {
			log.Warn().Int64("id", id).Int64("comment_id", comment.ID).Msg("Post still has comments")
			return ErrReferenced
		}
	}
	delete(s.posts, id)
	log.Debug().Int64("id", id).Msg("Post deleted")
	return nil
}

func (s *MemoryStorage) checkPoster(posterID *int64) error {
	if posterID == nil {
		return nil
	}
	if _, exists := s.people[*posterID]; !exists {
		log.Warn().Int64("poster_id", *posterID).Msg("Poster not found")
		return ErrPosterNotFound
	}
	return nil
}

// ListComments returns comments ordered by id, optionally for one post
func (s *MemoryStorage) ListComments(_ context.Context, filter CommentFilter) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log.Debug().Msg("Fetching comments from memory")
	result := make([]models.Comment, 0, len(s.comments))
	for _, id := range sortedKeys(s.comments) {
		comment := s.comments[id]
		if filter.PostID != nil && (comment.PostID == nil || *comment.PostID != *filter.PostID) {
			continue
		}
		result = append(result, comment)
	}
	return page(result, filter.ListOptions), nil
}

// GetComment returns a comment by id
func (s *MemoryStorage) GetComment(_ context.Context, id int64) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log.Debug().Int64("id", id).Msg("Fetching comment")
	comment, exists := s.comments[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &comment, nil
}

// CreateComment stores a comment and notifies the post's subscribers
func (s *MemoryStorage) CreateComment(_ context.Context, attrs models.CommentAttributes) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment := models.NewComment(attrs)
	if err := s.checkPost(comment.PostID); err != nil {
		return nil, err
	}
	comment.ID = s.nextID("comments")
	s.comments[comment.ID] = comment
	log.Debug().Int64("id", comment.ID).Msg("Comment added")

	if comment.PostID != nil {
		s.notify(*comment.PostID, comment)
	}
	return &comment, nil
}

// UpdateComment assigns attributes to an existing comment
func (s *MemoryStorage) UpdateComment(_ context.Context, id int64, attrs models.CommentAttributes) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, exists := s.comments[id]
	if !exists {
		return nil, ErrNotFound
	}
	comment.Apply(attrs)
	if err := s.checkPost(comment.PostID); err != nil {
		return nil, err
	}
	s.comments[id] = comment
	log.Debug().Int64("id", id).Msg("Comment updated")
	return &comment, nil
}

// DeleteComment removes a comment
func (s *MemoryStorage) DeleteComment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.comments[id]; !exists {
		return ErrNotFound
	}
	delete(s.comments, id)
	log.Debug().Int64("id", id).Msg("Comment deleted")
	return nil
}

func (s *MemoryStorage) checkPost(postID *int64) error {
	if postID == nil {
		return nil
	}
	if _, exists := s.posts[*postID]; !exists {
		log.Warn().Int64("post_id", *postID).Msg("Post not found")
		return ErrPostNotFound
	}
	return nil
}

// notify must be called with s.mu held. Slow subscribers miss comments
// rather than block writers.
func (s *MemoryStorage) notify(postID int64, comment models.Comment) {
	for _, ch := range s.subscriptions[postID] {
		c := comment
		select {
		case ch <- &c:
		default:
			log.Warn().Int64("post_id", postID).Msg("Subscriber is full, dropping comment")
		}
	}
}

// SubscribeToComments streams new comments on a post until ctx ends
func (s *MemoryStorage) SubscribeToComments(ctx context.Context, postID int64) (<-chan *models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[postID]; !exists {
		return nil, ErrNotFound
	}
	log.Debug().Int64("post_id", postID).Msg("Subscribing to comments")
	ch := make(chan *models.Comment, subscriberBuffer)
	s.subscriptions[postID] = append(s.subscriptions[postID], ch)

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()

		subscribers := s.subscriptions[postID]
		for i, sub := range subscribers {
			if sub == ch {
				s.subscriptions[postID] = append(subscribers[:i], subscribers[i+1:]...)
				break
			}
		}
		if len(s.subscriptions[postID]) == 0 {
			delete(s.subscriptions, postID)
		}
		close(ch)
	}()

	return ch, nil
}
