package feed

import (
	"sync"

	"github.com/Linksy/social-service/pkg/api"
)

// Store is the ordered post collection backing the current view (feed or
// profile). Mutable post fields change only through server-confirmed results
// applied by the view model.
type Store struct {
	mu    sync.RWMutex
	posts []api.Post
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps the whole collection, keeping the given order.
func (s *Store) Replace(posts []api.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = make([]api.Post, len(posts))
	copy(s.posts, posts)
}

// Prepend puts a freshly created post at the top of the view.
func (s *Store) Prepend(post api.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = append([]api.Post{post}, s.posts...)
}

// Update overwrites a post in place with a server-confirmed version.
func (s *Store) Update(post api.Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = post
			return true
		}
	}
	return false
}

// Apply mutates a post through fn while holding the store lock.
func (s *Store) Apply(postID int64, fn func(post *api.Post)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == postID {
			fn(&s.posts[i])
			return true
		}
	}
	return false
}

func (s *Store) Remove(postID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Get(postID int64) (api.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.posts {
		if s.posts[i].ID == postID {
			return s.posts[i], true
		}
	}
	return api.Post{}, false
}

// All returns a snapshot of the collection in view order.
func (s *Store) All() []api.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]api.Post, len(s.posts))
	copy(posts, s.posts)
	return posts
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}
