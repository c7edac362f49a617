// Package thread holds the in-memory comment thread store. A thread is an
// explicit two-level structure: an ordered top-level list (newest first) and
// one reply list per top-level comment (oldest first). The shape itself
// enforces the fixed depth; a reply never carries replies of its own.
package thread

import (
	"errors"
	"sync"

	"github.com/marcus/tale/internal/models"
)

// ErrNotFound is returned when a comment ID is not in the loaded set. The
// missing node may simply live on a page that has not been loaded yet, so
// callers at the UI boundary treat this as a silent no-op.
var ErrNotFound = errors.New("comment not in loaded thread")

type threadState struct {
	comments   []models.Comment
	pagination models.Pagination
}

// Store caches loaded comment threads per story. Process-wide singleton,
// owned by the engage service.
type Store struct {
	mu      sync.Mutex
	byStory map[string]*threadState
}

// NewStore returns an empty thread store.
func NewStore() *Store {
	return &Store{byStory: make(map[string]*threadState)}
}

// Load installs one server page for a story. Page 1 replaces whatever is
// cached; later pages append, preserving the server's newest-first order of
// top-level comments.
func (s *Store) Load(storyID string, comments []models.Comment, p models.Pagination) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.byStory[storyID]
	if !ok || p.Page <= 1 {
		st = &threadState{}
		s.byStory[storyID] = st
	}
	st.comments = append(st.comments, cloneComments(comments)...)
	st.pagination = p
}

// Comments returns a deep copy of the loaded thread for a story.
func (s *Store) Comments(storyID string) []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byStory[storyID]
	if !ok {
		return nil
	}
	return cloneComments(st.comments)
}

// Pagination returns the cursor of the most recently loaded page.
func (s *Store) Pagination(storyID string) models.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byStory[storyID]
	if !ok {
		return models.Pagination{}
	}
	return st.pagination
}

// InsertTopLevel prepends a new top-level comment (newest first).
func (s *Store) InsertTopLevel(c models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byStory[c.StoryID]
	if !ok {
		st = &threadState{}
		s.byStory[c.StoryID] = st
	}
	st.comments = append([]models.Comment{c}, st.comments...)
	st.pagination.Total++
}

// InsertReply appends a reply to its parent's reply list (oldest first).
// Returns ErrNotFound without mutating anything when the parent is not a
// loaded top-level comment.
func (s *Store) InsertReply(parentID string, reply models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byStory[reply.StoryID]
	if !ok {
		return ErrNotFound
	}
	for i := range st.comments {
		if st.comments[i].ID == parentID {
			st.comments[i].Replies = append(st.comments[i].Replies, reply)
			return nil
		}
	}
	return ErrNotFound
}

// Get returns a copy of the comment with the given ID, scanning top-level
// comments and every reply list.
func (s *Store) Get(commentID string) (models.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(commentID)
	if c == nil {
		return models.Comment{}, false
	}
	out := *c
	out.Likes = append([]string(nil), c.Likes...)
	out.Replies = cloneComments(c.Replies)
	return out, true
}

// Update rewrites a comment's content in place and sets the edited flag.
func (s *Store) Update(commentID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(commentID)
	if c == nil {
		return ErrNotFound
	}
	c.Content = content
	c.Edited = true
	return nil
}

// Remove deletes a comment from whichever list holds it: the top-level list
// or one parent's reply list.
func (s *Store) Remove(commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.byStory {
		for i := range st.comments {
			if st.comments[i].ID == commentID {
				st.comments = append(st.comments[:i], st.comments[i+1:]...)
				if st.pagination.Total > 0 {
					st.pagination.Total--
				}
				return nil
			}
			replies := st.comments[i].Replies
			for j := range replies {
				if replies[j].ID == commentID {
					st.comments[i].Replies = append(replies[:j], replies[j+1:]...)
					return nil
				}
			}
		}
	}
	return ErrNotFound
}

// ToggleLike flips userID's membership in the comment's like set and returns
// the resulting state.
func (s *Store) ToggleLike(commentID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(commentID)
	if c == nil {
		return false, ErrNotFound
	}
	for i, id := range c.Likes {
		if id == userID {
			c.Likes = append(c.Likes[:i], c.Likes[i+1:]...)
			return false, nil
		}
	}
	c.Likes = append(c.Likes, userID)
	return true, nil
}

// SetLike forces userID's membership in the comment's like set to liked.
// Used to reconcile with the server's answer after an optimistic toggle.
func (s *Store) SetLike(commentID, userID string, liked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(commentID)
	if c == nil {
		return ErrNotFound
	}
	for i, id := range c.Likes {
		if id == userID {
			if !liked {
				c.Likes = append(c.Likes[:i], c.Likes[i+1:]...)
			}
			return nil
		}
	}
	if liked {
		c.Likes = append(c.Likes, userID)
	}
	return nil
}

// find locates a comment by ID across all loaded stories, top-level lists
// first, then reply lists. Caller holds the lock.
func (s *Store) find(commentID string) *models.Comment {
	for _, st := range s.byStory {
		for i := range st.comments {
			if st.comments[i].ID == commentID {
				return &st.comments[i]
			}
			for j := range st.comments[i].Replies {
				if st.comments[i].Replies[j].ID == commentID {
					return &st.comments[i].Replies[j]
				}
			}
		}
	}
	return nil
}

// cloneComments deep-copies a comment slice including like sets and replies.
func cloneComments(in []models.Comment) []models.Comment {
	if in == nil {
		return nil
	}
	out := make([]models.Comment, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Likes = append([]string(nil), c.Likes...)
		out[i].Replies = cloneComments(c.Replies)
	}
	return out
}
