package models

import (
	"time"
)

// Provenance records where an engagement flag's current value came from.
type Provenance string

const (
	// ProvenanceNone means no value has been observed for this story yet.
	ProvenanceNone Provenance = "none"
	// ProvenanceFallback means the value was seeded from the locally
	// persisted marker before any server response arrived.
	ProvenanceFallback Provenance = "fallback"
	// ProvenanceServer means the value was confirmed by the server. Once a
	// story reaches server provenance it never goes back for the life of
	// the process.
	ProvenanceServer Provenance = "server"
)

// EngagementRecord is the best-known engagement state for one story.
type EngagementRecord struct {
	Liked          bool       `json:"liked"`
	LikeProvenance Provenance `json:"like_provenance"`
	InList         bool       `json:"in_list"`
	ListProvenance Provenance `json:"list_provenance"`
	LikesCount     int        `json:"likes_count"`
}

// Story is a published story as returned by the content API.
type Story struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name,omitempty"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary,omitempty"`
	Content       string    `json:"content,omitempty"`
	LikesCount    int       `json:"likes_count"`
	Views         int64     `json:"views"`
	Liked         bool      `json:"is_liked_by_current_user"`
	InReadingList bool      `json:"in_reading_list"`
	CommentCount  int       `json:"comment_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Comment is one node of a story's comment thread. Thread depth is fixed at
// two levels: a top-level comment may carry replies, a reply never does.
type Comment struct {
	ID         string    `json:"id"`
	StoryID    string    `json:"story_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	ParentID   string    `json:"parent_id,omitempty"`
	Content    string    `json:"content"`
	Edited     bool      `json:"edited,omitempty"`
	Likes      []string  `json:"likes,omitempty"`
	Replies    []Comment `json:"replies,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsReply reports whether the comment belongs to a parent's reply list.
func (c *Comment) IsReply() bool {
	return c.ParentID != ""
}

// LikedBy reports whether userID is in the comment's like set.
func (c *Comment) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Pagination describes one page of a server-ordered listing.
type Pagination struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// User is the authenticated account the client acts as.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Config is the client configuration persisted under the tale home dir.
type Config struct {
	ServerURL string `json:"server_url,omitempty"`
	Token     string `json:"token,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
}
