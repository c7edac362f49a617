package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/marcus/tale/internal/models"
	"github.com/marcus/tale/internal/serverdb"
)

const defaultPerPage = 20

// pageParams parses page and per_page query parameters with defaults.
func pageParams(r *http.Request) (page, perPage int) {
	page = 1
	perPage = defaultPerPage
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			perPage = n
		}
	}
	return page, perPage
}

type storiesResponse struct {
	Stories    []models.Story    `json:"stories"`
	Pagination models.Pagination `json:"pagination"`
}

type createStoryRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

type likeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

type readingListResponse struct {
	Added bool          `json:"added"`
	Story *models.Story `json:"story,omitempty"`
}

// handleListStories returns one page of the story feed, newest first.
func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())
	page, perPage := pageParams(r)

	stories, total, err := s.store.ListStories(user.ID, page, perPage)
	if err != nil {
		logFor(r.Context()).Error("list stories", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to list stories")
		return
	}

	writeJSON(w, http.StatusOK, storiesResponse{
		Stories: stories,
		Pagination: models.Pagination{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			HasMore: page*perPage < total,
		},
	})
}

// handleGetStory returns one story with viewer engagement fields.
func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())
	story, err := s.store.Story(r.PathValue("id"), user.ID)
	if err != nil {
		logFor(r.Context()).Error("get story", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to load story")
		return
	}
	if story == nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "story not found")
		return
	}
	writeJSON(w, http.StatusOK, story)
}

// handleCreateStory publishes a new story authored by the caller.
func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())

	var req createStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "title and content are required")
		return
	}

	story, err := s.store.CreateStory(user.ID, req.Title, req.Summary, req.Content)
	if err != nil {
		logFor(r.Context()).Error("create story", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to create story")
		return
	}
	writeJSON(w, http.StatusCreated, story)
}

// handleToggleLike flips the caller's like and answers with the authoritative
// state and count.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())

	liked, count, err := s.store.ToggleLike(r.PathValue("id"), user.ID)
	if errors.Is(err, serverdb.ErrNoStory) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "story not found")
		return
	}
	if err != nil {
		logFor(r.Context()).Error("toggle like", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to toggle like")
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{Liked: liked, LikesCount: count})
}

// handleToggleReadingList flips the story's membership in the caller's list.
func (s *Server) handleToggleReadingList(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())
	storyID := r.PathValue("id")

	added, err := s.store.ToggleReadingList(storyID, user.ID)
	if errors.Is(err, serverdb.ErrNoStory) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "story not found")
		return
	}
	if err != nil {
		logFor(r.Context()).Error("toggle reading list", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to toggle reading list")
		return
	}

	resp := readingListResponse{Added: added}
	if added {
		story, err := s.store.Story(storyID, user.ID)
		if err == nil && story != nil {
			resp.Story = story
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleIncrementView records one view. The response carries no body.
func (s *Server) handleIncrementView(w http.ResponseWriter, r *http.Request) {
	err := s.store.IncrementView(r.PathValue("id"))
	if errors.Is(err, serverdb.ErrNoStory) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "story not found")
		return
	}
	if err != nil {
		logFor(r.Context()).Error("increment view", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to record view")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReadingList returns the caller's saved stories, most recently saved
// first.
func (s *Server) handleReadingList(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())

	stories, err := s.store.ReadingList(user.ID)
	if err != nil {
		logFor(r.Context()).Error("reading list", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to load reading list")
		return
	}
	if stories == nil {
		stories = []models.Story{}
	}
	writeJSON(w, http.StatusOK, stories)
}
