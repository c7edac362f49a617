package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marcus/tale/internal/models"
	"github.com/marcus/tale/internal/serverdb"
)

type commentsResponse struct {
	Comments   []models.Comment  `json:"comments"`
	Pagination models.Pagination `json:"pagination"`
}

type createCommentRequest struct {
	Content  string `json:"content"`
	ParentID string `json:"parent_id"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

type commentLikeResponse struct {
	Liked bool `json:"liked"`
}

// handleListComments returns one page of a story's thread. Top-level comments
// are newest-first with their replies nested oldest-first; the pagination
// total counts top-level comments only.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	comments, total, err := s.store.Comments(r.PathValue("id"), page, perPage)
	if errors.Is(err, serverdb.ErrNoStory) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "story not found")
		return
	}
	if err != nil {
		logFor(r.Context()).Error("list comments", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to list comments")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	writeJSON(w, http.StatusOK, commentsResponse{
		Comments: comments,
		Pagination: models.Pagination{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			HasMore: page*perPage < total,
		},
	})
}

// handleCreateComment posts a comment or a reply. Replying to a reply is
// rejected to keep threads two levels deep.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "content is required")
		return
	}

	comment, err := s.store.CreateComment(r.PathValue("id"), user.ID, req.Content, req.ParentID)
	switch {
	case errors.Is(err, serverdb.ErrNoStory):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "story not found")
		return
	case errors.Is(err, serverdb.ErrNoComment):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "parent comment not found")
		return
	case errors.Is(err, serverdb.ErrDepth):
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "cannot reply to a reply")
		return
	case err != nil:
		logFor(r.Context()).Error("create comment", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to create comment")
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// handleUpdateComment edits the caller's own comment.
func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())

	var req updateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "content is required")
		return
	}

	comment, err := s.store.UpdateComment(r.PathValue("id"), user.ID, req.Content)
	switch {
	case errors.Is(err, serverdb.ErrNoComment):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "comment not found")
		return
	case errors.Is(err, serverdb.ErrNotOwner):
		writeError(w, http.StatusForbidden, ErrCodeForbidden, "not your comment")
		return
	case err != nil:
		logFor(r.Context()).Error("update comment", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to update comment")
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// handleDeleteComment removes the caller's own comment and any replies.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())

	err := s.store.DeleteComment(r.PathValue("id"), user.ID)
	switch {
	case errors.Is(err, serverdb.ErrNoComment):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "comment not found")
		return
	case errors.Is(err, serverdb.ErrNotOwner):
		writeError(w, http.StatusForbidden, ErrCodeForbidden, "not your comment")
		return
	case err != nil:
		logFor(r.Context()).Error("delete comment", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to delete comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleToggleCommentLike flips the caller's like on a comment.
func (s *Server) handleToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())

	liked, err := s.store.ToggleCommentLike(r.PathValue("id"), user.ID)
	if errors.Is(err, serverdb.ErrNoComment) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "comment not found")
		return
	}
	if err != nil {
		logFor(r.Context()).Error("toggle comment like", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to toggle comment like")
		return
	}
	writeJSON(w, http.StatusOK, commentLikeResponse{Liked: liked})
}
