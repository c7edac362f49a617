package engage

import (
	"errors"
	"log/slog"

	"github.com/marcus/tale/internal/apiclient"
	"github.com/marcus/tale/internal/models"
	"github.com/marcus/tale/internal/thread"
)

// ContentAPI is the slice of the content server the service depends on.
// *apiclient.Client satisfies it; tests substitute a scripted fake.
type ContentAPI interface {
	Toggler
	FetchStory(storyID string) (*models.Story, error)
	IncrementView(storyID string) error
	ListComments(storyID string, page int) (*apiclient.CommentsPage, error)
	CreateComment(storyID, content, parentID string) (*models.Comment, error)
	UpdateComment(commentID, content string) (*models.Comment, error)
	DeleteComment(commentID string) error
	ToggleCommentLike(commentID string) (*apiclient.CommentLikeResult, error)
}

// MarkerStore is the persisted fallback marker collaborator. Read once per
// story at first paint, written after every confirmed like toggle.
type MarkerStore interface {
	Get(storyID string) (liked bool, ok bool, err error)
	Set(storyID string, liked bool) error
}

// Service is the synchronization facade. It owns the engagement record store
// and the comment thread store outright; UI layers dispatch intents and read
// snapshots through it and never touch the stores directly.
type Service struct {
	api         ContentAPI
	markers     MarkerStore
	records     *Records
	threads     *thread.Store
	coordinator *Coordinator
	userID      string
}

// NewService wires the process-wide engagement service.
func NewService(api ContentAPI, markers MarkerStore, userID string) *Service {
	records := NewRecords()
	return &Service{
		api:         api,
		markers:     markers,
		records:     records,
		threads:     thread.NewStore(),
		coordinator: NewCoordinator(records, api),
		userID:      userID,
	}
}

// UserID returns the acting user's ID.
func (s *Service) UserID() string {
	return s.userID
}

// --- Read accessors ---

// Liked reports the best-known like state for a story.
func (s *Service) Liked(storyID string) bool { return s.records.Liked(storyID) }

// InList reports the best-known reading-list membership for a story.
func (s *Service) InList(storyID string) bool { return s.records.InList(storyID) }

// LikesCount returns the best-known like count for a story.
func (s *Service) LikesCount(storyID string) int { return s.records.LikesCount(storyID) }

// Engagement returns the full engagement record snapshot for a story.
func (s *Service) Engagement(storyID string) models.EngagementRecord {
	return s.records.Snapshot(storyID)
}

// Comments returns the loaded comment thread for a story.
func (s *Service) Comments(storyID string) []models.Comment {
	return s.threads.Comments(storyID)
}

// CommentsPagination returns the thread's current pagination cursor.
func (s *Service) CommentsPagination(storyID string) models.Pagination {
	return s.threads.Pagination(storyID)
}

// --- Story loading ---

// LoadStory fetches a story and seeds the record store. Before the fetch it
// applies the persisted fallback marker, so a cached "liked" can paint
// immediately; the server response then overwrites it unconditionally.
func (s *Service) LoadStory(storyID string) (*models.Story, error) {
	if s.markers != nil {
		if liked, ok, err := s.markers.Get(storyID); err != nil {
			slog.Warn("read like marker", "story", storyID, "err", err)
		} else if ok {
			s.records.SeedFallback(storyID, liked)
		}
	}

	story, err := s.api.FetchStory(storyID)
	if err != nil {
		return nil, err
	}

	s.records.SeedFromServer(story.ID, story.Liked, story.LikesCount)
	s.records.SeedListFromServer(story.ID, story.InReadingList)
	return story, nil
}

// SeedStory records engagement data from a story payload obtained elsewhere
// (feed page, reading list) without another fetch.
func (s *Service) SeedStory(story models.Story) {
	s.records.SeedFromServer(story.ID, story.Liked, story.LikesCount)
	s.records.SeedListFromServer(story.ID, story.InReadingList)
}

// RecordView dispatches at most one view increment per story per ledger
// lifetime. The ledger guard is taken synchronously before the request goes
// out, which closes the double-invocation race; a failed request is logged
// and the guard deliberately left in place (under-counting beats
// double-counting).
func (s *Service) RecordView(ledger *ViewLedger, storyID string) {
	if !ledger.ShouldCount(storyID) {
		return
	}
	s.DispatchView(storyID)
}

// DispatchView sends the view increment without consulting a ledger. Callers
// that take the guard themselves, like the reader on its event loop, use
// this to run the request on their own schedule.
func (s *Service) DispatchView(storyID string) {
	if err := s.api.IncrementView(storyID); err != nil {
		slog.Warn("increment view", "story", storyID, "err", err)
	}
}

// --- Story mutations ---

// ToggleLike runs the optimistic like toggle. On success the confirmed state
// is also written to the fallback marker store.
func (s *Service) ToggleLike(storyID string) (models.EngagementRecord, error) {
	rec, err := s.coordinator.Perform(models.ToggleLike(storyID))
	if err != nil {
		return rec, err
	}
	if s.markers != nil {
		if merr := s.markers.Set(storyID, rec.Liked); merr != nil {
			slog.Warn("write like marker", "story", storyID, "err", merr)
		}
	}
	return rec, nil
}

// ToggleReadingList runs the optimistic reading-list toggle.
func (s *Service) ToggleReadingList(storyID string) (models.EngagementRecord, error) {
	return s.coordinator.Perform(models.ToggleList(storyID))
}

// --- Comment operations ---

// LoadComments fetches one page of the thread and installs it in the store.
func (s *Service) LoadComments(storyID string, page int) ([]models.Comment, error) {
	resp, err := s.api.ListComments(storyID, page)
	if err != nil {
		return nil, err
	}
	s.threads.Load(storyID, resp.Comments, resp.Pagination)
	return s.threads.Comments(storyID), nil
}

// AddComment posts a comment and inserts the server's echo into the thread:
// top-level comments go to the head, replies to the tail of their parent's
// list. A reply whose parent is not loaded is dropped locally without error;
// it will appear on the next load.
func (s *Service) AddComment(storyID, content, parentID string) (*models.Comment, error) {
	created, err := s.api.CreateComment(storyID, content, parentID)
	if err != nil {
		return nil, err
	}
	if parentID == "" {
		s.threads.InsertTopLevel(*created)
	} else if ierr := s.threads.InsertReply(parentID, *created); ierr != nil {
		slog.Debug("reply parent not loaded", "parent", parentID)
	}
	return created, nil
}

// EditComment updates a comment remotely, then mirrors the edit locally.
// A local miss is swallowed: the authoritative thread arrives on next load.
func (s *Service) EditComment(commentID, content string) error {
	updated, err := s.api.UpdateComment(commentID, content)
	if err != nil {
		return err
	}
	if uerr := s.threads.Update(updated.ID, updated.Content); uerr != nil && !errors.Is(uerr, thread.ErrNotFound) {
		return uerr
	}
	return nil
}

// DeleteComment deletes a comment remotely, then removes it from the loaded
// thread if present.
func (s *Service) DeleteComment(commentID string) error {
	if err := s.api.DeleteComment(commentID); err != nil {
		return err
	}
	if rerr := s.threads.Remove(commentID); rerr != nil && !errors.Is(rerr, thread.ErrNotFound) {
		return rerr
	}
	return nil
}

// ToggleCommentLike flips the viewer's like on a comment optimistically,
// then reconciles with the server. Unlike story toggles this skips the
// coordinator: the operation is an idempotent set toggle with low conflict
// risk, so a local flip with local-only rollback on failure is enough.
func (s *Service) ToggleCommentLike(commentID string) (bool, error) {
	liked, err := s.threads.ToggleLike(commentID, s.userID)
	local := err == nil

	res, aerr := s.api.ToggleCommentLike(commentID)
	if aerr != nil {
		if local {
			// Undo the optimistic flip; the set is back where it started.
			if _, terr := s.threads.ToggleLike(commentID, s.userID); terr != nil {
				slog.Warn("revert comment like", "comment", commentID, "err", terr)
			}
		}
		return liked && local, aerr
	}

	if local && res.Liked != liked {
		// Another session raced us; trust the server's answer.
		if serr := s.threads.SetLike(commentID, s.userID, res.Liked); serr != nil {
			slog.Warn("reconcile comment like", "comment", commentID, "err", serr)
		}
	}
	return res.Liked, nil
}
