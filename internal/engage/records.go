package engage

import (
	"sync"

	"github.com/marcus/tale/internal/models"
)

// ServerState carries the authoritative engagement values from a server
// response. Only the fields relevant to the intent being committed are read.
type ServerState struct {
	Liked      bool
	LikesCount int
	InList     bool
}

// Records is the per-story engagement record store. It is a process-wide
// singleton owned by the Service; UI layers read derived snapshots and never
// touch it directly.
type Records struct {
	mu      sync.Mutex
	byStory map[string]models.EngagementRecord
}

// NewRecords returns an empty record store.
func NewRecords() *Records {
	return &Records{byStory: make(map[string]models.EngagementRecord)}
}

// Snapshot returns the current record for a story. Absent stories read as
// all-false with no provenance.
func (r *Records) Snapshot(storyID string) models.EngagementRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byStory[storyID]
	if !ok {
		return models.EngagementRecord{
			LikeProvenance: models.ProvenanceNone,
			ListProvenance: models.ProvenanceNone,
		}
	}
	return rec
}

// Liked reports the best-known like state for a story.
func (r *Records) Liked(storyID string) bool {
	return r.Snapshot(storyID).Liked
}

// InList reports the best-known reading-list membership for a story.
func (r *Records) InList(storyID string) bool {
	return r.Snapshot(storyID).InList
}

// LikesCount returns the best-known like count for a story.
func (r *Records) LikesCount(storyID string) int {
	return r.Snapshot(storyID).LikesCount
}

// SeedFromServer records authoritative like data from any server payload
// (story fetch, feed row, mutation response). Server provenance always
// overwrites whatever a fallback marker said.
func (r *Records) SeedFromServer(storyID string, liked bool, likesCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.get(storyID)
	rec.Liked = liked
	rec.LikesCount = likesCount
	rec.LikeProvenance = models.ProvenanceServer
	r.byStory[storyID] = rec
}

// SeedListFromServer records authoritative reading-list membership.
func (r *Records) SeedListFromServer(storyID string, inList bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.get(storyID)
	rec.InList = inList
	rec.ListProvenance = models.ProvenanceServer
	r.byStory[storyID] = rec
}

// SeedFallback pre-seeds the like flag from the persisted marker. It only
// applies before any server-confirmed value has been observed for the story;
// once the server has spoken the call is a no-op.
func (r *Records) SeedFallback(storyID string, liked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.get(storyID)
	if rec.LikeProvenance == models.ProvenanceServer {
		return
	}
	rec.Liked = liked
	rec.LikeProvenance = models.ProvenanceFallback
	r.byStory[storyID] = rec
}

// ApplyOptimistic flips the flag targeted by the intent and adjusts the
// counter estimate. Provenance is left alone: the optimistic value is a
// transient overlay, not a new source of truth.
func (r *Records) ApplyOptimistic(intent models.Intent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.get(intent.StoryID)
	switch intent.Kind {
	case models.IntentToggleLike:
		if rec.Liked {
			rec.Liked = false
			if rec.LikesCount > 0 {
				rec.LikesCount--
			}
		} else {
			rec.Liked = true
			rec.LikesCount++
		}
	case models.IntentToggleList:
		rec.InList = !rec.InList
	}
	r.byStory[intent.StoryID] = rec
}

// Commit replaces the optimistic overlay with the server-returned value and
// upgrades provenance. The server value wins even when it differs from the
// optimistic guess (a concurrent session may have raced this one).
func (r *Records) Commit(intent models.Intent, server ServerState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.get(intent.StoryID)
	switch intent.Kind {
	case models.IntentToggleLike:
		rec.Liked = server.Liked
		rec.LikesCount = server.LikesCount
		rec.LikeProvenance = models.ProvenanceServer
	case models.IntentToggleList:
		rec.InList = server.InList
		rec.ListProvenance = models.ProvenanceServer
	}
	r.byStory[intent.StoryID] = rec
}

// Rollback restores the exact record captured before ApplyOptimistic.
// The whole record goes back, not just the flag the intent touched.
func (r *Records) Rollback(intent models.Intent, prior models.EngagementRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byStory[intent.StoryID] = prior
}

// get returns the record under the lock, defaulting absent entries.
func (r *Records) get(storyID string) models.EngagementRecord {
	rec, ok := r.byStory[storyID]
	if !ok {
		rec = models.EngagementRecord{
			LikeProvenance: models.ProvenanceNone,
			ListProvenance: models.ProvenanceNone,
		}
	}
	return rec
}
