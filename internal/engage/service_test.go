package engage

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/marcus/tale/internal/apiclient"
	"github.com/marcus/tale/internal/models"
)

// fakeAPI is a scripted content API for facade tests.
type fakeAPI struct {
	fakeToggler

	story        *models.Story
	storyErr     error
	viewErr      error
	viewCalls    int
	comments     []models.Comment
	commentLiked bool
	commentErr   error
	nextID       int
}

func (f *fakeAPI) FetchStory(storyID string) (*models.Story, error) {
	if f.storyErr != nil {
		return nil, f.storyErr
	}
	s := *f.story
	return &s, nil
}

func (f *fakeAPI) IncrementView(storyID string) error {
	f.viewCalls++
	return f.viewErr
}

func (f *fakeAPI) ListComments(storyID string, page int) (*apiclient.CommentsPage, error) {
	return &apiclient.CommentsPage{
		Comments:   f.comments,
		Pagination: models.Pagination{Page: page, PerPage: 10, Total: len(f.comments)},
	}, nil
}

func (f *fakeAPI) CreateComment(storyID, content, parentID string) (*models.Comment, error) {
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	f.nextID++
	return &models.Comment{
		ID:        fmt.Sprintf("cm-new%d", f.nextID),
		StoryID:   storyID,
		AuthorID:  "us-1",
		ParentID:  parentID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeAPI) UpdateComment(commentID, content string) (*models.Comment, error) {
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	return &models.Comment{ID: commentID, Content: content, Edited: true}, nil
}

func (f *fakeAPI) DeleteComment(commentID string) error {
	return f.commentErr
}

func (f *fakeAPI) ToggleCommentLike(commentID string) (*apiclient.CommentLikeResult, error) {
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	f.commentLiked = !f.commentLiked
	return &apiclient.CommentLikeResult{Liked: f.commentLiked}, nil
}

// fakeMarkers is an in-memory fallback marker store.
type fakeMarkers struct {
	marks map[string]bool
	sets  int
}

func (f *fakeMarkers) Get(storyID string) (bool, bool, error) {
	liked, ok := f.marks[storyID]
	return liked, ok, nil
}

func (f *fakeMarkers) Set(storyID string, liked bool) error {
	f.marks[storyID] = liked
	f.sets++
	return nil
}

func setupService(t *testing.T) (*Service, *fakeAPI, *fakeMarkers) {
	t.Helper()
	api := &fakeAPI{
		story: &models.Story{
			ID:         "st-1",
			Title:      "The Lighthouse",
			LikesCount: 5,
		},
	}
	marks := &fakeMarkers{marks: make(map[string]bool)}
	return NewService(api, marks, "us-1"), api, marks
}

// Before the server answers, the persisted marker paints the like flag;
// the fetch then overwrites it with the server's word.
func TestLoadStory_FallbackThenServer(t *testing.T) {
	svc, api, marks := setupService(t)
	marks.marks["st-1"] = true
	api.story.Liked = false
	api.story.LikesCount = 10

	if _, err := svc.LoadStory("st-1"); err != nil {
		t.Fatalf("load: %v", err)
	}

	if svc.Liked("st-1") {
		t.Fatal("server liked=false must override marker liked=true")
	}
	if got := svc.LikesCount("st-1"); got != 10 {
		t.Fatalf("likes: got %d, want 10", got)
	}
	if got := svc.Engagement("st-1").LikeProvenance; got != models.ProvenanceServer {
		t.Fatalf("provenance: got %q, want server", got)
	}
}

// A fetch failure leaves the fallback-painted state in place.
func TestLoadStory_FetchFailureKeepsFallback(t *testing.T) {
	svc, api, marks := setupService(t)
	marks.marks["st-1"] = true
	api.storyErr = errors.New("server down")

	if _, err := svc.LoadStory("st-1"); err == nil {
		t.Fatal("expected fetch error")
	}
	if !svc.Liked("st-1") {
		t.Fatal("fallback seed should survive a failed fetch")
	}
	if got := svc.Engagement("st-1").LikeProvenance; got != models.ProvenanceFallback {
		t.Fatalf("provenance: got %q, want fallback", got)
	}
}

func TestRecordView_OncePerLedger(t *testing.T) {
	svc, api, _ := setupService(t)
	ledger := NewViewLedger()

	svc.RecordView(ledger, "st-1")
	svc.RecordView(ledger, "st-1")
	svc.RecordView(ledger, "st-1")

	if api.viewCalls != 1 {
		t.Fatalf("view calls: got %d, want 1", api.viewCalls)
	}
}

// A failed increment does not release the guard: the view stays counted.
func TestRecordView_FailureDoesNotRetry(t *testing.T) {
	svc, api, _ := setupService(t)
	ledger := NewViewLedger()
	api.viewErr = errors.New("timeout")

	svc.RecordView(ledger, "st-1")
	api.viewErr = nil
	svc.RecordView(ledger, "st-1")

	if api.viewCalls != 1 {
		t.Fatalf("view calls: got %d, want 1 (no retry after failure)", api.viewCalls)
	}
}

// DispatchView trusts the caller's guard and always sends.
func TestDispatchView_NoGuard(t *testing.T) {
	svc, api, _ := setupService(t)

	svc.DispatchView("st-1")
	svc.DispatchView("st-1")

	if api.viewCalls != 2 {
		t.Fatalf("view calls: got %d, want 2", api.viewCalls)
	}
}

// A confirmed like toggle persists the new state to the marker store.
func TestToggleLike_WritesMarker(t *testing.T) {
	svc, api, marks := setupService(t)
	api.liked = false
	api.likes = 5
	svc.SeedStory(*api.story)

	rec, err := svc.ToggleLike("st-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !rec.Liked {
		t.Fatal("toggle should confirm liked=true")
	}
	if liked, ok := marks.marks["st-1"]; !ok || !liked {
		t.Fatalf("marker: got (%v,%v), want (true,true)", liked, ok)
	}
}

func TestToggleLike_FailureWritesNoMarker(t *testing.T) {
	svc, api, marks := setupService(t)
	svc.SeedStory(*api.story)
	api.failLike = errors.New("rejected")

	if _, err := svc.ToggleLike("st-1"); err == nil {
		t.Fatal("expected toggle failure")
	}
	if marks.sets != 0 {
		t.Fatalf("marker writes after failed toggle: %d, want 0", marks.sets)
	}
}

func TestAddComment_TopLevelAndReply(t *testing.T) {
	svc, api, _ := setupService(t)
	api.comments = []models.Comment{
		{ID: "cm-1", StoryID: "st-1", Content: "existing"},
	}
	if _, err := svc.LoadComments("st-1", 1); err != nil {
		t.Fatalf("load comments: %v", err)
	}

	created, err := svc.AddComment("st-1", "hello", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	got := svc.Comments("st-1")
	if got[0].ID != created.ID {
		t.Fatalf("new top-level comment should be first, got %s", got[0].ID)
	}

	reply, err := svc.AddComment("st-1", "a reply", "cm-1")
	if err != nil {
		t.Fatalf("add reply: %v", err)
	}
	for _, c := range svc.Comments("st-1") {
		if c.ID == "cm-1" {
			if len(c.Replies) != 1 || c.Replies[0].ID != reply.ID {
				t.Fatalf("replies: got %v, want [%s]", c.Replies, reply.ID)
			}
		}
	}
}

// Replying under a parent that is not loaded succeeds remotely and is a
// silent local no-op; the thread is untouched.
func TestAddComment_UnloadedParentIsSilentNoop(t *testing.T) {
	svc, _, _ := setupService(t)
	if _, err := svc.LoadComments("st-1", 1); err != nil {
		t.Fatalf("load comments: %v", err)
	}

	if _, err := svc.AddComment("st-1", "orphan reply", "cm-unloaded"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := svc.Comments("st-1"); len(got) != 0 {
		t.Fatalf("thread mutated: %v", got)
	}
}

func TestEditComment_LocalMissSwallowed(t *testing.T) {
	svc, _, _ := setupService(t)

	if err := svc.EditComment("cm-unloaded", "new text"); err != nil {
		t.Fatalf("edit with local miss should succeed, got %v", err)
	}
}

func TestDeleteComment_RemovesLocally(t *testing.T) {
	svc, api, _ := setupService(t)
	api.comments = []models.Comment{
		{ID: "cm-1", StoryID: "st-1", Content: "doomed"},
	}
	if _, err := svc.LoadComments("st-1", 1); err != nil {
		t.Fatalf("load comments: %v", err)
	}

	if err := svc.DeleteComment("cm-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := svc.Comments("st-1"); len(got) != 0 {
		t.Fatalf("thread after delete: %v", got)
	}
}

// Comment likes are optimistic with local-only rollback on failure.
func TestToggleCommentLike_RollsBackOnFailure(t *testing.T) {
	svc, api, _ := setupService(t)
	api.comments = []models.Comment{
		{ID: "cm-1", StoryID: "st-1", Content: "likable"},
	}
	if _, err := svc.LoadComments("st-1", 1); err != nil {
		t.Fatalf("load comments: %v", err)
	}

	api.commentErr = errors.New("rejected")
	if _, err := svc.ToggleCommentLike("cm-1"); err == nil {
		t.Fatal("expected failure")
	}

	c := svc.Comments("st-1")[0]
	if len(c.Likes) != 0 {
		t.Fatalf("like set after rollback: %v", c.Likes)
	}
}

func TestToggleCommentLike_Success(t *testing.T) {
	svc, api, _ := setupService(t)
	api.comments = []models.Comment{
		{ID: "cm-1", StoryID: "st-1", Content: "likable"},
	}
	if _, err := svc.LoadComments("st-1", 1); err != nil {
		t.Fatalf("load comments: %v", err)
	}

	liked, err := svc.ToggleCommentLike("cm-1")
	if err != nil || !liked {
		t.Fatalf("toggle: liked=%v err=%v", liked, err)
	}
	c := svc.Comments("st-1")[0]
	if len(c.Likes) != 1 || c.Likes[0] != "us-1" {
		t.Fatalf("like set: got %v, want [us-1]", c.Likes)
	}
}
